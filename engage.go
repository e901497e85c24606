// Copyright (C) 2025, VigilantDoomer
//
// This file is part of NodesView program.
//
// NodesView is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// NodesView is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with NodesView.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vigilantdoomer/nodesview/nodes"
)

// Snapshot is a loaded nodes tree together with where it came from. It is
// never modified after creation, so any number of goroutines may query it
type Snapshot struct {
	ID       uuid.UUID
	WadFile  string
	Level    string
	LoadedAt time.Time
	Tree     *nodes.Tree
}

// EngageLevel loads nodes of the configured level, rebuilding them first if
// configured so or if there are none. All files are closed (and temporary
// ones deleted) by the time it returns, the tree lives in memory
func EngageLevel(ctx context.Context, cfg *ProgramConfig) (*Snapshot, error) {
	fc := FileControl{}
	defer fc.Shutdown()

	w, err := fc.OpenInputWad(cfg.InputFileName)
	if err != nil {
		return nil, fmt.Errorf("an error has occured while trying to read %s: %w",
			cfg.InputFileName, err)
	}
	if w.IsIWAD() {
		Log.Verbose(1, "The input file is an IWAD\n")
	} else {
		Log.Verbose(1, "The input file is a PWAD\n")
	}
	level, err := w.Level(cfg.LevelName)
	if err != nil {
		return nil, err
	}
	if level.UDMF() {
		Log.Verbose(1, "Level %s is in UDMF format, %d vertices in TEXTMAP\n",
			level.Name(), level.LiveVertexCount())
	}
	Log.Verbose(1, "Reading nodes of level %s...\n", level.Name())
	rb := &ExternalNodebuilder{
		Path:  cfg.Nodebuilder,
		Args:  cfg.NodebuilderArgs,
		Level: level,
		Files: &fc,
	}
	tree, err := nodes.Engage(ctx, level, rb, cfg.NodesOptions())
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", level.Name(), err)
	}
	return &Snapshot{
		ID:       uuid.New(),
		WadFile:  cfg.InputFileName,
		Level:    level.Name(),
		LoadedAt: time.Now(),
		Tree:     tree,
	}, nil
}
