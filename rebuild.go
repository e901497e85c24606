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
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vigilantdoomer/nodesview/wad"
)

var ErrNoNodebuilder = errors.New("no nodebuilder specified, use --nodebuilder <path>")

// ExternalNodebuilder rebuilds nodes of a level by running a nodebuilder
// program on a copy of the level written to a temporary wad. Level is then
// reloaded from the nodebuilder's output
type ExternalNodebuilder struct {
	Path  string
	Args  []string // NODEBUILDER_IN and NODEBUILDER_OUT get substituted
	Level *wad.Level
	Files *FileControl
}

func (nb *ExternalNodebuilder) RebuildNodes(ctx context.Context) error {
	if nb.Path == "" {
		return ErrNoNodebuilder
	}
	lumps, err := nb.Level.Lumps()
	if err != nil {
		return err
	}
	fin, err := nb.Files.CreateTemp("", ".in.wad")
	if err != nil {
		return err
	}
	err = wad.Write(fin, wad.PWAD_MAGIC_SIG, lumps)
	if errClose := fin.Close(); err == nil {
		err = errClose
	}
	if err != nil {
		return fmt.Errorf("couldn't write temporary wad %s: %w", fin.Name(), err)
	}
	// Only reserve the name, nodebuilder might replace the file rather than
	// write to it
	fout, err := nb.Files.CreateTemp("", ".out.wad")
	if err != nil {
		return err
	}
	fout.Close()

	args := nodebuilderArgs(nb.Args, fin.Name(), fout.Name())
	Log.Verbose(1, "Running %s %s\n", nb.Path, strings.Join(args, " "))
	mlog := new(MiniLogger)
	cmd := exec.CommandContext(ctx, nb.Path, args...)
	cmd.Stdout = mlog
	cmd.Stderr = mlog
	if err := cmd.Run(); err != nil {
		Log.Merge(mlog, "Nodebuilder output:\n")
		return fmt.Errorf("%s: %w", nb.Path, err)
	}
	if config.VerbosityLevel >= 2 {
		Log.Merge(mlog, "Nodebuilder output:\n")
	}

	w, err := nb.Files.OpenWad(fout.Name())
	if err != nil {
		return fmt.Errorf("couldn't read nodebuilder output: %w", err)
	}
	return nb.Level.Reload(w)
}

func nodebuilderArgs(template []string, in, out string) []string {
	args := make([]string, len(template))
	for i, a := range template {
		a = strings.ReplaceAll(a, NODEBUILDER_IN, in)
		args[i] = strings.ReplaceAll(a, NODEBUILDER_OUT, out)
	}
	return args
}
