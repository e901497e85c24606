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

package nodes

import (
	"context"
	"fmt"
)

// Rebuilder produces fresh node lumps for the map, after which the
// LumpAccessor given to Engage must serve them
type Rebuilder interface {
	RebuildNodes(ctx context.Context) error
}

// Engage obtains the tree for viewing. Nodes are rebuilt first if asked to,
// or if the map has no node lumps at all. ZNODES takes priority over classic
// lumps; without it NODES, SSECTORS, SEGS and VERTEXES are all required
func Engage(ctx context.Context, acc LumpAccessor, rb Rebuilder,
	opts Options) (*Tree, error) {
	log := opts.logger()
	if opts.ForceRebuild || !haveNodeLumps(acc) {
		if rb == nil {
			return nil, fmt.Errorf("%w: no nodebuilder configured",
				ErrRebuildFailed)
		}
		log.Verbose(1, "Rebuilding nodes...\n")
		if err := rb.RebuildNodes(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRebuildFailed, err)
		}
	}
	if !acc.LumpExists(LUMP_ZNODES) {
		for _, lump := range [...]string{LUMP_NODES, LUMP_SSECTORS,
			LUMP_SEGS, LUMP_VERTEXES} {
			if !acc.LumpExists(lump) {
				return nil, &MissingLumpError{Lump: lump}
			}
		}
	}
	return Load(acc, opts)
}

func haveNodeLumps(acc LumpAccessor) bool {
	return acc.LumpExists(LUMP_ZNODES) || acc.LumpExists(LUMP_NODES) ||
		acc.LumpExists(LUMP_SSECTORS) || acc.LumpExists(LUMP_SEGS) ||
		acc.LumpExists(LUMP_VERTEXES)
}
