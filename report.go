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
	"fmt"
	"io"
	"strings"

	"github.com/vigilantdoomer/nodesview/nodes"
)

// WriteReport prints summary of the tree followed by results of the queries
// requested in config
func WriteReport(w io.Writer, snap *Snapshot, cfg *ProgramConfig) {
	t := snap.Tree
	fmt.Fprintf(w, "Level %s of %s (snapshot %s)\n", snap.Level, snap.WadFile,
		snap.ID)
	fmt.Fprintf(w, "Format: %s\n", t.Format())
	fmt.Fprintf(w, "Nodes: %d, tree height: %d\n", t.NodeCount(), t.Height())
	fmt.Fprintf(w, "Segs: %d\n", t.SegCount())
	fmt.Fprintf(w, "Subsectors: %d (%d degenerate)\n", t.SubsectorCount(),
		t.DegenerateCount())
	fmt.Fprintf(w, "Vertices: %d (%d added by nodebuilder)\n", t.VertexCount(),
		t.VertexCount()-t.MapVertexCount())
	if t.VertexCount() > 0 {
		b := t.Bounds()
		fmt.Fprintf(w, "Bounds: (%v %v) - (%v %v)\n", b.Left, b.Top, b.Right,
			b.Bottom)
	}

	for _, p := range cfg.Points {
		ss, ok := t.PointToLeaf(p)
		if ok {
			fmt.Fprintf(w, "Point (%v, %v): subsector %d\n", p.X, p.Y, ss)
		} else {
			fmt.Fprintf(w, "Point (%v, %v): outside of the map (BSP leads to subsector %d)\n",
				p.X, p.Y, t.CandidateLeaf(p))
		}
	}
	for _, i := range cfg.Subsectors {
		ss, ok := t.Subsector(i)
		if !ok {
			fmt.Fprintf(w, "Subsector %d: no such subsector\n", i)
			continue
		}
		fmt.Fprintf(w, "Subsector %d: %d segs starting from %d\n", i, ss.NumSegs,
			ss.FirstSeg)
		if len(ss.Polygon) == 0 {
			fmt.Fprintf(w, "  degenerate, no polygon\n")
			continue
		}
		fmt.Fprintf(w, "  polygon: %s\n", formatPolygon(ss.Polygon))
		fmt.Fprintf(w, "  area: %v\n", -ss.Polygon.Area())
	}
	for _, i := range cfg.Nodes {
		n, ok := t.Node(i)
		if !ok {
			fmt.Fprintf(w, "Node %d: no such node\n", i)
			continue
		}
		fmt.Fprintf(w, "Node %d: partition (%v, %v) direction (%v, %v)\n", i,
			n.Start.X, n.Start.Y, n.Delta.X, n.Delta.Y)
		fmt.Fprintf(w, "  split chain: %v\n", t.SplitChain(i))
		for _, side := range [2]nodes.Side{nodes.SIDE_RIGHT, nodes.SIDE_LEFT} {
			region, _ := t.RegionForNode(i, side)
			box := n.Box(side)
			fmt.Fprintf(w, "  %s: %s, stored box (%v %v) - (%v %v), region: %s\n",
				side, formatChild(n.Child(side)), box.Left, box.Top, box.Right,
				box.Bottom, formatPolygon(region))
		}
	}
}

func formatChild(c nodes.Child) string {
	if c.IsLeaf() {
		return fmt.Sprintf("subsector %d", c.Index())
	}
	return fmt.Sprintf("node %d", c.Index())
}

func formatPolygon(poly nodes.Polygon) string {
	if len(poly) == 0 {
		return "empty"
	}
	var sb strings.Builder
	for i, v := range poly {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%v, %v)", v.X, v.Y)
	}
	return sb.String()
}
