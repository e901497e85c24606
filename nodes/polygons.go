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

// Translucent gray (alpha 100) in ARGB, the fill of subsector fans
const FAN_FILL_COLOR = uint32(0x64808080)

type FanVertex struct {
	X     float32
	Y     float32
	Color uint32
}

// buildFrame is a node waiting to be visited along with the region that
// remained from the bounding square after clipping by all its ancestors
type buildFrame struct {
	node   int
	region Polygon
}

// buildPolygons derives the convex polygon of every subsector. An explicit
// stack replaces recursion over the tree, and every node's region is clipped
// once and handed down to its children
func (t *Tree) buildPolygons(log Logger) {
	built := make([]bool, len(t.ssectors))
	stack := make([]buildFrame, 0, 64)
	stack = append(stack, buildFrame{
		node:   t.Root(),
		region: BoundingSquare(t.maxCoord),
	})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[f.node]
		for _, side := range [2]Side{SIDE_LEFT, SIDE_RIGHT} {
			region := ClipPolygon(f.region, n.Split(side))
			c := n.Child(side)
			if !c.leaf {
				stack = append(stack, buildFrame{node: c.index, region: region})
				continue
			}
			if built[c.index] {
				log.Printf("Subsector %d is referenced by more than one node (node %d is one of them).\n",
					c.index, f.node)
				continue
			}
			built[c.index] = true
			t.buildSubsectorPolygon(c.index, region, log)
		}
	}
	for i, ok := range built {
		if !ok {
			log.Verbose(1, "Subsector %d is not referenced by any node.\n", i)
			t.degenerate++
		}
	}
}

// buildSubsectorPolygon crops region by the segs of subsector ss
func (t *Tree) buildSubsectorPolygon(ss int, region Polygon, log Logger) {
	s := &t.ssectors[ss]
	poly := region
	usable := 0
	for sg := s.FirstSeg; sg < s.FirstSeg+s.NumSegs; sg++ {
		seg := &t.segs[sg]
		// Some segs in Doom maps refer to non-existing vertices
		if seg.StartVertex < 0 || seg.StartVertex >= len(t.verts) ||
			seg.EndVertex < 0 || seg.EndVertex >= len(t.verts) {
			log.Verbose(1, "Seg %d of subsector %d references vertex out of range (%d, %d) - skipping it.\n",
				sg, ss, seg.StartVertex, seg.EndVertex)
			continue
		}
		usable++
		poly = ClipPolygon(poly, SplitFromPoints(t.verts[seg.StartVertex],
			t.verts[seg.EndVertex]))
	}
	if usable == 0 {
		poly = nil
	}
	if len(poly) > 1 {
		poly = removeZeroLengthEdges(poly)
	}
	if len(poly) < 3 {
		log.Verbose(1, "Subsector %d has degenerate polygon.\n", ss)
		t.degenerate++
		s.Polygon = nil
		s.Fan = nil
		return
	}
	s.Polygon = poly
	s.Fan = MakeFan(poly, FAN_FILL_COLOR)
}

// MakeFan triangulates convex polygon: (0, k, k+1) for every k
func MakeFan(poly Polygon, color uint32) []FanVertex {
	if len(poly) < 3 {
		return nil
	}
	fverts := make([]FanVertex, 0, (len(poly)-2)*3)
	for k := 1; k < len(poly)-1; k++ {
		for _, v := range [3]Point{poly[0], poly[k], poly[k+1]} {
			fverts = append(fverts, FanVertex{
				X:     float32(v.X),
				Y:     float32(v.Y),
				Color: color,
			})
		}
	}
	return fverts
}
