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

// CandidateLeaf descends the tree from the root, returning the subsector whose
// half-plane region contains p. The point may still be outside the map, see
// PointToLeaf
func (t *Tree) CandidateLeaf(p Point) int {
	if len(t.nodes) == 0 {
		return -1
	}
	n := &t.nodes[t.Root()]
	// tree was verified at load, loop is bounded by its height
	for {
		c := n.Child(n.PointSide(p))
		if c.leaf {
			return c.index
		}
		n = &t.nodes[c.index]
	}
}

// PointToLeaf returns the subsector containing p. The BSP tree alone can't
// tell whether a point is outside the map, so the candidate is confirmed
// against its polygon; ok is false when it doesn't contain p
func (t *Tree) PointToLeaf(p Point) (int, bool) {
	ss := t.CandidateLeaf(p)
	if ss < 0 || ss >= len(t.ssectors) {
		return -1, false
	}
	if !t.ssectors[ss].Polygon.Contains(p) {
		return -1, false
	}
	return ss, true
}

// PointInSubsector tests p against polygon of subsector ss
func (t *Tree) PointInSubsector(ss int, p Point) bool {
	if ss < 0 || ss >= len(t.ssectors) {
		return false
	}
	return t.ssectors[ss].Polygon.Contains(p)
}

// RegionForNode reconstructs the area one side of node i covers: the bounding
// square cropped by the node's own split and then by every ancestor's split,
// walking parent links up to the root
func (t *Tree) RegionForNode(i int, side Side) (Polygon, bool) {
	if i < 0 || i >= len(t.nodes) {
		return nil, false
	}
	poly := ClipPolygon(BoundingSquare(t.maxCoord), t.nodes[i].Split(side))
	prevnode := i
	for p := t.nodes[i].Parent; p != NO_PARENT && len(poly) > 0; p = t.nodes[p].Parent {
		pn := &t.nodes[p]
		if !pn.Left.leaf && pn.Left.index == prevnode {
			poly = ClipPolygon(poly, pn.Split(SIDE_LEFT))
		} else if !pn.Right.leaf && pn.Right.index == prevnode {
			poly = ClipPolygon(poly, pn.Split(SIDE_RIGHT))
		}
		prevnode = p
	}
	return poly, true
}
