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

// linkParents assigns parent of every node from its children. The root is the
// last node in every format. No recursion: trees of big maps can be thousands
// levels deep
func linkParents(nodes []BspNode, numSsectors int) error {
	for i := range nodes {
		nodes[i].Parent = NO_PARENT
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		n := &nodes[i]
		for _, c := range [2]Child{n.Left, n.Right} {
			if c.leaf {
				if c.index >= numSsectors {
					return &InvalidReferenceError{Which: "subsector", Index: i,
						Ref: c.index}
				}
				continue
			}
			if c.index >= len(nodes) {
				return &InvalidReferenceError{Which: "node", Index: i,
					Ref: c.index}
			}
			nodes[c.index].Parent = i
		}
	}
	nodes[len(nodes)-1].Parent = NO_PARENT
	return verifyTree(nodes)
}

// verifyTree makes sure every node is reached from the root exactly once, so
// that walks down the tree and up the parent chains terminate
func verifyTree(nodes []BspNode) error {
	visited := make([]bool, len(nodes))
	root := len(nodes) - 1
	visited[root] = true
	stack := []int{root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &nodes[i]
		for _, c := range [2]Child{n.Left, n.Right} {
			if c.leaf {
				continue
			}
			if visited[c.index] {
				return &InvalidReferenceError{Which: "node", Index: i,
					Ref: c.index}
			}
			visited[c.index] = true
			stack = append(stack, c.index)
		}
	}
	for i, ok := range visited {
		if !ok {
			return &InvalidReferenceError{Which: "node", Index: -1, Ref: i}
		}
	}
	return nil
}

// linkSegs assigns owning subsector to every seg and trims seg ranges that run
// past the seg array
func linkSegs(ssectors []BspSubsector, segs []BspSeg, log Logger) {
	for i := range ssectors {
		s := &ssectors[i]
		if s.FirstSeg+s.NumSegs > len(segs) {
			log.Printf("Subsector %d references segs %d..%d, but there are only %d segs - ignoring those that don't exist.\n",
				i, s.FirstSeg, s.FirstSeg+s.NumSegs-1, len(segs))
			s.NumSegs = len(segs) - s.FirstSeg
			if s.NumSegs < 0 {
				s.NumSegs = 0
			}
		}
		for sg := s.FirstSeg; sg < s.FirstSeg+s.NumSegs; sg++ {
			segs[sg].Subsector = i
		}
	}
}
