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
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type memAccessor struct {
	lumps    map[string][]byte
	live     []Point
	maxCoord float64
}

func (a *memAccessor) GetLumpData(name string) ([]byte, error) {
	data, ok := a.lumps[name]
	if !ok {
		return nil, fmt.Errorf("no lump %s", name)
	}
	return data, nil
}

func (a *memAccessor) LumpExists(name string) bool {
	_, ok := a.lumps[name]
	return ok
}

func (a *memAccessor) LiveVertexCount() int {
	return len(a.live)
}

func (a *memAccessor) LiveVertexPosition(i int) Point {
	return a.live[i]
}

func (a *memAccessor) MaxCoordinate() float64 {
	return a.maxCoord
}

type fakeRebuilder struct {
	calls int
	err   error
	// lumps installed into accessor on successful rebuild
	acc   *memAccessor
	lumps map[string][]byte
}

func (r *fakeRebuilder) RebuildNodes(ctx context.Context) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	for k, v := range r.lumps {
		r.acc.lumps[k] = v
	}
	return nil
}

// lumpOf encodes v the way it is stored in a wad
func lumpOf(t *testing.T, v ...interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, x := range v {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, x))
	}
	return buf.Bytes()
}

func leaf16(i uint16) uint16 {
	return i | SSECTOR_NORMAL_MASK
}

func leaf32(i uint32) uint32 {
	return i | SSECTOR_DEEP_MASK
}

func liveOf(verts []Vertex) []Point {
	pts := make([]Point, len(verts))
	for i, v := range verts {
		pts[i] = Point{X: float64(v.XPos), Y: float64(v.YPos)}
	}
	return pts
}

// Quadrant map: node 1 (root) splits along x = 0, its right side (x > 0) goes
// to node 0 which splits along y = 0. Subsector 0 is x > 0, y < 0,
// subsector 1 is x > 0, y > 0, subsector 2 is x < 0
var quadVerts = []Vertex{{0, 0}, {0, -64}, {64, 0}}

var quadSegs = []Seg{
	{StartVertex: 1, EndVertex: 0, Linedef: 0},
	{StartVertex: 2, EndVertex: 0, Linedef: 1},
	{StartVertex: 0, EndVertex: 1, Linedef: 0, Flip: 1},
}

var quadSsectors = []SubSector{
	{SegCount: 1, FirstSeg: 0},
	{SegCount: 1, FirstSeg: 1},
	{SegCount: 1, FirstSeg: 2},
}

var quadNodes = []Node{
	{X: 0, Y: 0, Dx: 64, Dy: 0, Rbox: [4]int16{0, -64, 0, 64},
		Lbox: [4]int16{0, 0, 0, 64}, RChild: leaf16(0), LChild: leaf16(1)},
	{X: 0, Y: 0, Dx: 0, Dy: 64, Rbox: [4]int16{0, -64, 0, 64},
		Lbox: [4]int16{0, -64, 0, 0}, RChild: 0, LChild: leaf16(2)},
}

func quadAccessor(t *testing.T) *memAccessor {
	return &memAccessor{
		lumps: map[string][]byte{
			LUMP_NODES:    lumpOf(t, quadNodes),
			LUMP_SEGS:     lumpOf(t, quadSegs),
			LUMP_VERTEXES: lumpOf(t, quadVerts),
			LUMP_SSECTORS: lumpOf(t, quadSsectors),
		},
		live:     liveOf(quadVerts),
		maxCoord: 32767,
	}
}

// Single node along x = 0: subsector 0 is right of it and below the line
// V0 -> V1, subsector 1 is left of it and below V2 -> V0. Subsector 1 also
// has a seg referencing a non-existing vertex
var triVerts = []Vertex{{0, 64}, {64, 0}, {-64, 0}}

var triSegs = []Seg{
	{StartVertex: 0, EndVertex: 1},
	{StartVertex: 2, EndVertex: 0, Linedef: 1},
	{StartVertex: 99, EndVertex: 0, Linedef: 2},
}

var triSsectors = []SubSector{
	{SegCount: 1, FirstSeg: 0},
	{SegCount: 2, FirstSeg: 1},
}

var triNodes = []Node{
	{X: 0, Y: 0, Dx: 0, Dy: 64, RChild: leaf16(0), LChild: leaf16(1)},
}

func triAccessor(t *testing.T) *memAccessor {
	return &memAccessor{
		lumps: map[string][]byte{
			LUMP_NODES:    lumpOf(t, triNodes),
			LUMP_SEGS:     lumpOf(t, triSegs),
			LUMP_VERTEXES: lumpOf(t, triVerts),
			LUMP_SSECTORS: lumpOf(t, triSsectors),
		},
		live:     liveOf(triVerts),
		maxCoord: 32767,
	}
}

// checkTreeShape asserts that every subsector polygon is convex and
// clockwise, and that parent links agree with children
func checkTreeShape(t *testing.T, tree *Tree) {
	t.Helper()
	for i := 0; i < tree.SubsectorCount(); i++ {
		poly, ok := tree.SubsectorPolygon(i)
		require.True(t, ok)
		if len(poly) == 0 {
			continue
		}
		require.True(t, poly.IsConvex(), "subsector %d polygon %v", i, poly)
		require.Less(t, poly.Area(), 0.0, "subsector %d must be clockwise", i)
		fan, _ := tree.Fan(i)
		require.Len(t, fan, (len(poly)-2)*3)
	}
	root := tree.Root()
	rn, ok := tree.Node(root)
	require.True(t, ok)
	require.Equal(t, NO_PARENT, rn.Parent)
	for i := 0; i < tree.NodeCount(); i++ {
		if i == root {
			continue
		}
		n, _ := tree.Node(i)
		require.NotEqual(t, NO_PARENT, n.Parent, "node %d", i)
		p, _ := tree.Node(n.Parent)
		isChild := (!p.Left.IsLeaf() && p.Left.Index() == i) ||
			(!p.Right.IsLeaf() && p.Right.Index() == i)
		require.True(t, isChild, "node %d is not a child of its parent %d",
			i, n.Parent)
	}
}
