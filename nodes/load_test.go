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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClassic(t *testing.T) {
	tree, err := Load(quadAccessor(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, FORMAT_CLASSIC, tree.Format())
	assert.Equal(t, 2, tree.NodeCount())
	assert.Equal(t, 3, tree.SegCount())
	assert.Equal(t, 3, tree.SubsectorCount())
	assert.Equal(t, 3, tree.VertexCount())
	assert.Equal(t, 3, tree.MapVertexCount())
	assert.Equal(t, 0, tree.DegenerateCount())
	assert.Equal(t, 1, tree.Root())
	assert.Equal(t, 2, tree.Height())
	assert.Equal(t, []int{1}, tree.SplitChain(0))
	assert.Empty(t, tree.SplitChain(1))
	checkTreeShape(t, tree)

	n0, _ := tree.Node(0)
	assert.Equal(t, LeafChild(0), n0.Child(SIDE_RIGHT))
	assert.Equal(t, LeafChild(1), n0.Child(SIDE_LEFT))
	assert.Equal(t, BBox{Top: 0, Bottom: -64, Left: 0, Right: 64},
		n0.Box(SIDE_RIGHT))
	assert.Equal(t, BBox{Top: 0, Bottom: 0, Left: 0, Right: 64},
		n0.Box(SIDE_LEFT))
	n1, _ := tree.Node(1)
	assert.Equal(t, NodeChild(0), n1.Child(SIDE_RIGHT))
	assert.Equal(t, LeafChild(2), n1.Child(SIDE_LEFT))

	for i := 0; i < tree.SegCount(); i++ {
		seg, ok := tree.Seg(i)
		require.True(t, ok)
		assert.Equal(t, i, seg.Subsector)
	}
	seg, _ := tree.Seg(2)
	assert.True(t, seg.Back)

	// each subsector is a quadrant (or half) of the bounding square
	m := 32767.0
	areas := []float64{-m * m, -m * m, -2 * m * m}
	for i, want := range areas {
		poly, _ := tree.SubsectorPolygon(i)
		assert.InDelta(t, want, poly.Area(), 1, "subsector %d", i)
	}
}

func TestLoadTriangles(t *testing.T) {
	tree, err := Load(triAccessor(t), Options{})
	require.NoError(t, err)
	checkTreeShape(t, tree)

	ss, ok := tree.PointToLeaf(Point{X: 10, Y: 10})
	assert.True(t, ok)
	assert.Equal(t, 0, ss)
	ss, ok = tree.PointToLeaf(Point{X: -10, Y: 10})
	assert.True(t, ok)
	assert.Equal(t, 1, ss)

	// above V0 -> V1: the tree leads to subsector 0, but it doesn't contain
	// the point
	assert.Equal(t, 0, tree.CandidateLeaf(Point{X: 10, Y: 100}))
	_, ok = tree.PointToLeaf(Point{X: 10, Y: 100})
	assert.False(t, ok)
}

func TestSegWithBadVertexIsSkipped(t *testing.T) {
	tree, err := Load(triAccessor(t), Options{})
	require.NoError(t, err)
	poly, _ := tree.SubsectorPolygon(1)
	require.NotEmpty(t, poly)
	assert.True(t, poly.Contains(Point{X: -10, Y: 10}))
	assert.False(t, poly.Contains(Point{X: -10, Y: 100}))
	sub, _ := tree.Subsector(1)
	assert.Equal(t, 2, sub.NumSegs)
}

func TestSegAngleFromBAM(t *testing.T) {
	acc := quadAccessor(t)
	segs := append([]Seg(nil), quadSegs...)
	segs[0].Angle = 16384 // 90 degrees
	segs[1].Angle = -32768
	acc.lumps[LUMP_SEGS] = lumpOf(t, segs)
	tree, err := Load(acc, Options{})
	require.NoError(t, err)
	s0, _ := tree.Seg(0)
	s1, _ := tree.Seg(1)
	assert.InDelta(t, math.Pi/2, s0.Angle, 1e-9)
	assert.InDelta(t, math.Pi, s1.Angle, 1e-9)
}

func TestTrailingBytesIgnored(t *testing.T) {
	acc := quadAccessor(t)
	acc.lumps[LUMP_NODES] = append(acc.lumps[LUMP_NODES], 1, 2, 3)
	acc.lumps[LUMP_VERTEXES] = append(acc.lumps[LUMP_VERTEXES], 7)
	tree, err := Load(acc, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, tree.NodeCount())
	assert.Equal(t, 3, tree.VertexCount())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		lump      string
		data      []byte
		remove    bool
		target    error
		which     string
		truncated bool
	}{
		{name: "short nodes", lump: LUMP_NODES, data: []byte{1, 2, 3},
			target: ErrTruncated},
		{name: "empty nodes", lump: LUMP_NODES, data: []byte{},
			target: ErrEmptyStructure, which: "nodes"},
		{name: "empty segs", lump: LUMP_SEGS, data: []byte{},
			target: ErrEmptyStructure, which: "segs"},
		{name: "empty vertices", lump: LUMP_VERTEXES, data: nil,
			target: ErrEmptyStructure, which: "vertices"},
		{name: "empty subsectors", lump: LUMP_SSECTORS, data: nil,
			target: ErrEmptyStructure, which: "subsectors"},
		{name: "partial node", lump: LUMP_NODES, data: []byte{1, 2, 3, 4, 5},
			target: ErrTruncated, truncated: true},
		{name: "partial seg", lump: LUMP_SEGS, data: []byte{1, 2, 3},
			target: ErrTruncated, truncated: true},
		{name: "partial vertex", lump: LUMP_VERTEXES, data: []byte{1},
			target: ErrTruncated, truncated: true},
		{name: "partial subsector", lump: LUMP_SSECTORS, data: []byte{1, 2, 3},
			target: ErrTruncated, truncated: true},
		{name: "no segs", lump: LUMP_SEGS, remove: true,
			target: ErrMissingLump},
		{name: "compressed", lump: LUMP_NODES, data: []byte("ZNOD\x00\x00\x00\x00"),
			target: ErrUnsupportedFormat},
		{name: "xnod disabled", lump: LUMP_NODES, data: []byte("XNOD\x00\x00\x00\x00"),
			target: ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := quadAccessor(t)
			if tt.remove {
				delete(acc.lumps, tt.lump)
			} else {
				acc.lumps[tt.lump] = tt.data
			}
			tree, err := Load(acc, Options{})
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			if tt.which != "" {
				var empty *EmptyStructureError
				require.True(t, errors.As(err, &empty))
				assert.Equal(t, tt.which, empty.Which)
			}
			if tt.truncated {
				var trunc *TruncatedDataError
				require.True(t, errors.As(err, &trunc))
				assert.Equal(t, tt.lump, trunc.Lump)
			}
		})
	}
}

func TestInvalidReferences(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{name: "subsector out of range", nodes: []Node{
			{Dy: 64, RChild: leaf16(0), LChild: leaf16(5)},
		}},
		{name: "node out of range", nodes: []Node{
			{Dy: 64, RChild: 7, LChild: leaf16(1)},
		}},
		{name: "root references itself", nodes: []Node{
			{Dy: 64, RChild: 0, LChild: leaf16(1)},
		}},
		{name: "cycle", nodes: []Node{
			{Dx: 64, RChild: 1, LChild: leaf16(1)},
			{Dy: 64, RChild: 0, LChild: leaf16(2)},
		}},
		{name: "shared child", nodes: []Node{
			{Dx: 64, RChild: leaf16(0), LChild: leaf16(1)},
			{Dx: 64, RChild: 0, LChild: leaf16(2)},
			{Dy: 64, RChild: 0, LChild: 1},
		}},
		{name: "unreachable node", nodes: []Node{
			{Dx: 64, RChild: leaf16(0), LChild: leaf16(1)},
			{Dy: 64, RChild: leaf16(1), LChild: leaf16(2)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := quadAccessor(t)
			acc.lumps[LUMP_NODES] = lumpOf(t, tt.nodes)
			tree, err := Load(acc, Options{})
			assert.Nil(t, tree)
			var ref *InvalidReferenceError
			require.True(t, errors.As(err, &ref), "got %v", err)
			assert.True(t, errors.Is(err, ErrInvalidReference))
		})
	}
}

func TestZeroSegSubsectorIsDegenerate(t *testing.T) {
	acc := quadAccessor(t)
	ssectors := append([]SubSector(nil), quadSsectors...)
	ssectors[1].SegCount = 0
	acc.lumps[LUMP_SSECTORS] = lumpOf(t, ssectors)
	tree, err := Load(acc, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, tree.DegenerateCount())
	poly, ok := tree.SubsectorPolygon(1)
	assert.True(t, ok)
	assert.Empty(t, poly)
	fan, _ := tree.Fan(1)
	assert.Empty(t, fan)
	_, ok = tree.PointToLeaf(Point{X: 10, Y: 10})
	assert.False(t, ok)
}

func TestSegRangeTrimmed(t *testing.T) {
	acc := quadAccessor(t)
	ssectors := append([]SubSector(nil), quadSsectors...)
	ssectors[2].SegCount = 10
	acc.lumps[LUMP_SSECTORS] = lumpOf(t, ssectors)
	tree, err := Load(acc, Options{})
	require.NoError(t, err)
	sub, _ := tree.Subsector(2)
	assert.Equal(t, 1, sub.NumSegs)
}

func TestLoadDeep(t *testing.T) {
	deepNodes := make([]DeepNode, len(quadNodes))
	for i, n := range quadNodes {
		deepNodes[i] = DeepNode{X: n.X, Y: n.Y, Dx: n.Dx, Dy: n.Dy,
			Rbox: n.Rbox, Lbox: n.Lbox}
	}
	deepNodes[0].RChild, deepNodes[0].LChild = leaf32(0), leaf32(1)
	deepNodes[1].RChild, deepNodes[1].LChild = 0, leaf32(2)
	deepSegs := make([]DeepSeg, len(quadSegs))
	for i, s := range quadSegs {
		deepSegs[i] = DeepSeg{StartVertex: uint32(s.StartVertex),
			EndVertex: uint32(s.EndVertex), Linedef: s.Linedef, Flip: s.Flip}
	}
	deepSegs[2].Linedef = ZGL_NOLINEDEF16
	deepSsectors := make([]DeepSubSector, len(quadSsectors))
	for i, s := range quadSsectors {
		deepSsectors[i] = DeepSubSector{SegCount: s.SegCount,
			FirstSeg: uint32(s.FirstSeg)}
	}
	acc := quadAccessor(t)
	acc.lumps[LUMP_NODES] = lumpOf(t, DEEPNODES_SIG, deepNodes)
	acc.lumps[LUMP_SEGS] = lumpOf(t, deepSegs)
	acc.lumps[LUMP_SSECTORS] = lumpOf(t, deepSsectors)

	tree, err := Load(acc, Options{})
	require.NoError(t, err)
	assert.Equal(t, FORMAT_DEEP, tree.Format())
	assert.Equal(t, 2, tree.NodeCount())
	checkTreeShape(t, tree)
	ss, ok := tree.PointToLeaf(Point{X: -100, Y: 5})
	assert.True(t, ok)
	assert.Equal(t, 2, ss)
	seg, _ := tree.Seg(2)
	assert.Equal(t, NO_LINEDEF, seg.Linedef)
}

func TestMinisegHasNoLinedef(t *testing.T) {
	acc := quadAccessor(t)
	segs := append([]Seg(nil), quadSegs...)
	segs[2].Linedef = ZGL_NOLINEDEF16
	acc.lumps[LUMP_SEGS] = lumpOf(t, segs)
	tree, err := Load(acc, Options{})
	require.NoError(t, err)
	seg, _ := tree.Seg(2)
	assert.Equal(t, NO_LINEDEF, seg.Linedef)
	seg, _ = tree.Seg(1)
	assert.Equal(t, 1, seg.Linedef)
}

func TestMaxCoordinateOverride(t *testing.T) {
	tree, err := Load(quadAccessor(t), Options{MaxCoordinate: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, tree.MaxCoordinate())
	poly, _ := tree.SubsectorPolygon(2)
	assert.InDelta(t, -2000000.0, poly.Area(), 1e-6)

	acc := quadAccessor(t)
	acc.maxCoord = 0
	tree, err = Load(acc, Options{})
	require.NoError(t, err)
	assert.Equal(t, DOOM_MAX_COORDINATE, tree.MaxCoordinate())
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(s string, a ...interface{}) {
	l.lines = append(l.lines, s)
}

func (l *recordingLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
}

func TestTooManySegsWarns(t *testing.T) {
	acc := quadAccessor(t)
	segs := make([]Seg, VANILLA_MAXSEGINDEX)
	copy(segs, quadSegs)
	acc.lumps[LUMP_SEGS] = lumpOf(t, segs)
	log := &recordingLogger{}
	_, err := Load(acc, Options{Log: log})
	require.NoError(t, err)
	require.NotEmpty(t, log.lines)
	assert.Contains(t, log.lines[0], "too many SEGS")
}
