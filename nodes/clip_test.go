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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSide(t *testing.T) {
	s := Split{Pos: Point{X: 0, Y: 0}, Delta: Point{X: 0, Y: 64}}
	assert.Less(t, s.Side(Point{X: 10, Y: 0}), 0.0, "right of upward line is front")
	assert.Greater(t, s.Side(Point{X: -10, Y: 0}), 0.0)
	assert.Equal(t, 0.0, s.Side(Point{X: 0, Y: 1000}))
}

func TestClipPolygonHalf(t *testing.T) {
	sq := BoundingSquare(100)
	right := ClipPolygon(sq, Split{Delta: Point{X: 0, Y: 1}})
	require.Len(t, right, 4)
	assert.InDelta(t, -20000.0, right.Area(), 1e-9)
	assert.True(t, right.Contains(Point{X: 50, Y: 0}))
	assert.False(t, right.Contains(Point{X: -50, Y: 0}))
	assert.True(t, right.IsConvex())
	// input is left alone
	assert.Equal(t, BoundingSquare(100), sq)
}

func TestClipPolygonIdempotent(t *testing.T) {
	splits := []Split{
		{Pos: Point{X: 10, Y: 0}, Delta: Point{X: 1, Y: 1}},
		{Pos: Point{X: -3, Y: 7}, Delta: Point{X: -5, Y: 2}},
		{Pos: Point{X: 0, Y: 0}, Delta: Point{X: 1, Y: 0}},
	}
	for _, s := range splits {
		once := ClipPolygon(BoundingSquare(500), s)
		twice := ClipPolygon(once, s)
		require.Equal(t, len(once), len(twice), "split %v", s)
		for i := range once {
			assert.InDelta(t, once[i].X, twice[i].X, 1e-9)
			assert.InDelta(t, once[i].Y, twice[i].Y, 1e-9)
		}
		assert.True(t, once.IsConvex())
	}
}

func TestClipPolygonAllBehind(t *testing.T) {
	s := Split{Pos: Point{X: 0, Y: 1000}, Delta: Point{X: -1, Y: 0}}
	assert.Nil(t, ClipPolygon(BoundingSquare(100), s))
	assert.Nil(t, ClipPolygon(nil, s))

	// all in front: unchanged
	s.Delta = Point{X: 1, Y: 0}
	assert.Equal(t, BoundingSquare(100), ClipPolygon(BoundingSquare(100), s))
}

func TestClipPolygonAlongEdge(t *testing.T) {
	// split running along the square's edge keeps the square
	s := SplitFromPoints(Point{X: -100, Y: 100}, Point{X: 100, Y: 100})
	got := ClipPolygon(BoundingSquare(100), s)
	assert.Equal(t, BoundingSquare(100), got)
}

func TestContainsBoundary(t *testing.T) {
	sq := BoundingSquare(10)
	assert.True(t, sq.Contains(Point{X: 10, Y: 0}))
	assert.True(t, sq.Contains(Point{X: -10, Y: -10}))
	assert.False(t, sq.Contains(Point{X: 10.5, Y: 0}))
	assert.False(t, Polygon(nil).Contains(Point{}))
}

func TestIsConvex(t *testing.T) {
	assert.True(t, BoundingSquare(1).IsConvex())
	collinear := Polygon{{0, 1}, {0.5, 1}, {1, 1}, {1, 0}, {0, 0}}
	assert.True(t, collinear.IsConvex())
	dented := Polygon{{0, 2}, {1, 1}, {2, 2}, {2, 0}, {0, 0}}
	assert.False(t, dented.IsConvex())
	assert.False(t, Polygon{{0, 0}, {1, 1}}.IsConvex())
}

func TestRemoveZeroLengthEdges(t *testing.T) {
	poly := Polygon{{0, 1}, {1, 1}, {1, 1.0000001}, {1, 0}, {0, 0}, {0, 1.0000002}}
	got := removeZeroLengthEdges(poly)
	require.Len(t, got, 4)
	for i := range got {
		next := got[(i+1)%len(got)]
		assert.GreaterOrEqual(t, DistanceSq(got[i], next), MERGE_EPSILON_SQ)
	}
	assert.InDelta(t, -1.0, got.Area(), 1e-5)
}

func TestMakeFan(t *testing.T) {
	fan := MakeFan(BoundingSquare(1), FAN_FILL_COLOR)
	require.Len(t, fan, 6)
	assert.Equal(t, FanVertex{X: -1, Y: 1, Color: FAN_FILL_COLOR}, fan[0])
	assert.Equal(t, FanVertex{X: -1, Y: 1, Color: FAN_FILL_COLOR}, fan[3])
	assert.Equal(t, FanVertex{X: -1, Y: -1, Color: FAN_FILL_COLOR}, fan[5])
	assert.Nil(t, MakeFan(Polygon{{0, 0}, {1, 1}}, FAN_FILL_COLOR))
}

func TestCentroid(t *testing.T) {
	c := BoundingSquare(5).Centroid()
	assert.Equal(t, Point{}, c)
}
