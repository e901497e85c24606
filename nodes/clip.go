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

// clip.go: convex polygon versus half-plane. Polygons are clockwise vertex
// loops (y axis pointing up), the inside of a polygon lies on the right of
// each of its edges, same as a subsector lies on the right of its segs
package nodes

// Points within this distance (in units of the side function) of a split are
// considered to be on it
const SIDE_EPSILON = 0.00001

// Consecutive polygon vertices closer than this (squared distance) are merged
const MERGE_EPSILON_SQ = 0.001 * 0.001

type Polygon []Point

// Split is a directed clip line
type Split struct {
	Pos   Point
	Delta Point
}

// SplitFromPoints is the split running from a to b, as used for segs
func SplitFromPoints(a, b Point) Split {
	return Split{Pos: a, Delta: b.Sub(a)}
}

// Side returns negative value for points in front (on the right) of the split
// and positive for points behind it (on the left). Magnitude is proportional
// to the distance from the line, scaled by the length of Delta
func (s Split) Side(p Point) float64 {
	return (p.Y-s.Pos.Y)*s.Delta.X - (p.X-s.Pos.X)*s.Delta.Y
}

// ClipPolygon returns the part of convex polygon poly that lies in front of
// split or on it. Input is not modified. An empty result means nothing of the
// polygon remains
func ClipPolygon(poly Polygon, split Split) Polygon {
	if len(poly) == 0 {
		return nil
	}
	prev := poly[len(poly)-1]
	side1 := split.Side(prev)
	newp := make(Polygon, 0, len(poly)+1)
	for _, cur := range poly {
		side2 := split.Side(cur)
		if side2 < -SIDE_EPSILON { // front
			if side1 > SIDE_EPSILON {
				newp = append(newp, intercept(prev, cur, side1, side2))
			}
			newp = append(newp, cur)
		} else if side2 > SIDE_EPSILON { // back
			if side1 < -SIDE_EPSILON {
				newp = append(newp, intercept(prev, cur, side1, side2))
			}
		} else { // on the split
			newp = append(newp, cur)
		}
		prev = cur
		side1 = side2
	}
	if len(newp) == 0 {
		return nil
	}
	return newp
}

// intercept finds where the edge prev->cur crosses the split, given side
// values of both ends (of opposite signs)
func intercept(prev, cur Point, side1, side2 float64) Point {
	u := side1 / (side1 - side2)
	return prev.Add(cur.Sub(prev).Scale(u))
}

// BoundingSquare returns a square of half-extent maxCoord centered at origin,
// standing in for the unbounded plane
func BoundingSquare(maxCoord float64) Polygon {
	return Polygon{
		{X: -maxCoord, Y: maxCoord},
		{X: maxCoord, Y: maxCoord},
		{X: maxCoord, Y: -maxCoord},
		{X: -maxCoord, Y: -maxCoord},
	}
}

// Contains tests if p is inside or on the boundary of convex polygon. On the
// boundary means within SIDE_EPSILON, same as for clipping
func (poly Polygon) Contains(p Point) bool {
	if len(poly) == 0 {
		return false
	}
	prev := poly[len(poly)-1]
	for _, cur := range poly {
		if SplitFromPoints(prev, cur).Side(p) > SIDE_EPSILON {
			return false
		}
		prev = cur
	}
	return true
}

// IsConvex checks that all turns of the vertex loop have the same direction.
// Collinear runs are tolerated
func (poly Polygon) IsConvex() bool {
	if len(poly) < 3 {
		return false
	}
	sign := 0
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		c := poly[(i+2)%n]
		turn := SplitFromPoints(a, b).Side(c)
		if turn > SIDE_EPSILON {
			if sign < 0 {
				return false
			}
			sign = 1
		} else if turn < -SIDE_EPSILON {
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// Area is signed: negative for clockwise loops
func (poly Polygon) Area() float64 {
	if len(poly) < 3 {
		return 0
	}
	a := 0.0
	prev := poly[len(poly)-1]
	for _, cur := range poly {
		a += prev.X*cur.Y - cur.X*prev.Y
		prev = cur
	}
	return a / 2
}

// Centroid is the vertex average, good enough as an inner point of a convex
// polygon
func (poly Polygon) Centroid() Point {
	var c Point
	if len(poly) == 0 {
		return c
	}
	for _, v := range poly {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(poly)))
}

// removeZeroLengthEdges drops vertices that coincide with their successor,
// wrapping around the loop. Walks backwards, so the first vertex is compared
// against the last one first
func removeZeroLengthEdges(poly Polygon) Polygon {
	if len(poly) < 2 {
		return poly
	}
	kept := make(Polygon, 0, len(poly))
	prevpoint := poly[0]
	for i := len(poly) - 1; i >= 0; i-- {
		if DistanceSq(poly[i], prevpoint) < MERGE_EPSILON_SQ {
			continue
		}
		kept = append(kept, poly[i])
		prevpoint = poly[i]
	}
	// restore original order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
