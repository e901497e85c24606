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

// tree.go holds the in-memory nodes tree. All four arrays are built once,
// linked and then never modified - the tree can be queried from as many
// goroutines as needed
package nodes

import (
	"math"
)

// NO_LINEDEF marks a seg that doesn't come from any linedef (GL minisegs)
const NO_LINEDEF = -1

// NO_PARENT is the parent of the root node
const NO_PARENT = -1

type Format int

const (
	FORMAT_CLASSIC Format = iota
	FORMAT_DEEP
	FORMAT_XNOD
	FORMAT_XGLN
	FORMAT_XGL2
	FORMAT_XGL3
)

func (f Format) String() string {
	switch f {
	case FORMAT_CLASSIC:
		return "Classic nodes"
	case FORMAT_DEEP:
		return "DeePBSP nodes"
	case FORMAT_XNOD:
		return "XNOD"
	case FORMAT_XGLN:
		return "XGLN"
	case FORMAT_XGL2:
		return "XGL2"
	case FORMAT_XGL3:
		return "XGL3"
	}
	return "unknown"
}

// Extended tells whether format is one of Zdoom extended nodes variants
func (f Format) Extended() bool {
	return f >= FORMAT_XNOD
}

type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(u float64) Point {
	return Point{X: p.X * u, Y: p.Y * u}
}

func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

func DistanceSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Side of a node's child. Right is the front side
type Side int

const (
	SIDE_RIGHT Side = iota
	SIDE_LEFT
)

func (s Side) String() string {
	if s == SIDE_LEFT {
		return "left"
	}
	return "right"
}

// Child references either another node or a subsector (leaf). The leaf tag
// bit of the lump formats is decoded once at load time
type Child struct {
	index int
	leaf  bool
}

func NodeChild(index int) Child {
	return Child{index: index}
}

func LeafChild(index int) Child {
	return Child{index: index, leaf: true}
}

func (c Child) IsLeaf() bool {
	return c.leaf
}

func (c Child) Index() int {
	return c.index
}

func childFrom16(v uint16) Child {
	if v&SSECTOR_NORMAL_MASK != 0 {
		return LeafChild(int(v &^ SSECTOR_NORMAL_MASK))
	}
	return NodeChild(int(v))
}

func childFrom32(v uint32) Child {
	if v&SSECTOR_DEEP_MASK != 0 {
		return LeafChild(int(v &^ SSECTOR_DEEP_MASK))
	}
	return NodeChild(int(v))
}

// BBox is the bounding box a nodebuilder stored for a child. Advisory only,
// the true bound comes from clipping
type BBox struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

func bboxFrom(box [4]int16) BBox {
	return BBox{
		Top:    float64(box[BB_TOP]),
		Bottom: float64(box[BB_BOTTOM]),
		Left:   float64(box[BB_LEFT]),
		Right:  float64(box[BB_RIGHT]),
	}
}

type BspNode struct {
	Start    Point // partition line start
	Delta    Point // partition line direction
	RightBox BBox
	LeftBox  BBox
	Right    Child
	Left     Child
	Parent   int // NO_PARENT for root
}

func (n *BspNode) Child(side Side) Child {
	if side == SIDE_LEFT {
		return n.Left
	}
	return n.Right
}

func (n *BspNode) Box(side Side) BBox {
	if side == SIDE_LEFT {
		return n.LeftBox
	}
	return n.RightBox
}

// Split returns the clip line keeping the given side of the partition
func (n *BspNode) Split(side Side) Split {
	if side == SIDE_LEFT {
		return Split{Pos: n.Start, Delta: n.Delta.Neg()}
	}
	return Split{Pos: n.Start, Delta: n.Delta}
}

// PointSide tells which child the point p descends into
func (n *BspNode) PointSide(p Point) Side {
	if n.Split(SIDE_RIGHT).Side(p) > 0 {
		return SIDE_LEFT
	}
	return SIDE_RIGHT
}

type BspSeg struct {
	StartVertex int
	EndVertex   int
	Linedef     int  // NO_LINEDEF if seg has none
	Back        bool // seg runs along the back side of linedef
	Angle       float64
	Subsector   int
}

type BspSubsector struct {
	FirstSeg int
	NumSegs  int
	// Convex vertex loop (clockwise), or empty for degenerate subsector
	Polygon Polygon
	// Triangle fan over Polygon, for the display layer
	Fan []FanVertex
}

type Tree struct {
	format   Format
	nodes    []BspNode
	segs     []BspSeg
	verts    []Point
	ssectors []BspSubsector
	// First mapVerts vertices alias map vertices, the rest were inserted by
	// nodebuilder
	mapVerts   int
	maxCoord   float64
	degenerate int
}

func (t *Tree) Format() Format {
	return t.format
}

func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

func (t *Tree) SegCount() int {
	return len(t.segs)
}

func (t *Tree) SubsectorCount() int {
	return len(t.ssectors)
}

func (t *Tree) VertexCount() int {
	return len(t.verts)
}

func (t *Tree) MapVertexCount() int {
	return t.mapVerts
}

// DegenerateCount is the number of subsectors whose polygon came out empty
func (t *Tree) DegenerateCount() int {
	return t.degenerate
}

// MaxCoordinate is the half-extent of the square every region starts from
func (t *Tree) MaxCoordinate() float64 {
	return t.maxCoord
}

// Root is always the last node
func (t *Tree) Root() int {
	return len(t.nodes) - 1
}

// Node returns a copy, so that the tree stays immutable
func (t *Tree) Node(i int) (BspNode, bool) {
	if i < 0 || i >= len(t.nodes) {
		return BspNode{}, false
	}
	return t.nodes[i], true
}

func (t *Tree) Seg(i int) (BspSeg, bool) {
	if i < 0 || i >= len(t.segs) {
		return BspSeg{}, false
	}
	return t.segs[i], true
}

func (t *Tree) Vertex(i int) (Point, bool) {
	if i < 0 || i >= len(t.verts) {
		return Point{}, false
	}
	return t.verts[i], true
}

// Subsector returns subsector with its seg range. Polygon and Fan are shared
// with the tree and must not be modified
func (t *Tree) Subsector(i int) (BspSubsector, bool) {
	if i < 0 || i >= len(t.ssectors) {
		return BspSubsector{}, false
	}
	return t.ssectors[i], true
}

func (t *Tree) SubsectorPolygon(i int) (Polygon, bool) {
	if i < 0 || i >= len(t.ssectors) {
		return nil, false
	}
	return t.ssectors[i].Polygon, true
}

func (t *Tree) Fan(i int) ([]FanVertex, bool) {
	if i < 0 || i >= len(t.ssectors) {
		return nil, false
	}
	return t.ssectors[i].Fan, true
}

// SplitChain lists ancestors of node i, nearest first, root last
func (t *Tree) SplitChain(i int) []int {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	var chain []int
	for p := t.nodes[i].Parent; p != NO_PARENT; p = t.nodes[p].Parent {
		chain = append(chain, p)
	}
	return chain
}

// Height returns number of nodes on the longest root-to-leaf path
func (t *Tree) Height() int {
	if len(t.nodes) == 0 {
		return 0
	}
	type frame struct {
		node  int
		depth int
	}
	height := 0
	stack := []frame{{node: t.Root(), depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > height {
			height = f.depth
		}
		n := &t.nodes[f.node]
		if !n.Right.leaf {
			stack = append(stack, frame{node: n.Right.index, depth: f.depth + 1})
		}
		if !n.Left.leaf {
			stack = append(stack, frame{node: n.Left.index, depth: f.depth + 1})
		}
	}
	return height
}

// Bounds of all vertices in the tree
func (t *Tree) Bounds() BBox {
	b := BBox{
		Top:    math.Inf(-1),
		Bottom: math.Inf(1),
		Left:   math.Inf(1),
		Right:  math.Inf(-1),
	}
	for _, v := range t.verts {
		b.Left = math.Min(b.Left, v.X)
		b.Right = math.Max(b.Right, v.X)
		b.Bottom = math.Min(b.Bottom, v.Y)
		b.Top = math.Max(b.Top, v.Y)
	}
	return b
}
