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

// znodes.go reads uncompressed Zdoom extended nodes: XNOD, XGLN, XGL2, XGL3.
// Layout, all little-endian:
// - 4 bytes magic
// - uint32 original vertex count, uint32 new vertex count, then new vertices
// as pairs of 16.16 fixed point int32
// - uint32 subsector count, then uint32 seg count of each subsector
// - uint32 seg count, then segs (format-specific)
// - uint32 node count, then nodes (format-specific)
package nodes

import (
	"bytes"
	"encoding/binary"
	"math"
)

// lumpReader is a cursor over lump data that reports running past its end as
// TruncatedDataError
type lumpReader struct {
	lump string
	data []byte
	off  int
}

func (r *lumpReader) read(v interface{}) error {
	size := binary.Size(v)
	if size < 0 || size > len(r.data)-r.off {
		return &TruncatedDataError{Lump: r.lump}
	}
	err := binary.Read(bytes.NewReader(r.data[r.off:r.off+size]),
		binary.LittleEndian, v)
	if err != nil {
		return &TruncatedDataError{Lump: r.lump}
	}
	r.off += size
	return nil
}

func (r *lumpReader) uint32() (uint32, error) {
	var v uint32
	err := r.read(&v)
	return v, err
}

// fits tells whether count records of given size remain. Counts come from the
// lump itself and are checked before allocating anything
func (r *lumpReader) fits(count uint32, size int) bool {
	return uint64(count)*uint64(size) <= uint64(len(r.data)-r.off)
}

// Fixed1616ToFloat converts 16.16 fixed point number
func Fixed1616ToFloat(v int32) float64 {
	return float64(v) / 65536.0
}

func extendedFormat(magic []byte) (Format, bool) {
	switch {
	case bytes.Equal(magic, ZNODES_PLAIN_SIG[:]):
		return FORMAT_XNOD, true
	case bytes.Equal(magic, ZGLNODES_SIG[:]):
		return FORMAT_XGLN, true
	case bytes.Equal(magic, ZGL2NODES_SIG[:]):
		return FORMAT_XGL2, true
	case bytes.Equal(magic, ZGL3NODES_SIG[:]):
		return FORMAT_XGL3, true
	}
	return FORMAT_CLASSIC, false
}

// printableMagic is for error messages, lumps may contain anything
func printableMagic(magic []byte) string {
	b := make([]byte, len(magic))
	for i, c := range magic {
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		b[i] = c
	}
	return string(b)
}

func (t *Tree) loadExtended(lump string, data []byte, acc LumpAccessor,
	opts Options) error {
	if len(data) < 4 {
		return &TruncatedDataError{Lump: lump}
	}
	magic := data[:4]
	if bytes.Equal(magic, ZNODES_COMPRESSED_SIG[:]) {
		return &UnsupportedFormatError{Magic: "ZNOD",
			Reason: "compressed nodes are not supported"}
	}
	format, ok := extendedFormat(magic)
	if !ok {
		return &UnsupportedFormatError{Magic: printableMagic(magic)}
	}
	if !opts.ExtendedNodes {
		return &UnsupportedFormatError{Magic: format.String(),
			Reason: "Zdoom extended nodes support is disabled"}
	}
	t.format = format
	r := &lumpReader{lump: lump, data: data, off: 4}

	if err := t.readExtendedVertices(r, acc); err != nil {
		return err
	}
	if err := t.readExtendedSubsectors(r); err != nil {
		return err
	}
	if err := t.readExtendedSegs(r, opts.logger()); err != nil {
		return err
	}
	return t.readExtendedNodes(r)
}

func (t *Tree) readExtendedVertices(r *lumpReader, acc LumpAccessor) error {
	var hdr ZdoomNode_VertexHeader
	if err := r.read(&hdr); err != nil {
		return err
	}
	live := acc.LiveVertexCount()
	if uint64(hdr.ReusedOriginalVertices) != uint64(live) {
		return &VertexCountMismatchError{Expected: live,
			Got: int(hdr.ReusedOriginalVertices)}
	}
	if !r.fits(hdr.NumExtendedVertices, 8) {
		return &TruncatedDataError{Lump: r.lump}
	}
	raw := make([]ZdoomNode_Vertex, hdr.NumExtendedVertices)
	if err := r.read(raw); err != nil {
		return err
	}
	t.verts = make([]Point, 0, live+len(raw))
	for i := 0; i < live; i++ {
		t.verts = append(t.verts, acc.LiveVertexPosition(i))
	}
	for _, v := range raw {
		t.verts = append(t.verts, Point{
			X: Fixed1616ToFloat(v.X),
			Y: Fixed1616ToFloat(v.Y),
		})
	}
	t.mapVerts = live
	if len(t.verts) < 1 {
		return &EmptyStructureError{Which: "vertices"}
	}
	return nil
}

func (t *Tree) readExtendedSubsectors(r *lumpReader) error {
	numSsec, err := r.uint32()
	if err != nil {
		return err
	}
	if numSsec < 1 {
		return &EmptyStructureError{Which: "subsectors"}
	}
	if !r.fits(numSsec, 4) {
		return &TruncatedDataError{Lump: r.lump}
	}
	counts := make([]uint32, numSsec)
	if err := r.read(counts); err != nil {
		return err
	}
	t.ssectors = make([]BspSubsector, numSsec)
	// first seg of every subsector is implied: segs are stored in subsector
	// order
	firstSeg := 0
	for i, c := range counts {
		t.ssectors[i] = BspSubsector{FirstSeg: firstSeg, NumSegs: int(c)}
		firstSeg += int(c)
	}
	return nil
}

func (t *Tree) readExtendedSegs(r *lumpReader, log Logger) error {
	numSegs, err := r.uint32()
	if err != nil {
		return err
	}
	if numSegs < 1 {
		return &EmptyStructureError{Which: "segs"}
	}
	recSize := 11
	if t.format == FORMAT_XGL2 || t.format == FORMAT_XGL3 {
		recSize = 13
	}
	if !r.fits(numSegs, recSize) {
		return &TruncatedDataError{Lump: r.lump}
	}
	t.segs = make([]BspSeg, numSegs)
	switch t.format {
	case FORMAT_XNOD:
		raw := make([]ZdoomNode_Seg, numSegs)
		if err := r.read(raw); err != nil {
			return err
		}
		for i, s := range raw {
			t.segs[i] = BspSeg{
				StartVertex: int(s.StartVertex),
				EndVertex:   int(s.EndVertex),
				Linedef:     linedef16(s.Linedef),
				Back:        s.Flip != 0,
			}
		}
	case FORMAT_XGLN:
		raw := make([]ZdoomGLNode_Seg, numSegs)
		if err := r.read(raw); err != nil {
			return err
		}
		for i, s := range raw {
			// partner seg isn't needed, end vertex comes from chaining
			t.segs[i] = BspSeg{
				StartVertex: int(s.StartVertex),
				EndVertex:   int(s.StartVertex),
				Linedef:     linedef16(s.Linedef),
				Back:        s.Flip != 0,
			}
		}
	default: // XGL2, XGL3
		raw := make([]ZdoomGL2Node_Seg, numSegs)
		if err := r.read(raw); err != nil {
			return err
		}
		for i, s := range raw {
			t.segs[i] = BspSeg{
				StartVertex: int(s.StartVertex),
				EndVertex:   int(s.StartVertex),
				Linedef:     linedef32(s.Linedef),
				Back:        s.Flip != 0,
			}
		}
	}
	if t.format == FORMAT_XNOD {
		t.computeSegAngles()
	}
	if numSegs >= UNSIGNED_MAXSEGINDEX {
		log.Verbose(1, "The map has %d segs, more than classic nodes could hold.\n",
			numSegs)
	}
	return nil
}

func linedef16(v uint16) int {
	if v == ZGL_NOLINEDEF16 {
		return NO_LINEDEF
	}
	return int(v)
}

func linedef32(v uint32) int {
	if v == ZGL_NOLINEDEF32 {
		return NO_LINEDEF
	}
	return int(v)
}

func (t *Tree) readExtendedNodes(r *lumpReader) error {
	numNodes, err := r.uint32()
	if err != nil {
		return err
	}
	if numNodes < 1 {
		return &EmptyStructureError{Which: "nodes"}
	}
	if t.format != FORMAT_XGL3 {
		if !r.fits(numNodes, DEEPNODE_SIZE) {
			return &TruncatedDataError{Lump: r.lump}
		}
		// same layout as DeePBSP nodes
		raw := make([]DeepNode, numNodes)
		if err := r.read(raw); err != nil {
			return err
		}
		t.nodes = convertDeepNodes(raw)
		return nil
	}
	if !r.fits(numNodes, 40) {
		return &TruncatedDataError{Lump: r.lump}
	}
	raw := make([]Zgl3Node, numNodes)
	if err := r.read(raw); err != nil {
		return err
	}
	t.nodes = make([]BspNode, numNodes)
	for i, n := range raw {
		t.nodes[i] = BspNode{
			Start: Point{X: Fixed1616ToFloat(n.X), Y: Fixed1616ToFloat(n.Y)},
			Delta: Point{X: Fixed1616ToFloat(n.Dx),
				Y: Fixed1616ToFloat(n.Dy)},
			RightBox: bboxFrom(n.Rbox),
			LeftBox:  bboxFrom(n.Lbox),
			Right:    childFrom32(n.RChild),
			Left:     childFrom32(n.LChild),
		}
	}
	return nil
}

// chainGLSegs fills in end vertices of GL segs: each seg ends where the next
// one of the same subsector starts, and the last one ends at the start of the
// first. Seg ranges must be already trimmed by linkSegs
func (t *Tree) chainGLSegs() {
	for i := range t.ssectors {
		s := &t.ssectors[i]
		if s.NumSegs == 0 {
			continue
		}
		last := s.FirstSeg + s.NumSegs - 1
		for sg := s.FirstSeg; sg < last; sg++ {
			t.segs[sg].EndVertex = t.segs[sg+1].StartVertex
		}
		t.segs[last].EndVertex = t.segs[s.FirstSeg].StartVertex
	}
	t.computeSegAngles()
}

// computeSegAngles derives direction of segs from their vertices, extended
// nodes don't store it
func (t *Tree) computeSegAngles() {
	for i := range t.segs {
		s := &t.segs[i]
		if s.StartVertex < 0 || s.StartVertex >= len(t.verts) ||
			s.EndVertex < 0 || s.EndVertex >= len(t.verts) {
			continue
		}
		d := t.verts[s.EndVertex].Sub(t.verts[s.StartVertex])
		a := math.Atan2(d.Y, d.X)
		if a < 0 {
			a += 2 * math.Pi
		}
		s.Angle = a
	}
}
