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

// load.go turns node lumps into a Tree. Strategy is picked by which lumps
// exist and the signature their data starts with:
// 1. ZNODES lump - Zdoom extended nodes (XNOD, XGLN, XGL2, XGL3)
// 2. NODES lump starting with "XNOD" - same, stored in NODES
// 3. NODES lump starting with "xNd4\0\0\0\0" - DeePBSP nodes
// 4. Otherwise classic NODES, SEGS, VERTEXES, SSECTORS
// Extended nodes are only parsed when Options.ExtendedNodes is set
package nodes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Doom format limit: vertex coordinates are int16
const DOOM_MAX_COORDINATE = 32767.0

// LumpAccessor gives access to lumps of the map being viewed and to the map's
// own ("live") vertices, which extended nodes don't repeat
type LumpAccessor interface {
	GetLumpData(name string) ([]byte, error)
	LumpExists(name string) bool
	LiveVertexCount() int
	LiveVertexPosition(i int) Point
	// Largest legal coordinate magnitude of the map format
	MaxCoordinate() float64
}

type Logger interface {
	Printf(s string, a ...interface{})
	Verbose(verbosityLevel int, s string, a ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(s string, a ...interface{}) {}

func (nullLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {}

type Options struct {
	// Allow Zdoom extended nodes. Off by default: nodebuilders may reorder
	// map vertices when building them, and then vertex indices in ZNODES no
	// longer match the map's vertices
	ExtendedNodes bool
	// Rebuild nodes in Engage even if node lumps exist
	ForceRebuild bool
	// Overrides LumpAccessor.MaxCoordinate() if positive
	MaxCoordinate float64
	Log           Logger
}

func (o *Options) logger() Logger {
	if o.Log == nil {
		return nullLogger{}
	}
	return o.Log
}

func (o *Options) maxCoordinate(acc LumpAccessor) float64 {
	if o.MaxCoordinate > 0 {
		return o.MaxCoordinate
	}
	if m := acc.MaxCoordinate(); m > 0 {
		return m
	}
	return DOOM_MAX_COORDINATE
}

// Load parses node lumps, links the tree and builds polygons of all
// subsectors. Nothing is returned unless all of it succeeded
func Load(acc LumpAccessor, opts Options) (*Tree, error) {
	log := opts.logger()
	t := &Tree{maxCoord: opts.maxCoordinate(acc)}
	var err error
	if acc.LumpExists(LUMP_ZNODES) {
		var data []byte
		data, err = getLump(acc, LUMP_ZNODES)
		if err == nil {
			err = t.loadExtended(LUMP_ZNODES, data, acc, opts)
		}
	} else {
		err = t.loadClassic(acc, opts)
	}
	if err != nil {
		return nil, err
	}
	linkSegs(t.ssectors, t.segs, log)
	if t.format == FORMAT_XGLN || t.format == FORMAT_XGL2 ||
		t.format == FORMAT_XGL3 {
		t.chainGLSegs()
	}
	if err := linkParents(t.nodes, len(t.ssectors)); err != nil {
		return nil, err
	}
	t.buildPolygons(log)
	log.Verbose(1, "Loaded %s: %d nodes, %d segs, %d subsectors, %d vertices (%d added by nodebuilder).\n",
		t.format, len(t.nodes), len(t.segs), len(t.ssectors), len(t.verts),
		len(t.verts)-t.mapVerts)
	return t, nil
}

func getLump(acc LumpAccessor, name string) ([]byte, error) {
	if !acc.LumpExists(name) {
		return nil, &MissingLumpError{Lump: name}
	}
	data, err := acc.GetLumpData(name)
	if err != nil {
		return nil, fmt.Errorf("couldn't read %s lump: %w", name, err)
	}
	return data, nil
}

func (t *Tree) loadClassic(acc LumpAccessor, opts Options) error {
	nodesData, err := getLump(acc, LUMP_NODES)
	if err != nil {
		return err
	}
	if len(nodesData) < 4 {
		return &TruncatedDataError{Lump: LUMP_NODES}
	}
	// Compare bytes, not strings: node data is binary
	if bytes.HasPrefix(nodesData, ZNODES_COMPRESSED_SIG[:]) {
		return &UnsupportedFormatError{Magic: "ZNOD",
			Reason: "compressed nodes are not supported"}
	}
	if bytes.HasPrefix(nodesData, ZNODES_PLAIN_SIG[:]) {
		return t.loadExtended(LUMP_NODES, nodesData, acc, opts)
	}
	deep := bytes.HasPrefix(nodesData, DEEPNODES_SIG[:])
	if deep {
		t.format = FORMAT_DEEP
		err = t.readDeepNodes(nodesData[len(DEEPNODES_SIG):])
	} else {
		t.format = FORMAT_CLASSIC
		err = t.readNodes(nodesData)
	}
	if err != nil {
		return err
	}

	segsData, err := getLump(acc, LUMP_SEGS)
	if err != nil {
		return err
	}
	if deep {
		err = t.readDeepSegs(segsData)
	} else {
		err = t.readSegs(segsData, opts.logger())
	}
	if err != nil {
		return err
	}

	vertsData, err := getLump(acc, LUMP_VERTEXES)
	if err != nil {
		return err
	}
	if err := t.readVertices(vertsData); err != nil {
		return err
	}
	t.mapVerts = acc.LiveVertexCount()
	if t.mapVerts > len(t.verts) || t.mapVerts < 0 {
		t.mapVerts = len(t.verts)
	}

	ssecData, err := getLump(acc, LUMP_SSECTORS)
	if err != nil {
		return err
	}
	if deep {
		return t.readDeepSubsectors(ssecData)
	}
	return t.readSubsectors(ssecData)
}

// readRecords decodes count fixed-size records from the start of data into
// dst, which must be a slice of count elements
func readRecords(lump string, data []byte, dst interface{}) error {
	size := binary.Size(dst)
	if size < 0 || size > len(data) {
		return &TruncatedDataError{Lump: lump}
	}
	err := binary.Read(bytes.NewReader(data[:size]), binary.LittleEndian, dst)
	if err != nil {
		return &TruncatedDataError{Lump: lump}
	}
	return nil
}

// recordCount tells how many whole records of given size the lump holds. A
// lump too short for even one record is truncated rather than empty
func recordCount(lump, which string, data []byte, size int) (int, error) {
	if len(data) == 0 {
		return 0, &EmptyStructureError{Which: which}
	}
	if len(data) < size {
		return 0, &TruncatedDataError{Lump: lump}
	}
	return len(data) / size, nil
}

func (t *Tree) readNodes(data []byte) error {
	numNodes, err := recordCount(LUMP_NODES, "nodes", data, NODE_SIZE)
	if err != nil {
		return err
	}
	raw := make([]Node, numNodes)
	if err := readRecords(LUMP_NODES, data, raw); err != nil {
		return err
	}
	t.nodes = make([]BspNode, numNodes)
	for i, n := range raw {
		t.nodes[i] = BspNode{
			Start:    Point{X: float64(n.X), Y: float64(n.Y)},
			Delta:    Point{X: float64(n.Dx), Y: float64(n.Dy)},
			RightBox: bboxFrom(n.Rbox),
			LeftBox:  bboxFrom(n.Lbox),
			Right:    childFrom16(n.RChild),
			Left:     childFrom16(n.LChild),
		}
	}
	return nil
}

func (t *Tree) readDeepNodes(data []byte) error {
	numNodes, err := recordCount(LUMP_NODES, "nodes", data, DEEPNODE_SIZE)
	if err != nil {
		return err
	}
	raw := make([]DeepNode, numNodes)
	if err := readRecords(LUMP_NODES, data, raw); err != nil {
		return err
	}
	t.nodes = convertDeepNodes(raw)
	return nil
}

func convertDeepNodes(raw []DeepNode) []BspNode {
	nodes := make([]BspNode, len(raw))
	for i, n := range raw {
		nodes[i] = BspNode{
			Start:    Point{X: float64(n.X), Y: float64(n.Y)},
			Delta:    Point{X: float64(n.Dx), Y: float64(n.Dy)},
			RightBox: bboxFrom(n.Rbox),
			LeftBox:  bboxFrom(n.Lbox),
			Right:    childFrom32(n.RChild),
			Left:     childFrom32(n.LChild),
		}
	}
	return nodes
}

func (t *Tree) readSegs(data []byte, log Logger) error {
	numSegs, err := recordCount(LUMP_SEGS, "segs", data, SEG_SIZE)
	if err != nil {
		return err
	}
	if numSegs >= UNSIGNED_MAXSEGINDEX {
		log.Printf("The map has too many SEGS (%d/%d). It won't load in Vanilla-style source ports and may not load in some enhanced source ports.\n",
			numSegs, UNSIGNED_MAXSEGINDEX)
	} else if numSegs >= VANILLA_MAXSEGINDEX {
		log.Printf("The map has too many SEGS (%d/%d). It won't load in Vanilla-style source ports.\n",
			numSegs, VANILLA_MAXSEGINDEX)
	}
	raw := make([]Seg, numSegs)
	if err := readRecords(LUMP_SEGS, data, raw); err != nil {
		return err
	}
	t.segs = make([]BspSeg, numSegs)
	for i, s := range raw {
		t.segs[i] = BspSeg{
			StartVertex: int(s.StartVertex),
			EndVertex:   int(s.EndVertex),
			Linedef:     linedef16(s.Linedef),
			Back:        s.Flip != 0,
			Angle:       bamToRadians(uint16(s.Angle)),
		}
	}
	return nil
}

func (t *Tree) readDeepSegs(data []byte) error {
	numSegs, err := recordCount(LUMP_SEGS, "segs", data, DEEPSEG_SIZE)
	if err != nil {
		return err
	}
	raw := make([]DeepSeg, numSegs)
	if err := readRecords(LUMP_SEGS, data, raw); err != nil {
		return err
	}
	t.segs = make([]BspSeg, numSegs)
	for i, s := range raw {
		t.segs[i] = BspSeg{
			StartVertex: int(s.StartVertex),
			EndVertex:   int(s.EndVertex),
			Linedef:     linedef16(s.Linedef),
			Back:        s.Flip != 0,
			Angle:       bamToRadians(uint16(s.Angle)),
		}
	}
	return nil
}

func (t *Tree) readVertices(data []byte) error {
	numVerts, err := recordCount(LUMP_VERTEXES, "vertices", data, VERTEX_SIZE)
	if err != nil {
		return err
	}
	raw := make([]Vertex, numVerts)
	if err := readRecords(LUMP_VERTEXES, data, raw); err != nil {
		return err
	}
	t.verts = make([]Point, numVerts)
	for i, v := range raw {
		t.verts[i] = Point{X: float64(v.XPos), Y: float64(v.YPos)}
	}
	return nil
}

func (t *Tree) readSubsectors(data []byte) error {
	numSsec, err := recordCount(LUMP_SSECTORS, "subsectors", data, SUBSECTOR_SIZE)
	if err != nil {
		return err
	}
	raw := make([]SubSector, numSsec)
	if err := readRecords(LUMP_SSECTORS, data, raw); err != nil {
		return err
	}
	t.ssectors = make([]BspSubsector, numSsec)
	for i, s := range raw {
		// these are short in Doom, unsigned in Zdoom/PrBoom+
		t.ssectors[i] = BspSubsector{
			FirstSeg: int(s.FirstSeg),
			NumSegs:  int(s.SegCount),
		}
	}
	return nil
}

func (t *Tree) readDeepSubsectors(data []byte) error {
	numSsec, err := recordCount(LUMP_SSECTORS, "subsectors", data, DEEPSUBSECTOR_SIZE)
	if err != nil {
		return err
	}
	raw := make([]DeepSubSector, numSsec)
	if err := readRecords(LUMP_SSECTORS, data, raw); err != nil {
		return err
	}
	t.ssectors = make([]BspSubsector, numSsec)
	for i, s := range raw {
		t.ssectors[i] = BspSubsector{
			FirstSeg: int(s.FirstSeg),
			NumSegs:  int(s.SegCount),
		}
	}
	return nil
}

// Binary angle (full circle is 65536) to radians
func bamToRadians(bam uint16) float64 {
	return float64(bam) * (2 * math.Pi / 65536.0)
}
