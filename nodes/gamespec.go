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

// On-disk layouts of the node lumps, as written by nodebuilders for
// Doom-engine family of games
package nodes

// Lump names the loader asks its LumpAccessor for
const (
	LUMP_NODES    = "NODES"
	LUMP_SEGS     = "SEGS"
	LUMP_SSECTORS = "SSECTORS"
	LUMP_VERTEXES = "VERTEXES"
	LUMP_ZNODES   = "ZNODES"
)

// Starting signature "xNd4\0\0\0\0" of NODES produced by DeePBSP
var DEEPNODES_SIG = [8]byte{0x78, 0x4E, 0x64, 0x34, 0x00, 0x00, 0x00, 0x00}

// Starting signature "XNOD" of Zdoom extended non-GL nodes. May be found
// either in ZNODES or in NODES lump
var ZNODES_PLAIN_SIG = [4]byte{0x58, 0x4E, 0x4F, 0x44}

// Starting signature "ZNOD" of Zdoom extended COMPRESSED non-GL nodes. Never
// parsed, only recognized so that it gets a proper error message
var ZNODES_COMPRESSED_SIG = [4]byte{0x5A, 0x4E, 0x4F, 0x44}

// GL variants of Zdoom extended nodes
var ZGLNODES_SIG = [4]byte{0x58, 0x47, 0x4C, 0x4E}  // "XGLN"
var ZGL2NODES_SIG = [4]byte{0x58, 0x47, 0x4C, 0x32} // "XGL2"
var ZGL3NODES_SIG = [4]byte{0x58, 0x47, 0x4C, 0x33} // "XGL3"

const (
	NODE_SIZE      = 28
	SEG_SIZE       = 12
	VERTEX_SIZE    = 4
	SUBSECTOR_SIZE = 4

	DEEPNODE_SIZE      = 32
	DEEPSEG_SIZE       = 16
	DEEPSUBSECTOR_SIZE = 6
)

// Leaf tags of child references
const SSECTOR_NORMAL_MASK = uint16(0x8000)
const SSECTOR_DEEP_MASK = uint32(0x80000000)

// Vanilla treats seg and subsector indices as signed 16-bit. Ports that read
// them unsigned allow up to 65535
const VANILLA_MAXSEGINDEX = 32767
const UNSIGNED_MAXSEGINDEX = 65535

// "No linedef" sentinel in the GL variants of extended nodes
const ZGL_NOLINEDEF16 = uint16(0xFFFF)
const ZGL_NOLINEDEF32 = uint32(0xFFFFFFFF)

type Vertex struct {
	XPos int16
	YPos int16
}

type Seg struct {
	// Vanilla treats ALL fields as signed int16
	StartVertex uint16
	EndVertex   uint16
	Angle       int16
	Linedef     uint16
	Flip        int16  // 0 - seg follows same direction as linedef, 1 - the opposite
	Offset      uint16 // distance along linedef to start of seg
}

// DeePBSP "standard V4" seg format
type DeepSeg struct {
	StartVertex uint32
	EndVertex   uint32
	Angle       int16
	Linedef     uint16
	Flip        int16
	Offset      uint16
}

// Consecutive segs FirstSeg...FirstSeg+SegCount-1 all belong to this
// subsector
type SubSector struct {
	SegCount uint16
	FirstSeg uint16
}

// DeePBSP "standard V4" subsector format
type DeepSubSector struct {
	SegCount uint16
	FirstSeg uint32
}

type Node struct {
	X      int16
	Y      int16
	Dx     int16
	Dy     int16
	Rbox   [4]int16 // right bounding box
	Lbox   [4]int16 // left bounding box
	RChild uint16   // -| if sign bit = 0 then this is a subnode number
	LChild uint16   // ->     else 0-14 bits are subsector number
}

// DeePBSP "standard V4" node format. Also used by Zdoom extended nodes except
// XGL3
type DeepNode struct {
	X      int16
	Y      int16
	Dx     int16
	Dy     int16
	Rbox   [4]int16 // right bounding box
	Lbox   [4]int16 // left bounding box
	RChild uint32   // -| if sign bit = 0 then this is a subnode number
	LChild uint32   // ->     else 0-30 bits are subsector number
}

// XGL3 node: partition line is in 16.16 fixed point, bounding boxes are not
type Zgl3Node struct {
	X      int32
	Y      int32
	Dx     int32
	Dy     int32
	Rbox   [4]int16
	Lbox   [4]int16
	RChild uint32
	LChild uint32
}

const BB_TOP = 0
const BB_BOTTOM = 1
const BB_LEFT = 2
const BB_RIGHT = 3

type ZdoomNode_VertexHeader struct {
	ReusedOriginalVertices uint32 // number of vertices reused from VERTEXES
	NumExtendedVertices    uint32 // how many vertices follow this
}

type ZdoomNode_Vertex struct {
	X int32 // fixed-point 16.16 signed int
	Y int32 // fixed-point 16.16 signed int
}

// XNOD seg. Doesn't include angle and offset
type ZdoomNode_Seg struct {
	StartVertex uint32
	EndVertex   uint32
	Linedef     uint16
	Flip        byte
}

// XGLN seg. End vertex is implied by the start vertex of the next seg in the
// same subsector
type ZdoomGLNode_Seg struct {
	StartVertex uint32
	Partner     uint32
	Linedef     uint16
	Flip        byte
}

// XGL2/XGL3 seg, wider linedef index
type ZdoomGL2Node_Seg struct {
	StartVertex uint32
	Partner     uint32
	Linedef     uint32
	Flip        byte
}
