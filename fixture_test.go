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

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vigilantdoomer/nodesview/nodes"
	"github.com/vigilantdoomer/nodesview/wad"
)

func encodeLump(t *testing.T, v interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	return buf.Bytes()
}

// quadLevelLumps is a level split by x = 0, then its right half by y = 0:
// subsector 0 is x > 0, y < 0, subsector 1 is x > 0, y > 0, subsector 2 is
// x < 0
func quadLevelLumps(t *testing.T, name string, withNodes bool) []wad.Lump {
	verts := []wad.Vertex{{XPos: 0, YPos: 0}, {XPos: 0, YPos: -64},
		{XPos: 64, YPos: 0}}
	lines := []wad.Linedef{
		{StartVertex: 1, EndVertex: 0, BackSdef: 0xFFFF},
		{StartVertex: 2, EndVertex: 0, BackSdef: 0xFFFF},
	}
	lumps := []wad.Lump{
		{Name: name},
		{Name: "THINGS"},
		{Name: "LINEDEFS", Data: encodeLump(t, lines)},
		{Name: "SIDEDEFS"},
		{Name: "VERTEXES", Data: encodeLump(t, verts)},
	}
	if withNodes {
		segs := []nodes.Seg{
			{StartVertex: 1, EndVertex: 0},
			{StartVertex: 2, EndVertex: 0, Linedef: 1},
			{StartVertex: 0, EndVertex: 1, Flip: 1},
		}
		ssectors := []nodes.SubSector{{SegCount: 1, FirstSeg: 0},
			{SegCount: 1, FirstSeg: 1}, {SegCount: 1, FirstSeg: 2}}
		nds := []nodes.Node{
			{Dx: 64, Rbox: [4]int16{0, -64, 0, 64}, Lbox: [4]int16{0, 0, 0, 64},
				RChild: 0x8000, LChild: 0x8001},
			{Dy: 64, Rbox: [4]int16{0, -64, 0, 64}, Lbox: [4]int16{0, -64, 0, 0},
				RChild: 0, LChild: 0x8002},
		}
		lumps = append(lumps,
			wad.Lump{Name: "SEGS", Data: encodeLump(t, segs)},
			wad.Lump{Name: "SSECTORS", Data: encodeLump(t, ssectors)},
			wad.Lump{Name: "NODES", Data: encodeLump(t, nds)},
		)
	}
	return append(lumps, wad.Lump{Name: "SECTORS"})
}

func writeTestWad(t *testing.T, lumps []wad.Lump) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.wad")
	f, err := os.Create(name)
	require.NoError(t, err)
	require.NoError(t, wad.Write(f, wad.PWAD_MAGIC_SIG, lumps))
	require.NoError(t, f.Close())
	return name
}

func testConfig(inputFileName string) *ProgramConfig {
	cfg := DefaultConfig()
	cfg.InputFileName = inputFileName
	return cfg
}
