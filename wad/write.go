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

package wad

import (
	"encoding/binary"
	"fmt"
	"io"
)

type Lump struct {
	Name string
	Data []byte
}

// Write creates a wad of lumps: header, then lump data in order, then the
// directory
func Write(w io.Writer, magic uint32, lumps []Lump) error {
	le := make([]LumpEntry, len(lumps))
	curPos := uint32(WAD_HEADER_SIZE)
	for i, lump := range lumps {
		if len(lump.Name) > 8 {
			return fmt.Errorf("%w: %q", ErrLumpNameLength, lump.Name)
		}
		copy(le[i].Name[:], lump.Name)
		le[i].FilePos = curPos
		le[i].Size = uint32(len(lump.Data))
		curPos += le[i].Size
	}
	wh := WadHeader{
		MagicSig:       magic,
		LumpCount:      uint32(len(lumps)),
		DirectoryStart: curPos,
	}
	if err := binary.Write(w, binary.LittleEndian, &wh); err != nil {
		return err
	}
	for _, lump := range lumps {
		if _, err := w.Write(lump.Data); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, le)
}
