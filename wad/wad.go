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
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotAWad        = errors.New("the file is NOT a wad")
	ErrLevelNotFound  = errors.New("level not found")
	ErrNoLevels       = errors.New("unable to find any valid levels")
	ErrBadLumpEntry   = errors.New("lump runs past the end of file")
	ErrLumpNameLength = errors.New("lump name is longer than 8 characters")
	ErrBadTextmap     = errors.New("malformed TEXTMAP")
)

// Wad is an opened wad file. Lump data is read on demand
type Wad struct {
	r      io.ReaderAt
	size   int64
	header WadHeader
	dir    []LumpEntry
}

// Open reads header and directory of the wad of given size readable from r
func Open(r io.ReaderAt, size int64) (*Wad, error) {
	wh := new(WadHeader)
	err := binary.Read(io.NewSectionReader(r, 0, WAD_HEADER_SIZE),
		binary.LittleEndian, wh)
	if err != nil {
		return nil, fmt.Errorf("couldn't read file header: %w", err)
	}
	if wh.MagicSig != IWAD_MAGIC_SIG && wh.MagicSig != PWAD_MAGIC_SIG {
		return nil, ErrNotAWad
	}
	dirEnd := int64(wh.DirectoryStart) + int64(wh.LumpCount)*LUMP_ENTRY_SIZE
	if dirEnd > size {
		return nil, fmt.Errorf("wad directory (%d lumps at %d byte offset) runs past the end of file: %w",
			wh.LumpCount, wh.DirectoryStart, io.ErrUnexpectedEOF)
	}
	// Read in whole directory at once
	le := make([]LumpEntry, wh.LumpCount)
	err = binary.Read(io.NewSectionReader(r, int64(wh.DirectoryStart),
		dirEnd-int64(wh.DirectoryStart)), binary.LittleEndian, le)
	if err != nil {
		return nil, fmt.Errorf("failed to read lump info from a wad's directory: %w", err)
	}
	return &Wad{r: r, size: size, header: *wh, dir: le}, nil
}

func (w *Wad) IsIWAD() bool {
	return w.header.MagicSig == IWAD_MAGIC_SIG
}

func (w *Wad) LumpCount() int {
	return len(w.dir)
}

// Levels lists level markers in directory order
func (w *Wad) Levels() []string {
	var res []string
	for _, entry := range w.dir {
		// exclude zero byte and all that follows it from string for pattern
		// matching to work correctly
		bname := ByteSliceBeforeTerm(entry.Name[:])
		if IsALevel(bname) {
			res = append(res, string(bname))
		}
	}
	return res
}

// ReadLump returns data of directory entry idx
func (w *Wad) ReadLump(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(w.dir) {
		return nil, fmt.Errorf("lump index %d out of range", idx)
	}
	entry := &w.dir[idx]
	if int64(entry.FilePos)+int64(entry.Size) > w.size {
		return nil, fmt.Errorf("%s (lump number %d): %w", entry.LumpName(), idx,
			ErrBadLumpEntry)
	}
	data := make([]byte, entry.Size)
	if entry.Size == 0 {
		return data, nil
	}
	// ReadAt may return io.EOF along with complete data
	n, err := w.r.ReadAt(data, int64(entry.FilePos))
	if n < len(data) {
		return nil, fmt.Errorf("couldn't read %s (lump number %d): %w",
			entry.LumpName(), idx, err)
	}
	return data, nil
}

// Level finds level by marker name. Empty name picks the first level in the
// wad
func (w *Wad) Level(name string) (*Level, error) {
	for i, entry := range w.dir {
		bname := ByteSliceBeforeTerm(entry.Name[:])
		if !IsALevel(bname) {
			continue
		}
		if name == "" || string(bname) == name {
			return newLevel(w, i)
		}
	}
	if name == "" {
		return nil, ErrNoLevels
	}
	return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, name)
}
