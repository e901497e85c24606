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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vigilantdoomer/nodesview/nodes"
)

// Level gives access to lumps of a single level, it is what the nodes viewer
// reads nodes from
type Level struct {
	wad    *Wad
	name   string
	marker int
	// directory index of every lump in level, first one wins if there are
	// duplicates
	lumps map[string]int
	order []string
	hexen bool
	udmf  bool
	verts []nodes.Point
	live  int
}

func newLevel(w *Wad, marker int) (*Level, error) {
	l := &Level{
		wad:    w,
		name:   w.dir[marker].LumpName(),
		marker: marker,
		lumps:  make(map[string]int),
	}
	l.udmf = marker+1 < len(w.dir) && w.dir[marker+1].LumpName() == "TEXTMAP"
	for i := marker + 1; i < len(w.dir); i++ {
		name := w.dir[i].LumpName()
		if l.udmf {
			// anything goes between TEXTMAP and ENDMAP. Stop at the next
			// level if ENDMAP is missing
			if IsALevel([]byte(name)) {
				break
			}
		} else if !isLevelLump(name) {
			break
		}
		if _, dup := l.lumps[name]; !dup {
			l.lumps[name] = i
			l.order = append(l.order, name)
		}
		if name == "ENDMAP" {
			break
		}
	}
	_, l.hexen = l.lumps["BEHAVIOR"]
	l.hexen = l.hexen && !l.udmf
	if err := l.loadLiveVertices(); err != nil {
		return nil, err
	}
	return l, nil
}

// loadLiveVertices reads map vertices. Classic nodebuilders append vertices
// they create to VERTEXES, so the vertices of the map itself are those up to
// the last one referenced by a linedef. Maps with ZNODES keep only map
// vertices in VERTEXES
func (l *Level) loadLiveVertices() error {
	l.verts = nil
	l.live = 0
	if l.udmf {
		data, err := l.GetLumpData("TEXTMAP")
		if err != nil {
			return err
		}
		l.verts, err = parseTextmapVertices(data)
		if err != nil {
			return fmt.Errorf("couldn't read TEXTMAP of %s: %w", l.name, err)
		}
		l.live = len(l.verts)
		return nil
	}
	if !l.LumpExists("VERTEXES") {
		return nil
	}
	data, err := l.GetLumpData("VERTEXES")
	if err != nil {
		return err
	}
	raw := make([]Vertex, len(data)/binary.Size(Vertex{}))
	err = binary.Read(bytes.NewReader(data), binary.LittleEndian, raw)
	if err != nil {
		return fmt.Errorf("couldn't read VERTEXES of %s: %w", l.name, err)
	}
	l.verts = make([]nodes.Point, len(raw))
	for i, v := range raw {
		l.verts[i] = nodes.Point{X: float64(v.XPos), Y: float64(v.YPos)}
	}
	l.live = len(l.verts)
	if l.LumpExists("ZNODES") || !l.LumpExists("LINEDEFS") {
		return nil
	}
	maxRef, err := l.maxLinedefVertex()
	if err != nil {
		return err
	}
	if maxRef+1 < l.live {
		l.live = maxRef + 1
	}
	return nil
}

func (l *Level) maxLinedefVertex() (int, error) {
	data, err := l.GetLumpData("LINEDEFS")
	if err != nil {
		return 0, err
	}
	maxRef := -1
	consider := func(a, b uint16) {
		if int(a) > maxRef {
			maxRef = int(a)
		}
		if int(b) > maxRef {
			maxRef = int(b)
		}
	}
	if l.hexen {
		lines := make([]HexenLinedef, len(data)/HEXEN_LINEDEF_SIZE)
		err = binary.Read(bytes.NewReader(data), binary.LittleEndian, lines)
		for _, line := range lines {
			consider(line.StartVertex, line.EndVertex)
		}
	} else {
		lines := make([]Linedef, len(data)/DOOM_LINEDEF_SIZE)
		err = binary.Read(bytes.NewReader(data), binary.LittleEndian, lines)
		for _, line := range lines {
			consider(line.StartVertex, line.EndVertex)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("couldn't read LINEDEFS of %s: %w", l.name, err)
	}
	return maxRef, nil
}

func (l *Level) Name() string {
	return l.name
}

func (l *Level) Wad() *Wad {
	return l.wad
}

// Hexen tells whether level is in Hexen format
func (l *Level) Hexen() bool {
	return l.hexen
}

// LumpNames lists lumps of the level (not including the marker) in
// directory order
// UDMF tells whether level geometry is stored in TEXTMAP
func (l *Level) UDMF() bool {
	return l.udmf
}

func (l *Level) LumpNames() []string {
	return append([]string(nil), l.order...)
}

func (l *Level) LumpExists(name string) bool {
	_, ok := l.lumps[name]
	return ok
}

func (l *Level) GetLumpData(name string) ([]byte, error) {
	idx, ok := l.lumps[name]
	if !ok {
		return nil, fmt.Errorf("level %s has no %s lump", l.name, name)
	}
	return l.wad.ReadLump(idx)
}

func (l *Level) LiveVertexCount() int {
	return l.live
}

func (l *Level) LiveVertexPosition(i int) nodes.Point {
	return l.verts[i]
}

// Coordinates are int16 in Doom format
// MaxCoordinate is the Doom limit, unless UDMF vertices go beyond it
func (l *Level) MaxCoordinate() float64 {
	maxCoord := nodes.DOOM_MAX_COORDINATE
	if !l.udmf {
		return maxCoord
	}
	for _, v := range l.verts {
		maxCoord = math.Max(maxCoord, math.Max(math.Abs(v.X), math.Abs(v.Y))+1)
	}
	return maxCoord
}

// Lumps returns the marker followed by all lumps of the level, ready to be
// written to another wad
func (l *Level) Lumps() ([]Lump, error) {
	marker, err := l.wad.ReadLump(l.marker)
	if err != nil {
		return nil, err
	}
	res := []Lump{{Name: l.name, Data: marker}}
	for _, name := range l.order {
		data, err := l.GetLumpData(name)
		if err != nil {
			return nil, err
		}
		res = append(res, Lump{Name: name, Data: data})
	}
	return res, nil
}

// Reload makes level read its lumps from another wad, which must contain a
// level of the same name. Used after nodes were rebuilt into a new file
func (l *Level) Reload(w *Wad) error {
	nl, err := w.Level(l.name)
	if err != nil {
		return err
	}
	*l = *nl
	return nil
}
