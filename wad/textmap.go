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
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/vigilantdoomer/nodesview/nodes"
)

// UDMF keeps map geometry as text. Only vertex blocks are of interest: ZNODES
// of a UDMF map reuse TEXTMAP vertices in the order they are declared

type textmapParser struct {
	s   scanner.Scanner
	err error
}

// parseTextmapVertices returns positions of all vertex blocks in TEXTMAP
func parseTextmapVertices(data []byte) ([]nodes.Point, error) {
	p := &textmapParser{}
	p.s.Init(bytes.NewReader(data))
	p.s.Filename = "TEXTMAP"
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(msg)
	}

	var verts []nodes.Point
	for tok := p.s.Scan(); tok != scanner.EOF && p.err == nil; tok = p.s.Scan() {
		if tok != scanner.Ident {
			p.fail("identifier expected")
			break
		}
		// identifiers are case insensitive
		name := strings.ToLower(p.s.TokenText())
		switch p.s.Scan() {
		case '=':
			p.value() // global assignment, such as namespace
		case '{':
			fields := p.block()
			if p.err != nil || name != "vertex" {
				continue
			}
			v, ok := vertexFrom(fields)
			if !ok {
				p.fail(fmt.Sprintf("vertex %d lacks valid x and y", len(verts)))
				continue
			}
			verts = append(verts, v)
		default:
			p.fail("'=' or '{' expected")
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return verts, nil
}

func (p *textmapParser) fail(msg string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s: %s", ErrBadTextmap, p.s.Position, msg)
	}
}

// value reads the right side of an assignment including the semicolon
func (p *textmapParser) value() string {
	tok := p.s.Scan()
	sign := ""
	if tok == '-' || tok == '+' {
		sign = p.s.TokenText()
		tok = p.s.Scan()
	}
	switch tok {
	case scanner.Int, scanner.Float, scanner.String, scanner.Ident:
	default:
		p.fail("value expected")
		return ""
	}
	val := sign + p.s.TokenText()
	if p.s.Scan() != ';' {
		p.fail("';' expected")
	}
	return val
}

// block reads assignments up to the closing brace. Keys are lowercased
func (p *textmapParser) block() map[string]string {
	fields := make(map[string]string)
	for p.err == nil {
		switch tok := p.s.Scan(); tok {
		case '}':
			return fields
		case scanner.Ident:
			key := strings.ToLower(p.s.TokenText())
			if p.s.Scan() != '=' {
				p.fail("'=' expected")
				return nil
			}
			fields[key] = p.value()
		default:
			p.fail("'}' expected")
		}
	}
	return nil
}

func vertexFrom(fields map[string]string) (nodes.Point, bool) {
	x, okX := parseTextmapNumber(fields["x"])
	y, okY := parseTextmapNumber(fields["y"])
	return nodes.Point{X: x, Y: y}, okX && okY
}

func parseTextmapNumber(s string) (float64, bool) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	// hexadecimal and octal integers
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), true
	}
	return 0, false
}
