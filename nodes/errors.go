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

package nodes

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated           = errors.New("truncated data")
	ErrUnsupportedFormat   = errors.New("unsupported nodes format")
	ErrVertexCountMismatch = errors.New("vertex count mismatch")
	ErrEmptyStructure      = errors.New("empty structure")
	ErrMissingLump         = errors.New("missing lump")
	ErrInvalidReference    = errors.New("invalid reference in nodes tree")
	ErrRebuildFailed       = errors.New("nodes rebuild failed")
)

// TruncatedDataError is returned when a lump ends before the structure it is
// supposed to contain
type TruncatedDataError struct {
	Lump string
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("the %s lump is too short", e.Lump)
}

func (e *TruncatedDataError) Unwrap() error {
	return ErrTruncated
}

type UnsupportedFormatError struct {
	Magic  string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%q node format is not supported: %s", e.Magic,
			e.Reason)
	}
	return fmt.Sprintf("%q node format is not supported", e.Magic)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

type VertexCountMismatchError struct {
	Expected int // live map vertices
	Got      int // as declared by ZNODES
}

func (e *VertexCountMismatchError) Error() string {
	return fmt.Sprintf("vertices count in ZNODES lump (%d) doesn't match with map's vertices count (%d)",
		e.Got, e.Expected)
}

func (e *VertexCountMismatchError) Unwrap() error {
	return ErrVertexCountMismatch
}

// EmptyStructureError: a valid map has at least one of each nodes, segs,
// subsectors and vertices
type EmptyStructureError struct {
	Which string
}

func (e *EmptyStructureError) Error() string {
	return fmt.Sprintf("the map has no %s, please rebuild the nodes", e.Which)
}

func (e *EmptyStructureError) Unwrap() error {
	return ErrEmptyStructure
}

type MissingLumpError struct {
	Lump string
}

func (e *MissingLumpError) Error() string {
	return fmt.Sprintf("unable to find the %s lump, it may be that the nodes could not be built correctly",
		e.Lump)
}

func (e *MissingLumpError) Unwrap() error {
	return ErrMissingLump
}

// InvalidReferenceError reports a node whose child can't be part of a strict
// binary tree rooted at the last node
type InvalidReferenceError struct {
	Which string // "node" or "subsector"
	Index int    // node holding the reference
	Ref   int    // referenced index
}

func (e *InvalidReferenceError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s %d is not reachable from the root node", e.Which,
			e.Ref)
	}
	return fmt.Sprintf("node %d has invalid %s reference %d", e.Index, e.Which,
		e.Ref)
}

func (e *InvalidReferenceError) Unwrap() error {
	return ErrInvalidReference
}
