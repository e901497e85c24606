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
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vigilantdoomer/nodesview/wad"
)

// Controls lifetime of the input wad and of temporary wads created to rebuild
// nodes - ensures they are properly closed when a level is done loading,
// regardless of success and failure, and that temporary files are deleted
type FileControl struct {
	inputFileName string
	opened        []*os.File
	tmpNames      []string
}

// OpenInputWad opens the input file and reads wad directory from it
func (fc *FileControl) OpenInputWad(inputFileName string) (*wad.Wad, error) {
	fc.inputFileName = inputFileName
	return fc.OpenWad(inputFileName)
}

// OpenWad opens a wad that stays open until Shutdown
func (fc *FileControl) OpenWad(fileName string) (*wad.Wad, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	fc.opened = append(fc.opened, f)
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return wad.Open(f, st.Size())
}

// CreateTemp creates a temporary file in dir (system temp directory if
// empty), uniquely named after the input file. The file is deleted on
// Shutdown
func (fc *FileControl) CreateTemp(dir string, suffix string) (*os.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	base := filepath.Base(fc.inputFileName)
	name := filepath.Join(dir, base+"."+uuid.NewString()+suffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	fc.opened = append(fc.opened, f)
	fc.tmpNames = append(fc.tmpNames, name)
	return f, nil
}

// Ensures we close all files when level is loaded or failed to load.
// Temporary files are getting deleted at this moment
func (fc *FileControl) Shutdown() {
	for _, f := range fc.opened {
		// temporary files may have been closed already
		f.Close()
	}
	fc.opened = nil
	for _, name := range fc.tmpNames {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			Log.Error("Couldn't delete temporary file '%s': %s\n", name,
				err.Error())
		}
	}
	fc.tmpNames = nil
}
