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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vigilantdoomer/nodesview/nodes"
)

const VERSION = "0.1"

/*
-m= Level to view, e.g. -m=MAP01 (default: first level in the wad)

-x Allow Zdoom extended nodes (ZNODES lump, XNOD in NODES). Default: disabled

-r Rebuild nodes with external nodebuilder before viewing them

-p=x,y Locate subsector containing point (x, y). May be repeated

-s=N Print polygon of subsector N. May be repeated

-n=N Print regions of both sides of node N and its split chain. May be
	repeated

-c=N Half-extent of the square all regions start from (default: 32767)

-v Add verbosity to text output. Use multiple times for increased verbosity.

--nodebuilder <path> External nodebuilder used for -r, or when the level
	has no nodes
--serve <addr> Serve queries over HTTP on addr after loading, e.g. :8080
--config <file.yaml> Read options from YAML file first, command line takes
	priority
*/

// Placeholders in NodebuilderArgs
const (
	NODEBUILDER_IN  = "{in}"
	NODEBUILDER_OUT = "{out}"
)

type ProgramConfig struct {
	InputFileName   string        `yaml:"input"`
	LevelName       string        `yaml:"level"`
	ExtendedNodes   bool          `yaml:"extended_nodes"`
	ForceRebuild    bool          `yaml:"force_rebuild"`
	Nodebuilder     string        `yaml:"nodebuilder"`
	NodebuilderArgs []string      `yaml:"nodebuilder_args"`
	MaxCoordinate   float64       `yaml:"max_coordinate"`
	VerbosityLevel  int           `yaml:"verbosity"`
	ServeAddr       string        `yaml:"serve"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	// Queries to run after loading, command line only
	Points     []nodes.Point `yaml:"-"`
	Subsectors []int         `yaml:"-"`
	Nodes      []int         `yaml:"-"`
	ConfigFile string        `yaml:"-"`
}

var config *ProgramConfig

func DefaultConfig() *ProgramConfig {
	return &ProgramConfig{
		LevelName:       "",
		ExtendedNodes:   false,
		ForceRebuild:    false,
		Nodebuilder:     "",
		NodebuilderArgs: []string{NODEBUILDER_IN, "-o", NODEBUILDER_OUT},
		MaxCoordinate:   nodes.DOOM_MAX_COORDINATE,
		VerbosityLevel:  0,
		ReadTimeout:     time.Second * 15,
		WriteTimeout:    time.Second * 15,
		IdleTimeout:     time.Second * 60,
	}
}

func init() {
	// Initialize with defaults
	config = DefaultConfig()
}

// LoadFile overlays options found in YAML file on top of the current ones
func (c *ProgramConfig) LoadFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("couldn't read config file %s: %w", fileName, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("couldn't parse config file %s: %w", fileName, err)
	}
	c.ConfigFile = fileName
	return nil
}

func (c *ProgramConfig) NodesOptions() nodes.Options {
	return nodes.Options{
		ExtendedNodes: c.ExtendedNodes,
		ForceRebuild:  c.ForceRebuild,
		MaxCoordinate: c.MaxCoordinate,
		Log:           Log,
	}
}

func PrintBanner() {
	Log.Printf("NodesView ver %s\n", VERSION)
	Log.Printf("Copyright (c)   2025 VigilantDoomer\n")
	Log.Printf("Views BSP trees built by nodebuilders, distributed under the terms of\n")
	Log.Printf(" GNU General Public License v2.\n")
	Log.Printf("\n")
}

func PrintHelp() {
	Log.Printf("Usage: nodesview {-options} filename.wad\n")
	Log.Printf("\n")
	Log.Printf("-x+ turn on option -x- turn off option")
	Log.Printf("\n")
	Log.Printf("-m= Level to view, e.g. -m=MAP01 (default: first level in the wad)\n")
	Log.Printf("\n")
	Log.Printf("-x Allow Zdoom extended nodes (ZNODES lump, XNOD in NODES). Default: disabled\n")
	Log.Printf("	Nodebuilders may reorder map vertices when building extended nodes,\n")
	Log.Printf("	so they are only trusted when vertex counts match.\n")
	Log.Printf("\n")
	Log.Printf("-r Rebuild nodes with external nodebuilder before viewing them\n")
	Log.Printf("\n")
	Log.Printf("-p=x,y Locate subsector containing point (x, y). May be repeated\n")
	Log.Printf("-s=N Print polygon of subsector N. May be repeated\n")
	Log.Printf("-n=N Print regions of both sides of node N and its split chain. May be repeated\n")
	Log.Printf("-c=N Half-extent of the square all regions start from (default: %d)\n",
		int(nodes.DOOM_MAX_COORDINATE))
	Log.Printf("\n")
	Log.Printf("-v Add verbosity to text output. Use multiple times for increased verbosity.\n")
	Log.Printf("\n")
	Log.Printf("--nodebuilder <path> External nodebuilder used for -r, or when the level has no nodes\n")
	Log.Printf("	Runs as: <path> %s -o %s\n", NODEBUILDER_IN, NODEBUILDER_OUT)
	Log.Printf("--serve <addr> Serve queries over HTTP on addr after loading, e.g. :8080\n")
	Log.Printf("--config <file.yaml> Read options from YAML file first, command line takes priority\n")
}
