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

// -- This file is where the program entry is.
// NodesView loads BSP tree of a Doom level (classic, DeePBSP or Zdoom
// extended nodes), derives convex polygons of all subsectors and answers
// queries about it: which subsector a point is in, what area each side of
// a node covers. Queries come from command line, or over HTTP when serving
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// Configure fills config from YAML file (if one is given) and command line.
// Returns false if program should stop, exitCode tells with which code
func Configure(args []string) (bool, int) {
	if path := configFileArg(args); path != "" {
		if err := config.LoadFile(path); err != nil {
			Log.Error("%s\n", err)
			return false, 1
		}
	}
	// Proceed to parse command line
	if !config.FromCommandLine(args) {
		Log.Printf("\n")
		return false, 1
	}
	// If input file name was not passed, print help
	if config.InputFileName == "" {
		PrintHelp()
		return false, 0
	}
	return true, 0
}

func run(args []string) int {
	timeStart := time.Now()
	PrintBanner()
	if ok, code := Configure(args); !ok {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	snap, err := EngageLevel(ctx, config)
	if err != nil {
		Log.Error("%s\n", err)
		return 1
	}
	var sb strings.Builder
	WriteReport(&sb, snap, config)
	Log.Printf("%s", sb.String())
	Log.Printf("Total time: %s\n", time.Since(timeStart))

	if config.ServeAddr != "" {
		qs := NewQueryServer(config, snap, func(ctx context.Context) (*Snapshot, error) {
			return EngageLevel(ctx, config)
		})
		errc := make(chan error, 1)
		go func() {
			errc <- qs.Start()
		}()
		select {
		case err := <-errc:
			if err != nil {
				Log.Error("HTTP server error: %v\n", err)
				return 1
			}
		case <-ctx.Done():
			qs.Stop()
		}
	}
	Log.Sync()
	return 0
}
