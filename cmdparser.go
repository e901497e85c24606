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
	"strconv"
	"strings"

	"github.com/vigilantdoomer/nodesview/nodes"
)

// Double hyphen modifiers, each takes a value from the next argument
const (
	ARG_NODEBUILDER = "--nodebuilder"
	ARG_SERVE       = "--serve"
	ARG_CONFIG      = "--config"
)

// Inspired by from zokumbsp's parser
func (c *ProgramConfig) FromCommandLine(args []string) bool {
	files := 0
	skip := false
	for argIdx, arg := range args {
		if len(arg) < 1 {
			continue
		}
		if skip {
			skip = false
			continue
		}

		if arg[0] != '-' {
			files++
			if files > 1 {
				Log.Error("This program doesn't support specifying more than one input file - aborting.\n")
				return false
			}
			c.InputFileName = arg
			continue
		}

		if len(arg) < 2 {
			continue
		}
		switch arg[1] {
		case 'm':
			{
				rest := arg[2:]
				if len(rest) < 2 || rest[0] != '=' {
					Log.Error("Syntax error: expected -m=<level name>, got '%s' - aborting.\n", arg)
					return false
				}
				c.LevelName = strings.ToUpper(rest[1:])
			}
		case 'x':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.ExtendedNodes = enabled
				if len(rest) > 0 {
					Log.Error("Syntax error: -x parameter is followed by garbage; expected -x, -x+ or -x-, no other variants allowed.\n")
				}
			}
		case 'r':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.ForceRebuild = enabled
				if len(rest) > 0 {
					Log.Error("Syntax error: -r parameter is followed by garbage; expected -r, -r+ or -r-, no other variants allowed.\n")
				}
			}
		case 'p':
			{
				p, ok := parsePoint(arg[2:])
				if !ok {
					Log.Error("Syntax error: expected -p=x,y, got '%s' - aborting.\n", arg)
					return false
				}
				c.Points = append(c.Points, p)
			}
		case 's', 'n':
			{
				idx, ok := readIndex(arg[2:])
				if !ok {
					Log.Error("Syntax error: expected %s=<number>, got '%s' - aborting.\n",
						arg[:2], arg)
					return false
				}
				if arg[1] == 's' {
					c.Subsectors = append(c.Subsectors, idx)
				} else {
					c.Nodes = append(c.Nodes, idx)
				}
			}
		case 'c':
			{
				v, err := strconv.ParseFloat(strings.TrimPrefix(arg[2:], "="), 64)
				if !strings.HasPrefix(arg[2:], "=") || err != nil || v <= 0 {
					Log.Error("Syntax error: expected -c=<positive number>, got '%s' - aborting.\n", arg)
					return false
				}
				c.MaxCoordinate = v
			}
		case 'v':
			{
				// "count" type: -v, -vv, -vvv, etc.
				vs := 0
				for i := 1; i < len(arg); i++ {
					if arg[i] == 'v' {
						vs++
					} else {
						break
					}
				}
				c.VerbosityLevel += vs
			}
		case '-':
			{
				// parameter starts with double hyphen, e.g. --something
				var target *string
				switch arg {
				case ARG_NODEBUILDER:
					target = &c.Nodebuilder
				case ARG_SERVE:
					target = &c.ServeAddr
				case ARG_CONFIG:
					// already read before the command line, see configFileArg
					target = new(string)
				default:
					Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
					return false
				}
				if argIdx+1 >= len(args) || args[argIdx+1] == "" {
					Log.Error("Modifier '%s' was present without a value following it - aborting.\n",
						arg)
					return false
				}
				*target = args[argIdx+1]
				skip = true
			}
		default:
			{
				Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
				return false
			}
		}
	}
	return true
}

// configFileArg finds the config file name, which must be known before the
// rest of the command line is parsed
func configFileArg(args []string) string {
	for i, arg := range args {
		if arg == ARG_CONFIG && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func isEnabled(arg []byte) (bool, []byte) {
	if len(arg) == 0 {
		return true, arg
	}
	if arg[0] == '+' {
		return true, arg[1:]
	} else if arg[0] == '-' {
		return false, arg[1:]
	} else {
		return true, arg
	}
}

// =<numeric_value_without_sign> and nothing after it
func readIndex(arg string) (int, bool) {
	if len(arg) < 2 || arg[0] != '=' {
		return 0, false
	}
	t, v, rest := readNumericOnly([]byte(arg[1:]))
	return v, t && len(rest) == 0
}

func readNumericOnly(arg []byte) (bool, int, []byte) {
	if len(arg) == 0 {
		return false, 0, arg
	}
	l := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if '0' <= c && c <= '9' {
			l++
		} else {
			break
		}
	}
	if l > 0 {
		v, err := strconv.Atoi(string(arg[:l]))
		if err != nil {
			Log.Error("value '%s' was too big to interpret as int.\n",
				string(arg[:l]))
			return false, 0, arg[l:]
		}
		return true, v, arg[l:]
	}
	return false, 0, arg
}

// =x,y where both are (possibly negative, fractional) numbers
func parsePoint(arg string) (nodes.Point, bool) {
	if len(arg) < 2 || arg[0] != '=' {
		return nodes.Point{}, false
	}
	parts := strings.Split(arg[1:], ",")
	if len(parts) != 2 {
		return nodes.Point{}, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return nodes.Point{}, false
	}
	return nodes.Point{X: x, Y: y}, true
}
