// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ybw is a small demonstration front end for the search engine: it
// is not a protocol implementation (no UCI), just enough of a CLI to watch
// the drivers run against the connect4 reference game.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/colorstring"
	"github.com/mitchellh/go-wordwrap"
	"github.com/schollz/progressbar/v3"

	"laptudirm.com/x/ybw/games/connect4"
	"laptudirm.com/x/ybw/pkg/search"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("usage: ybw <search|watch|export-chart> [depth]")
	}

	depth := 8
	if len(args) >= 2 {
		d, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid depth %q: %w", args[1], err)
		}
		depth = d
	}

	switch args[0] {
	case "search":
		return runSearch(depth)
	case "watch":
		return runWatch(depth)
	case "export-chart":
		out := "ybw-stats.html"
		if len(args) >= 3 {
			out = args[2]
		}
		return runExportChart(depth, out)
	default:
		return fmt.Errorf("%s: command not found", args[0])
	}
}

func runSearch(depth int) error {
	driver, err := search.New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, search.DefaultOptions())
	if err != nil {
		return err
	}
	driver.SetMaxDepth(depth)

	bar := progressbar.NewOptions(depth,
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetItsString("ply"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)
	driver.OnIteration = func(r search.Report[connect4.Move]) {
		_ = bar.Set(int(r.Depth))
	}

	move, ok := driver.ChooseMove(connect4.New())
	_ = bar.Close()

	if !ok {
		fmt.Println("no legal move from the starting position")
		return nil
	}

	fmt.Printf("bestmove: drop in column %d (eval %d)\n\n", move.Col, driver.RootValue())
	fmt.Println(colorstring.Color(wordwrap.WrapString("[green]"+driver.Stats()+"[reset]", 72)))
	return nil
}
