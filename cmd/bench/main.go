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

// Command bench is a small benchmarking tool, not a test harness: "search"
// times the serial and parallel drivers against connect4's starting
// position, and "corpus" times a directory scan through internal/pgncorpus.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"laptudirm.com/x/ybw/games/connect4"
	"laptudirm.com/x/ybw/internal/pgncorpus"
	"laptudirm.com/x/ybw/pkg/search"
	"laptudirm.com/x/ybw/pkg/search/parallel"
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
		return fmt.Errorf("usage: bench <search|corpus> [arg]")
	}

	switch args[0] {
	case "search":
		depth := 9
		if len(args) >= 2 {
			d, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid depth %q: %w", args[1], err)
			}
			depth = d
		}
		return benchSearch(depth)
	case "corpus":
		dir := "."
		if len(args) >= 2 {
			dir = args[1]
		}
		return benchCorpus(dir)
	default:
		return fmt.Errorf("%s: command not found", args[0])
	}
}

func benchSearch(depth int) error {
	serial, err := search.New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, search.DefaultOptions())
	if err != nil {
		return err
	}
	serial.SetMaxDepth(depth)

	start := time.Now()
	serial.ChooseMove(connect4.New())
	fmt.Printf("serial:   depth %d in %s\n%s\n\n", depth, time.Since(start).Round(time.Millisecond), serial.Stats())

	ybw, err := parallel.New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, parallel.DefaultOptions())
	if err != nil {
		return err
	}
	ybw.SetMaxDepth(depth)

	start = time.Now()
	ybw.ChooseMove(connect4.New())
	fmt.Printf("parallel: depth %d in %s\n%s\n", depth, time.Since(start).Round(time.Millisecond), ybw.Stats())

	return nil
}

func benchCorpus(dir string) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)

	start := time.Now()
	games, err := pgncorpus.Load(dir, func(path string, n int) {
		_ = bar.Add(1)
	})
	_ = bar.Close()
	if err != nil {
		return err
	}

	var plies int
	for _, g := range games {
		plies += g.Plies
	}

	elapsed := time.Since(start)
	fmt.Printf("\nparsed %d games, %d plies, in %s\n", len(games), plies, elapsed.Round(time.Millisecond))
	return nil
}
