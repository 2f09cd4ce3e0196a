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

// Package pgncorpus scans directories of real PGN game archives, the same
// way the teacher's tuner datagen tool does. Nothing in this module plays
// chess, so only each game's bookkeeping (result, ply count) is kept; it
// exists purely to give cmd/bench a real-world, non-synthetic ingestion
// workload to benchmark alongside the connect4 search benchmark.
package pgncorpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/notnil/chess"
)

// Game is one parsed PGN game's bookkeeping.
type Game struct {
	Result string
	Plies  int
}

// Load walks dir for .pgn files and parses every game found in each one.
// onFile, if non-nil, is called once per .pgn file after it has been
// fully scanned, with the number of games it contained.
func Load(dir string, onFile func(path string, games int)) ([]Game, error) {
	var out []Game

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".pgn") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		scanner := chess.NewScanner(f)

		count := 0
		for scanner.Scan() {
			g := scanner.Next()
			out = append(out, Game{
				Result: g.GetTagPair("Result").Value,
				Plies:  len(g.Moves()),
			})
			count++
		}

		if onFile != nil {
			onFile(path, count)
		}
		return nil
	})

	return out, err
}
