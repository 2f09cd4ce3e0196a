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

package search

import (
	"time"

	"laptudirm.com/x/ybw/internal/util"
	"laptudirm.com/x/ybw/pkg/game"
	"laptudirm.com/x/ybw/pkg/search/tt"
)

// Strategy is the interface a caller uses to drive a search to completion
// and read back its result, satisfied by both IterativeSearch and
// pkg/search/parallel's YBW.
type Strategy[S game.State[S], M game.Move[S]] interface {
	// ChooseMove searches from s until either the configured depth or
	// time budget is exhausted, and returns the best move found. ok is
	// false if the position is already decided or has no legal moves, or
	// if the time budget runs out before the first iteration completes.
	ChooseMove(s S) (M, bool)

	// PrincipalVariation returns the line of best moves from the last
	// ChooseMove call, deepest-complete-iteration quality.
	PrincipalVariation() []M

	// RootValue returns the root's evaluation from the last completed
	// iteration of the last ChooseMove call.
	RootValue() game.Evaluation

	// Stats renders a human-readable summary of the last ChooseMove
	// call: nodes explored per iteration, effective branching factor and
	// throughput.
	Stats() string
}

// Report describes one completed iteration of iterative deepening, handed
// to an IterativeSearch's OnIteration callback if set.
type Report[M any] struct {
	Depth   uint8
	Value   game.Evaluation
	Nodes   uint64
	PV      []M
	Elapsed time.Duration
}

// IterativeSearch is the serial iterative-deepening driver: it repeatedly
// calls the Negamaxer at increasing depths until the configured depth or
// time limit is reached. When aspiration windows are enabled, each
// iteration runs one narrow-window probe and then always a full-window
// search; the window is never widened and retried.
type IterativeSearch[S game.State[S], M game.Move[S]] struct {
	negamaxer *Negamaxer[S, M]
	opts      Options

	maxDepth int
	maxTime  time.Duration

	// OnIteration, if set, is called after every completed iteration
	// with that iteration's Report.
	OnIteration func(Report[M])

	prevValue     game.Evaluation
	actualDepth   uint8
	nodesExplored []uint64
	pv            []M
	wallTime      time.Duration
}

// New builds an IterativeSearch over g and eval, allocating its own
// transposition table per opts.
func New[S game.State[S], M game.Move[S]](g game.Game[S, M], eval game.Evaluator[S], opts Options) (*IterativeSearch[S, M], error) {
	table, err := tt.New[M](opts.TableByteSize, opts.ReplacementStrategy)
	if err != nil {
		return nil, err
	}

	return &IterativeSearch[S, M]{
		negamaxer: &Negamaxer[S, M]{
			Game:               g,
			Eval:               eval,
			Table:              table,
			MaxQuiescenceDepth: opts.MaxQuiescenceDepth,
			NullWindowSearch:   opts.NullWindowSearch,
		},
		opts: opts,
	}, nil
}

// SetMaxDepth bounds the deepest iteration ChooseMove will start.
func (it *IterativeSearch[S, M]) SetMaxDepth(depth int) {
	it.maxDepth = depth
}

// SetMaxTime bounds the wall-clock budget of a ChooseMove call. d <= 0
// means no time limit (depth-bounded mode only).
func (it *IterativeSearch[S, M]) SetMaxTime(d time.Duration) {
	it.maxTime = d
}

// ChooseMove implements Strategy.
func (it *IterativeSearch[S, M]) ChooseMove(s S) (M, bool) {
	it.negamaxer.Table.AdvanceGeneration()
	it.negamaxer.Timeout = util.After(it.maxTime)

	it.actualDepth = 0
	it.nodesExplored = it.nodesExplored[:0]
	it.pv = nil

	start := time.Now()

	clone := s.Clone()
	rootHash := clone.ZobristHash()

	var bestMove M
	var hasBestMove bool

	step := it.opts.stepIncrement()
	depth := uint8(it.maxDepth) % step

	for int(depth) <= it.maxDepth {
		if it.opts.HasAspirationWindow && depth >= 1 {
			it.negamaxer.AspirationSearch(clone, depth+1, it.prevValue, it.opts.AspirationWindow)
		}

		if _, ok := it.negamaxer.Negamax(clone, depth+1, game.WorstEval, game.BestEval); !ok {
			break
		}

		entry, found := it.negamaxer.Table.Lookup(rootHash)
		if !found {
			// Negamax stores nothing for a root that is already decided
			// or has no legal moves; any other miss means a Game/Move
			// implementation violated the ZobristHash/Apply/Undo contract
			// somewhere in the tree.
			if _, over := it.negamaxer.Game.Winner(clone); over {
				break
			}
			var rootMoves []M
			it.negamaxer.Game.GenerateMoves(clone, &rootMoves)
			if len(rootMoves) == 0 {
				break
			}
			panic("search: root position missing from transposition table after a completed iteration")
		}
		if !entry.HasMove {
			// No legal moves from the root at all.
			break
		}

		bestMove, hasBestMove = entry.BestMove, true
		it.prevValue = entry.Value
		it.actualDepth = depth
		it.nodesExplored = append(it.nodesExplored, it.negamaxer.NodesExplored)
		it.negamaxer.NodesExplored = 0

		depth += step
		it.pv = PopulatePV[S, M](it.negamaxer.Table, clone, int(depth)+1)

		if it.OnIteration != nil {
			it.OnIteration(Report[M]{
				Depth:   it.actualDepth,
				Value:   it.prevValue,
				Nodes:   it.nodesExplored[len(it.nodesExplored)-1],
				PV:      it.pv,
				Elapsed: time.Since(start),
			})
		}
	}

	it.wallTime = time.Since(start)
	return bestMove, hasBestMove
}

// PrincipalVariation implements Strategy.
func (it *IterativeSearch[S, M]) PrincipalVariation() []M {
	return it.pv
}

// RootValue implements Strategy.
func (it *IterativeSearch[S, M]) RootValue() game.Evaluation {
	return game.Unclamp(it.prevValue)
}

// Stats implements Strategy.
func (it *IterativeSearch[S, M]) Stats() string {
	return StatsSummary{
		NodesExplored: it.nodesExplored,
		ActualDepth:   it.actualDepth,
		WallTime:      it.wallTime,
	}.String()
}
