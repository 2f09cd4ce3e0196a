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
	"laptudirm.com/x/ybw/internal/util"
	"laptudirm.com/x/ybw/pkg/game"
	"laptudirm.com/x/ybw/pkg/search/tt"
)

// Negamaxer is the recursive search engine: negamax with alpha-beta
// pruning, transposition table cutoffs and move ordering, principal
// variation search, and a quiescence extension at the horizon. It is
// generic over a game's State and Move types and holds its collaborators
// (Game, Evaluator, Table) as ordinary interface-typed fields, so callers
// can swap in a different table or evaluator without re-instantiating the
// type parameters.
type Negamaxer[S game.State[S], M game.Move[S]] struct {
	Game  game.Game[S, M]
	Eval  game.Evaluator[S]
	Table tt.Table[M]

	MaxQuiescenceDepth uint8
	NullWindowSearch   bool

	Timeout *util.Timeout
	pool    MovePool[M]

	// NodesExplored counts calls to Negamax since the last reset; the
	// driver resets it once per completed iteration.
	NodesExplored uint64
}

// noisyNegamax is negamax restricted to noisy moves, used to let the
// evaluation settle past forcing sequences (the horizon effect). It never
// touches the transposition table: its window/depth semantics differ from
// the main search's, so cached entries from one would be meaningless to
// the other. The recursion itself lives in Quiesce, shared with the
// parallel driver.
func (n *Negamaxer[S, M]) noisyNegamax(s S, depth uint8, alpha, beta game.Evaluation) (game.Evaluation, bool) {
	return Quiesce(n.Game, n.Eval, n.Timeout, &n.pool, s, depth, alpha, beta)
}

// Negamax recursively computes the negamax value of s to the given depth
// within [alpha, beta]. It returns ok=false if the search was cancelled by
// the timeout latch partway through; the caller must treat a false ok as
// "no usable result", not as a score of zero.
func (n *Negamaxer[S, M]) Negamax(s S, depth uint8, alpha, beta game.Evaluation) (game.Evaluation, bool) {
	if n.Timeout.Fired() {
		return 0, false
	}

	n.NodesExplored++

	if depth == 0 {
		return n.noisyNegamax(s, n.MaxQuiescenceDepth, alpha, beta)
	}
	if winner, ok := n.Game.Winner(s); ok {
		return winner.Evaluate(), true
	}

	alphaOrig := alpha
	hash := s.ZobristHash()

	var goodMove M
	var hasGoodMove bool
	if value, ok := n.Table.Check(hash, depth, &goodMove, &hasGoodMove, &alpha, &beta); ok {
		return value, true
	}

	moves := n.pool.Alloc()
	n.Game.GenerateMoves(s, &moves)
	if len(moves) == 0 {
		n.pool.Free(moves)
		return game.WorstEval, true
	}

	if hasGoodMove {
		for i, m := range moves {
			if m == goodMove {
				moves[0], moves[i] = moves[i], moves[0]
				break
			}
		}
	}

	best := game.WorstEval
	bestMove := moves[0]
	nullWindow := false

	for _, m := range moves {
		checkReversible(s, m)
		m.Apply(s)

		var value game.Evaluation
		if nullWindow {
			probe, probeOK := n.Negamax(s, depth-1, -alpha-1, -alpha)
			if !probeOK {
				m.Undo(s)
				n.pool.Free(moves)
				return 0, false
			}
			probe = -probe
			if probe > alpha && probe < beta {
				full, fullOK := n.Negamax(s, depth-1, -beta, -probe)
				if !fullOK {
					m.Undo(s)
					n.pool.Free(moves)
					return 0, false
				}
				value = -full
			} else {
				value = probe
			}
		} else {
			child, childOK := n.Negamax(s, depth-1, -beta, -alpha)
			if !childOK {
				m.Undo(s)
				n.pool.Free(moves)
				return 0, false
			}
			value = -child
		}

		m.Undo(s)

		if value > best {
			best = value
			bestMove = m
		}
		if value > alpha {
			alpha = value
			nullWindow = n.NullWindowSearch
		}
		if alpha >= beta {
			break
		}
	}

	n.Table.Update(hash, alphaOrig, beta, depth, best, bestMove)
	n.pool.Free(moves)
	return game.Clamp(best), true
}

// AspirationSearch tries to resolve depth's value inside a narrow window
// around target; it relies entirely on the transposition table to
// communicate its result back to the caller, who always follows up with a
// full-window Negamax call. Shallow depths (< 2) are skipped: there is no
// prior value worth trusting yet, so a narrow window would just cost an
// extra re-search.
func (n *Negamaxer[S, M]) AspirationSearch(s S, depth uint8, target, window game.Evaluation) {
	if depth < 2 {
		return
	}
	alpha := game.SaturatingSub(target, window)
	if alpha < game.WorstEval {
		alpha = game.WorstEval
	}
	beta := game.SaturatingAdd(target, window)
	n.Negamax(s, depth, alpha, beta)
}
