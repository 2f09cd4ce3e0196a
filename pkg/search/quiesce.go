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
)

// Quiesce runs the quiescence (noisy-moves-only) extension shared by the
// serial Negamaxer and the parallel YBW driver. It never touches a
// transposition table. pool may be nil, in which case every call
// allocates its own move buffer instead of reusing one; the parallel
// driver, whose frames cross goroutines, always passes nil.
func Quiesce[S game.State[S], M game.Move[S]](g game.Game[S, M], eval game.Evaluator[S], timeout *util.Timeout, pool *MovePool[M], s S, depth uint8, alpha, beta game.Evaluation) (game.Evaluation, bool) {
	if timeout.Fired() {
		return 0, false
	}

	if winner, ok := g.Winner(s); ok {
		return winner.Evaluate(), true
	}
	if depth == 0 {
		return eval.Evaluate(s), true
	}

	var moves []M
	if pool != nil {
		moves = pool.Alloc()
	}
	g.GenerateNoisyMoves(s, &moves)
	if len(moves) == 0 {
		if pool != nil {
			pool.Free(moves)
		}
		return eval.Evaluate(s), true
	}

	best := game.WorstEval
	for _, m := range moves {
		m.Apply(s)
		value, ok := Quiesce(g, eval, timeout, pool, s, depth-1, -beta, -alpha)
		m.Undo(s)
		if !ok {
			if pool != nil {
				pool.Free(moves)
			}
			return 0, false
		}
		value = -value

		if value > best {
			best = value
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}

	if pool != nil {
		pool.Free(moves)
	}
	return best, true
}
