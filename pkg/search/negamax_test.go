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
	"testing"
	"time"

	"laptudirm.com/x/ybw/games/tictactoe"
	"laptudirm.com/x/ybw/internal/util"
	"laptudirm.com/x/ybw/pkg/game"
	"laptudirm.com/x/ybw/pkg/search/tt"
)

func newNegamaxer(t *testing.T, nullWindow bool) *Negamaxer[*tictactoe.Position, tictactoe.Move] {
	t.Helper()
	table, err := tt.New[tictactoe.Move](1<<16, tt.TwoTier)
	if err != nil {
		t.Fatalf("tt.New: %v", err)
	}
	return &Negamaxer[*tictactoe.Position, tictactoe.Move]{
		Game:               tictactoe.Game{},
		Eval:               tictactoe.Heuristic{},
		Table:              table,
		MaxQuiescenceDepth: 4,
		NullWindowSearch:   nullWindow,
		Timeout:            util.NewTimeout(),
	}
}

// bruteForce is a plain minimax reference with no pruning, no table, and
// no quiescence, used to check the optimized Negamax for soundness. It is
// exhaustive, which tic-tac-toe's nine-ply tree comfortably allows.
func bruteForce(g tictactoe.Game, s *tictactoe.Position, depth int) game.Evaluation {
	if winner, ok := g.Winner(s); ok {
		return winner.Evaluate()
	}
	if depth == 0 {
		return tictactoe.Heuristic{}.Evaluate(s)
	}

	var moves []tictactoe.Move
	g.GenerateMoves(s, &moves)
	if len(moves) == 0 {
		return game.WorstEval
	}

	best := game.WorstEval
	for _, m := range moves {
		m.Apply(s)
		value := -bruteForce(g, s, depth-1)
		m.Undo(s)
		if value > best {
			best = value
		}
	}
	return best
}

func TestNegamaxMatchesBruteForceExhaustive(t *testing.T) {
	for _, nullWindow := range []bool{false, true} {
		n := newNegamaxer(t, nullWindow)
		pos := tictactoe.New()

		const depth = 9 // tic-tac-toe's whole game tree
		got, ok := n.Negamax(pos, depth, game.WorstEval, game.BestEval)
		if !ok {
			t.Fatalf("nullWindow=%v: search did not complete", nullWindow)
		}

		want := game.Clamp(bruteForce(tictactoe.Game{}, tictactoe.New(), depth))
		if got != want {
			t.Fatalf("nullWindow=%v: Negamax = %d, brute force = %d", nullWindow, got, want)
		}
	}
}

func TestNegamaxFindsImmediateWin(t *testing.T) {
	n := newNegamaxer(t, true)
	pos := tictactoe.New()
	// X has two in a row on the top rank and a free third cell: X to move
	// wins immediately by taking cell 2.
	for _, cell := range []int8{0, 3, 1, 4} {
		(tictactoe.Move{Cell: cell}).Apply(pos)
	}
	if pos.Side != tictactoe.X {
		t.Fatalf("test setup error: expected X to move, got side %v", pos.Side)
	}

	value, ok := n.Negamax(pos, 5, game.WorstEval, game.BestEval)
	if !ok {
		t.Fatalf("search did not complete")
	}
	if value != game.BestEval {
		t.Fatalf("expected a clamped winning score of %d, got %d", game.BestEval, value)
	}
}

func TestNegamaxCenterOpeningIsDraw(t *testing.T) {
	n := newNegamaxer(t, true)
	pos := tictactoe.New()
	(tictactoe.Move{Cell: 4}).Apply(pos) // X takes the center

	value, ok := n.Negamax(pos, 8, game.WorstEval, game.BestEval)
	if !ok {
		t.Fatalf("search did not complete")
	}
	// Perfect play from either side after a center opening is a draw.
	if value != 0 {
		t.Fatalf("expected a drawn value of 0 under perfect play, got %d", value)
	}
}

func TestNegamaxRespectsTimeout(t *testing.T) {
	n := newNegamaxer(t, true)
	n.Timeout = util.After(time.Nanosecond)
	time.Sleep(5 * time.Millisecond) // let the latch's goroutine fire
	pos := tictactoe.New()

	if _, ok := n.Negamax(pos, 9, game.WorstEval, game.BestEval); ok {
		t.Fatalf("expected ok=false once the timeout latch has fired")
	}
}

func TestClampSaturatesEvaluations(t *testing.T) {
	if got := game.Clamp(game.BestEval + 500); got != game.BestEval {
		t.Fatalf("Clamp did not saturate above BestEval: %d", got)
	}
	if got := game.Clamp(game.WorstEval - 500); got != game.WorstEval {
		t.Fatalf("Clamp did not saturate below WorstEval: %d", got)
	}
}
