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

package tictactoe

import "testing"

func play(p *Position, cells ...int8) {
	for _, c := range cells {
		(Move{Cell: c}).Apply(p)
	}
}

func TestWinnerImmediateWin(t *testing.T) {
	p := New()
	// X: 0, 1; O: 3, 4; X completes the top row with 2.
	play(p, 0, 3, 1, 4, 2)

	w, ok := (Game{}).Winner(p)
	if !ok {
		t.Fatalf("expected a terminal position")
	}
	if w.Evaluate() != -1_000_000_000 {
		t.Fatalf("to-move side (O) should be the loser, got eval %d", w.Evaluate())
	}
}

func TestWinnerDraw(t *testing.T) {
	p := New()
	// A canonical drawn tic-tac-toe game.
	play(p, 0, 1, 2, 4, 3, 5, 7, 6, 8)

	w, ok := (Game{}).Winner(p)
	if !ok {
		t.Fatalf("expected a terminal position")
	}
	if w.Evaluate() != 0 {
		t.Fatalf("expected a drawn evaluation of 0, got %d", w.Evaluate())
	}
}

func TestWinnerNonTerminal(t *testing.T) {
	p := New()
	play(p, 0)

	if _, ok := (Game{}).Winner(p); ok {
		t.Fatalf("single move should not be terminal")
	}
}

func TestApplyUndoRestoresHash(t *testing.T) {
	p := New()
	before := p.ZobristHash()

	m := Move{Cell: 4}
	m.Apply(p)
	if p.ZobristHash() == before {
		t.Fatalf("hash did not change after Apply")
	}

	m.Undo(p)
	if p.ZobristHash() != before {
		t.Fatalf("hash after Undo = %x, want %x", p.ZobristHash(), before)
	}
	if p.Board[4] != Empty {
		t.Fatalf("board cell not cleared by Undo")
	}
	if p.Side != X {
		t.Fatalf("side to move not restored by Undo")
	}
}

func TestZobristDistinguishesCellAndSide(t *testing.T) {
	a := New()
	play(a, 0, 1)

	b := New()
	play(b, 1, 0)

	if a.ZobristHash() == b.ZobristHash() {
		t.Fatalf("distinct move orders reaching distinct positions must not collide")
	}
}

func TestGenerateMovesCountsEmptyCells(t *testing.T) {
	p := New()
	play(p, 0, 1)

	var moves []Move
	(Game{}).GenerateMoves(p, &moves)
	if len(moves) != 7 {
		t.Fatalf("expected 7 legal moves, got %d", len(moves))
	}
}
