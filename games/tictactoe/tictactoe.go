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

// Package tictactoe is a minimal 3x3 tic-tac-toe implementation of
// pkg/game's State/Move/Game/Evaluator contract. It exists to exercise and
// test the generic search core end-to-end against a game small enough for
// an exhaustive brute-force reference, the same role the tic_tac_toe
// fixture plays in the original minimax-rs test suite this engine is
// modeled on.
package tictactoe

import (
	"laptudirm.com/x/ybw/internal/util"
	"laptudirm.com/x/ybw/pkg/game"
)

// Mark identifies a cell's occupant, or the side to move.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) other() Mark {
	if m == X {
		return O
	}
	return X
}

// Position is a tic-tac-toe board plus the side to move, satisfying
// game.State[*Position]. Hash is maintained incrementally by Move.Apply
// and Move.Undo rather than recomputed from scratch.
type Position struct {
	Board [9]Mark
	Side  Mark
	Hash  uint64
}

// New returns the empty starting position with X to move.
func New() *Position {
	return &Position{Side: X, Hash: zobristSide[X]}
}

func (p *Position) ZobristHash() uint64 { return p.Hash }

func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

var _ game.State[*Position] = (*Position)(nil)

// Move places the side to move's mark on Cell.
type Move struct {
	Cell int8
}

func (m Move) Apply(p *Position) {
	mark := p.Side
	p.Board[m.Cell] = mark
	p.Hash ^= zobristCellTable[m.Cell][mark]
	p.Hash ^= zobristSide[p.Side]
	p.Side = p.Side.other()
	p.Hash ^= zobristSide[p.Side]
}

func (m Move) Undo(p *Position) {
	p.Hash ^= zobristSide[p.Side]
	p.Side = p.Side.other()
	p.Hash ^= zobristSide[p.Side]
	p.Hash ^= zobristCellTable[m.Cell][p.Side]
	p.Board[m.Cell] = Empty
}

// Move satisfies game.Move[*Position]; the game.Game[*Position, Move]
// assertion below checks that, since an interface embedding comparable
// cannot be used as a variable's type.

var lines = [8][3]int8{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func (p *Position) lineWinner() Mark {
	for _, line := range lines {
		a, b, c := p.Board[line[0]], p.Board[line[1]], p.Board[line[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}
	return Empty
}

func (p *Position) full() bool {
	for _, c := range p.Board {
		if c == Empty {
			return false
		}
	}
	return true
}

// result implements game.Winner with a fixed evaluation.
type result struct{ eval game.Evaluation }

func (r result) Evaluate() game.Evaluation { return r.eval }

// Game implements game.Game[*Position, Move].
type Game struct{}

func (Game) GenerateMoves(p *Position, out *[]Move) {
	for cell, mark := range p.Board {
		if mark == Empty {
			*out = append(*out, Move{Cell: int8(cell)})
		}
	}
}

// GenerateNoisyMoves always leaves out empty: tic-tac-toe's search tree is
// shallow enough (at most nine plies) to be walked exhaustively, so there
// is no horizon effect for quiescence to mitigate.
func (Game) GenerateNoisyMoves(p *Position, out *[]Move) {}

func (Game) Winner(p *Position) (game.Winner, bool) {
	if p.lineWinner() != Empty {
		// Whoever just moved completed a line; p.Side, to move next,
		// has lost.
		return result{game.WorstEval}, true
	}
	if p.full() {
		return result{0}, true
	}
	return result{}, false
}

var _ game.Game[*Position, Move] = Game{}

// Heuristic scores a non-terminal position by counting lines still open
// for the side to move minus lines open for the opponent, weighting a
// two-in-a-row far above a lone mark.
type Heuristic struct{}

func (Heuristic) Evaluate(p *Position) game.Evaluation {
	mover := p.Side
	opponent := mover.other()

	var score int32
	for _, line := range lines {
		score += lineScore(p, line, mover) - lineScore(p, line, opponent)
	}
	return game.Evaluation(score)
}

var _ game.Evaluator[*Position] = Heuristic{}

func lineScore(p *Position, line [3]int8, mark Mark) int32 {
	var count int
	for _, cell := range line {
		switch p.Board[cell] {
		case mark:
			count++
		case Empty:
		default:
			return 0 // blocked by the opponent
		}
	}
	switch count {
	case 1:
		return 1
	case 2:
		return 10
	default:
		return 0
	}
}

func init() {
	rng := util.New(0x7469637461637465)
	for cell := range zobristCellTable {
		for mark := range zobristCellTable[cell] {
			zobristCellTable[cell][mark] = rng.Uint64()
		}
	}
	for mark := range zobristSide {
		zobristSide[mark] = rng.Uint64()
	}
}

var zobristCellTable [9][3]uint64
var zobristSide [3]uint64
