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

// Package connect4 is a 7x6 Connect Four implementation of pkg/game's
// State/Move/Game/Evaluator contract. Next to games/tictactoe's trivial
// branching factor, it gives the search core a wider, deeper reference
// game with a genuine notion of a "noisy" move, exercising quiescence,
// aspiration windows, and the parallel YBW driver's fan-out under
// something closer to a real workload.
package connect4

import (
	"laptudirm.com/x/ybw/internal/util"
	"laptudirm.com/x/ybw/pkg/game"
)

const (
	Cols = 7
	Rows = 6
)

// Mark identifies a cell's occupant, or the side to move.
type Mark uint8

const (
	Empty Mark = iota
	Red
	Yellow
)

func (m Mark) other() Mark {
	if m == Red {
		return Yellow
	}
	return Red
}

// Position is a Connect Four board plus the side to move, satisfying
// game.State[*Position]. Board is stored column-major (index col*Rows+row,
// row 0 at the bottom) so that Heights[col] is always the next free row.
type Position struct {
	Board   [Cols * Rows]Mark
	Heights [Cols]int8
	Side    Mark
	Hash    uint64
}

// New returns the empty starting position with Red to move.
func New() *Position {
	return &Position{Side: Red, Hash: zobristSide[Red]}
}

func (p *Position) ZobristHash() uint64 { return p.Hash }

func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

var _ game.State[*Position] = (*Position)(nil)

func (p *Position) cell(col, row int8) Mark {
	if col < 0 || col >= Cols || row < 0 || row >= Rows {
		return Empty
	}
	return p.Board[int(col)*Rows+int(row)]
}

// Move drops a disc into Col.
type Move struct {
	Col int8
}

func (m Move) Apply(p *Position) {
	row := p.Heights[m.Col]
	mark := p.Side
	idx := int(m.Col)*Rows + int(row)

	p.Board[idx] = mark
	p.Hash ^= zobristCell[idx][mark]
	p.Heights[m.Col]++

	p.Hash ^= zobristSide[p.Side]
	p.Side = p.Side.other()
	p.Hash ^= zobristSide[p.Side]
}

func (m Move) Undo(p *Position) {
	p.Hash ^= zobristSide[p.Side]
	p.Side = p.Side.other()
	p.Hash ^= zobristSide[p.Side]

	p.Heights[m.Col]--
	idx := int(m.Col)*Rows + int(p.Heights[m.Col])
	p.Hash ^= zobristCell[idx][p.Side]
	p.Board[idx] = Empty
}

// Move satisfies game.Move[*Position]; the game.Game[*Position, Move]
// assertion below checks that, since an interface embedding comparable
// cannot be used as a variable's type.

var fourDirs = [4][2]int8{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

func (p *Position) fourInARow(mark Mark) bool {
	for col := int8(0); col < Cols; col++ {
		for row := int8(0); row < Rows; row++ {
			if p.cell(col, row) != mark {
				continue
			}
			for _, d := range fourDirs {
				count := 1
				for k := int8(1); k < 4; k++ {
					if p.cell(col+d[0]*k, row+d[1]*k) == mark {
						count++
					} else {
						break
					}
				}
				if count >= 4 {
					return true
				}
			}
		}
	}
	return false
}

func (p *Position) full() bool {
	for _, h := range p.Heights {
		if h < Rows {
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
	for col := int8(0); col < Cols; col++ {
		if p.Heights[col] < Rows {
			*out = append(*out, Move{Col: col})
		}
	}
}

// GenerateNoisyMoves returns the subset of legal moves that either win
// immediately for the side to move, or deny the opponent an immediate win
// in that same column: the "forcing" moves whose omission at the horizon
// would otherwise distort the static evaluation.
func (Game) GenerateNoisyMoves(p *Position, out *[]Move) {
	opponent := p.Side.other()
	for col := int8(0); col < Cols; col++ {
		if p.Heights[col] >= Rows {
			continue
		}
		m := Move{Col: col}

		m.Apply(p)
		wins := p.fourInARow(p.Side.other())
		m.Undo(p)
		if wins {
			*out = append(*out, m)
			continue
		}

		row := p.Heights[col]
		idx := int(col)*Rows + int(row)
		p.Board[idx] = opponent
		opponentWins := p.fourInARow(opponent)
		p.Board[idx] = Empty
		if opponentWins {
			*out = append(*out, m)
		}
	}
}

func (Game) Winner(p *Position) (game.Winner, bool) {
	if p.fourInARow(p.Side.other()) {
		return result{game.WorstEval}, true
	}
	if p.full() {
		return result{0}, true
	}
	return result{}, false
}

var _ game.Game[*Position, Move] = Game{}

// Heuristic scores a non-terminal position by summing, over every
// still-open four-cell window, a weight that grows sharply with how many
// of the side to move's discs already occupy it, minus the same sum for
// the opponent.
type Heuristic struct{}

func windowScore(p *Position, mark Mark) int32 {
	var score int32
	for col := int8(0); col < Cols; col++ {
		for row := int8(0); row < Rows; row++ {
			for _, d := range fourDirs {
				endCol := col + d[0]*3
				endRow := row + d[1]*3
				if endCol < 0 || endCol >= Cols || endRow < 0 || endRow >= Rows {
					continue
				}

				var count, empty int
				for k := int8(0); k < 4; k++ {
					switch p.cell(col+d[0]*k, row+d[1]*k) {
					case mark:
						count++
					case Empty:
						empty++
					}
				}
				if count+empty != 4 {
					continue // window is blocked by the opponent
				}
				switch count {
				case 1:
					score++
				case 2:
					score += 5
				case 3:
					score += 50
				}
			}
		}
	}
	return score
}

func (Heuristic) Evaluate(p *Position) game.Evaluation {
	mover := p.Side
	return game.Evaluation(windowScore(p, mover) - windowScore(p, mover.other()))
}

var _ game.Evaluator[*Position] = Heuristic{}

var (
	zobristCell [Cols * Rows][3]uint64
	zobristSide [3]uint64
)

func init() {
	rng := util.New(0x636f6e6e65637434)
	for cell := range zobristCell {
		for mark := range zobristCell[cell] {
			zobristCell[cell][mark] = rng.Uint64()
		}
	}
	for mark := range zobristSide {
		zobristSide[mark] = rng.Uint64()
	}
}
