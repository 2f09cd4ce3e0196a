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

	"laptudirm.com/x/ybw/games/connect4"
	"laptudirm.com/x/ybw/games/tictactoe"
)

func TestChooseMoveIsDeterministic(t *testing.T) {
	driver, err := New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	driver.SetMaxDepth(5)

	first, ok := driver.ChooseMove(connect4.New())
	if !ok {
		t.Fatalf("expected a legal move from the starting position")
	}
	firstValue := driver.RootValue()

	second, ok := driver.ChooseMove(connect4.New())
	if !ok {
		t.Fatalf("expected a legal move from the starting position")
	}
	secondValue := driver.RootValue()

	if first != second || firstValue != secondValue {
		t.Fatalf("ChooseMove was not deterministic: (%v,%d) vs (%v,%d)", first, firstValue, second, secondValue)
	}
}

// TestChooseMoveIsAnytime checks the "anytime" property: cutting a search
// off at a shallower depth still returns a usable, legal move rather than
// the zero value.
func TestChooseMoveIsAnytime(t *testing.T) {
	for _, depth := range []int{1, 2, 4} {
		driver, err := New[*tictactoe.Position, tictactoe.Move](tictactoe.Game{}, tictactoe.Heuristic{}, DefaultOptions())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		driver.SetMaxDepth(depth)

		pos := tictactoe.New()
		var legal []tictactoe.Move
		tictactoe.Game{}.GenerateMoves(pos, &legal)

		move, ok := driver.ChooseMove(pos)
		if !ok {
			t.Fatalf("depth %d: expected a legal move", depth)
		}

		found := false
		for _, m := range legal {
			if m == move {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("depth %d: ChooseMove returned %v, not among the root's legal moves %v", depth, move, legal)
		}
	}
}

// TestChooseMoveUnderTimeoutKeepsLastCompletedIteration checks that an
// interrupted deeper iteration doesn't corrupt the result of the last
// iteration that actually finished: with a tiny time budget, ChooseMove
// must still report ok and return one of the root's legal moves.
func TestChooseMoveUnderTimeoutKeepsLastCompletedIteration(t *testing.T) {
	driver, err := New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	driver.SetMaxDepth(100) // deliberately unreachable within the time budget
	driver.SetMaxTime(5 * time.Millisecond)

	move, ok := driver.ChooseMove(connect4.New())
	if !ok {
		t.Fatalf("expected a legal move despite the timeout")
	}

	var legal []connect4.Move
	connect4.Game{}.GenerateMoves(connect4.New(), &legal)
	found := false
	for _, m := range legal {
		if m == move {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("timed-out ChooseMove returned %v, not a legal root move", move)
	}
}

func TestPrincipalVariationStartsWithChosenMove(t *testing.T) {
	driver, err := New[*tictactoe.Position, tictactoe.Move](tictactoe.Game{}, tictactoe.Heuristic{}, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	driver.SetMaxDepth(4)

	move, ok := driver.ChooseMove(tictactoe.New())
	if !ok {
		t.Fatalf("expected a legal move")
	}

	pv := driver.PrincipalVariation()
	if len(pv) == 0 || pv[0] != move {
		t.Fatalf("PrincipalVariation() = %v, want to start with the chosen move %v", pv, move)
	}
}
