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

package tt

import (
	"testing"

	"laptudirm.com/x/ybw/pkg/game"
)

func newTable(t *testing.T, strategy Strategy, entries int) *SingleTable[int] {
	t.Helper()
	table, err := New[int](entrySize[int]()*entries, strategy)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return table
}

func TestLookupRoundTrip(t *testing.T) {
	table := newTable(t, Always, 8)

	table.Store(0xdead, 42, 5, Exact, 7, true)

	entry, found := table.Lookup(0xdead)
	if !found {
		t.Fatalf("expected entry to be found")
	}
	if entry.Value != 42 || entry.Depth != 5 || entry.Flag != Exact || entry.BestMove != 7 {
		t.Fatalf("round-tripped entry mismatch: %+v", entry)
	}
}

func TestLookupMissOnHashMismatch(t *testing.T) {
	table := newTable(t, Always, 1)
	table.Store(1, 0, 1, Exact, 0, true)

	if _, found := table.Lookup(2); found {
		t.Fatalf("slot collision should not be reported as a hit for a different hash")
	}
}

func TestAlwaysReplace(t *testing.T) {
	table := newTable(t, Always, 1)
	table.Store(1, 10, 9, Exact, 0, true)
	table.Store(1, 20, 1, Exact, 0, true) // shallower depth, Always still overwrites

	entry, _ := table.Lookup(1)
	if entry.Value != 20 || entry.Depth != 1 {
		t.Fatalf("Always strategy did not overwrite: %+v", entry)
	}
}

func TestDepthPreferredKeepsDeeperSameGeneration(t *testing.T) {
	table := newTable(t, DepthPreferred, 1)
	table.Store(1, 10, 9, Exact, 0, true)
	table.Store(1, 20, 1, Exact, 0, true) // shallower: should be rejected

	entry, _ := table.Lookup(1)
	if entry.Value != 10 || entry.Depth != 9 {
		t.Fatalf("DepthPreferred overwrote a deeper same-generation entry: %+v", entry)
	}
}

func TestDepthPreferredOverwritesAcrossGeneration(t *testing.T) {
	table := newTable(t, DepthPreferred, 1)
	table.Store(1, 10, 9, Exact, 0, true)
	table.AdvanceGeneration()
	table.Store(1, 20, 1, Exact, 0, true) // shallower, but a new generation

	entry, _ := table.Lookup(1)
	if entry.Value != 20 || entry.Depth != 1 {
		t.Fatalf("DepthPreferred did not overwrite a stale-generation entry: %+v", entry)
	}
}

func TestTwoTierPairsSlots(t *testing.T) {
	// Two entries give one pair (primary+secondary) under TwoTier.
	table := newTable(t, TwoTier, 2)

	table.Store(0, 10, 9, Exact, 0, true) // fills primary
	table.Store(0, 20, 1, Exact, 0, true) // too shallow for primary, goes to secondary

	entry, found := table.Lookup(0)
	if !found {
		t.Fatalf("expected a hit from either tier")
	}
	// Whichever tier answered, both values must still be recoverable: the
	// primary (depth 9) must not have been evicted by the shallow store.
	if entry.Value != 10 && entry.Value != 20 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	primary := table.table[table.index(0)]
	if primary.Value != 10 || primary.Depth != 9 {
		t.Fatalf("TwoTier primary slot was overwritten by a shallower store: %+v", primary)
	}
}

func TestCheckTightensWindowAndSignalsCutoff(t *testing.T) {
	table := newTable(t, Always, 1)
	table.Store(5, 100, 4, LowerBound, 9, true)

	var goodMove int
	var hasGoodMove bool
	alpha, beta := game.Evaluation(0), game.Evaluation(50)

	value, ok := table.Check(5, 3, &goodMove, &hasGoodMove, &alpha, &beta)
	if !ok {
		t.Fatalf("a lower bound above beta should force an immediate cutoff")
	}
	if value != 100 {
		t.Fatalf("Check returned %d, want 100", value)
	}
	if !hasGoodMove || goodMove != 9 {
		t.Fatalf("Check did not report the stored move for ordering")
	}
}

func TestCheckIgnoresShallowerEntry(t *testing.T) {
	table := newTable(t, Always, 1)
	table.Store(5, 100, 2, Exact, 0, true)

	var goodMove int
	var hasGoodMove bool
	alpha, beta := game.Evaluation(0), game.Evaluation(50)

	_, ok := table.Check(5, 8, &goodMove, &hasGoodMove, &alpha, &beta)
	if ok {
		t.Fatalf("an entry shallower than the requested depth must not short-circuit the search")
	}
	if !hasGoodMove {
		t.Fatalf("move ordering hint should still be reported even for a too-shallow entry")
	}
}

func TestUpdateDerivesFlagFromWindow(t *testing.T) {
	table := newTable(t, Always, 1)

	table.Update(1, 10, 20, 4, 5, 0) // best <= alphaOrig
	if e, _ := table.Lookup(1); e.Flag != UpperBound {
		t.Fatalf("expected UpperBound, got %v", e.Flag)
	}

	table.Update(1, 10, 20, 4, 25, 0) // best >= beta
	if e, _ := table.Lookup(1); e.Flag != LowerBound {
		t.Fatalf("expected LowerBound, got %v", e.Flag)
	}

	table.Update(1, 10, 20, 4, 15, 0) // alphaOrig < best < beta
	if e, _ := table.Lookup(1); e.Flag != Exact {
		t.Fatalf("expected Exact, got %v", e.Flag)
	}
}

func TestNewRejectsUndersizedTable(t *testing.T) {
	if _, err := New[int](1, Always); err == nil {
		t.Fatalf("expected an error for a table smaller than one entry")
	}
}
