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
	"fmt"
	"math/bits"
	"unsafe"

	"laptudirm.com/x/ybw/pkg/game"
)

// Strategy is a replacement policy deciding whether an incoming store
// overwrites the slot it maps to.
type Strategy uint8

const (
	// Always overwrites a slot unconditionally.
	Always Strategy = iota
	// DepthPreferred overwrites iff the occupant belongs to an older
	// generation, or its stored depth is no deeper than the incoming one.
	DepthPreferred
	// TwoTier pairs slots: a depth-preferred primary and an
	// always-replace secondary.
	TwoTier
)

// Table is the contract shared by the single-owner and concurrent
// transposition tables.
type Table[M any] interface {
	// Lookup returns a copy of the entry whose stored hash equals hash.
	Lookup(hash uint64) (Entry[M], bool)

	// Store inserts according to the table's replacement strategy,
	// stamping the entry with the table's current generation.
	Store(hash uint64, value game.Evaluation, depth uint8, flag Flag, bestMove M, hasMove bool)

	// AdvanceGeneration wrapping-increments the generation counter.
	AdvanceGeneration()

	// Check is a combined probe+tighten: it looks up hash, copies its
	// best move into goodMove (for move ordering, whether or not the
	// entry is otherwise usable), and if the entry's depth is at least
	// depth, uses the entry's flag: an Exact entry's value is returned
	// with ok=true at once, a bound tightens [*alpha, *beta]. If the
	// window collapses (alpha >= beta) it returns the value that forced
	// the collapse and ok=true; the caller should return that value
	// immediately. Otherwise it returns ok=false and the caller should
	// continue searching with the (possibly tightened) window.
	Check(hash uint64, depth uint8, goodMove *M, hasGoodMove *bool, alpha, beta *game.Evaluation) (game.Evaluation, bool)

	// Update chooses a flag from (alphaOrig, beta, best) and stores.
	Update(hash uint64, alphaOrig, beta game.Evaluation, depth uint8, best game.Evaluation, bestMove M)
}

// entrySize is the size in bytes of one Entry[M] for move type M.
func entrySize[M any]() int {
	var e Entry[M]
	return int(unsafe.Sizeof(e))
}

// SingleTable is the single-owner transposition table used by the serial
// searcher: no internal synchronization, owned exclusively by one
// Negamaxer/IterativeSearch pair.
type SingleTable[M any] struct {
	table    []Entry[M]
	mask     uint64
	strategy Strategy
	gen      uint8
}

var _ Table[int] = (*SingleTable[int])(nil)

// New creates a single-owner table whose entry count is
// tableByteSize / sizeof(Entry) rounded up to a power of two. It returns
// an error if tableByteSize is too small to hold even one entry.
func New[M any](tableByteSize int, strategy Strategy) (*SingleTable[M], error) {
	size := entrySize[M]()
	if tableByteSize < size {
		return nil, fmt.Errorf("tt: table_byte_size %d is smaller than one entry (%d bytes)", tableByteSize, size)
	}

	count := nextPowerOfTwo(tableByteSize / size)
	mask := uint64(count - 1)
	if strategy == TwoTier {
		mask &^= 1 // zero the pair bit so paired slots share an index
	}

	return &SingleTable[M]{
		table:    make([]Entry[M], count),
		mask:     mask,
		strategy: strategy,
	}, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func (t *SingleTable[M]) index(hash uint64) uint64 {
	return hash & t.mask
}

func (t *SingleTable[M]) Lookup(hash uint64) (Entry[M], bool) {
	idx := t.index(hash)
	if e := t.table[idx]; e.Hash == hash && e.Flag != NoEntry {
		return e, true
	}
	if t.strategy == TwoTier {
		if e := t.table[idx+1]; e.Hash == hash && e.Flag != NoEntry {
			return e, true
		}
	}
	return Entry[M]{}, false
}

func (t *SingleTable[M]) Store(hash uint64, value game.Evaluation, depth uint8, flag Flag, bestMove M, hasMove bool) {
	idx := t.index(hash)
	entry := Entry[M]{
		Hash:       hash,
		Value:      value,
		Depth:      depth,
		Flag:       flag,
		Generation: t.gen,
		BestMove:   bestMove,
		HasMove:    hasMove,
	}

	switch t.strategy {
	case Always:
		t.table[idx] = entry
	case DepthPreferred:
		if occupant := &t.table[idx]; occupant.Generation != t.gen || occupant.Depth <= depth {
			*occupant = entry
		}
	case TwoTier:
		if primary := &t.table[idx]; primary.Generation != t.gen || primary.Depth <= depth {
			*primary = entry
		} else {
			t.table[idx+1] = entry
		}
	}
}

func (t *SingleTable[M]) AdvanceGeneration() {
	t.gen++
}

func (t *SingleTable[M]) Check(hash uint64, depth uint8, goodMove *M, hasGoodMove *bool, alpha, beta *game.Evaluation) (game.Evaluation, bool) {
	entry, found := t.Lookup(hash)
	if !found {
		return 0, false
	}

	if entry.HasMove {
		*goodMove = entry.BestMove
		*hasGoodMove = true
	}

	if entry.Depth < depth {
		return 0, false
	}

	switch entry.Flag {
	case Exact:
		return entry.Value, true
	case LowerBound:
		if entry.Value > *alpha {
			*alpha = entry.Value
		}
	case UpperBound:
		if entry.Value < *beta {
			*beta = entry.Value
		}
	}

	if *alpha >= *beta {
		return entry.Value, true
	}
	return 0, false
}

func (t *SingleTable[M]) Update(hash uint64, alphaOrig, beta game.Evaluation, depth uint8, best game.Evaluation, bestMove M) {
	var flag Flag
	switch {
	case best <= alphaOrig:
		flag = UpperBound
	case best >= beta:
		flag = LowerBound
	default:
		flag = Exact
	}
	t.Store(hash, best, depth, flag, bestMove, true)
}
