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
	"sync"
	"sync/atomic"

	"laptudirm.com/x/ybw/pkg/game"
)

// shardCount is the number of stripe locks protecting the concurrent
// table's slot ranges. It is fixed rather than tied to GOMAXPROCS so that
// behavior (if not performance) is stable across machines.
const shardCount = 64

// ConcurrentTable is the shared-memory flavor of Table used by the
// parallel (YBW) searcher. It stripes the backing slice under a fixed
// number of mutexes; every Lookup/Check copies an entry out while holding
// its shard's lock, so a successful read always observes the fields of a
// single prior Store, never a torn mix of two.
type ConcurrentTable[M any] struct {
	shards   []shard[M]
	mask     uint64
	slotBits uint
	strategy Strategy
	gen      atomic.Uint32 // generation lives outside the shards so readers need no lock to see it
}

type shard[M any] struct {
	mu    sync.RWMutex
	table []Entry[M]
}

var _ Table[int] = (*ConcurrentTable[int])(nil)

// NewConcurrent creates a concurrent table whose entry count is
// tableByteSize / sizeof(Entry) rounded up to a power of two.
func NewConcurrent[M any](tableByteSize int, strategy Strategy) (*ConcurrentTable[M], error) {
	size := entrySize[M]()
	if tableByteSize < size {
		return nil, fmt.Errorf("tt: table_byte_size %d is smaller than one entry (%d bytes)", tableByteSize, size)
	}

	count := nextPowerOfTwo(tableByteSize / size)
	mask := uint64(count - 1)
	if strategy == TwoTier {
		mask &^= 1
	}

	// Shard on the high bits of the index so that a TwoTier pair, which
	// only ever differs in the lowest bit, always lands in one shard.
	// Under TwoTier every shard must hold at least one whole pair.
	minPerShard := 1
	if strategy == TwoTier {
		minPerShard = 2
	}
	numShards := shardCount
	for numShards > 1 && count/numShards < minPerShard {
		numShards /= 2
	}
	if numShards < 1 {
		numShards = 1
	}
	slotBits := uint(bits.Len(uint(count/numShards - 1)))

	shards := make([]shard[M], numShards)
	perShard := count / numShards
	for i := range shards {
		shards[i].table = make([]Entry[M], perShard)
	}

	return &ConcurrentTable[M]{shards: shards, mask: mask, slotBits: slotBits, strategy: strategy}, nil
}

// locate returns the shard and in-shard index holding hash's slot. Pairs
// used by the TwoTier strategy (index and index+1) always resolve to the
// same shard, since sharding is done on the high bits of the index.
func (t *ConcurrentTable[M]) locate(hash uint64) (*shard[M], int) {
	idx := hash & t.mask
	shardIdx := idx >> t.slotBits
	slot := idx & ((1 << t.slotBits) - 1)
	return &t.shards[shardIdx], int(slot)
}

func (t *ConcurrentTable[M]) Lookup(hash uint64) (Entry[M], bool) {
	s, idx := t.locate(hash)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e := s.table[idx]; e.Hash == hash && e.Flag != NoEntry {
		return e, true
	}
	if t.strategy == TwoTier {
		if e := s.table[idx+1]; e.Hash == hash && e.Flag != NoEntry {
			return e, true
		}
	}
	return Entry[M]{}, false
}

func (t *ConcurrentTable[M]) Store(hash uint64, value game.Evaluation, depth uint8, flag Flag, bestMove M, hasMove bool) {
	gen := uint8(t.gen.Load())
	s, idx := t.locate(hash)
	entry := Entry[M]{
		Hash:       hash,
		Value:      value,
		Depth:      depth,
		Flag:       flag,
		Generation: gen,
		BestMove:   bestMove,
		HasMove:    hasMove,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch t.strategy {
	case Always:
		s.table[idx] = entry
	case DepthPreferred:
		if occupant := &s.table[idx]; occupant.Generation != gen || occupant.Depth <= depth {
			*occupant = entry
		}
	case TwoTier:
		if primary := &s.table[idx]; primary.Generation != gen || primary.Depth <= depth {
			*primary = entry
		} else {
			s.table[idx+1] = entry
		}
	}
}

func (t *ConcurrentTable[M]) AdvanceGeneration() {
	t.gen.Add(1)
}

func (t *ConcurrentTable[M]) Check(hash uint64, depth uint8, goodMove *M, hasGoodMove *bool, alpha, beta *game.Evaluation) (game.Evaluation, bool) {
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

// Update satisfies the Table interface by delegating to ConcurrentUpdate.
func (t *ConcurrentTable[M]) Update(hash uint64, alphaOrig, beta game.Evaluation, depth uint8, best game.Evaluation, bestMove M) {
	t.ConcurrentUpdate(hash, alphaOrig, beta, depth, best, bestMove)
}

// ConcurrentUpdate is the atomic-visibility equivalent of Update: the flag
// derivation and the store happen without any other writer observed to
// interleave on this hash's shard.
func (t *ConcurrentTable[M]) ConcurrentUpdate(hash uint64, alphaOrig, beta game.Evaluation, depth uint8, best game.Evaluation, bestMove M) {
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
