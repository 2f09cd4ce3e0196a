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

// Package search implements the polymorphic negamax/alpha-beta searcher:
// the move pool, the quiescence and main negamax recursion, and the
// serial iterative-deepening driver. The parallel (YBW) driver lives in
// the sibling pkg/search/parallel package, since it needs its own state
// cloning per worker and cannot reuse this package's single-threaded pool.
package search

// MovePool is a reusable stack of move-list buffers, scoped to one
// recursion: Alloc at entry, Free on every exit path. It exists so the
// serial searcher's hot path does not allocate a new slice per visited
// node. The parallel searcher cannot use a shared pool, since its frames
// cross goroutines; it allocates per call instead (see pkg/search/parallel).
type MovePool[M any] struct {
	free [][]M
}

// Alloc returns an empty move buffer, reused from the pool when possible.
func (p *MovePool[M]) Alloc() []M {
	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free = p.free[:n-1]
		return buf[:0]
	}
	return make([]M, 0, 32)
}

// Free returns buf to the pool for reuse by a later Alloc.
func (p *MovePool[M]) Free(buf []M) {
	p.free = append(p.free, buf)
}
