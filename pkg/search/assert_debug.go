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

//go:build debug

package search

import "laptudirm.com/x/ybw/pkg/game"

// checkReversible is a debug-only assertion that m.Apply followed by
// m.Undo restores s's Zobrist hash, i.e. that the Move contract's
// reversibility requirement actually holds for this Game implementation.
// It doubles the apply/undo cost of every visited node, which is why it
// only compiles into a "debug"-tagged build.
func checkReversible[S game.State[S], M game.Move[S]](s S, m M) {
	before := s.ZobristHash()
	m.Apply(s)
	m.Undo(s)
	if s.ZobristHash() != before {
		panic("search: move is not reversible: Apply then Undo did not restore the zobrist hash")
	}
}
