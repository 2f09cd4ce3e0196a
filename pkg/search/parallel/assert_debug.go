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

package parallel

import "laptudirm.com/x/ybw/pkg/game"

// checkReversible mirrors pkg/search's debug-only reversibility
// assertion; see that package's assert_debug.go for rationale.
func checkReversible[S game.State[S], M game.Move[S]](s S, m M) {
	before := s.ZobristHash()
	m.Apply(s)
	m.Undo(s)
	if s.ZobristHash() != before {
		panic("parallel: move is not reversible: Apply then Undo did not restore the zobrist hash")
	}
}
