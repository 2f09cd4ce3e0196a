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
	"laptudirm.com/x/ybw/pkg/game"
	"laptudirm.com/x/ybw/pkg/search/tt"
)

// PopulatePV reconstructs the principal variation from s by repeatedly
// following best-move links through table, applying each move as it goes
// and undoing all of them again before returning, so s is left exactly as
// it was found. It stops after maxLen moves or as soon as a position has
// no table entry. On a ConcurrentTable this is inherently best-effort: it
// holds no lock across the individual lookups, so a concurrent writer may
// make the reconstructed line inconsistent with any single point in time.
func PopulatePV[S game.State[S], M game.Move[S]](table tt.Table[M], s S, maxLen int) []M {
	var pv []M
	for len(pv) < maxLen {
		entry, found := table.Lookup(s.ZobristHash())
		if !found || !entry.HasMove {
			break
		}
		pv = append(pv, entry.BestMove)
		entry.BestMove.Apply(s)
	}

	for i := len(pv) - 1; i >= 0; i-- {
		pv[i].Undo(s)
	}

	return pv
}
