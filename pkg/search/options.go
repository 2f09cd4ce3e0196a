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

// Options configures an IterativeSearch. The zero value is not generally
// usable: call DefaultOptions and override fields from there.
type Options struct {
	// TableByteSize bounds the transposition table's backing allocation.
	TableByteSize int
	// ReplacementStrategy picks the table's replacement policy.
	ReplacementStrategy tt.Strategy

	// NullWindowSearch enables principal variation search: after the
	// first move at a node, later siblings are probed with a null
	// window and only re-searched on a fail-high.
	NullWindowSearch bool

	// HasAspirationWindow enables aspiration search: each iteration
	// that searches depth 2 or deeper first probes a narrow window
	// around the previous iteration's value before running a
	// full-window search.
	HasAspirationWindow bool
	AspirationWindow    game.Evaluation

	// StepIncrement is how much the searched depth advances between
	// iterations. 0 is treated as 1.
	StepIncrement uint8

	// MaxQuiescenceDepth bounds how far the noisy-move extension at the
	// horizon is allowed to recurse.
	MaxQuiescenceDepth uint8
}

// DefaultOptions returns reasonable defaults: a 1MB table, two-tier
// replacement, PVS enabled, aspiration windows off, and quiescence
// search disabled.
func DefaultOptions() Options {
	return Options{
		TableByteSize:       1 << 20,
		ReplacementStrategy: tt.TwoTier,
		NullWindowSearch:    true,
		HasAspirationWindow: false,
		AspirationWindow:    0,
		StepIncrement:       1,
		MaxQuiescenceDepth:  0,
	}
}

func (o Options) stepIncrement() uint8 {
	if o.StepIncrement == 0 {
		return 1
	}
	return o.StepIncrement
}
