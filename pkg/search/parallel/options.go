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

// Package parallel implements the Young Brothers Wait parallel search
// variant: the first child at a node is searched serially to establish an
// alpha bound, then the remaining siblings fan out across a bounded
// worker pool, sharing that bound and racing to a beta cutoff.
package parallel

import (
	"runtime"

	"laptudirm.com/x/ybw/pkg/game"
	"laptudirm.com/x/ybw/pkg/search/tt"
)

// Options configures a YBW driver.
type Options struct {
	TableByteSize       int
	ReplacementStrategy tt.Strategy

	NullWindowSearch    bool
	HasAspirationWindow bool
	AspirationWindow    game.Evaluation

	StepIncrement      uint8
	MaxQuiescenceDepth uint8

	// SerialCutoffDepth is the remaining-depth threshold at or below
	// which a node's children are searched serially instead of fanned
	// out: below this, a goroutine's setup cost outweighs the work it
	// would do.
	SerialCutoffDepth uint8

	// MaxWorkers bounds how many siblings search concurrently across
	// the whole tree, not just at one node: it sizes a single shared
	// semaphore that a fanned-out child must acquire to get its own
	// goroutine (a child that finds no free slot runs on the calling
	// goroutine), so a deep tree cannot oversubscribe the machine no
	// matter how wide any one node fans out.
	MaxWorkers int
}

// DefaultOptions returns a 32MB table, two-tier replacement, PVS
// enabled, aspiration windows off, quiescence search disabled, a
// serial cutoff of one ply, and GOMAXPROCS workers.
func DefaultOptions() Options {
	return Options{
		TableByteSize:       32 << 20,
		ReplacementStrategy: tt.TwoTier,
		NullWindowSearch:    true,
		HasAspirationWindow: false,
		AspirationWindow:    0,
		StepIncrement:       1,
		MaxQuiescenceDepth:  0,
		SerialCutoffDepth:   1,
		MaxWorkers:          runtime.GOMAXPROCS(0),
	}
}

func (o Options) stepIncrement() uint8 {
	if o.StepIncrement == 0 {
		return 1
	}
	return o.StepIncrement
}

func (o Options) maxWorkers() int {
	if o.MaxWorkers < 1 {
		return 1
	}
	return o.MaxWorkers
}
