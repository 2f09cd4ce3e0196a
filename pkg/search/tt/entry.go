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

// Package tt implements the transposition table shared by the serial and
// parallel search drivers: a fixed-capacity mapping from a position hash
// to a cached search result, with a replacement policy and a rolling
// generation counter.
package tt

import "laptudirm.com/x/ybw/pkg/game"

// Flag classifies what kind of bound an Entry's Value represents.
type Flag uint8

const (
	// NoEntry marks an empty slot; it is never stored deliberately, only
	// ever the zero value of a fresh table.
	NoEntry Flag = iota
	Exact
	LowerBound
	UpperBound
)

func (f Flag) String() string {
	switch f {
	case Exact:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "none"
	}
}

// Entry is a fixed-size transposition table record. M is copied, never
// referenced, so Entry values returned by Lookup/Check are safe to use
// after the table has moved on.
type Entry[M any] struct {
	Hash       uint64
	Value      game.Evaluation
	Depth      uint8
	Flag       Flag
	Generation uint8

	// BestMove is the move that produced Value or caused the cutoff.
	// HasMove distinguishes "no move recorded" from the zero value of M,
	// since Go has no generic Option type.
	BestMove M
	HasMove  bool
}
