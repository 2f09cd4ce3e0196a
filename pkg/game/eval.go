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

package game

// Evaluation is a signed score for a position, from the perspective of
// the side to move. Positive favors the side to move.
type Evaluation int32

const (
	// BestEval and WorstEval are symmetric sentinel magnitudes denoting
	// winning/losing terminal values. They sit strictly inside the
	// representable range of Evaluation so that negation is always
	// well-defined on every producible value.
	BestEval  Evaluation = 1_000_000_000
	WorstEval Evaluation = -BestEval
)

// Clamp saturates v into [WorstEval, BestEval].
func Clamp(v Evaluation) Evaluation {
	switch {
	case v > BestEval:
		return BestEval
	case v < WorstEval:
		return WorstEval
	default:
		return v
	}
}

// Unclamp is the identity function; it exists so that call sites which
// intentionally skip clamping (root_value()) document that choice.
func Unclamp(v Evaluation) Evaluation {
	return v
}

// SaturatingAdd returns a+b, saturating into [WorstEval, BestEval] instead
// of overflowing Evaluation's underlying int32.
func SaturatingAdd(a, b Evaluation) Evaluation {
	sum := int64(a) + int64(b)
	switch {
	case sum > int64(BestEval):
		return BestEval
	case sum < int64(WorstEval):
		return WorstEval
	default:
		return Evaluation(sum)
	}
}

// SaturatingSub returns a-b, saturating into [WorstEval, BestEval].
func SaturatingSub(a, b Evaluation) Evaluation {
	return SaturatingAdd(a, -b)
}
