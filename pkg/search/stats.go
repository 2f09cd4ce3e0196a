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
	"fmt"
	"math"
	"strings"
	"time"
)

// StatsSummary is the plain-text data behind a Strategy's Stats() method,
// shared by the serial and parallel drivers. It intentionally returns
// unstyled text: colorizing and wrapping it for a terminal is a CLI
// concern, not a library one (see cmd/ybw).
type StatsSummary struct {
	// NodesExplored holds the node count of each completed iteration,
	// shallowest first.
	NodesExplored []uint64
	ActualDepth   uint8
	WallTime      time.Duration
}

func (s StatsSummary) String() string {
	var total uint64
	for _, n := range s.NodesExplored {
		total += n
	}

	var ebf float64
	if n := len(s.NodesExplored); n > 0 && s.ActualDepth > 0 {
		last := s.NodesExplored[n-1]
		ebf = math.Pow(float64(last), 1/float64(s.ActualDepth))
	}

	seconds := s.WallTime.Seconds()
	var throughput float64
	if seconds > 0 {
		throughput = float64(total) / seconds
	}

	var lines []string
	lines = append(lines, fmt.Sprintf(
		"explored %d nodes to depth %d in %s (%.0f nodes/sec, EBF %.2f)",
		total, s.ActualDepth, s.WallTime.Round(time.Millisecond), throughput, ebf,
	))
	for i, n := range s.NodesExplored {
		lines = append(lines, fmt.Sprintf("  depth %-3d %10d nodes", i+1, n))
	}

	return strings.Join(lines, "\n")
}
