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

package parallel

import (
	"sync"
	"sync/atomic"
	"time"

	"laptudirm.com/x/ybw/internal/util"
	"laptudirm.com/x/ybw/pkg/game"
	"laptudirm.com/x/ybw/pkg/search"
	"laptudirm.com/x/ybw/pkg/search/tt"
)

// YBW is the Young Brothers Wait parallel driver: the first child of every
// node is searched serially to establish a bound, after which the
// remaining siblings either continue serially (near the horizon, where
// goroutine setup would cost more than it saves) or fan out across a
// single shared worker pool sized by Options.MaxWorkers, racing each
// other to a beta cutoff against a shared atomic alpha.
type YBW[S game.State[S], M game.Move[S]] struct {
	Game game.Game[S, M]
	Eval game.Evaluator[S]

	Table *tt.ConcurrentTable[M]
	opts  Options

	sem     chan struct{}
	timeout *util.Timeout

	maxDepth int
	maxTime  time.Duration

	OnIteration func(search.Report[M])

	prevValue     game.Evaluation
	actualDepth   uint8
	nodesExplored []uint64
	pv            []M
	wallTime      time.Duration
}

// New builds a YBW driver over g and eval, allocating its own concurrent
// transposition table and worker semaphore per opts.
func New[S game.State[S], M game.Move[S]](g game.Game[S, M], eval game.Evaluator[S], opts Options) (*YBW[S, M], error) {
	table, err := tt.NewConcurrent[M](opts.TableByteSize, opts.ReplacementStrategy)
	if err != nil {
		return nil, err
	}

	return &YBW[S, M]{
		Game:  g,
		Eval:  eval,
		Table: table,
		opts:  opts,
		sem:   make(chan struct{}, opts.maxWorkers()),
	}, nil
}

// SetMaxDepth bounds the deepest iteration ChooseMove will start.
func (p *YBW[S, M]) SetMaxDepth(depth int) { p.maxDepth = depth }

// SetMaxTime bounds the wall-clock budget of a ChooseMove call.
func (p *YBW[S, M]) SetMaxTime(d time.Duration) { p.maxTime = d }

// negamax is the YBW recursion. Its first child is always searched
// serially (on s, in place) to get a usable alpha bound before any
// goroutine is spawned; this is what gives the variant its name.
func (p *YBW[S, M]) negamax(s S, depth uint8, alpha, beta game.Evaluation) (game.Evaluation, bool) {
	if p.timeout.Fired() {
		return 0, false
	}

	if depth == 0 {
		return search.Quiesce[S, M](p.Game, p.Eval, p.timeout, nil, s, p.opts.MaxQuiescenceDepth, alpha, beta)
	}
	if winner, ok := p.Game.Winner(s); ok {
		return winner.Evaluate(), true
	}

	alphaOrig := alpha
	hash := s.ZobristHash()

	var goodMove M
	var hasGoodMove bool
	if value, ok := p.Table.Check(hash, depth, &goodMove, &hasGoodMove, &alpha, &beta); ok {
		return value, true
	}

	var moves []M
	p.Game.GenerateMoves(s, &moves)
	if len(moves) == 0 {
		return game.WorstEval, true
	}

	if hasGoodMove {
		for i, m := range moves {
			if m == goodMove {
				moves[0], moves[i] = moves[i], moves[0]
				break
			}
		}
	}

	// Serial first child: this is what establishes alpha before any
	// sibling is allowed to run concurrently.
	first := moves[0]
	checkReversible(s, first)
	first.Apply(s)
	firstValue, ok := p.negamax(s, depth-1, -beta, -alpha)
	first.Undo(s)
	if !ok {
		return 0, false
	}
	firstValue = -firstValue

	best := firstValue
	bestMove := first
	if firstValue > alpha {
		alpha = firstValue
	}

	remaining := moves[1:]
	if alpha < beta && len(remaining) > 0 {
		if depth <= p.opts.SerialCutoffDepth {
			best, bestMove, alpha, ok = p.searchRemainingSerial(s, depth, alphaOrig, alpha, beta, best, bestMove, remaining)
		} else {
			best, bestMove = p.searchRemainingParallel(s, depth, alphaOrig, alpha, beta, best, bestMove, remaining)
			// A worker stopped by the timeout leaves the region incomplete.
			ok = !p.timeout.Fired()
		}
		if !ok {
			return 0, false
		}
	}

	p.Table.ConcurrentUpdate(hash, alphaOrig, beta, depth, best, bestMove)
	return game.Clamp(best), true
}

// searchRemainingSerial searches the siblings after the first child
// in-place, without spawning any goroutine: used near the horizon where
// the remaining subtrees are too small to be worth the dispatch cost.
// alphaOrig is the window's original alpha, before the first child raised
// it: a null-window probe is only worthwhile once alpha has actually been
// raised past that starting point (§4.5); the very first search of an
// unraised window always gets a full-window search.
func (p *YBW[S, M]) searchRemainingSerial(s S, depth uint8, alphaOrig, alpha, beta game.Evaluation, best game.Evaluation, bestMove M, remaining []M) (game.Evaluation, M, game.Evaluation, bool) {
	for _, m := range remaining {
		checkReversible(s, m)
		m.Apply(s)

		var value game.Evaluation
		if p.opts.NullWindowSearch && alpha > alphaOrig {
			probe, probeOK := p.negamax(s, depth-1, -alpha-1, -alpha)
			if !probeOK {
				m.Undo(s)
				return best, bestMove, alpha, false
			}
			probe = -probe
			if probe > alpha && probe < beta {
				full, fullOK := p.negamax(s, depth-1, -beta, -probe)
				if !fullOK {
					m.Undo(s)
					return best, bestMove, alpha, false
				}
				value = -full
			} else {
				value = probe
			}
		} else {
			child, childOK := p.negamax(s, depth-1, -beta, -alpha)
			if !childOK {
				m.Undo(s)
				return best, bestMove, alpha, false
			}
			value = -child
		}

		m.Undo(s)

		if value > best {
			best, bestMove = value, m
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}
	return best, bestMove, alpha, true
}

// searchRemainingParallel fans the siblings after the first child out
// across the shared worker pool. Each worker clones s for itself (the
// original is never touched again by this call), races a shared atomic
// alpha, and sets a local cutoff latch the instant it sees a fail-high so
// idle workers skip starting new work. A worker that used a stale
// (too-low) alpha only risks redundant work, never an unsound result: its
// window is a superset of the true one, so any value it reports that
// fails to beat the real alpha is correctly discarded by the max below.
//
// alphaOrig is the window's original alpha, before the first child raised
// it; as in searchRemainingSerial, a child only gets a null-window probe
// once alpha has actually been raised past that starting point.
//
// The worker pool's semaphore is acquired with a non-blocking try: a
// worker that is itself running inside a nested fan-out (it was spawned
// by an ancestor call to searchRemainingParallel, which is still blocked
// in wg.Wait() below) must never block trying to acquire a slot for its
// own children, since every slot may already be held by a live ancestor
// waiting on it — that circular wait is a permanent deadlock once the
// tree fans out past MaxWorkers live workers. Falling back to running a
// child inline, on the calling goroutine, whenever no slot is free keeps
// nested fan-out from ever blocking on the pool, at the cost of losing
// concurrency for the children that fall back.
func (p *YBW[S, M]) searchRemainingParallel(s S, depth uint8, alphaOrig, alpha, beta game.Evaluation, best game.Evaluation, bestMove M, remaining []M) (game.Evaluation, M) {
	var sharedAlpha atomic.Int32
	sharedAlpha.Store(int32(alpha))
	var cutoff atomic.Bool

	var mu sync.Mutex
	var wg sync.WaitGroup

	runChild := func(m M) {
		if cutoff.Load() || p.timeout.Fired() {
			return
		}

		clone := s.Clone()
		checkReversible(clone, m)
		m.Apply(clone)

		a := game.Evaluation(sharedAlpha.Load())

		var value game.Evaluation
		var ok bool
		if p.opts.NullWindowSearch && a > alphaOrig {
			probe, probeOK := p.negamax(clone, depth-1, -a-1, -a)
			if !probeOK {
				return
			}
			probe = -probe
			if probe > a && probe < beta && game.Evaluation(sharedAlpha.Load()) < beta {
				full, fullOK := p.negamax(clone, depth-1, -beta, -probe)
				if !fullOK {
					return
				}
				value, ok = -full, true
			} else {
				value, ok = probe, true
			}
		} else {
			child, childOK := p.negamax(clone, depth-1, -beta, -a)
			if !childOK {
				return
			}
			value, ok = -child, true
		}
		if !ok {
			return
		}

		mu.Lock()
		if value > best {
			best, bestMove = value, m
		}
		mu.Unlock()

		for {
			cur := sharedAlpha.Load()
			if int32(value) <= cur {
				break
			}
			if sharedAlpha.CompareAndSwap(cur, int32(value)) {
				break
			}
		}
		if value >= beta {
			cutoff.Store(true)
		}
	}

	for _, m := range remaining {
		m := m
		select {
		case p.sem <- struct{}{}:
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-p.sem }()
				runChild(m)
			}()
		default:
			// No free worker slot. Rather than block (and risk a
			// deadlock against an ancestor holding every slot), run
			// this child serially on the current goroutine.
			runChild(m)
		}
	}

	wg.Wait()
	return best, bestMove
}

// ChooseMove implements search.Strategy.
func (p *YBW[S, M]) ChooseMove(s S) (M, bool) {
	p.Table.AdvanceGeneration()
	p.timeout = util.After(p.maxTime)

	p.actualDepth = 0
	p.nodesExplored = p.nodesExplored[:0]
	p.pv = nil

	start := time.Now()

	clone := s.Clone()
	rootHash := clone.ZobristHash()

	var bestMove M
	var hasBestMove bool

	step := p.opts.stepIncrement()
	depth := uint8(p.maxDepth) % step

	for int(depth) <= p.maxDepth {
		if p.opts.HasAspirationWindow && depth >= 1 {
			a := game.SaturatingSub(p.prevValue, p.opts.AspirationWindow)
			if a < game.WorstEval {
				a = game.WorstEval
			}
			b := game.SaturatingAdd(p.prevValue, p.opts.AspirationWindow)
			p.negamax(clone, depth+1, a, b)
		}

		if _, ok := p.negamax(clone, depth+1, game.WorstEval, game.BestEval); !ok {
			break
		}

		entry, found := p.Table.Lookup(rootHash)
		if !found {
			// negamax stores nothing for a root that is already decided
			// or has no legal moves; any other miss is a contract violation.
			if _, over := p.Game.Winner(clone); over {
				break
			}
			var rootMoves []M
			p.Game.GenerateMoves(clone, &rootMoves)
			if len(rootMoves) == 0 {
				break
			}
			panic("parallel: root position missing from transposition table after a completed iteration")
		}
		if !entry.HasMove {
			break
		}

		bestMove, hasBestMove = entry.BestMove, true
		p.prevValue = entry.Value
		p.actualDepth = depth
		p.nodesExplored = append(p.nodesExplored, 0)

		depth += step
		p.pv = search.PopulatePV[S, M](p.Table, clone, int(depth)+1)

		if p.OnIteration != nil {
			p.OnIteration(search.Report[M]{
				Depth:   p.actualDepth,
				Value:   p.prevValue,
				PV:      p.pv,
				Elapsed: time.Since(start),
			})
		}
	}

	p.wallTime = time.Since(start)
	return bestMove, hasBestMove
}

// PrincipalVariation implements search.Strategy.
func (p *YBW[S, M]) PrincipalVariation() []M { return p.pv }

// RootValue implements search.Strategy.
func (p *YBW[S, M]) RootValue() game.Evaluation { return game.Unclamp(p.prevValue) }

// Stats implements search.Strategy. The parallel driver does not track a
// per-iteration node count (its recursion crosses goroutines, and a
// shared atomic counter on every call would itself become a bottleneck),
// so every iteration's node count, and the total and throughput derived
// from them, read as zero; only depth and wall time are meaningful.
func (p *YBW[S, M]) Stats() string {
	return search.StatsSummary{
		NodesExplored: p.nodesExplored,
		ActualDepth:   p.actualDepth,
		WallTime:      p.wallTime,
	}.String()
}
