// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2023
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package graph

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hz.tools/flow"
)

// MTGraph is the parallel scheduler: one goroutine per block, each
// parked on exactly the stream its block reported blocking on.
//
// A goroutine exits when its block returns EOF, observes EOF through a
// wait, errors, or the graph is cancelled. Run joins them all, then
// logs the per-block timing table.
type MTGraph struct {
	blocks  []flow.Block
	token   *CancellationToken
	log     *zap.Logger
	mu      sync.Mutex
	stats   []BlockStats
	elapsed time.Duration
}

// NewMT creates a parallel scheduler.
func NewMT(opts ...Option) *MTGraph {
	o := buildOptions(opts)
	return &MTGraph{
		token: NewCancellationToken(),
		log:   o.log,
	}
}

// Add implements Runner.
func (g *MTGraph) Add(b flow.Block) {
	g.blocks = append(g.blocks, b)
}

// CancelToken returns the shared cancellation handle.
func (g *MTGraph) CancelToken() *CancellationToken {
	return g.token
}

// Run implements Runner: spawn, drive, join. Block errors retire that
// block only; Run still returns nil after the rest of the graph winds
// down.
func (g *MTGraph) Run() error {
	start := time.Now()
	g.stats = make([]BlockStats, len(g.blocks))

	var wg sync.WaitGroup
	for i, b := range g.blocks {
		wg.Add(1)
		go func(i int, b flow.Block) {
			defer wg.Done()
			st := driveBlock(b, g.token.Done(), func() bool { return g.token.Cancelled() }, g.log)
			st.Name = statName(i, b)
			g.mu.Lock()
			g.stats[i] = st
			g.mu.Unlock()
		}(i, b)
	}

	g.log.Debug("joining block goroutines")
	wg.Wait()
	g.elapsed = time.Since(start)
	for _, line := range strings.Split(g.GenerateStats(), "\n") {
		if line != "" {
			g.log.Info(line)
		}
	}
	return nil
}

// GenerateStats returns a textual per-block timing table for the last
// Run.
func (g *MTGraph) GenerateStats() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return formatStats(g.stats, g.elapsed)
}

// driveBlock is the per-block scheduler loop shared by MTGraph and
// AGraph: call Work, act on the verdict, park on stream waits, exit on
// EOF, error or cancellation. Outputs are closed on the way out so
// that EOF propagates, whatever the reason for exiting.
func driveBlock(b flow.Block, done <-chan struct{}, cancelled func() bool, log *zap.Logger) BlockStats {
	var st BlockStats
	defer retire(b)

	name := b.Name()
	sleep := minIdleSleep
	for !cancelled() {
		t0 := time.Now()
		ret, err := b.Work()
		st.Elapsed += time.Since(t0)
		st.WorkCalls++
		if err != nil {
			log.Error("block work failed",
				zap.String("block", name), zap.Error(err))
			st.Err = err
			return st
		}
		switch ret.Kind() {
		case flow.RetAgain:
			sleep = minIdleSleep
		case flow.RetEOF:
			log.Debug("block done", zap.String("block", name))
			return st
		case flow.RetWaitForStream:
			w, need := ret.Stream()
			eof := w.Wait(need, done)
			if eof || b.EOF() {
				log.Debug("block done", zap.String("block", name))
				return st
			}
		case flow.RetWaitForFunc:
			ret.Func()()
			if b.EOF() {
				log.Debug("block done", zap.String("block", name))
				return st
			}
		case flow.RetPending:
			select {
			case <-time.After(sleep):
			case <-done:
			}
			sleep *= 2
			if sleep > maxIdleSleep {
				sleep = maxIdleSleep
			}
		}
	}
	return st
}

// vim: foldmethod=marker
