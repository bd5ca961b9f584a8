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

// Package graph contains the schedulers that drive a flowgraph's
// blocks to completion.
//
// Three interchangeable drivers share the same verdict contract, and
// the same correctness properties:
//
//   - Graph runs every block cooperatively on the calling goroutine,
//     polling with backoff. Dead simple, fully deterministic ordering,
//     great for tests and small pipelines.
//   - MTGraph runs one goroutine per block and parks each one on the
//     exact stream its block reported blocking on. This is the driver
//     for real workloads.
//   - AGraph is MTGraph's contract expressed over a context: each
//     block is a task in an errgroup, and cancellation arrives through
//     ctx rather than a token.
//
// All three retire a block when it returns EOF (or its inputs run
// dry), close its outputs so the EOF propagates downstream, and treat
// a block error as fatal to that block only.
package graph

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"hz.tools/flow"
)

// Backoff for idle loops: 1ms doubling to a 100ms cap, everywhere.
// One deterministic policy shared by every scheduler.
const (
	minIdleSleep = time.Millisecond
	maxIdleSleep = 100 * time.Millisecond
)

// Runner is the interface every scheduler satisfies: install blocks,
// then drive them to completion.
type Runner interface {
	// Add installs a block into the graph. Blocks are connected to
	// each other by the streams they already share; Add order is the
	// Work call order for the single-threaded driver.
	Add(flow.Block)

	// Run drives the graph until every block is done, or the graph
	// is cancelled. Individual block errors do not make Run fail;
	// they retire the block, and show up in logs and stats.
	Run() error
}

// Option configures a scheduler.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the logger a scheduler narrates into. The default
// is zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// retire closes a block's outputs, if it has any, so that EOF reaches
// downstream blocks.
func retire(b flow.Block) {
	if c, ok := b.(flow.Closer); ok {
		c.Close()
	}
}

// statName builds the per-run display name for a block.
func statName(i int, b flow.Block) string {
	return fmt.Sprintf("%s/%d", b.Name(), i)
}

// Graph is the single-threaded cooperative scheduler. Blocks are
// polled round-robin in Add order; when a full pass makes no
// progress, the loop sleeps with exponential backoff before trying
// again.
type Graph struct {
	blocks  []flow.Block
	token   *CancellationToken
	log     *zap.Logger
	stats   []BlockStats
	elapsed time.Duration
}

// New creates a single-threaded scheduler.
func New(opts ...Option) *Graph {
	o := buildOptions(opts)
	return &Graph{
		token: NewCancellationToken(),
		log:   o.log,
	}
}

// Add implements Runner.
func (g *Graph) Add(b flow.Block) {
	g.blocks = append(g.blocks, b)
}

// CancelToken returns the shared cancellation handle.
func (g *Graph) CancelToken() *CancellationToken {
	return g.token
}

// Run implements Runner. It returns once every block has either
// returned EOF from Work, or reports EOF()==true with its inputs
// drained, or errored, or the token tripped.
func (g *Graph) Run() error {
	start := time.Now()
	g.stats = make([]BlockStats, len(g.blocks))
	for i, b := range g.blocks {
		g.stats[i].Name = statName(i, b)
	}

	done := make([]bool, len(g.blocks))
	remaining := len(g.blocks)
	sleep := minIdleSleep

	for remaining > 0 {
		if g.token.Cancelled() {
			for i, b := range g.blocks {
				if !done[i] {
					retire(b)
				}
			}
			break
		}

		progress := false
		for i, b := range g.blocks {
			if done[i] {
				continue
			}
			t0 := time.Now()
			ret, err := b.Work()
			g.stats[i].Elapsed += time.Since(t0)
			g.stats[i].WorkCalls++
			if err != nil {
				g.log.Error("block work failed",
					zap.String("block", b.Name()), zap.Error(err))
				g.stats[i].Err = err
				done[i] = true
				remaining--
				retire(b)
				progress = true
				continue
			}
			blockDone := false
			switch ret.Kind() {
			case flow.RetAgain:
				progress = true
			case flow.RetEOF:
				blockDone = true
			default:
				// WaitForStream, WaitForFunc and Pending are all
				// "no progress" here; the cooperative driver polls
				// rather than parks. A drained block is done.
				blockDone = b.EOF()
			}
			if blockDone {
				g.log.Debug("block done", zap.String("block", b.Name()))
				done[i] = true
				remaining--
				retire(b)
				progress = true
			}
		}

		if progress {
			sleep = minIdleSleep
			continue
		}
		time.Sleep(sleep)
		sleep *= 2
		if sleep > maxIdleSleep {
			sleep = maxIdleSleep
		}
	}

	g.elapsed = time.Since(start)
	return nil
}

// GenerateStats returns a textual per-block timing table for the last
// Run.
func (g *Graph) GenerateStats() string {
	return formatStats(g.stats, g.elapsed)
}

// vim: foldmethod=marker
