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
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hz.tools/flow"
)

// AGraph is the context-driven scheduler. The verdict contract and
// the correctness properties are the same as MTGraph's; the
// difference is lifecycle plumbing. Each block is one task in an
// errgroup, stream waits unblock on ctx.Done(), and cancelling the
// context is how the caller shuts the graph down.
//
// A block error still retires only that block; tasks never fail the
// group.
type AGraph struct {
	blocks  []flow.Block
	log     *zap.Logger
	mu      sync.Mutex
	stats   []BlockStats
	elapsed time.Duration
}

// NewA creates a context-driven scheduler.
func NewA(opts ...Option) *AGraph {
	o := buildOptions(opts)
	return &AGraph{log: o.log}
}

// Add implements Runner.
func (g *AGraph) Add(b flow.Block) {
	g.blocks = append(g.blocks, b)
}

// Run implements Runner, driving with a background context.
func (g *AGraph) Run() error {
	return g.RunContext(context.Background())
}

// RunContext drives the graph until every block is done, or ctx is
// cancelled. Cancellation is not an error: the return value is nil
// either way, matching the other schedulers.
func (g *AGraph) RunContext(ctx context.Context) error {
	start := time.Now()
	g.stats = make([]BlockStats, len(g.blocks))

	var eg errgroup.Group
	for i, b := range g.blocks {
		i, b := i, b
		eg.Go(func() error {
			st := driveBlock(b, ctx.Done(), func() bool { return ctx.Err() != nil }, g.log)
			st.Name = statName(i, b)
			g.mu.Lock()
			g.stats[i] = st
			g.mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	g.elapsed = time.Since(start)
	for _, line := range strings.Split(g.GenerateStats(), "\n") {
		if line != "" {
			g.log.Info(line)
		}
	}
	return nil
}

// GenerateStats returns a textual per-block timing table for the last
// run.
func (g *AGraph) GenerateStats() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return formatStats(g.stats, g.elapsed)
}

// vim: foldmethod=marker
