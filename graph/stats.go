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
	"fmt"
	"strings"
	"time"
)

// BlockStats is what a scheduler can tell you about one block after a
// run: how much wall time its Work calls took, and how many there
// were.
type BlockStats struct {
	// Name is the block's name, suffixed with its index so that two
	// AddConsts stay apart.
	Name string

	// Elapsed is the wall time spent inside Work.
	Elapsed time.Duration

	// WorkCalls is the number of Work invocations.
	WorkCalls int

	// Err is the error that retired the block, if any.
	Err error
}

// formatStats renders the per-block timing table. A block that was
// retired by an error gets its error on a line right below its row.
func formatStats(stats []BlockStats, elapsed time.Duration) string {
	ml := len("Elapsed seconds")
	for _, s := range stats {
		if len(s.Name) > ml {
			ml = len(s.Name)
		}
	}
	var total time.Duration
	for _, s := range stats {
		total += s.Elapsed
	}
	totalSec := total.Seconds()
	if totalSec == 0 {
		totalSec = 1 // Avoid 0/0 for graphs that finished instantly.
	}

	var b strings.Builder
	dashes := strings.Repeat("-", ml+32) + "\n"
	fmt.Fprintf(&b, "%-*s    Seconds  Percent     Work\n", ml, "Block name")
	b.WriteString(dashes)
	for _, s := range stats {
		fmt.Fprintf(&b, "%-*s %10.3f %7.2f%% %8d\n",
			ml, s.Name,
			s.Elapsed.Seconds(),
			100*s.Elapsed.Seconds()/totalSec,
			s.WorkCalls,
		)
		if s.Err != nil {
			fmt.Fprintf(&b, "%-*s error: %v\n", ml, "", s.Err)
		}
	}
	b.WriteString(dashes)
	elapsedSec := elapsed.Seconds()
	if elapsedSec == 0 {
		elapsedSec = 1
	}
	fmt.Fprintf(&b, "%-*s %10.3f %7.2f%%\n", ml, "All blocks",
		total.Seconds(), 100*total.Seconds()/elapsedSec)
	fmt.Fprintf(&b, "%-*s %10.3f %7.2f%%\n", ml, "Elapsed seconds",
		elapsed.Seconds(), 100.0)
	return b.String()
}

// vim: foldmethod=marker
