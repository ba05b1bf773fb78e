// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opseries reconstructs a continuous timeline from the runs
// recorded in operation logs.
//
// Each run of the benchmarked workload logs its own seconds starting
// near zero. To plot or regress across several runs, the run-local
// seconds must be stitched into one strictly increasing coordinate.
// A Builder groups the record stream from package oplog into runs and
// places every operation on that cumulative timeline.
package opseries

import "github.com/perflog/opstat/oplog"

// A Run is one bounded execution of the workload: the operations
// observed between two run markers, in log order. Runs are never
// empty.
type Run struct {
	Ops []oplog.Op
}

// MaxSecond returns the largest run-local second in the run.
func (r Run) MaxSecond() int {
	max := 0
	for _, op := range r.Ops {
		if op.Second > max {
			max = op.Second
		}
	}
	return max
}

// An Entry is an operation placed on the cumulative timeline.
type Entry struct {
	// Run is the 1-based index of the run this operation belongs to.
	Run int `json:"run"`

	Kind oplog.Kind `json:"op"`

	// Second is the run-local second from the log.
	Second int `json:"second"`

	// CumSecond is Second shifted so that every entry of run N+1
	// is strictly later than every entry of run N.
	CumSecond int `json:"cumulativeSecond"`

	// Duration is the operation duration in milliseconds.
	Duration int `json:"durationMS"`
}

// A Builder groups a stream of log records into runs.
//
// Records must be added in log order. RunEnd markers delimit runs; a
// marker with no preceding operations is ignored, and a trailing
// group of operations with no marker still forms a run.
type Builder struct {
	runs []Run
	cur  []oplog.Op
}

// Add adds one record to the builder. An *oplog.Op joins the current
// run; an *oplog.RunEnd completes it.
func (b *Builder) Add(rec oplog.Record) {
	switch rec := rec.(type) {
	case *oplog.Op:
		b.cur = append(b.cur, *rec)
	case *oplog.RunEnd:
		b.flush()
	}
}

func (b *Builder) flush() {
	if len(b.cur) == 0 {
		return
	}
	b.runs = append(b.runs, Run{Ops: b.cur})
	b.cur = nil
}

// Runs returns the runs seen so far, completing a pending run that
// has not seen its end marker.
func (b *Builder) Runs() []Run {
	b.flush()
	return b.runs
}

// Entries places every operation of every run on the cumulative
// timeline. It is shorthand for Normalize(b.Runs()).
func (b *Builder) Entries() []Entry {
	return Normalize(b.Runs())
}

// Normalize flattens runs onto a single timeline. Each entry's
// CumSecond is its run-local second plus an offset that grows by
// MaxSecond()+1 after every run, so run N+1 starts strictly after
// everything in run N even when its own seconds restart at zero.
// Input order is preserved.
func Normalize(runs []Run) []Entry {
	var entries []Entry
	offset := 0
	for i, run := range runs {
		for _, op := range run.Ops {
			entries = append(entries, Entry{
				Run:       i + 1,
				Kind:      op.Kind,
				Second:    op.Second,
				CumSecond: op.Second + offset,
				Duration:  op.Duration,
			})
		}
		offset += run.MaxSecond() + 1
	}
	return entries
}
