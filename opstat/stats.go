// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opstat computes statistics over timeline entries: outlier
// removal, grouped summary statistics, and per-operation latency
// trends.
//
// All functions are pure transformations of their input, so running
// the pipeline twice on the same logs produces identical results.
package opstat

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/perflog/opstat/oplog"
	"github.com/perflog/opstat/opseries"
)

// RemoveOutliers discards entries whose duration falls outside the
// interquartile fences for their operation kind: durations below
// Q1 - 1.5*IQR or above Q3 + 1.5*IQR are dropped, each kind judged
// against its own quartiles. A kind with fewer than two entries has
// degenerate quartiles and is kept unfiltered.
func RemoveOutliers(entries []opseries.Entry) []opseries.Entry {
	byKind := make(map[oplog.Kind][]float64)
	for _, e := range entries {
		byKind[e.Kind] = append(byKind[e.Kind], float64(e.Duration))
	}

	lo := make(map[oplog.Kind]float64)
	hi := make(map[oplog.Kind]float64)
	for kind, values := range byKind {
		if len(values) < 2 {
			lo[kind], hi[kind] = math.Inf(-1), math.Inf(1)
			continue
		}
		sample := stats.Sample{Xs: values}
		q1, q3 := sample.Quantile(0.25), sample.Quantile(0.75)
		lo[kind], hi[kind] = q1-1.5*(q3-q1), q3+1.5*(q3-q1)
	}

	var kept []opseries.Entry
	for _, e := range entries {
		if d := float64(e.Duration); lo[e.Kind] <= d && d <= hi[e.Kind] {
			kept = append(kept, e)
		}
	}
	return kept
}

// A Row is one grouped statistics row. In rows grouped by kind alone,
// Run is 0 and omitted from serialized output.
type Row struct {
	Run   int        `json:"run,omitempty"`
	Kind  oplog.Kind `json:"op"`
	Count int        `json:"count"`
	Mean  float64    `json:"meanMS"`
	Min   float64    `json:"minMS"`
	Max   float64    `json:"maxMS"`
}

// ByRun groups entries by (run, kind) and summarizes the durations of
// each group. Zero durations are excluded from the statistics, and a
// group left empty by that exclusion produces no row. Rows are
// ordered by run, then kind.
func ByRun(entries []opseries.Entry) []Row {
	type key struct {
		run  int
		kind oplog.Kind
	}
	groups := make(map[key][]float64)
	for _, e := range entries {
		if e.Duration <= 0 {
			continue
		}
		k := key{e.Run, e.Kind}
		groups[k] = append(groups[k], float64(e.Duration))
	}

	rows := make([]Row, 0, len(groups))
	for k, values := range groups {
		rows = append(rows, newRow(k.run, k.kind, values))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Run != rows[j].Run {
			return rows[i].Run < rows[j].Run
		}
		return rows[i].Kind < rows[j].Kind
	})
	return rows
}

// ByKind groups entries by kind alone, consolidating all runs. The
// zero-duration and empty-group rules are the same as for ByRun.
// Rows are ordered by kind.
func ByKind(entries []opseries.Entry) []Row {
	groups := make(map[oplog.Kind][]float64)
	for _, e := range entries {
		if e.Duration <= 0 {
			continue
		}
		groups[e.Kind] = append(groups[e.Kind], float64(e.Duration))
	}

	rows := make([]Row, 0, len(groups))
	for kind, values := range groups {
		rows = append(rows, newRow(0, kind, values))
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Kind < rows[j].Kind
	})
	return rows
}

func newRow(run int, kind oplog.Kind, values []float64) Row {
	min, max := stats.Bounds(values)
	return Row{
		Run:   run,
		Kind:  kind,
		Count: len(values),
		Mean:  stats.Mean(values),
		Min:   min,
		Max:   max,
	}
}
