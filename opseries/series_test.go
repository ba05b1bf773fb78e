// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opseries

import (
	"reflect"
	"strings"
	"testing"

	"github.com/perflog/opstat/oplog"
)

// build feeds the log text through a Reader into a Builder.
func build(t *testing.T, data string) *Builder {
	t.Helper()
	r := oplog.NewReader(strings.NewReader(data), "test")
	b := new(Builder)
	for r.Scan() {
		b.Add(r.Result())
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBuilderRuns(t *testing.T) {
	checkLens := func(data string, want ...int) {
		t.Helper()
		runs := build(t, data).Runs()
		var got []int
		for _, run := range runs {
			got = append(got, len(run.Ops))
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got run sizes %v, want %v", got, want)
		}
	}

	// Two complete runs.
	checkLens(`
[Second 0] Insert completed in 5 ms
[Second 1] Read completed in 2 ms
All Operations completed
[Second 0] Insert completed in 6 ms
All Operations completed
`, 2, 1)

	// A trailing run without its end marker is still emitted.
	checkLens(`
[Second 0] Insert completed in 5 ms
All Operations completed
[Second 0] Update completed in 6 ms
`, 1, 1)

	// Consecutive end markers do not produce empty runs, and a
	// leading marker is a no-op.
	checkLens(`
All Operations completed
[Second 0] Insert completed in 5 ms
All Operations completed
All Operations completed
All Operations completed
[Second 0] Read completed in 1 ms
All Operations completed
`, 1, 1)

	// No operations at all.
	checkLens(`nothing to see here`)
}

func TestNormalize(t *testing.T) {
	// Offset after run 1 is its max second plus one: 2+1=3.
	entries := build(t, `
[Second 0] Insert completed in 5 ms
[Second 2] Insert completed in 7 ms
All Operations completed
[Second 0] Insert completed in 3 ms
`).Entries()

	want := []Entry{
		{Run: 1, Kind: oplog.Insert, Second: 0, CumSecond: 0, Duration: 5},
		{Run: 1, Kind: oplog.Insert, Second: 2, CumSecond: 2, Duration: 7},
		{Run: 2, Kind: oplog.Insert, Second: 0, CumSecond: 3, Duration: 3},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("got:\n%+v\nwant:\n%+v", entries, want)
	}
}

func TestNormalizeZeroSecondRun(t *testing.T) {
	// A run whose only record is at second 0 still advances the
	// offset by one.
	entries := build(t, `
[Second 0] Read completed in 1 ms
All Operations completed
[Second 0] Read completed in 1 ms
All Operations completed
[Second 0] Read completed in 1 ms
`).Entries()

	var cums []int
	for _, e := range entries {
		cums = append(cums, e.CumSecond)
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(cums, want) {
		t.Errorf("got cumulative seconds %v, want %v", cums, want)
	}
}

func TestNormalizeMonotonicAcrossRuns(t *testing.T) {
	entries := build(t, `
[Second 5] Insert completed in 5 ms
[Second 0] Update completed in 2 ms
All Operations completed
[Second 0] Read completed in 3 ms
[Second 4] Insert completed in 8 ms
All Operations completed
[Second 1] Update completed in 9 ms
`).Entries()

	// Every entry of run N+1 is strictly later than every entry of
	// run N.
	maxByRun := map[int]int{}
	minByRun := map[int]int{}
	for _, e := range entries {
		if cur, ok := maxByRun[e.Run]; !ok || e.CumSecond > cur {
			maxByRun[e.Run] = e.CumSecond
		}
		if cur, ok := minByRun[e.Run]; !ok || e.CumSecond < cur {
			minByRun[e.Run] = e.CumSecond
		}
	}
	for run := 1; run+1 <= len(maxByRun); run++ {
		if maxByRun[run] >= minByRun[run+1] {
			t.Errorf("run %d max cumulative second %d >= run %d min %d",
				run, maxByRun[run], run+1, minByRun[run+1])
		}
	}

	// Within a run, relative order of seconds is preserved.
	if entries[0].CumSecond <= entries[1].CumSecond {
		t.Errorf("within-run order not preserved: %+v", entries[:2])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	const data = `
[Second 0] Insert completed in 5 ms
[Second 2] Read completed in 7 ms
All Operations completed
[Second 0] Update completed in 3 ms
`
	a := build(t, data).Entries()
	b := build(t, data).Entries()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two runs over identical input differ:\n%+v\n%+v", a, b)
	}
}
