// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oplog

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

// parseAll reads all records from data, wiping position information
// for comparisons.
func parseAll(t *testing.T, data string) []Record {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test")
	var out []Record
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *Op:
			op := rec.Clone()
			op.fileName = ""
			op.line = 0
			out = append(out, op)
		case *RunEnd:
			out = append(out, &RunEnd{})
		default:
			t.Fatalf("unexpected record type %T", rec)
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

func op(kind Kind, second, duration int) *Op {
	return &Op{Kind: kind, Second: second, Duration: duration}
}

func TestReader(t *testing.T) {
	check := func(data string, want ...Record) {
		t.Helper()
		got := parseAll(t, data)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got:\n%+v\nwant:\n%+v", got, want)
		}
	}

	check(`
2024-03-12 10:41:02 INFO [Second 0] worker-1: Insert completed in 42 ms
2024-03-12 10:41:03 INFO [Second 1] worker-2: Update completed in 7 ms
2024-03-12 10:41:03 INFO [Second 1] worker-1: Read completed in 0 ms
All Operations completed in 2051 ms
`,
		op(Insert, 0, 42),
		op(Update, 1, 7),
		op(Read, 1, 0),
		&RunEnd{},
	)

	// Unrelated lines are skipped, not errors.
	check(`
Starting connection pool (size=32)
[Second 3] Insert completed in 15 ms
WARN pool saturated
[second 4] Insert completed in 16 ms
[Second 5] Insert completed in ms
[Second 6] Delete completed in 12 ms
`,
		op(Insert, 3, 15),
	)

	// Intervening text between the second marker and the operation.
	check(`[Second 12] thread-7 batch=19 Update completed in 103 ms`,
		op(Update, 12, 103),
	)

	// Empty input.
	check("")
}

func TestReaderRunEndPrecedence(t *testing.T) {
	// A line with the run marker is never an operation, even when it
	// also contains operation-like text.
	got := parseAll(t, `[Second 9] All Operations completed, last Read completed in 3 ms`)
	want := []Record{&RunEnd{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReaderPos(t *testing.T) {
	r := NewReader(strings.NewReader("x\n[Second 1] Read completed in 2 ms\n"), "spring.log.0")
	if !r.Scan() {
		t.Fatal("Scan failed")
	}
	file, line := r.Result().Pos()
	if file != "spring.log.0" || line != 2 {
		t.Errorf("got position %s:%d, want spring.log.0:2", file, line)
	}
}

// errReader fails after yielding its data.
type errReader struct {
	data io.Reader
	err  error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.data.Read(p)
	if err == io.EOF {
		err = r.err
	}
	return n, err
}

func TestReaderIOError(t *testing.T) {
	broken := errors.New("read failed")
	r := NewReader(&errReader{strings.NewReader("[Second 1] Read completed in 2 ms\n"), broken}, "bad.log")
	for r.Scan() {
	}
	if err := r.Err(); !errors.Is(err, broken) {
		t.Errorf("got error %v, want %v", err, broken)
	}
}
