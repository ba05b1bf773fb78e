// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oplog provides a streaming reader for database load-test
// operation logs.
//
// The logs interleave timed operation lines such as
//
//	2024-03-12 10:41:02 [Second 17] worker-3: Insert completed in 42 ms
//
// with arbitrary unrelated output. A line containing the literal text
// "All Operations completed" marks the end of one run of the
// workload. Everything else is skipped.
//
// This package is designed to be used with the higher-level packages
// opseries and opstat.
package oplog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// opPattern matches one timed operation anywhere in a line: the
// bracketed run-local second, then (after any intervening text) the
// operation kind and its duration in milliseconds.
var opPattern = regexp.MustCompile(`\[Second ([0-9]+)\].*?(Insert|Update|Read) completed in ([0-9]+) ms`)

// runEndMarker ends a run. It takes precedence over opPattern: a line
// containing it is never treated as an operation, even if it also
// happens to contain operation-like text.
var runEndMarker = []byte("All Operations completed")

// A Reader reads operation records from log text.
//
// Its API is modeled on bufio.Scanner. The Reader retains ownership
// of the records it returns; a caller that wants to keep a record
// across calls to Scan must copy it.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	// op and runEnd are reused for every record so that scanning
	// a large log allocates nothing per line.
	op     Op
	runEnd RunEnd
	rec    Record

	fileName string
	line     int
}

// NewReader constructs a reader that parses the operation log from r.
// fileName is used in positions and error messages; it is purely
// diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.err = nil
	r.rec = nil
	r.fileName = fileName
	r.line = 0
}

// Scan advances the reader to the next record and reports whether one
// was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	r.rec = nil

	for r.s.Scan() {
		r.line++
		line := r.s.Bytes()

		// Check for the run marker first. It wins over any
		// operation-like text on the same line.
		if bytes.Contains(line, runEndMarker) {
			r.runEnd = RunEnd{r.fileName, r.line}
			r.rec = &r.runEnd
			return true
		}

		m := opPattern.FindSubmatch(line)
		if m == nil {
			// Unrelated log line.
			continue
		}
		sec, err1 := strconv.Atoi(string(m[1]))
		dur, err2 := strconv.Atoi(string(m[3]))
		if err1 != nil || err2 != nil {
			// Out-of-range numbers. Treat the line like any
			// other non-matching content.
			continue
		}
		kind, _ := KindOf(string(m[2]))
		r.op = Op{Kind: kind, Second: sec, Duration: dur, fileName: r.fileName, line: r.line}
		r.rec = &r.op
		return true
	}

	// We hit EOF. Check for IO errors.
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Result returns the record that was just read by Scan. This is
// either an *Op or a *RunEnd. It is only valid after a call to Scan
// that returned true.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
