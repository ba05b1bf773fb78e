// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oplog

import "fmt"

// A Kind identifies one of the benchmarked operation types.
type Kind int

const (
	Insert Kind = iota
	Update
	Read
)

// Kinds lists every operation kind in display order.
var Kinds = []Kind{Insert, Update, Read}

var kindNames = [...]string{"Insert", "Update", "Read"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf returns the Kind named by s and whether s names one.
func KindOf(s string) (Kind, bool) {
	for i, name := range kindNames {
		if s == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so Kinds serialize as
// their names rather than as integers.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, ok := KindOf(string(text))
	if !ok {
		return fmt.Errorf("unknown operation kind %q", text)
	}
	*k = kind
	return nil
}

// A Record is a single record read from an operation log. It is
// either an *Op or a *RunEnd.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. If this record was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

var _ Record = (*Op)(nil)
var _ Record = (*RunEnd)(nil)

// An Op is a single timed operation from a log.
type Op struct {
	// Kind is the operation type.
	Kind Kind

	// Second is the run-local second at which the operation was
	// logged. It restarts from a low value at each new run.
	Second int

	// Duration is the measured duration in milliseconds.
	Duration int

	// fileName and line record where this Op was read from.
	fileName string
	line     int
}

// Pos returns the file name and line number of an Op that was read by
// a Reader.
func (o *Op) Pos() (fileName string, line int) {
	return o.fileName, o.line
}

// Clone makes a copy of Op that shares no state with o.
func (o *Op) Clone() *Op {
	o2 := *o
	return &o2
}

// A RunEnd marks the completion of one run of the benchmarked
// workload. Operations logged after a RunEnd belong to a new run.
type RunEnd struct {
	fileName string
	line     int
}

// Pos returns the file name and line number of a RunEnd that was read
// by a Reader.
func (e *RunEnd) Pos() (fileName string, line int) {
	return e.fileName, e.line
}
