// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab does layout of simple text-based tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables of single-column cells.
//
// Its methods return the Table so callers can easily chain them to
// build up a row at a time.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	value string
	right bool
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a left-aligned cell at the current row.
func (t *Table) Cell(value string) *Table {
	return t.add(value, false)
}

// RCell adds a right-aligned cell at the current row. Numeric columns
// should use this so that magnitudes line up.
func (t *Table) RCell(value string) *Table {
	return t.add(value, true)
}

func (t *Table) add(value string, right bool) *Table {
	if len(t.rows) == 0 {
		t.rows = append(t.rows, nil)
	}
	i := len(t.rows) - 1
	t.rows[i] = append(t.rows[i], cell{value, right})
	if len(t.rows[i]) > t.cols {
		t.cols = len(t.rows[i])
	}
	return t
}

// Format lays out table t and writes it to w. Columns are sized to
// their widest cell and separated by two spaces; trailing whitespace
// is never emitted.
func (t *Table) Format(w io.Writer) error {
	widths := make([]int, t.cols)
	for _, row := range t.rows {
		for col, c := range row {
			if n := utf8.RuneCountInString(c.value); n > widths[col] {
				widths[col] = n
			}
		}
	}

	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for col, c := range row {
			if col > 0 {
				line.WriteString("  ")
			}
			pad := widths[col] - utf8.RuneCountInString(c.value)
			if c.right {
				line.WriteString(strings.Repeat(" ", pad))
				line.WriteString(c.value)
			} else {
				line.WriteString(c.value)
				// Left-aligned cells only pad if another
				// cell follows.
				if col < len(row)-1 {
					line.WriteString(strings.Repeat(" ", pad))
				}
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
