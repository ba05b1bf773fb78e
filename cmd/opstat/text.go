// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/perflog/opstat/cmd/opstat/internal/texttab"
)

// formatText appends a fixed-width text formatting of the statistics
// and trends to w.
func formatText(w io.Writer, s summary) {
	var runs texttab.Table
	runs.Row().Cell("run").Cell("op").RCell("count").RCell("mean (ms)").RCell("min (ms)").RCell("max (ms)")
	for _, r := range s.RunStats {
		runs.Row().
			RCell(strconv.Itoa(r.Run)).
			Cell(r.Kind.String()).
			RCell(strconv.Itoa(r.Count)).
			RCell(fmt.Sprintf("%.2f", r.Mean)).
			RCell(fmt.Sprintf("%.0f", r.Min)).
			RCell(fmt.Sprintf("%.0f", r.Max))
	}
	runs.Format(w)

	fmt.Fprintln(w)
	var sum texttab.Table
	sum.Row().Cell("op").RCell("count").RCell("mean (ms)").RCell("min (ms)").RCell("max (ms)")
	for _, r := range s.Summary {
		sum.Row().
			Cell(r.Kind.String()).
			RCell(strconv.Itoa(r.Count)).
			RCell(fmt.Sprintf("%.2f", r.Mean)).
			RCell(fmt.Sprintf("%.0f", r.Min)).
			RCell(fmt.Sprintf("%.0f", r.Max))
	}
	sum.Format(w)

	if len(s.Trends) > 0 {
		fmt.Fprintln(w)
		for _, t := range s.Trends {
			fmt.Fprintf(w, "%s trend: slope %+.6f ms/s, intercept %.2f ms (n=%d)\n",
				t.Kind, t.Slope, t.Intercept, t.N)
		}
	}
}

// formatCSV appends a CSV formatting of the statistics and trends to
// w, one titled section per result set.
func formatCSV(w io.Writer, s summary) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"run", "op", "count", "mean-ms", "min-ms", "max-ms"})
	for _, r := range s.RunStats {
		cw.Write([]string{
			strconv.Itoa(r.Run),
			r.Kind.String(),
			strconv.Itoa(r.Count),
			floatString(r.Mean),
			floatString(r.Min),
			floatString(r.Max),
		})
	}

	cw.Write(nil)
	cw.Write([]string{"op", "count", "mean-ms", "min-ms", "max-ms"})
	for _, r := range s.Summary {
		cw.Write([]string{
			r.Kind.String(),
			strconv.Itoa(r.Count),
			floatString(r.Mean),
			floatString(r.Min),
			floatString(r.Max),
		})
	}

	if len(s.Trends) > 0 {
		cw.Write(nil)
		cw.Write([]string{"op", "slope-ms-per-s", "intercept-ms", "n"})
		for _, t := range s.Trends {
			cw.Write([]string{
				t.Kind.String(),
				floatString(t.Slope),
				floatString(t.Intercept),
				strconv.Itoa(t.N),
			})
		}
	}
}

func floatString(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
