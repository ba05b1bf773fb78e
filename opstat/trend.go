// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opstat

import (
	"gonum.org/v1/gonum/stat"

	"github.com/perflog/opstat/oplog"
	"github.com/perflog/opstat/opseries"
)

// A Trend summarizes latency drift for one operation kind: the
// least-squares line of duration in milliseconds over the cumulative
// second.
type Trend struct {
	Kind      oplog.Kind `json:"op"`
	Slope     float64    `json:"slopeMSPerSec"`
	Intercept float64    `json:"interceptMS"`

	// N is the number of points the line was fitted to, after
	// outlier removal.
	N int `json:"n"`
}

// Trends fits a trend line per operation kind. Outliers are removed
// first; a kind left with fewer than two points is skipped rather
// than fitted. Trends are ordered by kind.
func Trends(entries []opseries.Entry) []Trend {
	kept := RemoveOutliers(entries)

	xs := make(map[oplog.Kind][]float64)
	ys := make(map[oplog.Kind][]float64)
	for _, e := range kept {
		xs[e.Kind] = append(xs[e.Kind], float64(e.CumSecond))
		ys[e.Kind] = append(ys[e.Kind], float64(e.Duration))
	}

	var trends []Trend
	for _, kind := range oplog.Kinds {
		x, y := xs[kind], ys[kind]
		if len(x) < 2 {
			continue
		}
		intercept, slope := stat.LinearRegression(x, y, nil, false)
		trends = append(trends, Trend{Kind: kind, Slope: slope, Intercept: intercept, N: len(x)})
	}
	return trends
}
