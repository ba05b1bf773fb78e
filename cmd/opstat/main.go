// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Opstat computes statistics about database load-test logs.
//
// Usage:
//
//	opstat [-csv] [-json file] [-sqlite file] log.0 [log.1 ...]
//
// Each input file is an operation log: lines of the form
// "[Second N] ... Insert completed in M ms" (likewise Update and
// Read) interleaved with arbitrary output, with "All Operations
// completed" marking the end of each run of the workload. Files are
// read in argument order and should be passed in the order the runs
// were produced.
//
// Opstat stitches the runs into one continuous timeline, then prints
// per-run and consolidated count/mean/min/max statistics of the
// operation durations, excluding zero-duration entries, and a
// least-squares trend of duration over cumulative time per operation
// type, fitted after discarding outliers by the interquartile range
// rule.
//
// The -csv option prints the same tables in CSV form. The -json
// option additionally saves the raw timeline and all derived results
// to a JSON file, and -sqlite writes them to a SQLite database, one
// table per result set.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/perflog/opstat/oplog"
	"github.com/perflog/opstat/opseries"
	"github.com/perflog/opstat/opstat"
	"github.com/perflog/opstat/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: opstat [options] log.0 [log.1 ...]\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagCSV    = flag.Bool("csv", false, "print results in CSV form")
	flagJSON   = flag.String("json", "", "save the structured summary to `file`")
	flagSQLite = flag.String("sqlite", "", "write all result sets to the SQLite database at `file`")
)

// A summary is the full structured output of one pipeline invocation.
type summary struct {
	Operations []opseries.Entry `json:"operations"`
	RunStats   []opstat.Row     `json:"runStats"`
	Summary    []opstat.Row     `json:"summary"`
	Trends     []opstat.Trend   `json:"trends"`
}

func main() {
	log.SetPrefix("opstat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
	}

	files := oplog.Files{Paths: flag.Args(), AllowStdin: true}
	var b opseries.Builder
	for files.Scan() {
		b.Add(files.Result())
	}
	if err := files.Err(); err != nil {
		log.Fatal(err)
	}

	entries := b.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "opstat: no operations found")
		return
	}

	s := summary{
		Operations: entries,
		RunStats:   opstat.ByRun(entries),
		Summary:    opstat.ByKind(entries),
		Trends:     opstat.Trends(entries),
	}

	if *flagJSON != "" {
		if err := writeJSON(*flagJSON, s); err != nil {
			log.Fatal(err)
		}
	}
	if *flagSQLite != "" {
		if err := writeSQLite(*flagSQLite, s); err != nil {
			log.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if *flagCSV {
		formatCSV(&buf, s)
	} else {
		formatText(&buf, s)
	}
	os.Stdout.Write(buf.Bytes())
}

func writeJSON(path string, s summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSQLite(path string, s summary) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	if err := db.Write(s.Operations, s.RunStats, s.Summary, s.Trends); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}
