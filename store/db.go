// Copyright 2025 The Opstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists pipeline results to a SQLite database.
//
// It writes the three logical result sets of a pipeline invocation
// (raw timeline entries, per-run grouped statistics, consolidated
// statistics) plus the fitted trends, one table each, so they can be
// queried or joined later without re-parsing the logs.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/perflog/opstat/opseries"
	"github.com/perflog/opstat/opstat"
)

// DB is a handle to a results database.
type DB struct {
	sql *sql.DB
	// prepared statements
	insertOp      *sql.Stmt
	insertRunStat *sql.Stmt
	insertSummary *sql.Stmt
	insertTrend   *sql.Stmt
}

// createStmts holds the CREATE statements for the database, split on
// ";" before execution.
const createStmts = `
CREATE TABLE IF NOT EXISTS Operations (
	Run INTEGER NOT NULL,
	Second INTEGER NOT NULL,
	CumSecond INTEGER NOT NULL,
	Op TEXT NOT NULL,
	DurationMS INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS RunStats (
	Run INTEGER NOT NULL,
	Op TEXT NOT NULL,
	Count INTEGER NOT NULL,
	MeanMS REAL NOT NULL,
	MinMS REAL NOT NULL,
	MaxMS REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS Summary (
	Op TEXT NOT NULL,
	Count INTEGER NOT NULL,
	MeanMS REAL NOT NULL,
	MinMS REAL NOT NULL,
	MaxMS REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS Trends (
	Op TEXT NOT NULL,
	SlopeMSPerSec REAL NOT NULL,
	InterceptMS REAL NOT NULL,
	N INTEGER NOT NULL
);
`

// Open opens the results database at path, creating the file and any
// missing tables as needed. Use ":memory:" for a transient database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// createTables creates any missing tables on the connection in d.sql.
func (d *DB) createTables() error {
	for _, q := range strings.Split(createStmts, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := d.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls d.sql.Prepare on reusable SQL statements.
func (d *DB) prepareStatements() error {
	var err error
	d.insertOp, err = d.sql.Prepare("INSERT INTO Operations (Run, Second, CumSecond, Op, DurationMS) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	d.insertRunStat, err = d.sql.Prepare("INSERT INTO RunStats (Run, Op, Count, MeanMS, MinMS, MaxMS) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	d.insertSummary, err = d.sql.Prepare("INSERT INTO Summary (Op, Count, MeanMS, MinMS, MaxMS) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	d.insertTrend, err = d.sql.Prepare("INSERT INTO Trends (Op, SlopeMSPerSec, InterceptMS, N) VALUES (?, ?, ?, ?)")
	return err
}

// Write stores the result sets of one pipeline invocation in a single
// transaction. Writing nothing (all slices empty) is valid and leaves
// the tables empty.
func (d *DB) Write(entries []opseries.Entry, runStats, summary []opstat.Row, trends []opstat.Trend) (err error) {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, e := range entries {
		if _, err = tx.Stmt(d.insertOp).Exec(e.Run, e.Second, e.CumSecond, e.Kind.String(), e.Duration); err != nil {
			return err
		}
	}
	for _, r := range runStats {
		if _, err = tx.Stmt(d.insertRunStat).Exec(r.Run, r.Kind.String(), r.Count, r.Mean, r.Min, r.Max); err != nil {
			return err
		}
	}
	for _, r := range summary {
		if _, err = tx.Stmt(d.insertSummary).Exec(r.Kind.String(), r.Count, r.Mean, r.Min, r.Max); err != nil {
			return err
		}
	}
	for _, t := range trends {
		if _, err = tx.Stmt(d.insertTrend).Exec(t.Kind.String(), t.Slope, t.Intercept, t.N); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database handle.
func (d *DB) Close() error {
	return d.sql.Close()
}
