/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package sqlite persists samples to a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"
	_ "modernc.org/sqlite"

	"github.com/numaproj/indicator/pkg/indicator"
	"github.com/numaproj/indicator/pkg/metrics"
	"github.com/numaproj/indicator/pkg/shared/logging"
	"github.com/numaproj/indicator/pkg/sinks"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL DEFAULT '',
	indicator  TEXT NOT NULL,
	period     TEXT NOT NULL,
	symbol     TEXT NOT NULL DEFAULT '',
	ts         TEXT NOT NULL,
	ts_nano    INTEGER NOT NULL,
	new_window INTEGER NOT NULL,
	value      TEXT NOT NULL,
	open       TEXT,
	high       TEXT,
	low        TEXT,
	close      TEXT
);
CREATE INDEX IF NOT EXISTS idx_samples_indicator ON samples(indicator, ts_nano);
`

const insert = `INSERT INTO samples (run_id, indicator, period, symbol, ts, ts_nano, new_window, value, open, high, low, close)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

var writeRetryBackOff = wait.Backoff{
	Duration: 50 * time.Millisecond,
	Factor:   2,
	Jitter:   0.1,
	Steps:    4,
}

// ToSQLite writes samples to the samples table.
type ToSQLite struct {
	name   string
	runID  string
	db     *sql.DB
	logger *zap.SugaredLogger
}

type Option func(*ToSQLite) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToSQLite) error {
		t.logger = log
		return nil
	}
}

// WithName sets the name of the sink, "sqlite" by default.
func WithName(name string) Option {
	return func(t *ToSQLite) error {
		t.name = name
		return nil
	}
}

// WithRunID tags the rows with the id of the replay run, so several runs can share a database.
func WithRunID(id string) Option {
	return func(t *ToSQLite) error {
		t.runID = id
		return nil
	}
}

// NewToSQLite opens, or creates, the database at path and creates the samples table.
func NewToSQLite(path string, opts ...Option) (*ToSQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q, %w", path, err)
	}
	db.SetMaxOpenConns(1)
	t := &ToSQLite{name: "sqlite", db: db}
	for _, o := range opts {
		if err := o(t); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if t.logger == nil {
		t.logger = logging.NewLogger()
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create the samples table, %w", err)
	}
	return t, nil
}

// GetName returns the name.
func (t *ToSQLite) GetName() string {
	return t.name
}

// Write inserts the samples in a single transaction, transient lock errors are retried.
func (t *ToSQLite) Write(ctx context.Context, samples []sinks.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	var writeErr error
	ctxClosedErr := wait.ExponentialBackoffWithContext(ctx, writeRetryBackOff, func() (done bool, err error) {
		writeErr = t.write(ctx, samples)
		if writeErr == nil {
			return true, nil
		}
		if isTransient(writeErr) {
			t.logger.Warnw("Retrying sqlite write", zap.String("sink", t.name), zap.Error(writeErr))
			return false, nil
		}
		return true, nil
	})
	if writeErr == nil && ctxClosedErr != nil {
		writeErr = ctxClosedErr
	}
	if writeErr != nil {
		metrics.SinkWriteErrorCount.WithLabelValues(t.name).Inc()
		return fmt.Errorf("failed to write %d samples to %q, %w", len(samples), t.name, writeErr)
	}
	metrics.SinkWriteCount.WithLabelValues(t.name).Add(float64(len(samples)))
	return nil
}

func (t *ToSQLite) write(ctx context.Context, samples []sinks.Sample) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, s := range samples {
		ts, _ := s.Tick.TS()
		open, high, low, closePrice := barColumns(s.Bar)
		if _, err = stmt.ExecContext(ctx,
			t.runID, s.Indicator, s.Period, s.Symbol,
			ts.UTC().Format(time.RFC3339Nano), ts.UnixNano(),
			s.NewWindow, s.Value.String(),
			open, high, low, closePrice,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func barColumns(b *indicator.Bar) (open, high, low, closePrice sql.NullString) {
	if b == nil {
		return
	}
	return sql.NullString{String: b.Open.String(), Valid: true},
		sql.NullString{String: b.High.String(), Valid: true},
		sql.NullString{String: b.Low.String(), Valid: true},
		sql.NullString{String: b.Close.String(), Valid: true}
}

func isTransient(err error) bool {
	msg := err.Error()
	for _, pattern := range []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked", "database table is locked"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func (t *ToSQLite) Close() error {
	t.logger.Debugw("Closing sqlite sink", zap.String("sink", t.name))
	return t.db.Close()
}
