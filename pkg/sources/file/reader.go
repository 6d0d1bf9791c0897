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

// Package file reads ticked prices from a CSV file with the columns timestamp,price[,symbol].
package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/numaproj/indicator/pkg/window"
)

// Record is one line of the input. It is a window.Tickable so it can be fed to the operators directly.
type Record struct {
	window.TickValue[decimal.Decimal]
	// Symbol is the optional third column.
	Symbol string
	// Line is the line number in the input, starting from 1.
	Line int
}

// Reader reads records from a CSV stream.
type Reader struct {
	csv      *csv.Reader
	loc      *time.Location
	line     int
	lastTick window.Tick
	started  bool
}

type Option func(*Reader)

// WithLocation sets the location used for timestamps without a zone, UTC by default.
func WithLocation(loc *time.Location) Option {
	return func(r *Reader) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewReader returns a reader over r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true
	c.Comment = '#'
	c.ReuseRecord = true
	reader := &Reader{csv: c, loc: time.UTC}
	for _, o := range opts {
		o(reader)
	}
	return reader
}

// Read returns the next record, or io.EOF at the end of the input. A header line is skipped when its price column
// is not a number. Ticks must be in non-decreasing order.
func (r *Reader) Read() (Record, error) {
	for {
		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		if err != nil {
			return Record{}, fmt.Errorf("failed to read csv, %w", err)
		}
		line, _ := r.csv.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		if len(fields) < 2 || len(fields) > 3 {
			return Record{}, fmt.Errorf("line %d: expected 2 or 3 columns, got %d", line, len(fields))
		}
		price, err := decimal.NewFromString(strings.TrimSpace(fields[1]))
		if err != nil {
			if !r.started {
				// header
				r.started = true
				continue
			}
			return Record{}, fmt.Errorf("line %d: invalid price %q, %w", line, fields[1], err)
		}
		r.started = true
		ts, err := dateparse.ParseIn(strings.TrimSpace(fields[0]), r.loc)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: invalid timestamp %q, %w", line, fields[0], err)
		}
		tick := window.NewTick(ts)
		if tick.Before(r.lastTick) {
			return Record{}, fmt.Errorf("line %d: timestamp %s is before the previous one %s", line, tick, r.lastTick)
		}
		r.lastTick = tick
		record := Record{TickValue: window.WithValue(tick, price), Line: line}
		if len(fields) == 3 {
			record.Symbol = strings.TrimSpace(fields[2])
		}
		return record, nil
	}
}

// ReadAll reads the remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
