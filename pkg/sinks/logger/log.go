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

// Package logger writes samples as JSON lines.
package logger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/numaproj/indicator/pkg/indicator"
	"github.com/numaproj/indicator/pkg/metrics"
	"github.com/numaproj/indicator/pkg/shared/logging"
	"github.com/numaproj/indicator/pkg/sinks"
)

// ToLog writes samples to a writer, one JSON object per line.
type ToLog struct {
	name          string
	writer        *bufio.Writer
	onlyNewWindow bool
	logger        *zap.SugaredLogger
}

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// WithName sets the name of the sink, "log" by default.
func WithName(name string) Option {
	return func(t *ToLog) error {
		t.name = name
		return nil
	}
}

// WithOnlyNewWindow only writes the samples that start a new window.
func WithOnlyNewWindow() Option {
	return func(t *ToLog) error {
		t.onlyNewWindow = true
		return nil
	}
}

// NewToLog returns ToLog type, writing to stdout when w is nil.
func NewToLog(w io.Writer, opts ...Option) (*ToLog, error) {
	if w == nil {
		w = os.Stdout
	}
	toLog := &ToLog{name: "log", writer: bufio.NewWriter(w)}
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

type bar struct {
	Start time.Time       `json:"start"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
	Count int             `json:"count"`
}

type line struct {
	Indicator string          `json:"indicator"`
	Period    string          `json:"period"`
	Symbol    string          `json:"symbol,omitempty"`
	Time      time.Time       `json:"time"`
	NewWindow bool            `json:"newWindow"`
	Value     decimal.Decimal `json:"value"`
	Bar       *bar            `json:"bar,omitempty"`
	Closed    *bar            `json:"closed,omitempty"`
}

func toBar(b *indicator.Bar) *bar {
	if b == nil {
		return nil
	}
	start, _ := b.Start.TS()
	return &bar{Start: start, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Count: b.Count}
}

// Write writes the samples and flushes the writer.
func (t *ToLog) Write(_ context.Context, samples []sinks.Sample) error {
	for _, s := range samples {
		if t.onlyNewWindow && !s.NewWindow {
			continue
		}
		ts, _ := s.Tick.TS()
		b, err := json.Marshal(line{
			Indicator: s.Indicator,
			Period:    s.Period,
			Symbol:    s.Symbol,
			Time:      ts,
			NewWindow: s.NewWindow,
			Value:     s.Value,
			Bar:       toBar(s.Bar),
			Closed:    toBar(s.Closed),
		})
		if err != nil {
			metrics.SinkWriteErrorCount.WithLabelValues(t.name).Inc()
			return fmt.Errorf("failed to marshal sample of %q, %w", s.Indicator, err)
		}
		b = append(b, '\n')
		if _, err := t.writer.Write(b); err != nil {
			metrics.SinkWriteErrorCount.WithLabelValues(t.name).Inc()
			return fmt.Errorf("failed to write sample of %q, %w", s.Indicator, err)
		}
		metrics.SinkWriteCount.WithLabelValues(t.name).Inc()
	}
	return t.writer.Flush()
}

func (t *ToLog) Close() error {
	t.logger.Debugw("Closing log sink", zap.String("sink", t.name))
	return t.writer.Flush()
}
