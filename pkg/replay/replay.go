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

// Package replay runs a set of indicators over a recorded tick stream and writes their samples to sinks.
//
// The source is read by a single goroutine, every indicator runs in its own goroutine and owns its operators, and a
// single writer goroutine batches the samples to the sinks.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/indicator/pkg/indicator"
	"github.com/numaproj/indicator/pkg/metrics"
	"github.com/numaproj/indicator/pkg/shared/expr"
	"github.com/numaproj/indicator/pkg/shared/logging"
	"github.com/numaproj/indicator/pkg/sinks"
	"github.com/numaproj/indicator/pkg/sources/file"
)

// Source is where the ticks are read from, Read returns io.EOF at the end of the stream.
type Source interface {
	Read() (file.Record, error)
}

// Job is a named indicator to replay.
type Job struct {
	Name      string
	Period    string
	Indicator indicator.Indicator
}

// Stats summarizes a replay.
type Stats struct {
	// TicksRead is the number of ticks read from the source.
	TicksRead int64
	// TicksDropped is the number of ticks rejected by the filter.
	TicksDropped int64
	// SamplesWritten is the number of samples handed to the sinks.
	SamplesWritten int64
	// Windows is the number of windows started per job name.
	Windows map[string]int64
	// Took is the duration of the replay.
	Took time.Duration
}

// Replayer replays a source.
type Replayer struct {
	source  Source
	jobs    []Job
	sinks   []sinks.Sink
	opts    *options
	read    *atomic.Int64
	dropped *atomic.Int64
	written *atomic.Int64
}

// NewReplayer returns a replayer, the sinks are not closed by the replayer.
func NewReplayer(source Source, jobs []Job, sinkList []sinks.Sink, opts ...Option) (*Replayer, error) {
	if len(jobs) == 0 {
		return nil, errors.New("no indicator to replay")
	}
	names := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		if j.Indicator == nil {
			return nil, fmt.Errorf("job %q has no indicator", j.Name)
		}
		if _, ok := names[j.Name]; ok {
			return nil, fmt.Errorf("duplicate job name %q", j.Name)
		}
		names[j.Name] = struct{}{}
	}
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Replayer{
		source:  source,
		jobs:    jobs,
		sinks:   sinkList,
		opts:    o,
		read:    atomic.NewInt64(0),
		dropped: atomic.NewInt64(0),
		written: atomic.NewInt64(0),
	}, nil
}

// Run replays the whole source. It returns when the source is exhausted, the context is cancelled or any stage
// fails.
func (r *Replayer) Run(ctx context.Context) (Stats, error) {
	log := r.opts.logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	start := r.opts.clock.Now()
	g, ctx := errgroup.WithContext(ctx)

	inputs := make([]chan file.Record, len(r.jobs))
	for i := range inputs {
		inputs[i] = make(chan file.Record, r.opts.bufferSize)
	}
	samples := make(chan sinks.Sample, r.opts.bufferSize)
	windows := make([]int64, len(r.jobs))

	g.Go(func() error {
		defer func() {
			for _, in := range inputs {
				close(in)
			}
		}()
		return r.readSource(ctx, inputs)
	})

	workers, workerCtx := errgroup.WithContext(ctx)
	for i := range r.jobs {
		i := i
		workers.Go(func() error {
			n, err := r.runJob(workerCtx, r.jobs[i], inputs[i], samples)
			windows[i] = n
			return err
		})
	}
	g.Go(func() error {
		defer close(samples)
		return workers.Wait()
	})

	g.Go(func() error {
		return r.writeSinks(ctx, samples)
	})

	err := g.Wait()
	stats := Stats{
		TicksRead:      r.read.Load(),
		TicksDropped:   r.dropped.Load(),
		SamplesWritten: r.written.Load(),
		Windows:        make(map[string]int64, len(r.jobs)),
		Took:           r.opts.clock.Now().Sub(start),
	}
	for i, j := range r.jobs {
		stats.Windows[j.Name] = windows[i]
	}
	if err != nil {
		return stats, err
	}
	log.Infow("Replay finished", zap.Int64("ticks", stats.TicksRead), zap.Int64("dropped", stats.TicksDropped),
		zap.Int64("samples", stats.SamplesWritten), zap.Duration("took", stats.Took))
	return stats, nil
}

func (r *Replayer) readSource(ctx context.Context, inputs []chan file.Record) error {
	for {
		record, err := r.source.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read source, %w", err)
		}
		r.read.Inc()
		metrics.TicksReadCount.Inc()
		if r.opts.filter != nil {
			ok, err := r.opts.filter.Match(Env(record))
			if err != nil {
				return fmt.Errorf("line %d: %w", record.Line, err)
			}
			if !ok {
				r.dropped.Inc()
				metrics.TicksDroppedCount.WithLabelValues("filter").Inc()
				continue
			}
		}
		for _, in := range inputs {
			select {
			case in <- record:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// runJob feeds a job until its input is closed, it returns the number of windows the job started.
func (r *Replayer) runJob(ctx context.Context, job Job, in <-chan file.Record, out chan<- sinks.Sample) (int64, error) {
	emitted := metrics.SamplesEmittedCount.WithLabelValues(job.Name, job.Period)
	var windows int64
	for record := range in {
		sample := job.Indicator.Next(record)
		if sample.NewWindow {
			windows++
		}
		if r.opts.onlyNewWindow && !sample.NewWindow {
			continue
		}
		emitted.Inc()
		select {
		case out <- sinks.Sample{Sample: sample, Indicator: job.Name, Period: job.Period, Symbol: record.Symbol}:
		case <-ctx.Done():
			return windows, ctx.Err()
		}
	}
	return windows, nil
}

func (r *Replayer) writeSinks(ctx context.Context, samples <-chan sinks.Sample) error {
	batch := make([]sinks.Sample, 0, r.opts.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		for _, s := range r.sinks {
			if err := s.Write(ctx, batch); err != nil {
				return fmt.Errorf("failed to write to sink %q, %w", s.GetName(), err)
			}
		}
		r.written.Add(int64(len(batch)))
		batch = batch[:0]
		return nil
	}
	for sample := range samples {
		batch = append(batch, sample)
		if len(batch) >= r.opts.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return flush()
}

// Env returns the filter environment of a record.
func Env(record file.Record) map[string]interface{} {
	ts, _ := record.Tick().TS()
	return map[string]interface{}{
		"price":  record.Value().InexactFloat64(),
		"ts":     ts,
		"unix":   ts.Unix(),
		"symbol": record.Symbol,
	}
}

// NewFilter compiles a tick filter expression, see Env for the available variables.
func NewFilter(expression string) (*expr.Filter, error) {
	return expr.NewFilter(expression, Env(file.Record{}))
}
