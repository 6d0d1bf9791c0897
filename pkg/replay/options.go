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

package replay

import (
	"fmt"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"

	"github.com/numaproj/indicator/pkg/shared/expr"
)

type options struct {
	// filter drops the ticks it does not match
	filter *expr.Filter
	// batchSize is the number of samples written to the sinks at once
	batchSize int
	// bufferSize is the capacity of the channels between the stages
	bufferSize int
	// onlyNewWindow only emits the samples that start a new window
	onlyNewWindow bool
	// clock measures the duration of the replay
	clock  clockz.Clock
	logger *zap.SugaredLogger
}

func defaultOptions() *options {
	return &options{
		batchSize:  128,
		bufferSize: 256,
		clock:      clockz.RealClock,
	}
}

type Option func(*options) error

// WithFilter sets the tick filter.
func WithFilter(f *expr.Filter) Option {
	return func(o *options) error {
		o.filter = f
		return nil
	}
}

// WithBatchSize sets the number of samples written to the sinks at once.
func WithBatchSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("invalid batch size %d", n)
		}
		o.batchSize = n
		return nil
	}
}

// WithBufferSize sets the capacity of the channels between the stages.
func WithBufferSize(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("invalid buffer size %d", n)
		}
		o.bufferSize = n
		return nil
	}
}

// WithOnlyNewWindow only emits the first sample of every window.
func WithOnlyNewWindow() Option {
	return func(o *options) error {
		o.onlyNewWindow = true
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithClock sets the clock used to measure the replay.
func WithClock(c clockz.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}
