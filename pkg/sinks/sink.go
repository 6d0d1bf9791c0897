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

// Package sinks defines where the indicator samples of a replay are written to.
package sinks

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/numaproj/indicator/pkg/indicator"
)

// Sample is an indicator sample with the name of the indicator that produced it.
type Sample struct {
	indicator.Sample
	// Indicator is the configured name of the indicator.
	Indicator string
	// Period is the window period of the indicator.
	Period string
	// Symbol is the symbol of the tick, empty if the input has none.
	Symbol string
}

// Sink writes samples.
type Sink interface {
	// GetName returns the name of the sink, used as a metric label.
	GetName() string
	// Write writes a batch of samples.
	Write(ctx context.Context, samples []Sample) error
	// Close flushes and releases the sink.
	Close() error
}

// CloseAll closes all the sinks and returns the combined errors.
func CloseAll(sinks ...Sink) error {
	var errList error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errList = multierr.Append(errList, fmt.Errorf("failed to close sink %q, %w", s.GetName(), err))
		}
	}
	return errList
}
