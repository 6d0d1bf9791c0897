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

package tumbling

import (
	"go.uber.org/zap"
)

type options struct {
	// inline is the number of windows kept in the initial allocation of the ring buffer
	inline int
	// name labels the operator in logs and metrics
	name string
	// logger logs window rollovers at debug level
	logger *zap.SugaredLogger
}

func defaultOptions() *options {
	return &options{
		name:   "tumbling",
		logger: zap.NewNop().Sugar(),
	}
}

// Option configures a tumbling operator.
type Option func(*options)

// WithInline sets the number of windows kept in the initial allocation of the ring buffer.
func WithInline(n int) Option {
	return func(o *options) {
		o.inline = n
	}
}

// WithName sets the name used to label the operator in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = log
	}
}
