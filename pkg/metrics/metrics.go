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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion   = "version"
	LabelPlatform  = "platform"
	LabelOperator  = "operator"
	LabelIndicator = "indicator"
	LabelPeriod    = "period"
	LabelSink      = "sink"
	LabelReason    = "reason"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by the binary version and platform",
	}, []string{LabelVersion, LabelPlatform})
)

// Tumbling operator metrics
var (
	// WindowPushCount is used to indicate the number of windows started
	WindowPushCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "tumbling",
		Name:      "window_push_total",
		Help:      "Total number of windows started",
	}, []string{LabelOperator})

	// WindowSwapCount is used to indicate the number of in-window updates
	WindowSwapCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "tumbling",
		Name:      "window_swap_total",
		Help:      "Total number of in-window updates",
	}, []string{LabelOperator})

	// WindowEvictCount is used to indicate the number of windows that fell out of the lookback history
	WindowEvictCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "tumbling",
		Name:      "window_evict_total",
		Help:      "Total number of windows evicted from the lookback history",
	}, []string{LabelOperator})
)

// Replay metrics
var (
	// TicksReadCount is used to indicate the number of ticks read from the source
	TicksReadCount = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "replay",
		Name:      "ticks_read_total",
		Help:      "Total number of ticks read",
	})

	// TicksDroppedCount is used to indicate the number of ticks dropped before reaching the indicators
	TicksDroppedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "replay",
		Name:      "ticks_dropped_total",
		Help:      "Total number of ticks dropped",
	}, []string{LabelReason})

	// SamplesEmittedCount is used to indicate the number of indicator samples emitted
	SamplesEmittedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "replay",
		Name:      "samples_emitted_total",
		Help:      "Total number of indicator samples emitted",
	}, []string{LabelIndicator, LabelPeriod})

	// SinkWriteCount is used to indicate the number of samples written to a sink
	SinkWriteCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "write_total",
		Help:      "Total number of samples written",
	}, []string{LabelSink})

	// SinkWriteErrorCount is used to indicate the number of failed sink writes
	SinkWriteErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "write_error_total",
		Help:      "Total number of sink write errors",
	}, []string{LabelSink})
)
