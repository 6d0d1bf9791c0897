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
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/numaproj/indicator/pkg/metrics"
	"github.com/numaproj/indicator/pkg/shared/queue"
	"github.com/numaproj/indicator/pkg/window"
)

// Operator drives a WindowedQueue with one event at a time. For every event it asks the period whether the event is
// in the same window as the previous one, and either lets the reducer replace the newest window (Swap) or rotates in
// a new window (Push), evicting the oldest one once the history is full.
//
// An Operator is owned by a single goroutine for its whole life, it has no locks.
type Operator[V, T any] struct {
	queue    *WindowedQueue[T]
	newQueue func() queue.Queue[T]
	period   window.Period
	last     window.Tick
	reducer  Reducer[window.TickValue[V], T]
	// pushFirst duplicates the newest window before calling the reducer for a new window,
	// so that the reducer sees the final value of the previous window at age 1.
	pushFirst bool
	cloner    func(T) T
	opts      *options

	log        *zap.SugaredLogger
	pushCount  prometheus.Counter
	swapCount  prometheus.Counter
	evictCount prometheus.Counter
}

// NewOperator returns an operator over the queue created by newQueue. The queue must be empty.
func NewOperator[V, T any](newQueue func() queue.Queue[T], period window.Period, reducer Reducer[window.TickValue[V], T], opts ...Option) *Operator[V, T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newOperator(newQueue, period, reducer, false, nil, o)
}

func newOperator[V, T any](newQueue func() queue.Queue[T], period window.Period, reducer Reducer[window.TickValue[V], T], pushFirst bool, cloner func(T) T, o *options) *Operator[V, T] {
	if cloner == nil {
		cloner = func(item T) T { return item }
	}
	return &Operator[V, T]{
		queue:      NewWindowedQueue(newQueue()),
		newQueue:   newQueue,
		period:     period,
		last:       window.BigBang,
		reducer:    reducer,
		pushFirst:  pushFirst,
		cloner:     cloner,
		opts:       o,
		log:        o.logger.With("operator", o.name),
		pushCount:  metrics.WindowPushCount.WithLabelValues(o.name),
		swapCount:  metrics.WindowSwapCount.WithLabelValues(o.name),
		evictCount: metrics.WindowEvictCount.WithLabelValues(o.name),
	}
}

// Next consumes one event and returns the view of the window history after the event, ticked with the event's tick.
// The view is only valid until the next call.
func (op *Operator[V, T]) Next(input window.Tickable[V]) window.TickValue[View[T]] {
	event := input.ToTickValue()
	tick := event.Tick()
	if op.period.SameWindow(op.last, tick) {
		item := op.reducer.OnSameWindow(op.queue.View(), event)
		op.queue.Swap(item)
		op.swapCount.Inc()
	} else {
		op.startWindow(event)
	}
	op.last = tick
	return window.WithValue(tick, op.queue.View())
}

func (op *Operator[V, T]) startWindow(event window.TickValue[V]) {
	var evicted bool
	if op.pushFirst && !op.queue.IsEmpty() {
		// the duplicate is what the reducer sees at age 0, the final value of the closed window stays at age 1
		_, evicted = op.queue.Push(op.cloner(op.queue.At(0)))
		item := op.reducer.OnNewWindow(op.queue.View(), event)
		op.queue.overwrite(item)
	} else {
		item := op.reducer.OnNewWindow(op.queue.View(), event)
		_, evicted = op.queue.Push(item)
	}
	op.pushCount.Inc()
	if evicted {
		op.evictCount.Inc()
	}
	op.log.Debugw("Window started", zap.Stringer("tick", event.Tick()), zap.Stringer("last", op.last), zap.Bool("evicted", evicted))
}

// WithView runs f against the current view of the window history.
func (op *Operator[V, T]) WithView(f func(View[T])) {
	f(op.queue.View())
}

// Period returns the window boundary predicate of the operator.
func (op *Operator[V, T]) Period() window.Period {
	return op.period
}

// Last returns the tick of the last processed event, BigBang if none.
func (op *Operator[V, T]) Last() window.Tick {
	return op.last
}

// Clone returns an operator with the same configuration and reducer, and an empty history.
// The history itself is never duplicated.
func (op *Operator[V, T]) Clone() *Operator[V, T] {
	return newOperator(op.newQueue, op.period, op.reducer, op.pushFirst, op.cloner, op.opts)
}
