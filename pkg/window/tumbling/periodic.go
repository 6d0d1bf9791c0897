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
	"fmt"

	"github.com/numaproj/indicator/pkg/shared/queue"
	"github.com/numaproj/indicator/pkg/window"
)

// Periodic builds operators that keep one value per window over a ring buffer of the given length.
// A Periodic is an immutable value, every method returns a new builder.
type Periodic[V, T any] struct {
	length    int
	period    window.Period
	pushFirst bool
	cloner    func(T) T
	opts      []Option
}

// NewPeriodic returns a builder keeping the last length windows of the given period. It panics if length is not
// positive.
func NewPeriodic[V, T any](length int, period window.Period, opts ...Option) Periodic[V, T] {
	if length <= 0 {
		panic(fmt.Sprintf("tumbling: length must be positive, got %d", length))
	}
	return Periodic[V, T]{
		length: length,
		period: period,
		opts:   opts,
	}
}

// PushFirst makes the operator duplicate the newest window before reducing the first event of a new window.
// The reducer then always finds the final value of the previous window at age 1, and the duplicate at age 0 is
// overwritten by the value it returns. The change is still reported as a single Push.
func (p Periodic[V, T]) PushFirst() Periodic[V, T] {
	p.pushFirst = true
	return p
}

// WithCloner sets how the newest window is duplicated by PushFirst. By default the item is copied by assignment,
// which is not enough for items holding slices, maps or pointers.
func (p Periodic[V, T]) WithCloner(cloner func(T) T) Periodic[V, T] {
	p.cloner = cloner
	return p
}

func (p Periodic[V, T]) newQueue(o *options) func() queue.Queue[T] {
	length, inline := p.length, o.inline
	return func() queue.Queue[T] {
		return queue.NewCircular[T](length, queue.WithInline(inline))
	}
}

// Build returns an operator using the given reducer.
func (p Periodic[V, T]) Build(reducer Reducer[window.TickValue[V], T]) *Operator[V, T] {
	o := defaultOptions()
	for _, opt := range p.opts {
		opt(o)
	}
	return newOperator(p.newQueue(o), p.period, reducer, p.pushFirst, p.cloner, o)
}

// BuildFunc returns an operator using the given function as the reducer.
func (p Periodic[V, T]) BuildFunc(f func(view View[T], isNew bool, event window.TickValue[V]) T) *Operator[V, T] {
	return p.Build(ReducerFunc[window.TickValue[V], T](f))
}

// Cache returns an operator keeping the last event of each of the last length windows, without transformation.
// It is meant for reducers that work directly on the buffered history of a window.
func Cache[V any](length int, period window.Period, opts ...Option) *Operator[V, window.TickValue[V]] {
	return NewPeriodic[V, window.TickValue[V]](length, period, opts...).Build(Identity[window.TickValue[V]]{})
}
