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

package window

import (
	"fmt"
	"time"
)

// Tickable is anything that carries a Tick and a value. It is the uniform input contract of the tumbling operators.
type Tickable[V any] interface {
	// Tick returns the tick of the event.
	Tick() Tick
	// Value returns the payload of the event.
	Value() V
	// ToTickValue converts the event into a TickValue.
	ToTickValue() TickValue[V]
}

// TickValue pairs a Tick with a payload.
type TickValue[T any] struct {
	tick  Tick
	value T
}

var _ Tickable[int] = TickValue[int]{}

// NewTickValue returns a value ticked at the given instant.
func NewTickValue[T any](ts time.Time, value T) TickValue[T] {
	return TickValue[T]{tick: NewTick(ts), value: value}
}

// WithValue attaches a value to the given tick.
func WithValue[T any](tick Tick, value T) TickValue[T] {
	return TickValue[T]{tick: tick, value: value}
}

func (tv TickValue[T]) Tick() Tick {
	return tv.tick
}

func (tv TickValue[T]) Value() T {
	return tv.value
}

func (tv TickValue[T]) ToTickValue() TickValue[T] {
	return tv
}

func (tv TickValue[T]) String() string {
	return fmt.Sprintf("%s: %v", tv.tick, tv.value)
}
