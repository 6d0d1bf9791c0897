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

import "fmt"

// ChangeKind represents how the windowed queue was mutated by the last event.
type ChangeKind int

const (
	// Push means a new window began and a new slot was rotated in, possibly evicting the oldest item.
	Push ChangeKind = iota
	// Swap means the current window continued and the newest slot was overwritten in place.
	Swap
)

func (k ChangeKind) String() string {
	switch k {
	case Push:
		return "Push"
	case Swap:
		return "Swap"
	default:
		return "Unknown"
	}
}

// Change is the record of the last mutation of a WindowedQueue, together with the item that fell out of the
// newest slot (Swap) or out of the lookback history (Push), if any.
type Change[T any] struct {
	kind     ChangeKind
	outdated T
	ok       bool
}

// PushChange returns a Push change. ok is false when nothing was evicted.
func PushChange[T any](evicted T, ok bool) Change[T] {
	return Change[T]{kind: Push, outdated: evicted, ok: ok}
}

// SwapChange returns a Swap change. ok is false when there was no item to replace.
func SwapChange[T any](replaced T, ok bool) Change[T] {
	return Change[T]{kind: Swap, outdated: replaced, ok: ok}
}

// Kind returns the kind of the change.
func (c Change[T]) Kind() ChangeKind {
	return c.kind
}

// IsNewPeriod reports whether the change started a new window.
func (c Change[T]) IsNewPeriod() bool {
	return c.kind == Push
}

// Outdated returns the evicted item of a Push or the replaced item of a Swap.
// Reducers keeping running aggregates use it to take out the value that left the lookback history.
func (c Change[T]) Outdated() (T, bool) {
	return c.outdated, c.ok
}

func (c Change[T]) String() string {
	if !c.ok {
		return fmt.Sprintf("%s(none)", c.kind)
	}
	return fmt.Sprintf("%s(%v)", c.kind, c.outdated)
}
