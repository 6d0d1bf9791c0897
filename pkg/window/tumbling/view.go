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

// View is a read-only view of a WindowedQueue. A view handed to a reducer, or returned by Operator.Next, is only
// meaningful until the next event is processed, it must not be retained.
type View[T any] struct {
	w *WindowedQueue[T]
}

// Change returns the change recorded by the last mutation.
func (v View[T]) Change() Change[T] {
	if v.w == nil {
		var zero T
		return PushChange(zero, false)
	}
	return v.w.change
}

// IsNewPeriod reports whether the last mutation started a new window.
func (v View[T]) IsNewPeriod() bool {
	return v.Change().IsNewPeriod()
}

// Len returns the number of windows in the history.
func (v View[T]) Len() int {
	if v.w == nil {
		return 0
	}
	return v.w.Len()
}

// IsEmpty reports whether the history is empty.
func (v View[T]) IsEmpty() bool {
	return v.Len() == 0
}

// Get returns the item that is i windows older than the newest one, the bool is false if i >= Len().
func (v View[T]) Get(i int) (T, bool) {
	if v.w == nil {
		var zero T
		return zero, false
	}
	return v.w.Get(i)
}

// At returns the item that is i windows older than the newest one. It panics if i >= Len().
func (v View[T]) At(i int) T {
	if v.w == nil {
		panic("tumbling: index out of range on an empty view")
	}
	return v.w.At(i)
}

// IsInline reports whether the history still lives in the small inline allocation.
func (v View[T]) IsInline() bool {
	return v.w != nil && v.w.IsInline()
}

// Items returns a copy of the history from the newest to the oldest window.
func (v View[T]) Items() []T {
	n := v.Len()
	items := make([]T, n)
	for i := range items {
		items[i] = v.w.At(i)
	}
	return items
}
