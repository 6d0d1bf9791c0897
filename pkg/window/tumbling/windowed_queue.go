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
)

// WindowedQueue keeps the per-window history of a tumbling operator, the newest window at index 0, together with
// the Change recorded by the last mutation. It is mutated exactly once per processed event, either by Push or Swap.
type WindowedQueue[T any] struct {
	q      queue.Queue[T]
	change Change[T]
}

// NewWindowedQueue wraps the given empty queue. The initial change is a vacuous Push.
func NewWindowedQueue[T any](q queue.Queue[T]) *WindowedQueue[T] {
	var zero T
	return &WindowedQueue[T]{
		q:      q,
		change: PushChange(zero, false),
	}
}

// Push starts a new window with the given item, evicting the oldest window if the queue is full.
func (w *WindowedQueue[T]) Push(item T) (T, bool) {
	evicted, ok := queue.EnqueOverflow(w.q, item)
	w.change = PushChange(evicted, ok)
	return evicted, ok
}

// Swap replaces the newest item in place. On an empty queue the item is inserted with nothing reported as replaced.
func (w *WindowedQueue[T]) Swap(item T) (T, bool) {
	var replaced T
	newest, ok := w.q.Ref(0)
	if ok {
		replaced = *newest
		*newest = item
	} else {
		w.q.Enque(item)
	}
	w.change = SwapChange(replaced, ok)
	return replaced, ok
}

// overwrite replaces the newest item without recording a change. The queue must not be empty.
func (w *WindowedQueue[T]) overwrite(item T) {
	newest, ok := w.q.Ref(0)
	if !ok {
		panic("tumbling: overwrite on an empty queue")
	}
	*newest = item
}

// Change returns the last recorded change.
func (w *WindowedQueue[T]) Change() Change[T] {
	return w.change
}

// Len returns the number of windows in the history.
func (w *WindowedQueue[T]) Len() int {
	return w.q.Len()
}

// Cap returns the length of the lookback history.
func (w *WindowedQueue[T]) Cap() int {
	return w.q.Cap()
}

// IsEmpty reports whether no event has been processed yet.
func (w *WindowedQueue[T]) IsEmpty() bool {
	return w.q.IsEmpty()
}

// Get returns the item of the window that is i windows older than the newest.
func (w *WindowedQueue[T]) Get(i int) (T, bool) {
	return w.q.Get(i)
}

// At is like Get, but panics if i is out of range.
func (w *WindowedQueue[T]) At(i int) T {
	item, ok := w.q.Get(i)
	if !ok {
		panic(fmt.Sprintf("tumbling: index out of range [%d] with length %d", i, w.q.Len()))
	}
	return item
}

// IsInline reports whether the history still lives in the small inline allocation.
func (w *WindowedQueue[T]) IsInline() bool {
	return w.q.IsInline()
}

// View returns a read-only view of the queue.
func (w *WindowedQueue[T]) View() View[T] {
	return View[T]{w: w}
}
