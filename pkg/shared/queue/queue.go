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

// Package queue provides fixed capacity queues addressed by logical age, where index 0 is the most recent item.
package queue

// Queue is a fixed capacity FIFO queue. Items are addressed by age, the newest item is at index 0.
// Implementations are not thread safe, a queue must be owned by a single goroutine.
type Queue[T any] interface {
	// Enque appends an item as the newest one. It panics if the queue is full.
	Enque(item T)
	// Deque removes and returns the oldest item, the bool is false if the queue is empty.
	Deque() (T, bool)
	// Len returns the current number of items.
	Len() int
	// Cap returns the capacity.
	Cap() int
	// Get returns the item that is i steps older than the newest, the bool is false if i >= Len().
	Get(i int) (T, bool)
	// Ref returns a pointer to the item that is i steps older than the newest, the bool is false if i >= Len().
	// The pointer must not be kept across Enque or Deque.
	Ref(i int) (*T, bool)
	// IsEmpty reports whether there are no items.
	IsEmpty() bool
	// IsFull reports whether Len() == Cap().
	IsFull() bool
	// IsInline reports whether the items still live in the small initial allocation.
	IsInline() bool
}

// EnqueOverflow appends the item and, if the queue was full, dequeues the oldest item first and returns it.
// The length of a full queue stays at its capacity.
func EnqueOverflow[T any](q Queue[T], item T) (T, bool) {
	if q.IsFull() {
		oldest, ok := q.Deque()
		q.Enque(item)
		return oldest, ok
	}
	q.Enque(item)
	var zero T
	return zero, false
}
