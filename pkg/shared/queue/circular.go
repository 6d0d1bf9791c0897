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

package queue

import "fmt"

// Circular is a ring buffer implementation of Queue.
//
//	|------------------ grow ------------------>|
//	[0, .., head, .., tail, next, .., cap-1]
//
// or, once it wrapped around,
//
//	[0, .., tail, next, .., head, .., cap-1]
//
// The backing slice grows lazily, one slot at a time, and only ever when writing at next. It starts inside a small
// inline allocation and moves, at most once, to an allocation of the full capacity.
type Circular[T any] struct {
	slots  []T
	cap    int
	inline int
	// next is the slot the next Enque writes to.
	next int
	// head is the slot of the oldest item, -1 iff the queue is empty.
	head int
}

var _ Queue[int] = (*Circular[int])(nil)

// Option configures a Circular.
type Option func(*options)

type options struct {
	inline int
}

// WithInline sets the number of items that fit into the initial allocation before spilling to the full capacity.
func WithInline(n int) Option {
	return func(o *options) {
		o.inline = n
	}
}

// NewCircular returns an empty ring buffer of the given capacity. It panics if capacity is not positive.
func NewCircular[T any](capacity int, opts ...Option) *Circular[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("queue: capacity must be positive, got %d", capacity))
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.inline < 0 {
		o.inline = 0
	}
	return &Circular[T]{
		slots:  make([]T, 0, min(o.inline, capacity)),
		cap:    capacity,
		inline: o.inline,
		head:   -1,
	}
}

// entryNext returns the slot at next, growing the backing storage if next has never been written.
func (c *Circular[T]) entryNext() *T {
	// next is always a valid position, either next < len(slots) or next == len(slots) < cap.
	if c.next == len(c.slots) {
		if len(c.slots) == cap(c.slots) {
			spilled := make([]T, len(c.slots), c.cap)
			copy(spilled, c.slots)
			c.slots = spilled
		}
		var zero T
		c.slots = append(c.slots, zero)
	}
	return &c.slots[c.next]
}

func (c *Circular[T]) moveNext() {
	if c.head < 0 {
		c.head = c.next
	}
	c.next = (c.next + 1) % c.cap
}

func (c *Circular[T]) moveHead() {
	head := (c.head + 1) % c.cap
	if head == c.next {
		c.head = -1
	} else {
		c.head = head
	}
}

// slot translates the logical age into a physical slot. Only valid for 0 <= i < Len().
func (c *Circular[T]) slot(i int) (int, bool) {
	if i < 0 || i >= c.Len() {
		return 0, false
	}
	return (c.next - (i + 1) + c.cap) % c.cap, true
}

// Enque appends an item. It panics if the queue is full, use EnqueOverflow to rotate a full queue.
func (c *Circular[T]) Enque(item T) {
	if c.IsFull() {
		panic("queue: queue is full")
	}
	*c.entryNext() = item
	c.moveNext()
}

// Deque removes the oldest item.
func (c *Circular[T]) Deque() (T, bool) {
	var zero T
	if c.head < 0 {
		return zero, false
	}
	item := c.slots[c.head]
	c.slots[c.head] = zero
	c.moveHead()
	return item, true
}

func (c *Circular[T]) Len() int {
	switch {
	case c.head < 0:
		return 0
	case c.next > c.head:
		return c.next - c.head
	default:
		return c.cap - (c.head - c.next)
	}
}

func (c *Circular[T]) Cap() int {
	return c.cap
}

func (c *Circular[T]) Get(i int) (T, bool) {
	idx, ok := c.slot(i)
	if !ok {
		var zero T
		return zero, false
	}
	return c.slots[idx], true
}

func (c *Circular[T]) Ref(i int) (*T, bool) {
	idx, ok := c.slot(i)
	if !ok {
		return nil, false
	}
	return &c.slots[idx], true
}

func (c *Circular[T]) IsEmpty() bool {
	return c.head < 0
}

func (c *Circular[T]) IsFull() bool {
	return c.Len() == c.cap
}

func (c *Circular[T]) IsInline() bool {
	return c.inline > 0 && cap(c.slots) <= c.inline
}

// Items returns a copy of the items from the oldest to the newest.
func (c *Circular[T]) Items() []T {
	n := c.Len()
	r := make([]T, n)
	for i := 0; i < n; i++ {
		r[n-1-i], _ = c.Get(i)
	}
	return r
}

// ReversedItems returns a copy of the items from the newest to the oldest.
func (c *Circular[T]) ReversedItems() []T {
	n := c.Len()
	r := make([]T, n)
	for i := 0; i < n; i++ {
		r[i], _ = c.Get(i)
	}
	return r
}
