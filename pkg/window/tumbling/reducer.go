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

// Reducer computes the value stored for the current window. Both methods see the view before it is mutated.
type Reducer[E, T any] interface {
	// OnNewWindow is called for the first event of a new window, the returned value starts the window.
	OnNewWindow(view View[T], event E) T
	// OnSameWindow is called for every following event of the window, the returned value replaces the newest one.
	OnSameWindow(view View[T], event E) T
}

// ReducerFunc adapts a function to a Reducer. isNew is true for the first event of a window.
type ReducerFunc[E, T any] func(view View[T], isNew bool, event E) T

func (f ReducerFunc[E, T]) OnNewWindow(view View[T], event E) T {
	return f(view, true, event)
}

func (f ReducerFunc[E, T]) OnSameWindow(view View[T], event E) T {
	return f(view, false, event)
}

// Identity stores the events themselves, which leaves the history of the last event of every window.
type Identity[E any] struct{}

func (Identity[E]) OnNewWindow(_ View[E], event E) E {
	return event
}

func (Identity[E]) OnSameWindow(_ View[E], event E) E {
	return event
}
