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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/indicator/pkg/shared/queue"
	"github.com/numaproj/indicator/pkg/window"
)

func ticksAt(start time.Time, values []int, step time.Duration) []window.TickValue[int] {
	r := make([]window.TickValue[int], 0, len(values))
	for i, v := range values {
		r = append(r, window.NewTickValue(start.Add(time.Duration(i)*step), v))
	}
	return r
}

type ohlc [4]int

func ohlcReducer(view View[ohlc], isNew bool, event window.TickValue[int]) ohlc {
	x := event.Value()
	if isNew {
		return ohlc{x, x, x, x}
	}
	bar := view.At(0)
	bar[1] = max(bar[1], x)
	bar[2] = min(bar[2], x)
	bar[3] = x
	return bar
}

func TestOperator_OHLC(t *testing.T) {
	day := time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)
	data := []struct {
		offset time.Duration
		price  int
	}{
		{0, 2},
		{15 * time.Minute, 1},
		{32 * time.Minute, 4},
		{59*time.Minute + 59*time.Second, 3},
		{time.Hour, 3},
		{time.Hour + 15*time.Minute, 4},
		{time.Hour + 33*time.Minute, 2},
		{time.Hour + 57*time.Minute + 59*time.Second, 3},
		{2*time.Hour + 10*time.Minute, 1},
		{2*time.Hour + 31*time.Minute, 2},
		{2*time.Hour + 53*time.Minute + 59*time.Second, 3},
	}
	op := NewPeriodic[int, ohlc](3, window.Hours(time.UTC, 1)).BuildFunc(ohlcReducer)

	pushes := 0
	for _, d := range data {
		out := op.Next(window.NewTickValue(day.Add(d.offset), d.price))
		assert.True(t, out.Tick().Equal(window.NewTick(day.Add(d.offset))))
		if out.Value().IsNewPeriod() {
			pushes++
		}
	}
	assert.Equal(t, 3, pushes)

	op.WithView(func(v View[ohlc]) {
		require.Equal(t, 3, v.Len())
		assert.Equal(t, ohlc{2, 4, 1, 3}, v.At(2))
		assert.Equal(t, ohlc{3, 4, 2, 3}, v.At(1))
		assert.Equal(t, ohlc{1, 3, 1, 3}, v.At(0))
	})
}

func TestOperator_ChangeClassification(t *testing.T) {
	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	gaps := []time.Duration{0, time.Second, 3 * time.Second, 500 * time.Millisecond, 2 * time.Second, 0, 7 * time.Second, time.Second, time.Second}
	periods := []window.Period{window.Zero(), window.Seconds(time.UTC, 2), window.Seconds(time.UTC, 5), window.Day(time.UTC)}
	for _, period := range periods {
		t.Run(period.String(), func(t *testing.T) {
			op := Cache[int](2, period)
			prev := window.BigBang
			ts := start
			for i, gap := range gaps {
				ts = ts.Add(gap)
				tick := window.NewTick(ts)
				out := op.Next(window.WithValue(tick, i))
				expected := Swap
				if !period.SameWindow(prev, tick) {
					expected = Push
				}
				assert.Equal(t, expected, out.Value().Change().Kind(), "event %d", i)
				prev = tick
			}
		})
	}
}

func TestOperator_BigBangAlwaysStartsWindow(t *testing.T) {
	op := Cache[int](3, window.Zero())
	for i := 0; i < 4; i++ {
		out := op.Next(window.WithValue(window.BigBang, i))
		assert.True(t, out.Value().IsNewPeriod())
	}
	op.WithView(func(v View[window.TickValue[int]]) {
		assert.Equal(t, 3, v.Len())
		assert.Equal(t, 3, v.At(0).Value())
	})
}

func TestOperator_PushFirst(t *testing.T) {
	cache := 0
	checked := 0
	op := NewPeriodic[int, window.TickValue[int]](2, window.Seconds(time.UTC, 2)).
		PushFirst().
		BuildFunc(func(w View[window.TickValue[int]], isNew bool, x window.TickValue[int]) window.TickValue[int] {
			if isNew && w.Len() > 1 {
				assert.Equal(t, w.At(0), w.At(1))
				cache = w.At(1).Value()
				checked++
			} else if w.Len() > 1 {
				assert.Equal(t, cache, w.At(1).Value())
			}
			return x
		})

	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	for _, x := range ticksAt(start, []int{1, 2, 3, 4, 5, 6, 7}, time.Second) {
		out := op.Next(x)
		assert.Equal(t, x.Value(), out.Value().At(0).Value())
	}
	// new windows at 2s, 4s and 6s saw the previous window at age 1
	assert.Equal(t, 3, checked)
	assert.Equal(t, 6, cache)
}

func TestOperator_PushFirstSingleChange(t *testing.T) {
	op := NewPeriodic[int, int](2, window.Seconds(time.UTC, 2)).
		PushFirst().
		BuildFunc(func(_ View[int], _ bool, x window.TickValue[int]) int { return x.Value() })
	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	xs := ticksAt(start, []int{1, 2, 3, 4, 5}, time.Second)

	out := op.Next(xs[0])
	assert.Equal(t, PushChange(0, false), out.Value().Change())
	out = op.Next(xs[1])
	assert.Equal(t, SwapChange(1, true), out.Value().Change())
	// the duplicate of 2 is pushed then overwritten, the caller sees one Push and no eviction
	out = op.Next(xs[2])
	assert.Equal(t, PushChange(0, false), out.Value().Change())
	assert.Equal(t, []int{3, 2}, out.Value().Items())
	op.Next(xs[3])
	// the queue is full, pushing the duplicate of 4 evicts the final value of the first window
	out = op.Next(xs[4])
	assert.Equal(t, PushChange(2, true), out.Value().Change())
	assert.Equal(t, []int{5, 4}, out.Value().Items())
}

func TestOperator_PushAfter(t *testing.T) {
	cache := 0
	op := NewPeriodic[int, window.TickValue[int]](2, window.Seconds(time.UTC, 2)).
		BuildFunc(func(w View[window.TickValue[int]], isNew bool, x window.TickValue[int]) window.TickValue[int] {
			if isNew && w.Len() > 1 {
				assert.NotEqual(t, w.At(0), w.At(1))
			}
			if isNew && w.Len() >= 1 {
				cache = w.At(0).Value()
			} else if w.Len() > 1 {
				assert.Equal(t, cache, w.At(1).Value())
			}
			return x
		})
	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	for _, x := range ticksAt(start, []int{1, 2, 3, 4, 5, 6, 7}, time.Second) {
		op.Next(x)
	}
	assert.Equal(t, 6, cache)
}

func TestOperator_PushFirstCloner(t *testing.T) {
	cloned := 0
	op := NewPeriodic[int, []int](2, window.Seconds(time.UTC, 1)).
		PushFirst().
		WithCloner(func(s []int) []int {
			cloned++
			return append([]int(nil), s...)
		}).
		BuildFunc(func(w View[[]int], isNew bool, x window.TickValue[int]) []int {
			if w.IsEmpty() {
				return []int{x.Value()}
			}
			// appending to the duplicate must never change the closed window
			return append(w.At(0), x.Value())
		})
	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	for _, x := range ticksAt(start, []int{1, 2, 3}, time.Second) {
		op.Next(x)
	}
	assert.Equal(t, 2, cloned)
	op.WithView(func(v View[[]int]) {
		assert.Equal(t, []int{1, 2, 3}, v.At(0))
		assert.Equal(t, []int{1, 2}, v.At(1))
	})
}

func TestOperator_Clone(t *testing.T) {
	op := Cache[int](2, window.Seconds(time.UTC, 1), WithName("clone-test"), WithInline(2))
	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	for _, x := range ticksAt(start, []int{1, 2, 3}, time.Second) {
		op.Next(x)
	}
	assert.True(t, op.Last().Equal(window.NewTick(start.Add(2*time.Second))))

	clone := op.Clone()
	assert.True(t, clone.Last().IsBigBang())
	assert.Equal(t, op.Period(), clone.Period())
	clone.WithView(func(v View[window.TickValue[int]]) {
		assert.True(t, v.IsEmpty())
		assert.True(t, v.IsInline())
	})
	// the original keeps its history
	op.WithView(func(v View[window.TickValue[int]]) {
		assert.Equal(t, 2, v.Len())
	})
}

func TestOperator_NewOperator(t *testing.T) {
	op := NewOperator[int, int](func() queue.Queue[int] { return queue.NewCircular[int](1) }, window.Zero(),
		ReducerFunc[window.TickValue[int], int](func(v View[int], isNew bool, x window.TickValue[int]) int {
			if isNew && !v.IsEmpty() {
				return v.At(0) + x.Value()
			}
			return x.Value()
		}))
	start := time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC)
	var out window.TickValue[View[int]]
	for _, x := range ticksAt(start, []int{1, 2, 3}, time.Second) {
		out = op.Next(x)
	}
	// running sum across windows with a single slot of history
	assert.Equal(t, 6, out.Value().At(0))
	assert.Equal(t, 1, out.Value().Len())
}

func TestNewPeriodic_ZeroLength(t *testing.T) {
	assert.Panics(t, func() { NewPeriodic[int, int](0, window.Zero()) })
	assert.Panics(t, func() { Cache[int](0, window.Zero()) })
}
