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

package indicator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/numaproj/indicator/pkg/window"
	"github.com/numaproj/indicator/pkg/window/tumbling"
)

// Bar is the open, high, low and close price of a window.
type Bar struct {
	// Start is the tick of the first event of the window.
	Start window.Tick
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
	// Count is the number of events in the window.
	Count int
}

func newBar(tick window.Tick, price decimal.Decimal) Bar {
	return Bar{Start: tick, Open: price, High: price, Low: price, Close: price, Count: 1}
}

func (b Bar) update(price decimal.Decimal) Bar {
	b.High = decimal.Max(b.High, price)
	b.Low = decimal.Min(b.Low, price)
	b.Close = price
	b.Count++
	return b
}

func (b Bar) String() string {
	return fmt.Sprintf("%s O:%s H:%s L:%s C:%s", b.Start, b.Open, b.High, b.Low, b.Close)
}

// OHLC builds one bar per window and keeps the last length bars.
type OHLC struct {
	op *tumbling.Operator[decimal.Decimal, Bar]
}

var _ Indicator = (*OHLC)(nil)

// NewOHLC returns an OHLC indicator keeping the last length bars.
func NewOHLC(period window.Period, length int, opts ...tumbling.Option) *OHLC {
	op := tumbling.NewPeriodic[decimal.Decimal, Bar](length, period, opts...).
		BuildFunc(func(view tumbling.View[Bar], isNew bool, event window.TickValue[decimal.Decimal]) Bar {
			if isNew {
				return newBar(event.Tick(), event.Value())
			}
			return view.At(0).update(event.Value())
		})
	return &OHLC{op: op}
}

func (o *OHLC) Kind() Kind {
	return KindOHLC
}

// Next consumes one price. The sample carries the current bar and, on the first event of a window, the bar that
// was just closed.
func (o *OHLC) Next(input window.Tickable[decimal.Decimal]) Sample {
	out := o.op.Next(input)
	view := out.Value()
	bar := view.At(0)
	s := Sample{Tick: out.Tick(), NewWindow: view.IsNewPeriod(), Value: bar.Close, Bar: &bar}
	if s.NewWindow {
		if closed, ok := view.Get(1); ok {
			s.Closed = &closed
		}
	}
	return s
}

// Bars returns the bars in the history, the current one first.
func (o *OHLC) Bars() []Bar {
	var bars []Bar
	o.op.WithView(func(v tumbling.View[Bar]) {
		bars = v.Items()
	})
	return bars
}

// Current returns the bar of the current window, false if no price was consumed yet.
func (o *OHLC) Current() (Bar, bool) {
	var (
		bar Bar
		ok  bool
	)
	o.op.WithView(func(v tumbling.View[Bar]) {
		bar, ok = v.Get(0)
	})
	return bar, ok
}
