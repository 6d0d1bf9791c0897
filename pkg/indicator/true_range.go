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
	"github.com/shopspring/decimal"

	"github.com/numaproj/indicator/pkg/window"
	"github.com/numaproj/indicator/pkg/window/tumbling"
)

type rangeState struct {
	high  decimal.Decimal
	low   decimal.Decimal
	close decimal.Decimal
}

// TrueRange is the true range of the current window,
//
//	max(high - low, |prevClose - high|, |prevClose - low|)
//
// where prevClose is the close of the previous window. The first window has no previous close and reports its
// plain range.
type TrueRange struct {
	op *tumbling.Operator[decimal.Decimal, rangeState]
}

var _ Indicator = (*TrueRange)(nil)

// NewTrueRange returns the true range indicator.
func NewTrueRange(period window.Period, opts ...tumbling.Option) *TrueRange {
	op := tumbling.NewPeriodic[decimal.Decimal, rangeState](2, period, opts...).
		BuildFunc(func(view tumbling.View[rangeState], isNew bool, event window.TickValue[decimal.Decimal]) rangeState {
			x := event.Value()
			if isNew {
				return rangeState{high: x, low: x, close: x}
			}
			s := view.At(0)
			s.high = decimal.Max(s.high, x)
			s.low = decimal.Min(s.low, x)
			s.close = x
			return s
		})
	return &TrueRange{op: op}
}

func (tr *TrueRange) Kind() Kind {
	return KindTrueRange
}

func (tr *TrueRange) Next(input window.Tickable[decimal.Decimal]) Sample {
	out := tr.op.Next(input)
	view := out.Value()
	current := view.At(0)
	value := current.high.Sub(current.low)
	if prev, ok := view.Get(1); ok {
		value = decimal.Max(value, prev.close.Sub(current.high).Abs(), prev.close.Sub(current.low).Abs())
	}
	return Sample{
		Tick:      out.Tick(),
		NewWindow: view.IsNewPeriod(),
		Value:     value,
	}
}
