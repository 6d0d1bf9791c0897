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

	"github.com/numaproj/indicator/pkg/shared/ewma"
	"github.com/numaproj/indicator/pkg/window"
	"github.com/numaproj/indicator/pkg/window/tumbling"
)

// EMA is the exponential moving average of the window closes. The smoothing factor is 2/(span+1).
//
// The operator pushes first, so the final average of the previous window is always found at age 1, on the first
// event of a window as well as on every following one.
type EMA struct {
	op *tumbling.Operator[decimal.Decimal, decimal.Decimal]
}

var _ Indicator = (*EMA)(nil)

// NewEMA returns the exponential moving average with the given span.
func NewEMA(period window.Period, span int, opts ...tumbling.Option) *EMA {
	avg := ewma.NewSimpleEWMA(span)
	op := tumbling.NewPeriodic[decimal.Decimal, decimal.Decimal](2, period, opts...).
		PushFirst().
		BuildFunc(func(view tumbling.View[decimal.Decimal], _ bool, event window.TickValue[decimal.Decimal]) decimal.Decimal {
			// the first window starts the average from its close
			avg.Reset()
			if prev, ok := view.Get(1); ok {
				avg.Set(prev)
			}
			avg.Add(event.Value())
			return avg.Get()
		})
	return &EMA{op: op}
}

func (e *EMA) Kind() Kind {
	return KindEMA
}

func (e *EMA) Next(input window.Tickable[decimal.Decimal]) Sample {
	out := e.op.Next(input)
	view := out.Value()
	return Sample{
		Tick:      out.Tick(),
		NewWindow: view.IsNewPeriod(),
		Value:     view.At(0),
	}
}
