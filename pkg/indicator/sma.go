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

// SMA is the simple moving average of the last closes of length windows. The sum is kept incrementally,
// adding the new close and taking out the close that was replaced or evicted.
type SMA struct {
	op  *tumbling.Operator[decimal.Decimal, window.TickValue[decimal.Decimal]]
	sum decimal.Decimal
}

var _ Indicator = (*SMA)(nil)

// NewSMA returns the simple moving average over length windows.
func NewSMA(period window.Period, length int, opts ...tumbling.Option) *SMA {
	return &SMA{
		op:  tumbling.Cache[decimal.Decimal](length, period, opts...),
		sum: decimal.Zero,
	}
}

func (s *SMA) Kind() Kind {
	return KindSMA
}

func (s *SMA) Next(input window.Tickable[decimal.Decimal]) Sample {
	out := s.op.Next(input)
	view := out.Value()
	if outdated, ok := view.Change().Outdated(); ok {
		s.sum = s.sum.Sub(outdated.Value())
	}
	s.sum = s.sum.Add(view.At(0).Value())
	return Sample{
		Tick:      out.Tick(),
		NewWindow: view.IsNewPeriod(),
		Value:     s.sum.Div(decimal.NewFromInt(int64(view.Len()))),
	}
}
