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

package ewma

import "github.com/shopspring/decimal"

// defaultSpan is the span used when none is given
const defaultSpan = 30

// SimpleEWMA is a simple implementation of EWMA
type SimpleEWMA struct {
	// alpha is the smoothing factor
	alpha decimal.Decimal
	// value is the current value of the EWMA
	value decimal.Decimal
	// init is a flag to indicate if the EWMA has been initialized
	init bool
}

var _ EWMA = (*SimpleEWMA)(nil)

// NewSimpleEWMA returns a new SimpleEWMA
// If the span is not provided we use the default span of 30
// The smoothing factor is calculated from the span as 2/(span+1)
func NewSimpleEWMA(span ...int) *SimpleEWMA {
	s := defaultSpan
	if len(span) > 0 && span[0] > 0 {
		s = span[0]
	}
	return &SimpleEWMA{alpha: decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(s) + 1))}
}

// Add adds a new value to the EWMA
func (s *SimpleEWMA) Add(value decimal.Decimal) {
	// If the EWMA has not been initialized, set the value and return
	if !s.init {
		s.value = value
		s.init = true
		return
	}
	s.value = s.value.Add(s.alpha.Mul(value.Sub(s.value)))
}

// Get returns the current value of the EWMA
func (s *SimpleEWMA) Get() decimal.Decimal {
	return s.value
}

// Reset resets the EWMA to the initial value
func (s *SimpleEWMA) Reset() {
	s.value = decimal.Zero
	s.init = false
}

// Set sets the EWMA to the given value, the next Add decays from it
func (s *SimpleEWMA) Set(value decimal.Decimal) {
	s.value = value
	s.init = true
}

// Alpha returns the smoothing factor
func (s *SimpleEWMA) Alpha() decimal.Decimal {
	return s.alpha
}
