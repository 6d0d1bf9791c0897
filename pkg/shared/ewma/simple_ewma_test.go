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

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const (
	defaultEWMA = 77.14075212282631
	span15EWMA  = 74.9112723022807
)

var samples = [14]float64{
	83.92333333333333, 0, 83.24000000000001, 88.24, 77.61, 76.57333333333334, 79.91333333333334, 80.34,
	74.90666666666667, 69.90666666666667, 71.65, 73.19333333333333, 72.18666666666667, 74.90666666666667,
}

// TestSimpleEWMA tests the SimpleEWMA implementation.
func TestSimpleEWMA(t *testing.T) {
	// Create a new EWMA with the default span.
	newEwma := NewSimpleEWMA()
	for _, f := range samples {
		newEwma.Add(decimal.NewFromFloat(f))
	}
	assert.InDelta(t, defaultEWMA, newEwma.Get().InexactFloat64(), 0.00000001)

	// Create a new EWMA with a custom span.
	newEwma = NewSimpleEWMA(15)
	for _, f := range samples {
		newEwma.Add(decimal.NewFromFloat(f))
	}
	assert.InDelta(t, span15EWMA, newEwma.Get().InexactFloat64(), 0.00000001)
	assert.True(t, decimal.NewFromInt(2).Div(decimal.NewFromInt(16)).Equal(newEwma.Alpha()))
}

// TestSimpleEWMAInit tests the SimpleEWMA initialization.
func TestSimpleEWMAInit(t *testing.T) {
	newEwma := NewSimpleEWMA(3)
	newEwma.Add(decimal.NewFromInt(10))
	assert.True(t, decimal.NewFromInt(10).Equal(newEwma.Get()))
	newEwma.Add(decimal.NewFromInt(20))
	assert.True(t, decimal.NewFromInt(15).Equal(newEwma.Get()))

	newEwma.Reset()
	assert.True(t, decimal.Zero.Equal(newEwma.Get()))
	newEwma.Add(decimal.NewFromInt(4))
	assert.True(t, decimal.NewFromInt(4).Equal(newEwma.Get()))
}

// TestSimpleEWMASet tests that Set seeds the average.
func TestSimpleEWMASet(t *testing.T) {
	newEwma := NewSimpleEWMA(3)
	newEwma.Set(decimal.NewFromInt(10))
	newEwma.Add(decimal.NewFromInt(20))
	assert.True(t, decimal.NewFromInt(15).Equal(newEwma.Get()))
}
