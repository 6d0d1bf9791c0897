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

// Package indicator implements technical indicators on top of the tumbling operators. Every indicator consumes
// ticked prices one at a time and keeps a bounded history of per-window values, it never rescans past ticks.
package indicator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/numaproj/indicator/pkg/window"
	"github.com/numaproj/indicator/pkg/window/tumbling"
)

// Kind is the type of indicator
type Kind string

const (
	KindOHLC      Kind = "ohlc"
	KindSMA       Kind = "sma"
	KindEMA       Kind = "ema"
	KindTrueRange Kind = "tr"
)

// ParseKind returns the kind for the given name, case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindOHLC, KindSMA, KindEMA, KindTrueRange:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported indicator kind %q", s)
	}
}

// Sample is one output of an indicator.
type Sample struct {
	// Tick is the tick of the event that produced the sample.
	Tick window.Tick
	// NewWindow is true if the event started a new window.
	NewWindow bool
	// Value is the value of the indicator after the event. For OHLC it is the close of the current bar.
	Value decimal.Decimal
	// Bar is the current bar, only set by OHLC.
	Bar *Bar
	// Closed is the bar the event closed, only set by OHLC on the first event of a new window.
	Closed *Bar
}

// Indicator is the common interface of all the indicators, used to run them generically.
type Indicator interface {
	// Kind returns the kind of the indicator.
	Kind() Kind
	// Next consumes one ticked price.
	Next(input window.Tickable[decimal.Decimal]) Sample
}

// New returns an indicator of the given kind. length is the lookback history in windows, for SMA and EMA it is also
// the span of the average.
func New(kind Kind, period window.Period, length int, opts ...tumbling.Option) (Indicator, error) {
	if length <= 0 {
		return nil, fmt.Errorf("invalid length %d, must be positive", length)
	}
	switch kind {
	case KindOHLC:
		return NewOHLC(period, length, opts...), nil
	case KindSMA:
		return NewSMA(period, length, opts...), nil
	case KindEMA:
		return NewEMA(period, length, opts...), nil
	case KindTrueRange:
		return NewTrueRange(period, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported indicator kind %q", kind)
	}
}
