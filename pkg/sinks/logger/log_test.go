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

package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/indicator/pkg/indicator"
	"github.com/numaproj/indicator/pkg/sinks"
	"github.com/numaproj/indicator/pkg/window"
)

var startTime = time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)

func testSamples() []sinks.Sample {
	tick := window.NewTick(startTime)
	closed := indicator.Bar{Start: tick, Open: decimal.NewFromInt(1), High: decimal.NewFromInt(3), Low: decimal.NewFromInt(1), Close: decimal.NewFromInt(2), Count: 2}
	current := indicator.Bar{Start: window.NewTick(startTime.Add(time.Hour)), Open: decimal.NewFromInt(4), High: decimal.NewFromInt(4), Low: decimal.NewFromInt(4), Close: decimal.NewFromInt(4), Count: 1}
	return []sinks.Sample{
		{
			Sample:    indicator.Sample{Tick: tick, NewWindow: false, Value: decimal.RequireFromString("2.5")},
			Indicator: "sma-1h",
			Period:    "1h",
		},
		{
			Sample:    indicator.Sample{Tick: current.Start, NewWindow: true, Value: current.Close, Bar: &current, Closed: &closed},
			Indicator: "bars",
			Period:    "1h",
			Symbol:    "BTC",
		},
	}
}

func TestToLog_Write(t *testing.T) {
	var buf bytes.Buffer
	toLog, err := NewToLog(&buf, WithName("test"))
	require.NoError(t, err)
	assert.Equal(t, "test", toLog.GetName())
	require.NoError(t, toLog.Write(context.Background(), testSamples()))
	require.NoError(t, toLog.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "sma-1h", first["indicator"])
	assert.Equal(t, "2.5", first["value"])
	assert.Equal(t, false, first["newWindow"])
	assert.NotContains(t, first, "bar")
	assert.NotContains(t, first, "symbol")

	var second line
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "BTC", second.Symbol)
	assert.True(t, second.NewWindow)
	require.NotNil(t, second.Closed)
	assert.True(t, second.Closed.High.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 2, second.Closed.Count)
	assert.True(t, second.Closed.Start.Equal(startTime))
	require.NotNil(t, second.Bar)
	assert.True(t, second.Bar.Open.Equal(decimal.NewFromInt(4)))
}

func TestToLog_OnlyNewWindow(t *testing.T) {
	var buf bytes.Buffer
	toLog, err := NewToLog(&buf, WithOnlyNewWindow())
	require.NoError(t, err)
	assert.Equal(t, "log", toLog.GetName())
	require.NoError(t, toLog.Write(context.Background(), testSamples()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"indicator":"bars"`)
}
