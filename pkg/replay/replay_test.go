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

package replay

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
	"go.uber.org/goleak"

	"github.com/numaproj/indicator/pkg/indicator"
	"github.com/numaproj/indicator/pkg/sinks"
	"github.com/numaproj/indicator/pkg/sources/file"
	"github.com/numaproj/indicator/pkg/window"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const hourlyCSV = `timestamp,price,symbol
2021-11-01T00:00:00Z,2,BTC
2021-11-01T00:15:00Z,1,BTC
2021-11-01T00:32:00Z,4,ETH
2021-11-01T00:59:59Z,3,BTC
2021-11-01T01:00:00Z,3,BTC
2021-11-01T01:15:00Z,4,ETH
2021-11-01T01:33:00Z,2,BTC
2021-11-01T01:57:59Z,3,BTC
2021-11-01T02:10:00Z,1,ETH
2021-11-01T02:31:00Z,2,BTC
2021-11-01T02:53:59Z,3,BTC
`

type memSink struct {
	sync.Mutex
	samples []sinks.Sample
	writes  int
	err     error
}

func (m *memSink) GetName() string {
	return "mem"
}

func (m *memSink) Write(_ context.Context, samples []sinks.Sample) error {
	m.Lock()
	defer m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.samples = append(m.samples, samples...)
	return nil
}

func (m *memSink) Close() error {
	return nil
}

func (m *memSink) byName(name string) []sinks.Sample {
	m.Lock()
	defer m.Unlock()
	var out []sinks.Sample
	for _, s := range m.samples {
		if s.Indicator == name {
			out = append(out, s)
		}
	}
	return out
}

func hourlyJobs(t *testing.T) []Job {
	t.Helper()
	period := window.Hours(time.UTC, 1)
	ohlc, err := indicator.New(indicator.KindOHLC, period, 3)
	require.NoError(t, err)
	sma, err := indicator.New(indicator.KindSMA, period, 2)
	require.NoError(t, err)
	return []Job{
		{Name: "bars", Period: "1h", Indicator: ohlc},
		{Name: "sma", Period: "1h", Indicator: sma},
	}
}

func TestReplayer_Run(t *testing.T) {
	sink := &memSink{}
	r, err := NewReplayer(file.NewReader(strings.NewReader(hourlyCSV)), hourlyJobs(t), []sinks.Sink{sink}, WithBatchSize(4))
	require.NoError(t, err)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(11), stats.TicksRead)
	assert.Equal(t, int64(0), stats.TicksDropped)
	assert.Equal(t, int64(22), stats.SamplesWritten)
	assert.Equal(t, map[string]int64{"bars": 3, "sma": 3}, stats.Windows)
	assert.Equal(t, 6, sink.writes)

	bars := sink.byName("bars")
	require.Len(t, bars, 11)
	for i := 1; i < len(bars); i++ {
		assert.False(t, bars[i].Tick.Before(bars[i-1].Tick), "samples of a job keep the tick order")
	}
	var closed []indicator.Bar
	for _, s := range bars {
		if s.Closed != nil {
			closed = append(closed, *s.Closed)
		}
	}
	require.Len(t, closed, 2)
	assert.Equal(t, "2", closed[0].Open.String())
	assert.Equal(t, "4", closed[0].High.String())
	assert.Equal(t, "1", closed[0].Low.String())
	assert.Equal(t, "3", closed[0].Close.String())
	assert.Equal(t, "4", closed[1].High.String())
	assert.Equal(t, "2", closed[1].Low.String())

	assert.Equal(t, "ETH", bars[2].Symbol)
	assert.Equal(t, "1h", bars[0].Period)
	assert.Len(t, sink.byName("sma"), 11)
}

func TestReplayer_Filter(t *testing.T) {
	f, err := NewFilter(`symbol == "BTC" && price >= 2`)
	require.NoError(t, err)
	sink := &memSink{}
	r, err := NewReplayer(file.NewReader(strings.NewReader(hourlyCSV)), hourlyJobs(t), []sinks.Sink{sink}, WithFilter(f))
	require.NoError(t, err)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(11), stats.TicksRead)
	assert.Equal(t, int64(4), stats.TicksDropped)
	assert.Equal(t, int64(14), stats.SamplesWritten)
	for _, s := range sink.byName("bars") {
		assert.Equal(t, "BTC", s.Symbol)
	}
}

func TestReplayer_OnlyNewWindow(t *testing.T) {
	sink := &memSink{}
	r, err := NewReplayer(file.NewReader(strings.NewReader(hourlyCSV)), hourlyJobs(t), []sinks.Sink{sink}, WithOnlyNewWindow())
	require.NoError(t, err)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.SamplesWritten)
	for _, s := range sink.samples {
		assert.True(t, s.NewWindow)
	}
}

func TestReplayer_SinkError(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	r, err := NewReplayer(file.NewReader(strings.NewReader(hourlyCSV)), hourlyJobs(t), []sinks.Sink{sink}, WithBatchSize(1), WithBufferSize(0))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestReplayer_SourceError(t *testing.T) {
	input := hourlyCSV + "2021-11-01T03:00:00Z,abc,BTC\n"
	r, err := NewReplayer(file.NewReader(strings.NewReader(input)), hourlyJobs(t), []sinks.Sink{&memSink{}})
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 13")
}

func TestReplayer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := NewReplayer(file.NewReader(strings.NewReader(hourlyCSV)), hourlyJobs(t), []sinks.Sink{&memSink{}}, WithBufferSize(0))
	require.NoError(t, err)
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReplayer(t *testing.T) {
	_, err := NewReplayer(nil, nil, nil)
	assert.Error(t, err)

	jobs := hourlyJobs(t)
	_, err = NewReplayer(nil, []Job{jobs[0], jobs[0]}, nil)
	assert.Error(t, err)

	_, err = NewReplayer(nil, []Job{{Name: "empty"}}, nil)
	assert.Error(t, err)

	_, err = NewReplayer(nil, jobs, nil, WithBatchSize(0))
	assert.Error(t, err)

	_, err = NewReplayer(nil, jobs, nil, WithBufferSize(-1))
	assert.Error(t, err)
}

func TestEnv(t *testing.T) {
	record, err := file.NewReader(strings.NewReader("2021-11-01T00:00:00Z,2.5,BTC\n")).Read()
	require.NoError(t, err)
	env := Env(record)
	assert.Equal(t, 2.5, env["price"])
	assert.Equal(t, "BTC", env["symbol"])
	assert.Equal(t, int64(1635724800), env["unix"])
}

// tickingSource advances the clock by one second on every read.
type tickingSource struct {
	Source
	clock *clockz.FakeClock
}

func (s *tickingSource) Read() (file.Record, error) {
	s.clock.Advance(time.Second)
	return s.Source.Read()
}

func TestReplayer_Took(t *testing.T) {
	clock := clockz.NewFakeClock()
	source := &tickingSource{Source: file.NewReader(strings.NewReader(hourlyCSV)), clock: clock}
	r, err := NewReplayer(source, hourlyJobs(t), []sinks.Sink{&memSink{}}, WithClock(clock))
	require.NoError(t, err)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	// eleven records and the final EOF
	assert.Equal(t, 12*time.Second, stats.Took)
}
