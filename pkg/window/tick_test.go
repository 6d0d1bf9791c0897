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

package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTick_Compare(t *testing.T) {
	early := NewTick(time.Unix(60, 0))
	late := NewTick(time.Unix(120, 0))

	tests := []struct {
		name     string
		lhs      Tick
		rhs      Tick
		expected int
	}{
		{name: "both_real_before", lhs: early, rhs: late, expected: -1},
		{name: "both_real_after", lhs: late, rhs: early, expected: 1},
		{name: "both_real_equal", lhs: early, rhs: NewTick(time.Unix(60, 0)), expected: 0},
		{name: "real_after_big_bang", lhs: early, rhs: BigBang, expected: 1},
		{name: "big_bang_before_real", lhs: BigBang, rhs: early, expected: -1},
		{name: "big_bangs_equal", lhs: BigBang, rhs: Tick{}, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.lhs.Compare(tt.rhs))
			assert.Equal(t, tt.expected < 0, tt.lhs.Before(tt.rhs))
			assert.Equal(t, tt.expected == 0, tt.lhs.Equal(tt.rhs))
		})
	}
}

func TestTick_TS(t *testing.T) {
	ts := time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)
	tick := NewTick(ts)
	got, ok := tick.TS()
	assert.True(t, ok)
	assert.True(t, ts.Equal(got))
	assert.False(t, tick.IsBigBang())
	assert.Equal(t, "2021-11-01T00:00:00Z", tick.String())

	_, ok = BigBang.TS()
	assert.False(t, ok)
	assert.True(t, BigBang.IsBigBang())
	assert.Equal(t, "BigBang", BigBang.String())
}

func TestTickValue(t *testing.T) {
	ts := time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)
	tv := NewTickValue(ts, 42)
	assert.Equal(t, 42, tv.Value())
	assert.True(t, tv.Tick().Equal(NewTick(ts)))
	assert.Equal(t, tv, tv.ToTickValue())

	var tickable Tickable[string] = WithValue(BigBang, "x")
	assert.True(t, tickable.Tick().IsBigBang())
	assert.Equal(t, "x", tickable.ToTickValue().Value())
	assert.Equal(t, "BigBang: x", WithValue(BigBang, "x").String())
}
