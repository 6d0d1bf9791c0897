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
	"time"
)

// Tick is a point in time, or the BigBang sentinel when there is no time associated with a value.
// The zero value is BigBang.
type Tick struct {
	ts    time.Time
	valid bool
}

// BigBang is the "no time" tick. It sorts before every real instant and never shares a window with anything,
// including another BigBang.
var BigBang = Tick{}

// NewTick returns a tick at the given instant.
func NewTick(ts time.Time) Tick {
	return Tick{ts: ts, valid: true}
}

// TS returns the instant of the tick, the bool is false for BigBang.
func (t Tick) TS() (time.Time, bool) {
	return t.ts, t.valid
}

// IsBigBang reports whether the tick is the sentinel.
func (t Tick) IsBigBang() bool {
	return !t.valid
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or after other.
// A real instant is greater than BigBang, and two BigBangs are equal.
func (t Tick) Compare(other Tick) int {
	switch {
	case t.valid && other.valid:
		return t.ts.Compare(other.ts)
	case t.valid:
		return 1
	case other.valid:
		return -1
	default:
		return 0
	}
}

// Before reports whether t sorts before other.
func (t Tick) Before(other Tick) bool {
	return t.Compare(other) < 0
}

// Equal reports whether both ticks denote the same instant, or are both BigBang.
func (t Tick) Equal(other Tick) bool {
	return t.Compare(other) == 0
}

func (t Tick) String() string {
	if !t.valid {
		return "BigBang"
	}
	return t.ts.Format(time.RFC3339Nano)
}
