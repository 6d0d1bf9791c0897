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
	"fmt"
	"time"
)

// Kind represents the kind of boundary a Period uses
type Kind int

const (
	// KindZero puts two ticks in the same window only if they are the same instant.
	KindZero Kind = iota
	KindYear
	KindMonth
	KindDay
	// KindDuration partitions the timeline into fixed-length intervals.
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindZero:
		return "Zero"
	case KindYear:
		return "Year"
	case KindMonth:
		return "Month"
	case KindDay:
		return "Day"
	case KindDuration:
		return "Duration"
	default:
		return "Unknown"
	}
}

// weekOffset shifts the UNIX epoch (a Thursday) to the following Monday.
const weekOffset = 4 * 24 * time.Hour

// Period is a tumbling window boundary predicate. It is an immutable value and is safe to copy.
type Period struct {
	loc    *time.Location
	kind   Kind
	length time.Duration
	// offset is the zone offset in seconds that duration windows are aligned to.
	offset int64
}

// Zero returns the period in which every instant is its own window.
func Zero() Period {
	return Period{loc: time.UTC, kind: KindZero}
}

// Year returns calendar year windows in the given location.
func Year(loc *time.Location) Period {
	return Period{loc: orUTC(loc), kind: KindYear}
}

// Month returns calendar month windows in the given location.
func Month(loc *time.Location) Period {
	return Period{loc: orUTC(loc), kind: KindMonth}
}

// Day returns calendar day windows in the given location.
func Day(loc *time.Location) Period {
	return Period{loc: orUTC(loc), kind: KindDay}
}

// Weeks returns n-week windows starting on Monday 00:00 in the given location.
func Weeks(loc *time.Location, n uint32) Period {
	return OfDuration(loc, time.Duration(n)*7*24*time.Hour)
}

// Days returns n-day windows. One day is the calendar Day period.
func Days(loc *time.Location, n uint32) Period {
	if n == 1 {
		return Day(loc)
	}
	return OfDuration(loc, time.Duration(n)*24*time.Hour)
}

// Hours returns n-hour windows.
func Hours(loc *time.Location, n uint32) Period {
	return OfDuration(loc, time.Duration(n)*time.Hour)
}

// Minutes returns n-minute windows.
func Minutes(loc *time.Location, n uint32) Period {
	return OfDuration(loc, time.Duration(n)*time.Minute)
}

// Seconds returns n-second windows.
func Seconds(loc *time.Location, n uint32) Period {
	return OfDuration(loc, time.Duration(n)*time.Second)
}

// OfDuration returns fixed-length windows of length d. A non-positive length returns Zero().
// The windows are aligned to the offset loc has at the week anchor and do not follow daylight saving changes.
func OfDuration(loc *time.Location, d time.Duration) Period {
	if d <= 0 {
		return Zero()
	}
	loc = orUTC(loc)
	_, offset := time.Unix(int64(weekOffset/time.Second), 0).In(loc).Zone()
	return Period{loc: loc, kind: KindDuration, length: d, offset: int64(offset)}
}

// Kind returns the kind of the period.
func (p Period) Kind() Kind {
	return p.kind
}

// Location returns the location in which the boundaries are computed.
func (p Period) Location() *time.Location {
	return orUTC(p.loc)
}

// ToDuration returns the length of the period. The bool is false for calendar year and month periods,
// whose length is not fixed.
func (p Period) ToDuration() (time.Duration, bool) {
	switch p.kind {
	case KindZero:
		return 0, true
	case KindDay:
		return 24 * time.Hour, true
	case KindDuration:
		return p.length, true
	default:
		return 0, false
	}
}

// SameWindow reports whether both ticks fall in the same window. BigBang never shares a window with anything.
func (p Period) SameWindow(lhs, rhs Tick) bool {
	l, ok := lhs.TS()
	if !ok {
		return false
	}
	r, ok := rhs.TS()
	if !ok {
		return false
	}
	loc := orUTC(p.loc)
	l, r = l.In(loc), r.In(loc)
	switch p.kind {
	case KindYear:
		return l.Year() == r.Year()
	case KindMonth:
		return l.Year() == r.Year() && l.Month() == r.Month()
	case KindDay:
		ly, lm, ld := l.Date()
		ry, rm, rd := r.Date()
		return ly == ry && lm == rm && ld == rd
	case KindDuration:
		if p.length <= 0 {
			return l.Equal(r)
		}
		return p.index(l) == p.index(r)
	default:
		return l.Equal(r)
	}
}

// index returns the ordinal of the duration window containing t.
func (p Period) index(t time.Time) int64 {
	secs := t.Unix() + p.offset - int64(weekOffset/time.Second)
	if p.length%time.Second == 0 {
		return floorDiv(secs, int64(p.length/time.Second))
	}
	nanos := secs*int64(time.Second) + int64(t.Nanosecond())
	return floorDiv(nanos, int64(p.length))
}

func (p Period) String() string {
	loc := orUTC(p.loc)
	switch p.kind {
	case KindDuration:
		return fmt.Sprintf("%s(%s, %s)", p.kind, p.length, loc)
	case KindZero:
		return p.kind.String()
	default:
		return fmt.Sprintf("%s(%s)", p.kind, loc)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
