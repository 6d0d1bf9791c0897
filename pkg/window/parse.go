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
	"math"
	"strconv"
	"strings"
	"time"
)

// ParsePeriod parses a period expression such as "1y", "1M", "1d", "2w", "4h", "15m" or "30s".
// Anything else is handed to time.ParseDuration. "0" is the Zero period.
func ParsePeriod(s string, loc *time.Location) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Period{}, fmt.Errorf("empty period")
	}
	if s == "0" {
		return Zero(), nil
	}
	unit := s[len(s)-1]
	switch unit {
	case 'y', 'M', 'd', 'w':
		n, err := strconv.ParseUint(s[:len(s)-1], 10, 32)
		if err != nil {
			return Period{}, fmt.Errorf("invalid period %q, %w", s, err)
		}
		switch unit {
		case 'y', 'M':
			if n > 1 {
				return Period{}, fmt.Errorf("invalid period %q, only a single calendar year or month is supported", s)
			}
			if n == 0 {
				return Zero(), nil
			}
			if unit == 'y' {
				return Year(loc), nil
			}
			return Month(loc), nil
		case 'd':
			if n > math.MaxInt64/uint64(24*time.Hour) {
				return Period{}, fmt.Errorf("invalid period %q, too long", s)
			}
			return Days(loc, uint32(n)), nil
		default:
			if n > math.MaxInt64/uint64(7*24*time.Hour) {
				return Period{}, fmt.Errorf("invalid period %q, too long", s)
			}
			return Weeks(loc, uint32(n)), nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q, %w", s, err)
	}
	if d < 0 {
		return Period{}, fmt.Errorf("invalid period %q, negative length", s)
	}
	return OfDuration(loc, d), nil
}

var offsetLayouts = []string{"-07:00", "-0700", "-07"}

// ParseOffset returns the location for a UTC offset such as "+08:00", "-0530" or "Z".
// IANA names such as "Asia/Shanghai" are loaded with time.LoadLocation.
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "Z", "UTC", "utc":
		return time.UTC, nil
	}
	if s[0] == '+' || s[0] == '-' {
		for _, layout := range offsetLayouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				_, offset := t.Zone()
				return time.FixedZone(s, offset), nil
			}
		}
		return nil, fmt.Errorf("invalid utc offset %q", s)
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q, %w", s, err)
	}
	return loc, nil
}
