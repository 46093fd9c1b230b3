// Copyright 2025 The LogLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import "time"

// Canonical time range labels.
const (
	Range30m       = "30m"
	Range1h        = "1h"
	Range2h        = "2h"
	Range6h        = "6h"
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	Range24h       = "24h"
	Range7d        = "7d"
)

// DefaultRange is the window selected when a session starts.
const DefaultRange = Range1h

// TimeRange pairs a canonical label with its human-readable name.
type TimeRange struct {
	Label   string
	Display string
}

// Ranges returns the canonical windows in picker order.
func Ranges() []TimeRange {
	return []TimeRange{
		{Range30m, "Last 30 minutes"},
		{Range1h, "Last hour"},
		{Range2h, "Last 2 hours"},
		{Range6h, "Last 6 hours"},
		{RangeToday, "Today"},
		{RangeYesterday, "Yesterday"},
		{Range24h, "Last 24 hours"},
		{Range7d, "Last 7 days"},
	}
}

// RangeDisplay returns the human-readable name for label, or the label
// itself when it is not canonical.
func RangeDisplay(label string) string {
	for _, r := range Ranges() {
		if r.Label == label {
			return r.Display
		}
	}
	return label
}

var rangeSpans = map[string]time.Duration{
	Range30m: 30 * time.Minute,
	Range1h:  time.Hour,
	Range2h:  2 * time.Hour,
	Range6h:  6 * time.Hour,
	Range24h: 24 * time.Hour,
	Range7d:  7 * 24 * time.Hour,
}

// ResolveRange turns a label into a concrete [start, end) window anchored at
// now. Relative windows subtract their span from now; "today" starts at the
// current UTC midnight and "yesterday" covers the 24 hours before it. All
// results are UTC. Callers resolve per execution, never ahead of time.
func ResolveRange(label string, now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	switch label {
	case RangeToday:
		return midnight(now), now, nil
	case RangeYesterday:
		m := midnight(now)
		return m.Add(-24 * time.Hour), m, nil
	default:
		span, ok := rangeSpans[label]
		if !ok {
			return time.Time{}, time.Time{}, &UnknownRangeError{Label: label}
		}
		return now.Add(-span), now, nil
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
