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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRangeRelativeWindows(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	var tests = []struct {
		label string
		span  time.Duration
	}{
		{Range30m, 30 * time.Minute},
		{Range1h, time.Hour},
		{Range2h, 2 * time.Hour},
		{Range6h, 6 * time.Hour},
		{Range24h, 24 * time.Hour},
		{Range7d, 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			start, end, err := ResolveRange(tt.label, now)

			require.NoError(t, err)
			assert.Equal(t, now.Add(-tt.span), start)
			assert.Equal(t, now, end)
		})
	}
}

func TestResolveRangeToday(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	start, end, err := ResolveRange(RangeToday, now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)
}

func TestResolveRangeTodayJustAfterMidnight(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 30, 0, time.UTC)

	start, end, err := ResolveRange(RangeToday, now)

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, end.Sub(start))
}

func TestResolveRangeYesterday(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	start, end, err := ResolveRange(RangeYesterday, now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveRangeNormalizesToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, 3, 14, 22, 30, 0, 0, est)

	start, end, err := ResolveRange(RangeToday, now)

	require.NoError(t, err)
	// 22:30 EST is 03:30 UTC the next day
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.UTC, end.Location())
	assert.Equal(t, 3*time.Hour+30*time.Minute, end.Sub(start))
}

func TestResolveRangeUnknownLabel(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	_, _, err := ResolveRange("5m", now)

	require.Error(t, err)
	rangeErr, ok := err.(*UnknownRangeError)
	require.True(t, ok)
	assert.Equal(t, "5m", rangeErr.Label)
	assert.Contains(t, err.Error(), "5m")
}

func TestResolveRangeAllCanonicalLabels(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	for _, r := range Ranges() {
		t.Run(r.Label, func(t *testing.T) {
			start, end, err := ResolveRange(r.Label, now)

			require.NoError(t, err)
			assert.True(t, start.Before(end), "start %v is not before end %v", start, end)
		})
	}
}

func TestResolveRangeLaterNowNeverMovesBackwards(t *testing.T) {
	// Crosses a UTC midnight so the calendar ranges get exercised too.
	instants := []time.Time{
		time.Date(2026, 3, 13, 23, 50, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 0, 10, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}

	for _, r := range Ranges() {
		t.Run(r.Label, func(t *testing.T) {
			prevStart, prevEnd, err := ResolveRange(r.Label, instants[0])
			require.NoError(t, err)

			for _, now := range instants[1:] {
				start, end, err := ResolveRange(r.Label, now)
				require.NoError(t, err)

				assert.False(t, start.Before(prevStart), "start moved backwards at %v", now)
				assert.False(t, end.Before(prevEnd), "end moved backwards at %v", now)

				prevStart, prevEnd = start, end
			}
		})
	}
}

func TestRangeDisplay(t *testing.T) {
	assert.Equal(t, "Last hour", RangeDisplay(Range1h))
	assert.Equal(t, "Yesterday", RangeDisplay(RangeYesterday))
	assert.Equal(t, "bogus", RangeDisplay("bogus"))
}
