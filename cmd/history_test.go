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

package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens/loglens/store"
)

func historyFixture() []store.HistoryQuery {
	return []store.HistoryQuery{
		{
			ID:         "aaaa1111-0000-0000-0000-000000000000",
			QueryText:  "fetch logs",
			RangeLabel: "1h",
			ExecutedAt: time.Now().Add(-2 * time.Hour),
		},
		{
			ID:         "bbbb2222-0000-0000-0000-000000000000",
			QueryText:  "fetch logs\n| filter loglevel == \"ERROR\"",
			RangeLabel: "24h",
			ExecutedAt: time.Now().Add(-5 * time.Minute),
		},
	}
}

func TestFormatHistoryNewestFirst(t *testing.T) {
	out := formatHistory(historyFixture())
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "QUERY")
	assert.Contains(t, lines[1], "bbbb2222")
	assert.Contains(t, lines[1], "24h")
	assert.Contains(t, lines[1], `fetch logs | filter loglevel == "ERROR"`)
	assert.Contains(t, lines[2], "aaaa1111")
	assert.Contains(t, lines[2], "2 hours ago")
}

func TestResolveHistoryID(t *testing.T) {
	history := historyFixture()

	id, err := resolveHistoryID(history, "aaaa1111-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, history[0].ID, id)

	id, err = resolveHistoryID(history, "bbbb")
	require.NoError(t, err)
	assert.Equal(t, history[1].ID, id)

	_, err = resolveHistoryID(history, "cccc")
	assert.Error(t, err)

	withTwin := append(history, store.HistoryQuery{ID: "aaaa9999-0000-0000-0000-000000000000"})
	_, err = resolveHistoryID(withTwin, "aaaa")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "fetch logs | limit 10", oneLine("fetch logs\n|   limit 10", 60))
	assert.Equal(t, "fetch lo...", oneLine("fetch logs with a very long tail", 9))
	assert.Equal(t, "short", oneLine("short", 9))
}
