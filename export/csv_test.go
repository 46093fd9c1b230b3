// Copyright 2026 The LogLens Authors
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

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens/loglens/session"
)

func exportEntries() []session.LogEntry {
	return []session.LogEntry{
		{
			Timestamp: time.Date(2026, 3, 14, 14, 59, 1, 0, time.UTC),
			Level:     session.LevelError,
			Content:   "Payment processing failed",
			Attributes: map[string]string{
				session.AttrService: "payment-service",
				session.AttrHost:    "prod-server-01",
				session.AttrTraceID: "abc123",
				session.AttrSpanID:  "def456",
				session.AttrMessage: "Payment processing failed",
				"zone":              "us-east-1",
				"dt.entity.process": "payments-7f9c",
			},
		},
		{
			Timestamp: time.Date(2026, 3, 14, 15, 0, 2, 0, time.UTC),
			Level:     session.LevelInfo,
			Content:   "User login successful",
			Attributes: map[string]string{
				session.AttrService: "user-service",
				session.AttrMessage: "User login successful",
			},
		},
	}
}

func TestHeaderLeadsWithFixedColumns(t *testing.T) {
	header := Header(exportEntries())

	require.True(t, len(header) >= len(leadColumns))
	assert.Equal(t, []string{
		"timestamp", "level", "service", "message", "host", "trace_id", "span_id", "content",
	}, header[:len(leadColumns)])
	// attributes beyond the fixed set are appended in sorted order
	assert.Equal(t, []string{"dt.entity.process", "zone"}, header[len(leadColumns):])
}

func TestHeaderWithoutExtraAttributes(t *testing.T) {
	entries := []session.LogEntry{
		{Timestamp: time.Now(), Level: session.LevelInfo, Content: "plain"},
	}

	assert.Equal(t, leadColumns, Header(entries))
}

func TestRowsFormatValues(t *testing.T) {
	entries := exportEntries()
	rows := Rows(entries)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"2026-03-14 14:59:01",
		"ERROR",
		"payment-service",
		"Payment processing failed",
		"prod-server-01",
		"abc123",
		"def456",
		"Payment processing failed",
		"payments-7f9c",
		"us-east-1",
	}, rows[0])

	// sparse attributes leave empty cells rather than shifting columns
	assert.Equal(t, []string{
		"2026-03-14 15:00:02",
		"INFO",
		"user-service",
		"User login successful",
		"",
		"",
		"",
		"User login successful",
		"",
		"",
	}, rows[1])
}

func TestWriteCSV(t *testing.T) {
	entries := []session.LogEntry{
		{
			Timestamp: time.Date(2026, 3, 14, 14, 59, 1, 0, time.UTC),
			Level:     session.LevelWarn,
			Content:   `said "hello", left`,
			Attributes: map[string]string{
				session.AttrService: "api-gateway",
				session.AttrMessage: `said "hello", left`,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	assert.Equal(t,
		"timestamp,level,service,message,host,trace_id,span_id,content\n"+
			"2026-03-14 14:59:01,WARN,api-gateway,\"said \"\"hello\"\", left\",,,,\"said \"\"hello\"\", left\"\n",
		buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "timestamp,level,service,message,host,trace_id,span_id,content\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "loglens_logs_20260314_150405.csv", Filename(now))
}
