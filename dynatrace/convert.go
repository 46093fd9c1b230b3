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

package dynatrace

import (
	"strings"
	"time"

	"github.com/loglens/loglens/api"
	"github.com/loglens/loglens/session"
)

// convertRecords normalizes raw storage records into log entries, keeping
// input order. defaultTime stands in for missing or unparseable timestamps.
func convertRecords(records []api.Record, defaultTime time.Time) []session.LogEntry {
	entries := make([]session.LogEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, convertRecord(record, defaultTime))
	}
	return entries
}

func convertRecord(record api.Record, defaultTime time.Time) session.LogEntry {
	entry := session.LogEntry{
		Level:      strings.ToUpper(record.String("loglevel")),
		Content:    firstField(record, "content", "message"),
		Attributes: map[string]string{},
	}
	if entry.Level == "" {
		entry.Level = session.LevelInfo
	}

	entry.Timestamp = defaultTime.UTC()
	if ts := record.String("timestamp"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Timestamp = parsed.UTC()
		}
	}

	setAttr(entry.Attributes, session.AttrService, firstField(record, "dt.entity.service", "service_name"))
	setAttr(entry.Attributes, session.AttrHost, firstField(record, "dt.entity.host", "host"))
	setAttr(entry.Attributes, session.AttrTraceID, record.String("trace_id"))
	setAttr(entry.Attributes, session.AttrSpanID, record.String("span_id"))
	setAttr(entry.Attributes, session.AttrMessage, firstField(record, "content", "message"))

	// Unrecognized scalar fields ride along so sparse schemas survive the
	// trip into the details view and exports.
	for key, value := range record {
		switch key {
		case "timestamp", "loglevel", "content", "message",
			"dt.entity.service", "service_name", "dt.entity.host", "host",
			"trace_id", "span_id":
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			entry.Attributes[key] = s
		}
	}

	return entry
}

func firstField(record api.Record, keys ...string) string {
	for _, key := range keys {
		if v := record.String(key); v != "" {
			return v
		}
	}
	return ""
}

func setAttr(attrs map[string]string, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}
