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

// Package export projects result entries into flat records for CSV export.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/loglens/loglens/session"
)

// Lead columns in their documented order; extra attribute keys follow
// alphabetically.
var leadColumns = []string{
	"timestamp", "level",
	session.AttrService, session.AttrMessage, session.AttrHost,
	session.AttrTraceID, session.AttrSpanID,
	"content",
}

// Header returns the column names for entries: the lead columns plus any
// extra attribute keys present anywhere in entries, sorted.
func Header(entries []session.LogEntry) []string {
	lead := map[string]bool{}
	for _, c := range leadColumns {
		lead[c] = true
	}

	extraSet := map[string]bool{}
	for _, entry := range entries {
		for key := range entry.Attributes {
			if !lead[key] {
				extraSet[key] = true
			}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extras = append(extras, key)
	}
	sort.Strings(extras)

	return append(append([]string{}, leadColumns...), extras...)
}

// Rows flattens entries into records matching Header(entries), in entry
// order.
func Rows(entries []session.LogEntry) [][]string {
	header := Header(entries)
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, row(entry, header))
	}
	return rows
}

func row(entry session.LogEntry, header []string) []string {
	record := make([]string, 0, len(header))
	for _, column := range header {
		switch column {
		case "timestamp":
			record = append(record, entry.Timestamp.UTC().Format("2006-01-02 15:04:05"))
		case "level":
			record = append(record, entry.Level)
		case "content":
			record = append(record, entry.Content)
		default:
			record = append(record, entry.Attr(column))
		}
	}
	return record
}

// WriteCSV writes entries to w as CSV with a header row.
func WriteCSV(w io.Writer, entries []session.LogEntry) error {
	header := Header(entries)
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writer.Write(row(entry, header)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Filename returns the conventional name for an export taken at now, e.g.
// loglens_logs_20260102_150405.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("loglens_logs_%s.csv", now.Format("20060102_150405"))
}
