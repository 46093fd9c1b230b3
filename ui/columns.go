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

package ui

import (
	"sort"

	"github.com/loglens/loglens/session"
)

// Column keys. The fixed set mirrors the CSV export order; extra attribute
// keys discovered in the current result set follow alphabetically.
const (
	colTimestamp = "timestamp"
	colLevel     = "level"
	colService   = session.AttrService
	colMessage   = session.AttrMessage
	colHost      = session.AttrHost
	colTraceID   = session.AttrTraceID
	colSpanID    = session.AttrSpanID
	colContent   = "content"
)

var fixedColumns = []string{
	colTimestamp, colLevel, colService, colMessage, colHost, colTraceID, colSpanID, colContent,
}

const tableTimeFormat = "2006-01-02 15:04:05"

func columnTitle(key string) string {
	switch key {
	case colTimestamp:
		return "Timestamp"
	case colLevel:
		return "Level"
	case colService:
		return "Service"
	case colMessage:
		return "Message"
	case colHost:
		return "Host"
	case colTraceID:
		return "Trace ID"
	case colSpanID:
		return "Span ID"
	case colContent:
		return "Content"
	default:
		return key
	}
}

func columnWidth(key string) int {
	switch key {
	case colTimestamp:
		return 19
	case colLevel:
		return 6
	case colService:
		return 16
	case colMessage:
		return 40
	case colHost:
		return 14
	case colTraceID:
		return 12
	case colSpanID:
		return 10
	case colContent:
		return 30
	default:
		return 14
	}
}

func cellValue(entry session.LogEntry, key string) string {
	switch key {
	case colTimestamp:
		return entry.Timestamp.UTC().Format(tableTimeFormat)
	case colLevel:
		return entry.Level
	case colContent:
		return entry.Content
	default:
		return entry.Attr(key)
	}
}

// availableColumns returns every selectable column for entries: the fixed
// set plus any extra attribute keys, sorted.
func availableColumns(entries []session.LogEntry) []string {
	fixed := map[string]bool{}
	for _, key := range fixedColumns {
		fixed[key] = true
	}

	extraSet := map[string]bool{}
	for _, entry := range entries {
		for key := range entry.Attributes {
			if !fixed[key] {
				extraSet[key] = true
			}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extras = append(extras, key)
	}
	sort.Strings(extras)

	return append(append([]string{}, fixedColumns...), extras...)
}
