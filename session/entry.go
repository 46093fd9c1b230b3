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

// Package session implements the query lifecycle of a log browsing session:
// time range resolution, execution against a backend gateway with a synthetic
// fallback, result sets with incremental search, and history recording.
package session

import (
	"strings"
	"time"
)

// Log levels are open strings; the backend may emit values outside this set
// and they are carried through verbatim.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Attribute keys produced by both the live and the synthetic source.
const (
	AttrService = "service"
	AttrHost    = "host"
	AttrTraceID = "trace_id"
	AttrSpanID  = "span_id"
	AttrMessage = "message"
)

// LogEntry is one log record normalized from whichever source produced it.
// Attributes is sparse: an entry carries only the keys its source had.
type LogEntry struct {
	Timestamp  time.Time
	Level      string
	Content    string
	Attributes map[string]string
}

// Attr returns the named attribute, empty when absent.
func (e LogEntry) Attr(key string) string {
	return e.Attributes[key]
}

// DefaultQuery is executed on startup and after the editor is cleared,
// before the user has expressed any intent.
const DefaultQuery = "fetch logs"

// CleanQuery strips comment lines (leading '#') and blank lines from raw
// editor text, yielding the query actually executed. An all-comment input
// cleans to the empty string.
func CleanQuery(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
