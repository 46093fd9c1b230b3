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
	"sort"
	"strings"
)

// Provenance says where a result set's entries came from.
type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceFallback Provenance = "fallback"
)

// ResultSet holds the entries of one query execution together with the
// search state layered on top of them. It is confined to the session
// goroutine; methods are not safe for concurrent use.
type ResultSet struct {
	// Seq orders result sets across executions; Executor.Commit uses it to
	// reject results of superseded queries.
	Seq        uint64
	Provenance Provenance
	// FallbackCause records why the live backend was skipped. Set only when
	// Provenance is ProvenanceFallback.
	FallbackCause error
	Entries       []LogEntry

	searchTerm string
	matches    []int
	cursor     int
}

func newResultSet(seq uint64, provenance Provenance, cause error, entries []LogEntry) *ResultSet {
	return &ResultSet{
		Seq:           seq,
		Provenance:    provenance,
		FallbackCause: cause,
		Entries:       entries,
		cursor:        -1,
	}
}

// Len returns the number of entries.
func (rs *ResultSet) Len() int { return len(rs.Entries) }

// SetSearch installs term and recomputes the matches: indices of entries
// whose content contains term case-insensitively, ascending. The cursor
// lands on the first match, or on none when there are no matches. An empty
// term produces no matches. Setting the unchanged term keeps the cursor
// where it is.
func (rs *ResultSet) SetSearch(term string) {
	if term == rs.searchTerm {
		return
	}
	rs.searchTerm = term
	rs.recompute()
}

// ClearSearch drops the term, matches, and cursor.
func (rs *ResultSet) ClearSearch() {
	rs.searchTerm = ""
	rs.matches = nil
	rs.cursor = -1
}

func (rs *ResultSet) recompute() {
	rs.matches = nil
	needle := strings.ToLower(rs.searchTerm)
	if needle == "" {
		rs.cursor = -1
		return
	}
	for i, entry := range rs.Entries {
		if strings.Contains(strings.ToLower(entry.Content), needle) {
			rs.matches = append(rs.matches, i)
		}
	}
	if len(rs.matches) == 0 {
		rs.cursor = -1
	} else {
		rs.cursor = 0
	}
}

// SearchTerm returns the active term, empty when no search is set.
func (rs *ResultSet) SearchTerm() string { return rs.searchTerm }

// Matches returns the matching entry indices in ascending order. The slice
// is owned by the result set.
func (rs *ResultSet) Matches() []int { return rs.matches }

// MatchCount returns the number of matches for the active term.
func (rs *ResultSet) MatchCount() int { return len(rs.matches) }

// Cursor returns the focused position within Matches. ok is false when
// there are no matches.
func (rs *ResultSet) Cursor() (int, bool) {
	if rs.cursor < 0 {
		return 0, false
	}
	return rs.cursor, true
}

// CurrentEntry returns the entry index the search cursor points at. ok is
// false when there are no matches.
func (rs *ResultSet) CurrentEntry() (int, bool) {
	if rs.cursor < 0 {
		return 0, false
	}
	return rs.matches[rs.cursor], true
}

// NextMatch advances the cursor, wrapping past the last match back to the
// first. No-op when there are no matches.
func (rs *ResultSet) NextMatch() {
	if len(rs.matches) == 0 {
		return
	}
	rs.cursor = (rs.cursor + 1) % len(rs.matches)
}

// PrevMatch moves the cursor back, wrapping before the first match to the
// last. No-op when there are no matches.
func (rs *ResultSet) PrevMatch() {
	if len(rs.matches) == 0 {
		return
	}
	rs.cursor = (rs.cursor - 1 + len(rs.matches)) % len(rs.matches)
}

// IsMatch reports whether entry index i matches the active search.
func (rs *ResultSet) IsMatch(i int) bool {
	n := sort.SearchInts(rs.matches, i)
	return n < len(rs.matches) && rs.matches[n] == i
}
