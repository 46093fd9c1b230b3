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

	"github.com/stretchr/testify/assert"
)

func TestCleanQuery(t *testing.T) {
	var tests = []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain", "fetch logs", "fetch logs"},
		{"comment line dropped", "# grab everything\nfetch logs", "fetch logs"},
		{"blank lines dropped", "fetch logs\n\n| filter loglevel == \"ERROR\"", "fetch logs\n| filter loglevel == \"ERROR\""},
		{"indented comment dropped", "fetch logs\n   # tail\n| limit 10", "fetch logs\n| limit 10"},
		{"only comments", "# one\n# two", ""},
		{"empty", "", ""},
		{"surrounding whitespace trimmed", "  fetch logs  ", "fetch logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanQuery(tt.raw))
		})
	}
}

func TestLogEntryAttr(t *testing.T) {
	entry := LogEntry{Attributes: map[string]string{AttrService: "payment-service"}}

	assert.Equal(t, "payment-service", entry.Attr(AttrService))
	assert.Empty(t, entry.Attr(AttrHost))

	var bare LogEntry
	assert.Empty(t, bare.Attr(AttrService))
}
