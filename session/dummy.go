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
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var dummyServices = []string{
	"payment-service", "user-service", "inventory-service", "database-service",
	"api-gateway", "cache-service", "notification-service", "order-service",
	"auth-service", "analytics-service", "recommendation-service",
}

var dummyLevels = []string{LevelError, LevelWarn, LevelInfo, LevelDebug}

var dummyHosts = []string{
	"prod-server-01", "prod-server-02", "prod-server-03", "db-server-01",
	"gateway-01", "cache-server-01", "notification-01", "order-server-01",
}

type dummySeed struct {
	minutesAgo int
	level      string
	service    string
	message    string
	traceID    string
	spanID     string
	host       string
	content    string
}

// A handful of recognizable entries so the fallback view is not pure noise.
var dummySeeds = []dummySeed{
	{1, LevelError, "payment-service", "Failed to process payment for order #12345",
		"abc123def456", "789xyz", "prod-server-01",
		"Payment processing failed due to insufficient funds"},
	{2, LevelInfo, "user-service", "User authentication successful",
		"def456ghi789", "123abc", "prod-server-02",
		"User john.doe@example.com logged in successfully"},
	{3, LevelWarn, "inventory-service", "Low stock alert for product SKU-001",
		"ghi789jkl012", "456def", "prod-server-03",
		"Product SKU-001 has only 5 items remaining in inventory"},
	{5, LevelError, "database-service", "Database connection timeout",
		"jkl012mno345", "789ghi", "db-server-01",
		"Connection to primary database timed out after 30 seconds"},
	{7, LevelInfo, "api-gateway", "Health check passed",
		"mno345pqr678", "012jkl", "gateway-01",
		"All services responding normally"},
	{10, LevelDebug, "cache-service", "Cache miss for key user:12345",
		"pqr678stu901", "345mno", "cache-server-01",
		"Key user:12345 not found in Redis cache, fetching from database"},
	{12, LevelError, "notification-service", "Failed to send email notification",
		"stu901vwx234", "678pqr", "notification-01",
		"SMTP server connection failed: Connection refused"},
	{15, LevelInfo, "order-service", "New order created successfully",
		"vwx234yza567", "901stu", "order-server-01",
		"Order #12346 created for customer ID 7890"},
}

// DummySource produces synthetic log entries when the live backend cannot be
// reached: credentials absent, network down, or development mode.
type DummySource struct {
	rng *rand.Rand
}

// NewDummySource returns a source generating from seed. Generation is
// deterministic per seed in structure and vocabulary, not byte content.
func NewDummySource(seed int64) *DummySource {
	return &DummySource{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns the fixed seed entries followed by count randomized
// entries, all timestamped relative to now within the trailing 24 hours.
func (s *DummySource) Generate(now time.Time, count int) []LogEntry {
	now = now.UTC()
	entries := make([]LogEntry, 0, len(dummySeeds)+count)

	for _, seed := range dummySeeds {
		entries = append(entries, LogEntry{
			Timestamp: now.Add(-time.Duration(seed.minutesAgo) * time.Minute),
			Level:     seed.level,
			Content:   seed.content,
			Attributes: map[string]string{
				AttrService: seed.service,
				AttrMessage: seed.message,
				AttrHost:    seed.host,
				AttrTraceID: seed.traceID,
				AttrSpanID:  seed.spanID,
			},
		})
	}

	for i := 0; i < count; i++ {
		minutesAgo := s.rng.Intn(1440) + 1
		entries = append(entries, LogEntry{
			Timestamp: now.Add(-time.Duration(minutesAgo) * time.Minute),
			Level:     dummyLevels[s.rng.Intn(len(dummyLevels))],
			Content:   fmt.Sprintf("Detailed log content for message #%d with additional context", i+1),
			Attributes: map[string]string{
				AttrService: dummyServices[s.rng.Intn(len(dummyServices))],
				AttrMessage: fmt.Sprintf("Log message #%d from %s", i+1, dummyServices[s.rng.Intn(len(dummyServices))]),
				AttrHost:    dummyHosts[s.rng.Intn(len(dummyHosts))],
				AttrTraceID: fmt.Sprintf("trace_%06d", s.rng.Intn(900000)+100000),
				AttrSpanID:  fmt.Sprintf("span_%03d", s.rng.Intn(900)+100),
			},
		})
	}

	return entries
}

var (
	containsPredicate = regexp.MustCompile(`contains\(\s*content\s*,\s*"([^"]*)"\s*\)`)
	levelPredicate    = regexp.MustCompile(`loglevel\s*==\s*"([^"]*)"`)
)

// Filter emulates just enough of the query language to make fallback data
// react to the query text: contains(content, "X") substring predicates and
// loglevel == "X" equality predicates, matched case-insensitively and
// combined conjunctively. Query text without a recognized predicate passes
// every entry through.
func (s *DummySource) Filter(entries []LogEntry, queryText string) []LogEntry {
	var substrings, levels []string
	for _, m := range containsPredicate.FindAllStringSubmatch(queryText, -1) {
		substrings = append(substrings, strings.ToLower(m[1]))
	}
	for _, m := range levelPredicate.FindAllStringSubmatch(queryText, -1) {
		levels = append(levels, strings.ToUpper(m[1]))
	}
	if len(substrings) == 0 && len(levels) == 0 {
		return entries
	}

	filtered := make([]LogEntry, 0, len(entries))
entryLoop:
	for _, entry := range entries {
		content := strings.ToLower(entry.Content)
		for _, sub := range substrings {
			if !strings.Contains(content, sub) {
				continue entryLoop
			}
		}
		for _, level := range levels {
			if !strings.EqualFold(entry.Level, level) {
				continue entryLoop
			}
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
