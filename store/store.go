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

// Package store persists query history and saved queries as JSON collection
// files under the data directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/loglens/loglens/helper"
)

const (
	historyFile = "query_history.json"
	savedFile   = "saved_queries.json"
)

// CorruptError reports a collection file that exists but cannot be decoded
// or fails validation. The file is left exactly as found; recovery is an
// explicit user decision, never automatic.
type CorruptError struct {
	File string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("store file %s is corrupt: %v", e.File, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// HistoryQuery records one attempted execution, successful or not.
type HistoryQuery struct {
	ID         string    `json:"id"`
	QueryText  string    `json:"query"`
	RangeLabel string    `json:"range"`
	ExecutedAt time.Time `json:"executed_at"`
}

// SavedQuery is a named reusable query. Names are unique; saving an
// existing name replaces its text.
type SavedQuery struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	QueryText string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

// Store owns the on-disk collections. Every mutation rewrites the whole
// file through an atomic replace; writes are serialized within the process.
// Decoding ignores unknown fields, so files written by newer versions stay
// readable.
type Store struct {
	fs         afero.Fs
	dir        string
	historyCap int
	logger     *zap.SugaredLogger

	mu sync.Mutex
}

// New returns a store rooted at dir on fs. The directory is created on the
// first write. historyCap bounds the history collection; zero means
// unbounded.
func New(fs afero.Fs, dir string, historyCap int) *Store {
	return &Store{
		fs:         fs,
		dir:        dir,
		historyCap: historyCap,
		logger:     helper.GetSugarLogger([]string{"store"}),
	}
}

// LoadHistory returns all history records in stored order, oldest first. A
// missing file reads as an empty collection.
func (s *Store) LoadHistory() ([]HistoryQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistoryLocked()
}

func (s *Store) loadHistoryLocked() ([]HistoryQuery, error) {
	return loadCollection(s, historyFile, func(h HistoryQuery) error {
		if h.ID == "" {
			return errors.New("missing id")
		}
		if h.QueryText == "" {
			return errors.New("missing query")
		}
		return nil
	})
}

// RecentHistory returns up to n records, newest first.
func (s *Store) RecentHistory(n int) ([]HistoryQuery, error) {
	history, err := s.LoadHistory()
	if err != nil {
		return nil, err
	}
	recent := make([]HistoryQuery, 0, n)
	for i := len(history) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, history[i])
	}
	return recent, nil
}

// AppendHistory appends h, evicting the oldest records beyond the cap.
func (s *Store) AppendHistory(h HistoryQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistoryLocked()
	if err != nil {
		return err
	}
	history = append(history, h)
	if s.historyCap > 0 && len(history) > s.historyCap {
		history = history[len(history)-s.historyCap:]
	}
	return s.writeLocked(historyFile, history)
}

// RecordExecution appends a history record for one attempted execution,
// assigning a fresh id. It satisfies session.HistoryRecorder.
func (s *Store) RecordExecution(queryText, rangeLabel string, at time.Time) error {
	return s.AppendHistory(HistoryQuery{
		ID:         uuid.NewString(),
		QueryText:  queryText,
		RangeLabel: rangeLabel,
		ExecutedAt: at.UTC(),
	})
}

// DeleteHistory removes the record with the given id.
func (s *Store) DeleteHistory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistoryLocked()
	if err != nil {
		return err
	}
	kept := history[:0]
	for _, h := range history {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(history) {
		return fmt.Errorf("no history record with id %q", id)
	}
	return s.writeLocked(historyFile, kept)
}

// ClearHistory removes all history records.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(historyFile, []HistoryQuery{})
}

// LoadSaved returns the saved queries in stored order. A missing file reads
// as an empty collection.
func (s *Store) LoadSaved() ([]SavedQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSavedLocked()
}

func (s *Store) loadSavedLocked() ([]SavedQuery, error) {
	return loadCollection(s, savedFile, func(q SavedQuery) error {
		if q.ID == "" {
			return errors.New("missing id")
		}
		if q.Name == "" {
			return errors.New("missing name")
		}
		if q.QueryText == "" {
			return errors.New("missing query")
		}
		return nil
	})
}

// SaveQuery upserts by name: an existing name keeps its id and creation
// time and takes the new text, a new name is appended. Saved queries are
// never evicted.
func (s *Store) SaveQuery(name, queryText string) (SavedQuery, error) {
	if strings.TrimSpace(name) == "" {
		return SavedQuery{}, errors.New("saved query name must not be empty")
	}
	if strings.TrimSpace(queryText) == "" {
		return SavedQuery{}, errors.New("saved query text must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.loadSavedLocked()
	if err != nil {
		return SavedQuery{}, err
	}

	for i, q := range saved {
		if q.Name == name {
			saved[i].QueryText = queryText
			s.logger.Debugw("saved query overwritten", "name", name)
			return saved[i], s.writeLocked(savedFile, saved)
		}
	}

	query := SavedQuery{
		ID:        uuid.NewString(),
		Name:      name,
		QueryText: queryText,
		CreatedAt: time.Now().UTC(),
	}
	saved = append(saved, query)
	return query, s.writeLocked(savedFile, saved)
}

// DeleteSaved removes the saved query with the given id.
func (s *Store) DeleteSaved(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.loadSavedLocked()
	if err != nil {
		return err
	}
	kept := saved[:0]
	for _, q := range saved {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(saved) {
		return fmt.Errorf("no saved query with id %q", id)
	}
	return s.writeLocked(savedFile, kept)
}

func loadCollection[T any](s *Store, file string, validate func(T) error) ([]T, error) {
	path := filepath.Join(s.dir, file)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("unable to stat %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}

	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &CorruptError{File: path, Err: err}
	}
	for i, item := range items {
		if err := validate(item); err != nil {
			return nil, &CorruptError{File: path, Err: fmt.Errorf("record %d: %w", i, err)}
		}
	}
	return items, nil
}

// writeLocked replaces file with the JSON encoding of items through a temp
// file rename, so a reader never observes a partial write.
func (s *Store) writeLocked(file string, items any) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("unable to create %s: %w", s.dir, err)
	}

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", file, err)
	}

	path := filepath.Join(s.dir, file)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, raw, 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("unable to replace %s: %w", path, err)
	}
	return nil
}
