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
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/loglens/loglens/helper"
)

// Gateway executes a query against the live backend over one time window.
// Implementations map their failures onto ErrAuthMissing, NetworkError,
// BackendError, and ParseError so the executor can dispatch on them.
type Gateway interface {
	Execute(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error)
}

// HistoryRecorder persists one record per attempted execution.
type HistoryRecorder interface {
	RecordExecution(queryText, rangeLabel string, at time.Time) error
}

// Executor drives the query lifecycle: resolve the time range, execute
// against the gateway, fall back to synthetic data when the backend is out
// of reach, record history, and sequence result sets so that only the
// newest query can win.
type Executor struct {
	gateway       Gateway
	history       HistoryRecorder
	source        *DummySource
	fallbackCount int
	now           func() time.Time
	logger        *zap.SugaredLogger

	seq       atomic.Uint64
	committed atomic.Uint64
}

// NewExecutor wires an executor. gateway may be nil (development mode), in
// which case every execution falls back to synthetic data. history must not
// be nil.
func NewExecutor(gateway Gateway, history HistoryRecorder, source *DummySource, fallbackCount int) *Executor {
	return &Executor{
		gateway:       gateway,
		history:       history,
		source:        source,
		fallbackCount: fallbackCount,
		now:           time.Now,
		logger:        helper.GetSugarLogger([]string{"session", "executor"}),
	}
}

// Run executes queryText over the window named by rangeLabel and always
// appends one history record, whether the outcome is live data, fallback
// data, or a surfaced backend error. The two exceptions: an unknown range
// label (a caller bug) and a context cancelled before the outcome was
// determined, both of which record nothing.
func (e *Executor) Run(ctx context.Context, queryText, rangeLabel string) (*ResultSet, error) {
	return e.execute(ctx, queryText, rangeLabel, true)
}

// Reload re-runs the default query without touching history. Startup and
// cleared-editor refreshes are implicit, not user intent.
func (e *Executor) Reload(ctx context.Context, rangeLabel string) (*ResultSet, error) {
	return e.execute(ctx, DefaultQuery, rangeLabel, false)
}

func (e *Executor) execute(ctx context.Context, queryText, rangeLabel string, record bool) (*ResultSet, error) {
	now := e.now()
	start, end, err := ResolveRange(rangeLabel, now)
	if err != nil {
		return nil, err
	}

	seq := e.seq.Add(1)

	var entries []LogEntry
	execErr := ErrAuthMissing
	if e.gateway != nil {
		entries, execErr = e.gateway.Execute(ctx, queryText, start, end)
	}

	if ctx.Err() != nil {
		// Superseded or torn down before an outcome was determined.
		return nil, ctx.Err()
	}

	var rs *ResultSet
	switch {
	case execErr == nil:
		rs = newResultSet(seq, ProvenanceLive, nil, entries)
	case shouldFallback(execErr):
		e.logger.Debugw("backend out of reach, using synthetic data", "cause", execErr)
		generated := e.source.Generate(now, e.fallbackCount)
		rs = newResultSet(seq, ProvenanceFallback, execErr, e.source.Filter(generated, queryText))
	}

	if record {
		if err := e.history.RecordExecution(queryText, rangeLabel, now); err != nil {
			e.logger.Warnw("failed to record query history", "error", err)
		}
	}

	if rs == nil {
		// The backend rejected the query or answered garbage. Masking that
		// with synthetic data would hide a real problem from the user.
		return nil, execErr
	}
	return rs, nil
}

// Commit admits rs as the session's current result set. It returns false
// when a result set with a higher sequence number was committed already, in
// which case rs belongs to a superseded query and must be dropped.
func (e *Executor) Commit(rs *ResultSet) bool {
	for {
		cur := e.committed.Load()
		if rs.Seq <= cur {
			return false
		}
		if e.committed.CompareAndSwap(cur, rs.Seq) {
			return true
		}
	}
}
