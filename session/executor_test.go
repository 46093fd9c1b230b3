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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFunc func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error)

func (f gatewayFunc) Execute(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
	return f(ctx, queryText, start, end)
}

type recordedExecution struct {
	queryText  string
	rangeLabel string
	at         time.Time
}

type recorderSpy struct {
	records []recordedExecution
	err     error
}

func (r *recorderSpy) RecordExecution(queryText, rangeLabel string, at time.Time) error {
	r.records = append(r.records, recordedExecution{queryText, rangeLabel, at})
	return r.err
}

var executorNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestExecutor(gateway Gateway, recorder *recorderSpy) *Executor {
	e := NewExecutor(gateway, recorder, NewDummySource(42), 50)
	e.now = func() time.Time { return executorNow }
	return e
}

func TestRunLiveSuccess(t *testing.T) {
	live := []LogEntry{
		{Content: "first", Level: LevelInfo},
		{Content: "second", Level: LevelError},
	}
	var gotQuery string
	var gotStart, gotEnd time.Time
	gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
		gotQuery, gotStart, gotEnd = queryText, start, end
		return live, nil
	})
	recorder := &recorderSpy{}
	executor := newTestExecutor(gateway, recorder)

	rs, err := executor.Run(context.Background(), "fetch logs", Range1h)

	require.NoError(t, err)
	assert.Equal(t, ProvenanceLive, rs.Provenance)
	assert.Nil(t, rs.FallbackCause)
	assert.Equal(t, live, rs.Entries)

	assert.Equal(t, "fetch logs", gotQuery)
	assert.Equal(t, executorNow.Add(-time.Hour), gotStart)
	assert.Equal(t, executorNow, gotEnd)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, recordedExecution{"fetch logs", Range1h, executorNow}, recorder.records[0])
}

func TestRunFallsBackWhenBackendOutOfReach(t *testing.T) {
	var tests = []struct {
		name  string
		cause error
	}{
		{"auth missing", ErrAuthMissing},
		{"network error", &NetworkError{Err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
				return nil, tt.cause
			})
			recorder := &recorderSpy{}
			executor := newTestExecutor(gateway, recorder)

			rs, err := executor.Run(context.Background(), "fetch logs", Range30m)

			require.NoError(t, err)
			assert.Equal(t, ProvenanceFallback, rs.Provenance)
			assert.Equal(t, tt.cause, rs.FallbackCause)
			assert.NotEmpty(t, rs.Entries)

			// a failed reach still counts as an attempt
			require.Len(t, recorder.records, 1)
			assert.Equal(t, "fetch logs", recorder.records[0].queryText)
		})
	}
}

func TestRunNilGatewayFallsBack(t *testing.T) {
	recorder := &recorderSpy{}
	executor := newTestExecutor(nil, recorder)

	rs, err := executor.Run(context.Background(), "fetch logs", Range30m)

	require.NoError(t, err)
	assert.Equal(t, ProvenanceFallback, rs.Provenance)
	assert.ErrorIs(t, rs.FallbackCause, ErrAuthMissing)
	assert.NotEmpty(t, rs.Entries)
	assert.Len(t, recorder.records, 1)
}

func TestRunFallbackAppliesQueryFilter(t *testing.T) {
	recorder := &recorderSpy{}
	executor := newTestExecutor(nil, recorder)

	rs, err := executor.Run(context.Background(), `fetch logs | filter contains(content, "payment")`, Range30m)

	require.NoError(t, err)
	require.NotEmpty(t, rs.Entries)
	for _, entry := range rs.Entries {
		assert.Contains(t, entry.Content, "ayment")
	}
}

func TestRunSurfacesBackendFailures(t *testing.T) {
	var tests = []struct {
		name string
		err  error
	}{
		{"backend error", &BackendError{Status: 400, Message: "bad query"}},
		{"parse error", &ParseError{Err: errors.New("unexpected end of JSON input")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
				return nil, tt.err
			})
			recorder := &recorderSpy{}
			executor := newTestExecutor(gateway, recorder)

			rs, err := executor.Run(context.Background(), "fetch logs | bogus", Range1h)

			assert.Nil(t, rs)
			assert.Equal(t, tt.err, err)

			// rejected executions are recorded too
			require.Len(t, recorder.records, 1)
			assert.Equal(t, "fetch logs | bogus", recorder.records[0].queryText)
		})
	}
}

func TestRunUnknownRangeRecordsNothing(t *testing.T) {
	recorder := &recorderSpy{}
	executor := newTestExecutor(nil, recorder)

	rs, err := executor.Run(context.Background(), "fetch logs", "5m")

	assert.Nil(t, rs)
	var rangeErr *UnknownRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Empty(t, recorder.records)
}

func TestRunCanceledRecordsNothing(t *testing.T) {
	gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	recorder := &recorderSpy{}
	executor := newTestExecutor(gateway, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rs, err := executor.Run(ctx, "fetch logs", Range1h)

	assert.Nil(t, rs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, recorder.records)
}

func TestRunHistoryFailureDoesNotFailTheRun(t *testing.T) {
	gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
		return []LogEntry{{Content: "fine"}}, nil
	})
	recorder := &recorderSpy{err: errors.New("disk full")}
	executor := newTestExecutor(gateway, recorder)

	rs, err := executor.Run(context.Background(), "fetch logs", Range1h)

	require.NoError(t, err)
	assert.Equal(t, ProvenanceLive, rs.Provenance)
	assert.Len(t, recorder.records, 1)
}

func TestReloadRecordsNoHistory(t *testing.T) {
	var gotQuery string
	gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
		gotQuery = queryText
		return []LogEntry{{Content: "fine"}}, nil
	})
	recorder := &recorderSpy{}
	executor := newTestExecutor(gateway, recorder)

	rs, err := executor.Reload(context.Background(), Range1h)

	require.NoError(t, err)
	assert.Equal(t, DefaultQuery, gotQuery)
	assert.Equal(t, ProvenanceLive, rs.Provenance)
	assert.Empty(t, recorder.records)
}

func TestCommitLastRequestWins(t *testing.T) {
	gateway := gatewayFunc(func(ctx context.Context, queryText string, start, end time.Time) ([]LogEntry, error) {
		return nil, nil
	})
	executor := newTestExecutor(gateway, &recorderSpy{})

	first, err := executor.Run(context.Background(), "first", Range1h)
	require.NoError(t, err)
	second, err := executor.Run(context.Background(), "second", Range1h)
	require.NoError(t, err)

	assert.Less(t, first.Seq, second.Seq)

	// the newer result lands first; the stale one must be dropped
	assert.True(t, executor.Commit(second))
	assert.False(t, executor.Commit(first))
	assert.False(t, executor.Commit(second))
}

func TestCommitInOrder(t *testing.T) {
	executor := newTestExecutor(nil, &recorderSpy{})

	first, err := executor.Run(context.Background(), "first", Range1h)
	require.NoError(t, err)
	second, err := executor.Run(context.Background(), "second", Range1h)
	require.NoError(t, err)

	assert.True(t, executor.Commit(first))
	assert.True(t, executor.Commit(second))
}
