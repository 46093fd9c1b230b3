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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens/loglens/api"
	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/session"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:          "https://abc12345.apps.dynatrace.com",
		Token:            "dt0s16.TESTTOKEN",
		RequestTimeout:   35 * time.Second,
		BackendTimeoutMs: 30000,
		MaxRecords:       1000,
	}
}

var (
	windowStart = time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
)

func TestExecuteSuccess(t *testing.T) {
	client := NewClient(testConfig())
	httpmock.ActivateNonDefault(client.RestyClient().GetClient())
	defer httpmock.DeactivateAndReset()

	var gotAuth string
	var gotRequest api.QueryRequest
	httpmock.RegisterResponder("POST", queryExecutePath,
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			if err := json.NewDecoder(req.Body).Decode(&gotRequest); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(200, map[string]any{
				"result": map[string]any{
					"records": []map[string]any{
						{
							"timestamp":         "2026-03-14T14:59:01.123Z",
							"loglevel":          "warn",
							"content":           "Connection pool exhausted",
							"dt.entity.service": "payment-service",
							"dt.entity.host":    "prod-server-01",
							"trace_id":          "abc123",
							"span_id":           "def456",
							"dt.entity.process": "payments-7f9c",
						},
						{
							"message":      "fallback field names",
							"service_name": "user-service",
							"host":         "prod-server-02",
						},
					},
				},
			})
		},
	)

	entries, err := client.Execute(context.Background(), "fetch logs", windowStart, windowEnd)

	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Equal(t, "Bearer dt0s16.TESTTOKEN", gotAuth)

	assert.Equal(t, "fetch logs", gotRequest.Query)
	assert.Equal(t, "2026-03-14T14:00:00Z", gotRequest.DefaultTimeframeStart)
	assert.Equal(t, "2026-03-14T15:00:00Z", gotRequest.DefaultTimeframeEnd)
	assert.Equal(t, 1000, gotRequest.MaxResultRecords)
	assert.Equal(t, 30000, gotRequest.RequestTimeoutMilliseconds)

	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, time.Date(2026, 3, 14, 14, 59, 1, 123000000, time.UTC), first.Timestamp)
	assert.Equal(t, session.LevelWarn, first.Level)
	assert.Equal(t, "Connection pool exhausted", first.Content)
	assert.Equal(t, "payment-service", first.Attr(session.AttrService))
	assert.Equal(t, "prod-server-01", first.Attr(session.AttrHost))
	assert.Equal(t, "abc123", first.Attr(session.AttrTraceID))
	assert.Equal(t, "def456", first.Attr(session.AttrSpanID))
	assert.Equal(t, "Connection pool exhausted", first.Attr(session.AttrMessage))
	// unrecognized scalar fields ride along
	assert.Equal(t, "payments-7f9c", first.Attr("dt.entity.process"))

	second := entries[1]
	assert.Equal(t, windowEnd, second.Timestamp)
	assert.Equal(t, session.LevelInfo, second.Level)
	assert.Equal(t, "fallback field names", second.Content)
	assert.Equal(t, "user-service", second.Attr(session.AttrService))
	assert.Equal(t, "prod-server-02", second.Attr(session.AttrHost))
}

func TestExecuteBackendErrors(t *testing.T) {
	client := NewClient(testConfig())
	httpmock.ActivateNonDefault(client.RestyClient().GetClient())
	defer httpmock.DeactivateAndReset()

	var tests = []struct {
		statusCode      int
		body            string
		expectedMessage string
	}{
		{400, `{"error": {"code": 400, "message": "query is malformed"}}`, "query is malformed"},
		{401, `{"error": {"code": 401, "message": "token is invalid"}}`, "token is invalid"},
		{403, `{"error": {"code": 403, "message": "missing scope storage:logs:read"}}`, "missing scope storage:logs:read"},
		{500, "internal error", "internal error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.statusCode), func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("POST", queryExecutePath,
				httpmock.NewStringResponder(tt.statusCode, tt.body))

			entries, err := client.Execute(context.Background(), "fetch logs", windowStart, windowEnd)

			assert.Nil(t, entries)
			var backendErr *session.BackendError
			require.ErrorAs(t, err, &backendErr)
			assert.Equal(t, tt.statusCode, backendErr.Status)
			assert.Equal(t, tt.expectedMessage, backendErr.Message)
		})
	}
}

func TestExecuteMalformedBody(t *testing.T) {
	client := NewClient(testConfig())
	httpmock.ActivateNonDefault(client.RestyClient().GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", queryExecutePath,
		httpmock.NewStringResponder(200, `{"result": {"records": [`))

	entries, err := client.Execute(context.Background(), "fetch logs", windowStart, windowEnd)

	assert.Nil(t, entries)
	var parseErr *session.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestExecuteNetworkError(t *testing.T) {
	client := NewClient(testConfig())
	httpmock.ActivateNonDefault(client.RestyClient().GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", queryExecutePath,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	entries, err := client.Execute(context.Background(), "fetch logs", windowStart, windowEnd)

	assert.Nil(t, entries)
	var netErr *session.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestExecuteWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Token = ""
	client := NewClient(cfg)
	httpmock.ActivateNonDefault(client.RestyClient().GetClient())
	defer httpmock.DeactivateAndReset()

	entries, err := client.Execute(context.Background(), "fetch logs", windowStart, windowEnd)

	assert.Nil(t, entries)
	assert.ErrorIs(t, err, session.ErrAuthMissing)
	// no network attempt is made without credentials
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestExecuteCanceledContext(t *testing.T) {
	client := NewClient(testConfig())
	httpmock.ActivateNonDefault(client.RestyClient().GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", queryExecutePath,
		func(req *http.Request) (*http.Response, error) {
			return nil, req.Context().Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries, err := client.Execute(ctx, "fetch logs", windowStart, windowEnd)

	assert.Nil(t, entries)
	assert.ErrorIs(t, err, context.Canceled)

	var netErr *session.NetworkError
	assert.False(t, errors.As(err, &netErr), "cancellation must not look like a network failure")
}
