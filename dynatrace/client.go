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

// Package dynatrace implements the live backend gateway over the platform's
// storage query API.
package dynatrace

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/loglens/loglens/api"
	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/helper"
	"github.com/loglens/loglens/session"
)

const queryExecutePath = "/platform/storage/query/v1/query:execute"

// Client executes queries against one environment. It implements
// session.Gateway.
type Client struct {
	resty  *resty.Client
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewClient builds the gateway from cfg. Construction succeeds without
// credentials; Execute answers session.ErrAuthMissing until they are set.
func NewClient(cfg *config.Config) *Client {
	logger := helper.GetSugarLogger([]string{"dynatrace"})

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Authorization", "Bearer "+cfg.Token)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(cfg.RequestTimeout)
	client.SetLogger(logger)
	client.SetDebug(cfg.Verbose)

	return &Client{
		resty:  client,
		cfg:    cfg,
		logger: logger,
	}
}

// RestyClient exposes the underlying transport for tests.
func (c *Client) RestyClient() *resty.Client {
	return c.resty
}

// Execute runs queryText over [start, end) and returns normalized entries.
// Failures map onto the session taxonomy: ErrAuthMissing before any network
// attempt, NetworkError for transport trouble including timeouts,
// BackendError for non-200 answers, ParseError for undecodable bodies.
// There are no retries.
func (c *Client) Execute(ctx context.Context, queryText string, start, end time.Time) ([]session.LogEntry, error) {
	if !c.cfg.HasCredentials() {
		return nil, session.ErrAuthMissing
	}

	payload := api.QueryRequest{
		Query:                      queryText,
		DefaultTimeframeStart:      start.UTC().Format(time.RFC3339),
		DefaultTimeframeEnd:        end.UTC().Format(time.RFC3339),
		MaxResultRecords:           c.cfg.MaxRecords,
		RequestTimeoutMilliseconds: c.cfg.BackendTimeoutMs,
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(payload).
		Post(queryExecutePath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &session.NetworkError{Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Debugw("query rejected", "status", resp.StatusCode())
		return nil, &session.BackendError{
			Status:  resp.StatusCode(),
			Message: backendMessage(resp.Body()),
		}
	}

	var result api.QueryResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &session.ParseError{Err: err}
	}

	return convertRecords(result.Result.Records, end), nil
}

// backendMessage extracts the human part of an error response, falling back
// to the raw body.
func backendMessage(body []byte) string {
	var envelope api.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(body))
}
