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

// Package api holds the wire types of the storage query endpoint.
package api

// QueryRequest is the body of POST /platform/storage/query/v1/query:execute.
type QueryRequest struct {
	Query                      string `json:"query"`
	DefaultTimeframeStart      string `json:"defaultTimeframeStart"`
	DefaultTimeframeEnd        string `json:"defaultTimeframeEnd"`
	MaxResultRecords           int    `json:"maxResultRecords"`
	RequestTimeoutMilliseconds int    `json:"requestTimeoutMilliseconds"`
}

// Record is one log record of a query result. The backend emits a sparse,
// dot-keyed field set ("dt.entity.service", "loglevel", ...) that varies per
// record, so it is carried as a raw map.
type Record map[string]any

// String returns a record field as a string, empty when absent or not
// textual.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

type QueryResult struct {
	Records []Record `json:"records"`
}

// QueryResponse is the success envelope of query:execute.
type QueryResponse struct {
	Result QueryResult `json:"result"`
}

// ErrorEnvelope is the failure envelope of the platform APIs.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
