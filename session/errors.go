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
	"errors"
	"fmt"
)

// ErrAuthMissing reports that no backend credentials are configured. It is
// returned before any network attempt and routes execution to synthetic data.
var ErrAuthMissing = errors.New("backend credentials are not configured")

// NetworkError wraps a transport failure: connection refused, DNS, timeout.
// Like ErrAuthMissing it routes execution to synthetic data.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BackendError is a non-2xx answer. The query reached the backend and was
// rejected there, so the error is surfaced instead of masked with synthetic
// data.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// ParseError is a 2xx answer whose body could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed backend response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownRangeError reports a time range label outside the canonical set.
// Labels come from code, not user input, so hitting this is a bug.
type UnknownRangeError struct {
	Label string
}

func (e *UnknownRangeError) Error() string {
	return fmt.Sprintf("unknown time range %q", e.Label)
}

// shouldFallback reports whether err means the backend could not be reached
// at all, in which case the session continues on synthetic data.
func shouldFallback(err error) bool {
	var netErr *NetworkError
	return errors.Is(err, ErrAuthMissing) || errors.As(err, &netErr)
}
