// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"errors"
	"net"
	"strings"
)

var (
	// ErrRateLimited marks a failure caused by service rate limiting.
	// Wrap or return it to force exponential backoff on retry.
	ErrRateLimited = errors.New("rate limited by ai service")

	// ErrTransient marks a failure worth retrying with linear backoff.
	ErrTransient = errors.New("transient ai service failure")

	// ErrEmptyResponse indicates the service returned no usable output.
	ErrEmptyResponse = errors.New("ai service returned empty response")
)

// FailureClass partitions transformer failures for retry decisions.
type FailureClass int

const (
	// FailureFatal fails the record immediately; retrying cannot help.
	// Connection refusals and malformed inputs land here.
	FailureFatal FailureClass = iota

	// FailureRateLimited is retried with exponential backoff.
	FailureRateLimited

	// FailureTransient is retried with linear backoff. Covers timeouts,
	// server-side errors, and malformed or empty responses.
	FailureTransient
)

// String returns the class name used in logs.
func (c FailureClass) String() string {
	switch c {
	case FailureRateLimited:
		return "rate-limited"
	case FailureTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// rateLimitMarkers identify HTTP 429 style responses across the client
// libraries in use, which surface status text rather than typed errors.
var rateLimitMarkers = []string{
	"429",
	"rate limit",
	"rate_limit",
	"too many requests",
	"quota",
}

var transientMarkers = []string{
	"500",
	"502",
	"503",
	"504",
	"internal server error",
	"bad gateway",
	"service unavailable",
	"timeout",
	"timed out",
	"deadline exceeded",
	"connection reset",
	"unexpected eof",
	"temporarily unavailable",
}

// ClassifyFailure maps a transformer error to its retry class.
//
// The ordering matters: explicit sentinels win, then context state, then
// typed network errors, then status text heuristics. Anything unrecognized
// is fatal, so unknown failures never burn retry budget.
func ClassifyFailure(err error) FailureClass {
	if err == nil {
		return FailureFatal
	}

	if errors.Is(err, ErrRateLimited) {
		return FailureRateLimited
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, ErrEmptyResponse) {
		return FailureTransient
	}
	if errors.Is(err, context.Canceled) {
		// Interruption, not a service failure. The runner stops the stage.
		return FailureFatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTransient
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return FailureRateLimited
		}
	}
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return FailureTransient
		}
	}

	return FailureFatal
}
