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


package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/curio/ai"
)

// RetryPolicy controls how failed record transformations are retried.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first
	// failure, so a policy allows MaxRetries+1 attempts in total.
	MaxRetries int

	// BaseDelay seeds the backoff between attempts.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff applied to rate-limited calls.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the policy used by the built-in stages.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Do runs operation, retrying failures the classifier considers recoverable.
// Rate-limited failures back off exponentially up to MaxDelay, transient
// failures back off linearly, and anything else fails immediately.
// Returns the error from the last attempt if every attempt fails.
func (p RetryPolicy) Do(ctx context.Context, operation func() error) error {
	if p.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	attempts := p.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}

		class := ai.ClassifyFailure(lastErr)
		if class == ai.FailureFatal {
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt == attempts-1 {
			break
		}

		delay := p.delayFor(class, attempt)
		slog.Debug("operation failed, will retry",
			"attempt", attempt+1, "maxAttempts", attempts,
			"class", class, "delay", delay, "error", lastErr)

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// delayFor computes the sleep before the next attempt. attempt is the
// zero-based index of the attempt that just failed.
func (p RetryPolicy) delayFor(class ai.FailureClass, attempt int) time.Duration {
	if class == ai.FailureRateLimited {
		// BaseDelay * 2^attempt, capped at MaxDelay
		delay := p.BaseDelay
		for i := 0; i < attempt; i++ {
			delay *= 2
			if delay >= p.MaxDelay {
				return p.MaxDelay
			}
		}
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
		return delay
	}
	return p.BaseDelay * time.Duration(attempt+1)
}
