// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BreakerState is the state of a circuit breaker.
type BreakerState int

const (
	StateClosed   BreakerState = iota // normal operation
	StateOpen                         // failing fast
	StateHalfOpen                     // probing whether the service recovered
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures before opening
	SuccessThreshold int           // successes in half-open before closing
	Timeout          time.Duration // open duration before probing
	MaxProbes        int           // requests allowed while half-open
}

// DefaultBreakerConfig returns defaults tuned for a per-request remote call.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		MaxProbes:        3,
	}
}

// BreakerOpenError is returned when the breaker rejects a call without
// attempting it.
type BreakerOpenError struct {
	Name  string
	State BreakerState
}

func (e *BreakerOpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q is %s", e.Name, e.State)
}

// Breaker fails fast once a dependency has failed repeatedly, so a dead
// remote service costs one state check per request instead of a full retry
// cycle. Only retryable (transient, timeout) errors count as failures;
// contract errors pass through without tripping the breaker.
type Breaker struct {
	config BreakerConfig

	mu          sync.Mutex
	state       BreakerState
	failures    int
	successes   int
	probes      int
	lastFailure time.Time
}

// NewBreaker creates a circuit breaker in the closed state.
func NewBreaker(config BreakerConfig) *Breaker {
	return &Breaker{config: config, state: StateClosed}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs fn under breaker protection.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn(ctx)
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(b.lastFailure) >= b.config.Timeout {
			b.state = StateHalfOpen
			b.probes = 0
			b.successes = 0
			b.probes++
			return nil
		}
		return &BreakerOpenError{Name: b.config.Name, State: StateOpen}
	case StateHalfOpen:
		if b.probes >= b.config.MaxProbes {
			return &BreakerOpenError{Name: b.config.Name, State: StateHalfOpen}
		}
		b.probes++
		return nil
	default:
		return fmt.Errorf("unknown breaker state %v", b.state)
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := err != nil && ClassifyError(err).IsRetryable()
	if failed {
		b.failures++
		b.lastFailure = time.Now()
		switch b.state {
		case StateClosed:
			if b.failures >= b.config.FailureThreshold {
				b.state = StateOpen
			}
		case StateHalfOpen:
			// A probe failure reopens immediately.
			b.state = StateOpen
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
			b.probes = 0
		}
	}
}
