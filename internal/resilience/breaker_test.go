// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func failTransient(context.Context) error { return NewTransientError("down", nil) }
func succeed(context.Context) error       { return nil }

func newTestBreaker(timeout time.Duration) *Breaker {
	return NewBreaker(BreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          timeout,
		MaxProbes:        2,
	})
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := newTestBreaker(time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failTransient)
	}
	if b.State() != StateOpen {
		t.Fatalf("expected open after 3 failures, got %v", b.State())
	}

	err := b.Execute(ctx, succeed)
	var openErr *BreakerOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected BreakerOpenError, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := newTestBreaker(time.Minute)
	ctx := context.Background()

	_ = b.Execute(ctx, failTransient)
	_ = b.Execute(ctx, failTransient)
	_ = b.Execute(ctx, succeed)
	_ = b.Execute(ctx, failTransient)
	_ = b.Execute(ctx, failTransient)

	if b.State() != StateClosed {
		t.Fatalf("expected closed, got %v", b.State())
	}
}

func TestBreaker_PermanentErrorsDoNotTrip(t *testing.T) {
	b := newTestBreaker(time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_ = b.Execute(ctx, func(context.Context) error {
			return NewPermanentError("bad request", nil)
		})
	}
	if b.State() != StateClosed {
		t.Fatalf("expected closed (permanent errors don't count), got %v", b.State())
	}
}

func TestBreaker_RecoversThroughHalfOpen(t *testing.T) {
	b := newTestBreaker(10 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failTransient)
	}
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %v", b.State())
	}

	time.Sleep(20 * time.Millisecond)

	if err := b.Execute(ctx, succeed); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("expected half-open after one probe success, got %v", b.State())
	}
	if err := b.Execute(ctx, succeed); err != nil {
		t.Fatalf("expected second probe to pass, got %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("expected closed after recovery, got %v", b.State())
	}
}

func TestBreaker_ProbeFailureReopens(t *testing.T) {
	b := newTestBreaker(10 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failTransient)
	}
	time.Sleep(20 * time.Millisecond)

	_ = b.Execute(ctx, failTransient)
	if b.State() != StateOpen {
		t.Fatalf("expected reopen after probe failure, got %v", b.State())
	}
}
