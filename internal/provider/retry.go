package provider

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// RetryOracle wraps an Oracle with exponential backoff retry logic.
type RetryOracle struct {
	inner      Oracle
	maxRetries int
	baseDelay  time.Duration
}

func WithRetry(o Oracle, maxRetries int) *RetryOracle {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RetryOracle{inner: o, maxRetries: maxRetries, baseDelay: 500 * time.Millisecond}
}

func (r *RetryOracle) Name() string { return r.inner.Name() }

func (r *RetryOracle) ModelName() string { return r.inner.ModelName() }

func (r *RetryOracle) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		text, err := r.inner.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !r.isRetryable(err) || attempt == r.maxRetries {
			break
		}
		if err := r.backoff(ctx, attempt); err != nil {
			return "", lastErr
		}
	}
	return "", fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}

func (r *RetryOracle) isRetryable(err error) bool {
	msg := err.Error()
	// Retry on rate limits, server errors, connection issues
	for _, s := range []string{"429", "500", "502", "503", "529", "connection refused", "timeout", "deadline exceeded", "EOF", "reset by peer"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (r *RetryOracle) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
