package provider

import (
	"context"
	"time"
)

// TimeoutOracle bounds every Generate call with a deadline.
type TimeoutOracle struct {
	inner   Oracle
	timeout time.Duration
}

func WithTimeout(o Oracle, timeout time.Duration) *TimeoutOracle {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TimeoutOracle{inner: o, timeout: timeout}
}

func (t *TimeoutOracle) Name() string { return t.inner.Name() }

func (t *TimeoutOracle) ModelName() string { return t.inner.ModelName() }

func (t *TimeoutOracle) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}
