package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingOracle struct{}

func (blockingOracle) Name() string      { return "blocking" }
func (blockingOracle) ModelName() string { return "test" }

func (blockingOracle) Generate(ctx context.Context, _ GenerateRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(5 * time.Second):
		return "too late", nil
	}
}

func TestWithTimeoutCancelsSlowCalls(t *testing.T) {
	o := WithTimeout(blockingOracle{}, 20*time.Millisecond)

	start := time.Now()
	_, err := o.Generate(context.Background(), GenerateRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithTimeoutDelegatesIdentity(t *testing.T) {
	o := WithTimeout(blockingOracle{}, time.Minute)
	assert.Equal(t, "blocking", o.Name())
	assert.Equal(t, "test", o.ModelName())
}
