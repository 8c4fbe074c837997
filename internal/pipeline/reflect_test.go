package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/xylon/internal/persona"
	"github.com/jeanpaul/xylon/internal/store"
)

func TestDue(t *testing.T) {
	tests := []struct {
		total int
		want  bool
	}{
		{0, false},
		{1, false},
		{9, false},
		{10, true},
		{11, false},
		{20, true},
		{100, true},
	}
	for _, tt := range tests {
		if got := Due(tt.total); got != tt.want {
			t.Errorf("Due(%d) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestReflectSummarizesRecentRecords(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{"我对人类聚集行为的理解正在收敛。"}}
	r := NewReflector(oracle, persona.Default(), nil, 0)

	var records []store.ThoughtRecord
	for i := 0; i < 10; i++ {
		records = append(records, store.ThoughtRecord{UserInput: "输入", Content: "思维"})
	}
	text, err := r.Reflect(context.Background(), records, 10)
	require.NoError(t, err)
	require.Equal(t, "我对人类聚集行为的理解正在收敛。", text)
	require.Len(t, oracle.requests, 1)
	require.Contains(t, oracle.requests[0].Messages[0].Content, "最近的 10 条")
}

func TestReflectorTemperature(t *testing.T) {
	t.Run("configured value reaches the oracle", func(t *testing.T) {
		oracle := &scriptedOracle{responses: []string{"反思。"}}
		r := NewReflector(oracle, persona.Default(), nil, 0.25)

		_, err := r.Reflect(context.Background(), nil, 10)
		require.NoError(t, err)
		require.Len(t, oracle.requests, 1)
		require.InDelta(t, 0.25, oracle.requests[0].Temperature, 1e-9)
	})

	t.Run("zero falls back to the default", func(t *testing.T) {
		oracle := &scriptedOracle{responses: []string{"反思。"}}
		r := NewReflector(oracle, persona.Default(), nil, 0)

		_, err := r.Reflect(context.Background(), nil, 10)
		require.NoError(t, err)
		require.InDelta(t, 0.6, oracle.requests[0].Temperature, 1e-9)
	})
}

func TestReflectPropagatesOracleFailure(t *testing.T) {
	oracle := &scriptedOracle{errs: []error{errors.New("timeout")}}
	r := NewReflector(oracle, persona.Default(), nil, 0)

	_, err := r.Reflect(context.Background(), nil, 10)
	require.Error(t, err)
}

func TestReflectRejectsEmptyText(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{"  \n "}}
	r := NewReflector(oracle, persona.Default(), nil, 0)

	_, err := r.Reflect(context.Background(), nil, 10)
	require.Error(t, err)
}
