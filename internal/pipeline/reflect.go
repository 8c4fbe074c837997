package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeanpaul/xylon/internal/persona"
	"github.com/jeanpaul/xylon/internal/provider"
	"github.com/jeanpaul/xylon/internal/store"
)

// ReflectionInterval is the turn cadence of the self-reflection pass.
const ReflectionInterval = 10

// Reflector runs the periodic summarization over recent thought traces.
// A failed reflection never fails the turn that triggered it.
type Reflector struct {
	oracle  provider.Oracle
	persona *persona.Persona
	log     *zap.Logger
	temp    float64
}

func NewReflector(oracle provider.Oracle, p *persona.Persona, logger *zap.Logger, temperature float64) *Reflector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if temperature == 0 {
		temperature = 0.6
	}
	return &Reflector{oracle: oracle, persona: p, log: logger, temp: temperature}
}

// Due reports whether a reflection should run for the given total count.
func Due(total int) bool {
	return total > 0 && total%ReflectionInterval == 0
}

// Reflect summarizes the given records (expected: the most recent ten, in
// order) into a short reflection text.
func (r *Reflector) Reflect(ctx context.Context, records []store.ThoughtRecord, total int) (string, error) {
	prompt := r.persona.ReflectionPrompt(records, total)
	text, err := r.oracle.Generate(ctx, provider.GenerateRequest{
		System:      prompt.System,
		Messages:    prompt.Messages,
		Temperature: r.temp,
	})
	if err != nil {
		return "", fmt.Errorf("reflection: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("reflection: oracle returned empty text")
	}
	return text, nil
}
