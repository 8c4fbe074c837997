package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/xylon/internal/persona"
	"github.com/jeanpaul/xylon/internal/pipeline"
	"github.com/jeanpaul/xylon/internal/provider"
	"github.com/jeanpaul/xylon/internal/store"
)

type silentOracle struct{}

func (silentOracle) Name() string      { return "mock-provider" }
func (silentOracle) ModelName() string { return "test-model" }
func (silentOracle) Generate(context.Context, provider.GenerateRequest) (string, error) {
	return "", nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	p := persona.Default()
	oracle := silentOracle{}
	concepts := store.OpenConcepts(filepath.Join(dir, "concepts.json"))
	observations := store.OpenObservations(filepath.Join(dir, "observations.json"))
	pipe := pipeline.New(pipeline.Params{
		Oracle:       oracle,
		Persona:      p,
		Concepts:     concepts,
		Observations: observations,
	})
	return NewModel(Config{
		Pipeline:     pipe,
		Reflector:    pipeline.NewReflector(oracle, p, nil, 0),
		Persona:      p,
		Thoughts:     store.OpenThoughts(filepath.Join(dir, "thoughts.json")),
		Concepts:     concepts,
		Observations: observations,
		ProviderName: "mock-provider",
		ModelName:    "test-model",
	})
}

func TestGreetingShownOnStartup(t *testing.T) {
	model := newTestModel(t)

	if len(model.messages) != 1 {
		t.Fatalf("expected one startup message, got %d", len(model.messages))
	}
	if model.messages[0].role != "xylon" {
		t.Errorf("startup message role = %q, want xylon", model.messages[0].role)
	}
	if model.messages[0].content != persona.Default().Greeting {
		t.Error("startup message should be the persona greeting")
	}
}

func TestTurnResultAppendsMessages(t *testing.T) {
	model := newTestModel(t)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = updated.(Model)

	updated, _ = model.Update(turnMsg{turn: &pipeline.Turn{
		Thoughts: "分析信号。",
		Reply:    "信号已接收。",
	}})
	m := updated.(Model)

	if m.thinking {
		t.Error("thinking should clear after a turn result")
	}
	var roles []string
	for _, msg := range m.messages {
		roles = append(roles, msg.role)
	}
	want := "xylon,thought,xylon"
	if got := strings.Join(roles, ","); got != want {
		t.Errorf("message roles = %s, want %s", got, want)
	}
}

func TestOracleFailureShowsFixedMessage(t *testing.T) {
	model := newTestModel(t)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = updated.(Model)

	updated, _ = model.Update(turnMsg{err: pipeline.ErrOracle})
	m := updated.(Model)

	last := m.messages[len(m.messages)-1]
	if last.role != "error" {
		t.Fatalf("last message role = %q, want error", last.role)
	}
	if !strings.Contains(last.content, "核心议会连接中断") {
		t.Errorf("error message = %q, want the fixed oracle failure text", last.content)
	}
}

func TestThoughtToggle(t *testing.T) {
	model := newTestModel(t)
	if !model.showThoughts {
		t.Fatal("thought traces should start visible")
	}
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m := updated.(Model)
	if m.showThoughts {
		t.Error("Ctrl+T should collapse thought traces")
	}
}

func TestHeaderRendering(t *testing.T) {
	model := newTestModel(t)
	model.width = 100
	model.height = 50

	view := model.View()
	if !strings.Contains(view, "mock-provider / test-model") {
		t.Error("header should display provider and model names")
	}
	if !strings.Contains(view, "> ") {
		t.Error("view should contain the input prompt")
	}
}
