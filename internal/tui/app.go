// Package tui is the bundled terminal client: a chat view over the
// conversation pipeline with collapsible thought traces.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/xylon/internal/persona"
	"github.com/jeanpaul/xylon/internal/pipeline"
	"github.com/jeanpaul/xylon/internal/store"
)

// ThinkingSpinner is a Braille dots animation shown during generation.
var ThinkingSpinner = spinner.Spinner{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    time.Second / 12,
}

type turnMsg struct {
	turn       *pipeline.Turn
	reflection string
	err        error
}

type chatMessage struct {
	role    string
	content string
}

// Config holds the client's collaborators.
type Config struct {
	Pipeline     *pipeline.Pipeline
	Reflector    *pipeline.Reflector
	Persona      *persona.Persona
	Thoughts     *store.ThoughtLog
	Concepts     *store.ConceptArchive
	Observations *store.ObservationLog
	ProviderName string
	ModelName    string
}

type Model struct {
	width, height int
	viewport      viewport.Model
	textarea      textarea.Model
	spinner       spinner.Model
	messages      []chatMessage
	thinking      bool
	showThoughts  bool

	pipe         *pipeline.Pipeline
	reflector    *pipeline.Reflector
	persona      *persona.Persona
	thoughts     *store.ThoughtLog
	concepts     *store.ConceptArchive
	observations *store.ObservationLog
	providerName string
	modelName    string

	ctx      context.Context
	cancel   context.CancelFunc
	renderer *glamour.TermRenderer
}

func NewModel(cfg Config) Model {
	ta := textarea.New()
	ta.Placeholder = "传输信号..."
	ta.Focus()
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(White)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = ThinkingSpinner
	sp.Style = SpinnerStyle

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	ctx, cancel := context.WithCancel(context.Background())

	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	m := Model{
		viewport:     vp,
		textarea:     ta,
		spinner:      sp,
		showThoughts: true,
		pipe:         cfg.Pipeline,
		reflector:    cfg.Reflector,
		persona:      cfg.Persona,
		thoughts:     cfg.Thoughts,
		concepts:     cfg.Concepts,
		observations: cfg.Observations,
		providerName: cfg.ProviderName,
		modelName:    cfg.ModelName,
		ctx:          ctx,
		cancel:       cancel,
		renderer:     r,
	}

	m.messages = append(m.messages, chatMessage{role: "xylon", content: cfg.Persona.Greeting})
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 9
		inputH := 3
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - headerH - inputH
		m.textarea.SetWidth(msg.Width - 6)
		m.rebuildView()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyPgUp:
			m.viewport.HalfViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.HalfViewDown()
			return m, nil
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancel()
			return m, tea.Quit
		case tea.KeyCtrlT:
			m.showThoughts = !m.showThoughts
			m.rebuildView()
			return m, nil
		case tea.KeyEnter:
			if msg.Alt {
				break
			}
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, nil
			}
			if m.thinking {
				return m, nil
			}
			m.textarea.Reset()

			if strings.HasPrefix(text, "/") {
				return m.handleSlashCommand(text)
			}

			m.messages = append(m.messages, chatMessage{role: "operator", content: text})
			m.thinking = true
			m.rebuildView()
			return m, tea.Batch(m.spinner.Tick, m.runTurn(text))
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case turnMsg:
		m.thinking = false
		if msg.err != nil {
			m.messages = append(m.messages, chatMessage{role: "error", content: pipeline.ErrOracle.Error()})
			m.rebuildView()
			return m, nil
		}
		turn := msg.turn
		if turn.Thoughts != "" {
			m.messages = append(m.messages, chatMessage{role: "thought", content: turn.Thoughts})
		}
		if turn.Reply != "" {
			m.messages = append(m.messages, chatMessage{role: "xylon", content: turn.Reply})
		}
		if len(turn.Learned) > 0 {
			var terms []string
			for _, c := range turn.Learned {
				terms = append(terms, c.Term)
			}
			m.messages = append(m.messages, chatMessage{
				role:    "system",
				content: "概念档案已更新: " + strings.Join(terms, "、"),
			})
		}
		if turn.RawArchive {
			m.messages = append(m.messages, chatMessage{role: "system", content: "观测数据已录入档案。"})
		}
		if msg.reflection != "" {
			m.messages = append(m.messages, chatMessage{role: "reflection", content: msg.reflection})
		}
		m.rebuildView()
		if turn.Exit {
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.thinking {
			m.rebuildView()
		}
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// runTurn drives one pipeline turn off the UI goroutine. The thought log
// append and the every-tenth-turn reflection happen here so the client
// matches the server's recording behavior.
func (m Model) runTurn(text string) tea.Cmd {
	return func() tea.Msg {
		turn, err := m.pipe.Process(m.ctx, text, m.thoughts.Recent(20))
		if err != nil {
			return turnMsg{err: err}
		}
		if turn.Thoughts == "" {
			return turnMsg{turn: turn}
		}

		rec := store.ThoughtRecord{Content: turn.Thoughts, UserInput: turn.UserInput}
		if len(turn.Learned) > 0 {
			rec.Type = "learning"
		}
		total, err := m.thoughts.Append(rec)
		if err != nil || !pipeline.Due(total) || m.reflector == nil {
			return turnMsg{turn: turn}
		}

		summary, err := m.reflector.Reflect(m.ctx, m.thoughts.Recent(pipeline.ReflectionInterval), total)
		if err != nil {
			return turnMsg{turn: turn}
		}
		m.thoughts.Append(store.ThoughtRecord{Content: summary, IsReflection: true, Type: "reflection"})
		return turnMsg{turn: turn, reflection: summary}
	}
}

func (m *Model) handleSlashCommand(text string) (Model, tea.Cmd) {
	switch strings.Fields(text)[0] {
	case "/help":
		m.messages = append(m.messages, chatMessage{
			role: "system",
			content: `可用指令:
  /help      显示本帮助
  /concepts  列出已习得的人类概念
  /archive   列出最近的观测录入
  /reflect   立即执行一次自我反思
  /quit      结束传输

快捷键:
  Enter      发送消息
  Ctrl+T     折叠/展开思维轨迹
  Esc        退出`,
		})

	case "/concepts":
		entries := m.concepts.Snapshot()
		if len(entries) == 0 {
			m.messages = append(m.messages, chatMessage{role: "system", content: "概念档案为空。"})
			break
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("已习得 %d 个概念:\n", len(entries)))
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", e.Term, e.Definition))
		}
		m.messages = append(m.messages, chatMessage{role: "system", content: strings.TrimRight(sb.String(), "\n")})

	case "/archive":
		entries := m.observations.Entries()
		if len(entries) == 0 {
			m.messages = append(m.messages, chatMessage{role: "system", content: "观测档案为空。"})
			break
		}
		const maxShown = 5
		if len(entries) > maxShown {
			entries = entries[len(entries)-maxShown:]
		}
		var sb strings.Builder
		sb.WriteString("最近的观测录入:\n")
		for _, e := range entries {
			sb.WriteString("  " + e.Content + "\n")
		}
		m.messages = append(m.messages, chatMessage{role: "system", content: strings.TrimRight(sb.String(), "\n")})

	case "/reflect":
		records := m.thoughts.Recent(pipeline.ReflectionInterval)
		if len(records) == 0 {
			m.messages = append(m.messages, chatMessage{role: "system", content: "尚无思维轨迹可供反思。"})
			break
		}
		m.thinking = true
		m.rebuildView()
		total := m.thoughts.Len()
		return *m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			summary, err := m.reflector.Reflect(m.ctx, records, total)
			if err != nil {
				return turnMsg{err: err}
			}
			m.thoughts.Append(store.ThoughtRecord{Content: summary, IsReflection: true, Type: "reflection"})
			return turnMsg{turn: &pipeline.Turn{}, reflection: summary}
		})

	case "/quit":
		m.cancel()
		return *m, tea.Quit

	default:
		m.messages = append(m.messages, chatMessage{
			role:    "error",
			content: fmt.Sprintf("未知指令: %s (/help 查看可用指令)", text),
		})
	}

	m.rebuildView()
	return *m, nil
}

func (m *Model) rebuildView() {
	var sb strings.Builder

	for _, msg := range m.messages {
		switch msg.role {
		case "operator":
			sb.WriteString(m.renderOperatorBlock(msg.content))
		case "xylon":
			sb.WriteString(m.renderXylonBlock(msg.content))
		case "thought":
			sb.WriteString(m.renderThoughtBlock(msg.content))
		case "reflection":
			sb.WriteString(ReflectionStyle.Render("  ◈ 反思: "+msg.content) + "\n\n")
		case "system":
			sb.WriteString(SystemMsgStyle.Render("  ℹ "+msg.content) + "\n\n")
		case "error":
			sb.WriteString(ErrorStyle.Render("  ✗ "+msg.content) + "\n\n")
		}
	}

	if m.thinking {
		sb.WriteString(SpinnerStyle.Render(" "+m.spinner.View()+" 核心议会商议中...") + "\n")
	}

	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(sb.String())
	if wasAtBottom || len(m.messages) <= 1 {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderOperatorBlock(content string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RoleHeaderStyle.Foreground(Amber).Render("操作员"),
		OperatorMsgStyle.Render(content),
	) + "\n\n"
}

func (m *Model) renderXylonBlock(content string) string {
	body := content
	if rendered, err := m.renderer.Render(content); err == nil {
		body = strings.TrimRight(rendered, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		RoleHeaderStyle.Foreground(Cyan).Render("XYLON"),
		XylonMsgStyle.Render(body),
	) + "\n\n"
}

func (m *Model) renderThoughtBlock(content string) string {
	if !m.showThoughts {
		lines := strings.Count(content, "\n") + 1
		return ThoughtBlockStyle.Render(fmt.Sprintf("  ◌ 思维轨迹 (%d 行) [Ctrl+T 展开]", lines)) + "\n\n"
	}

	var formatted strings.Builder
	formatted.WriteString(ThoughtLabelStyle.Render("◌ 思维轨迹") + "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		prefix := "│ "
		if i == len(lines)-1 {
			prefix = "└─ "
		}
		formatted.WriteString(prefix + line + "\n")
	}
	return ThoughtBlockStyle.Render(formatted.String()) + "\n"
}

func (m Model) View() string {
	header := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(DimViolet).
		Width(m.width).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			BannerStyle.Render(Banner),
			HelpStyle.Render(fmt.Sprintf("%s / %s", m.providerName, m.modelName)),
		))

	prompt := lipgloss.NewStyle().Foreground(Violet).Bold(true).Render("> ")
	if m.thinking {
		prompt = lipgloss.NewStyle().Foreground(SignalBlue).Bold(true).Render("● ")
	}
	inputBox := InputBoxStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, prompt, m.textarea.View()))

	help := HelpStyle.Render("Enter: 发送  •  Ctrl+T: 思维轨迹  •  /help  •  Esc: 退出")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		ViewportStyle.Render(m.viewport.View()),
		inputBox,
		lipgloss.NewStyle().PaddingLeft(2).Render(help),
	)
}
