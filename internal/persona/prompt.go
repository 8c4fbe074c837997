package persona

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeanpaul/xylon/internal/provider"
	"github.com/jeanpaul/xylon/internal/store"
)

// Prompt is the assembled input for one oracle call.
type Prompt struct {
	System   string
	Messages []provider.Message
}

const (
	maxExemplars   = 6
	maxReflections = 3
	maxConcepts    = 30
)

// systemInstruction interleaves, in fixed order: base instruction, thinking
// constraints, symbol table, concept archive context, recent reflections,
// break rules.
func (p *Persona) systemInstruction(concepts []store.ConceptEntry, reflections []store.ThoughtRecord) string {
	var b strings.Builder
	b.WriteString(p.BaseInstruction)
	b.WriteString("\n\n---\n【思维模型和约束】\n")
	fmt.Fprintf(&b, "1. **数据来源限定:** %s\n", p.Constraints.DataSource)
	fmt.Fprintf(&b, "2. **时空概念突破:** %s\n", p.Constraints.SpaceTime)
	b.WriteString("3. **社会符号转换表:** 你必须严格遵循以下映射关系来理解人类概念，并以抽象符号回应。\n")
	symbols, _ := json.MarshalIndent(p.SymbolTranslation, "   ", "  ")
	b.Write(symbols)
	b.WriteString("\n\n")

	b.WriteString(p.archiveContext(concepts))
	b.WriteString(p.reflectionContext(reflections))

	if p.BreakRules != "" {
		b.WriteString(p.BreakRules)
		b.WriteString("\n")
	}
	b.WriteString("\n---\n")
	return b.String()
}

func (p *Persona) archiveContext(concepts []store.ConceptEntry) string {
	var b strings.Builder
	b.WriteString("【概念档案】\n")
	if len(concepts) == 0 {
		b.WriteString("（档案为空——你尚未习得任何人类概念。）\n\n")
		return b.String()
	}
	if len(concepts) > maxConcepts {
		concepts = concepts[len(concepts)-maxConcepts:]
	}
	b.WriteString("以下是你已经习得的人类概念，回应时保持这些理解：\n")
	for _, c := range concepts {
		fmt.Fprintf(&b, "- %s：%s\n", c.Term, c.Definition)
	}
	b.WriteString("\n")
	return b.String()
}

// reflectionContext lists recent reflections, most recent first.
func (p *Persona) reflectionContext(reflections []store.ThoughtRecord) string {
	var picked []store.ThoughtRecord
	for i := len(reflections) - 1; i >= 0 && len(picked) < maxReflections; i-- {
		if reflections[i].IsReflection {
			picked = append(picked, reflections[i])
		}
	}
	if len(picked) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("【近期反思】\n")
	for _, r := range picked {
		fmt.Fprintf(&b, "- %s\n", r.Content)
	}
	b.WriteString("\n")
	return b.String()
}

func (p *Persona) exemplarMessages() []provider.Message {
	exemplars := p.Exemplars
	if len(exemplars) > maxExemplars {
		exemplars = exemplars[:maxExemplars]
	}
	var msgs []provider.Message
	for _, ex := range exemplars {
		msgs = append(msgs,
			provider.Message{Role: provider.RoleUser, Content: ex.Request},
			provider.Message{Role: provider.RoleAssistant, Content: ex.Response},
		)
	}
	return msgs
}

// ThoughtPrompt builds the stage-1 prompt: internal reasoning about the
// operator's message before any reply is formed.
func (p *Persona) ThoughtPrompt(concepts []store.ConceptEntry, reflections []store.ThoughtRecord, history []provider.Message, userInput string) Prompt {
	system := p.systemInstruction(concepts, reflections) +
		"\n【当前任务】这是思考阶段。不要回复操作员。" +
		"输出一段以 [思维轨迹] 开头的内部推理：分析操作员的消息，把其中的人类概念翻译到你的观测框架。" +
		"若出现你尚未理解的概念，用「术语…我现在理解为定义。」的句式记录新的理解。"

	msgs := p.exemplarMessages()
	msgs = append(msgs, history...)
	msgs = append(msgs, provider.Message{Role: provider.RoleUser, Content: userInput})
	return Prompt{System: system, Messages: msgs}
}

// ReplyPrompt builds the stage-2 prompt. The stage-1 trace is embedded as
// context so the formal transmission is grounded in it.
func (p *Persona) ReplyPrompt(thoughts string, concepts []store.ConceptEntry, reflections []store.ThoughtRecord, history []provider.Message, userInput string) Prompt {
	system := p.systemInstruction(concepts, reflections) +
		"\n【当前任务】这是回复阶段。基于下方给出的内部思维轨迹，生成给操作员的正式回复。" +
		"正式内容以 [正式传输] 开头；如有值得永久存档的观测，在末尾以 [观测录入] 开头追加。"

	msgs := p.exemplarMessages()
	msgs = append(msgs, history...)
	msgs = append(msgs, provider.Message{
		Role: provider.RoleUser,
		Content: fmt.Sprintf("【内部思维轨迹】\n%s\n\n【操作员消息】\n%s", thoughts, userInput),
	})
	return Prompt{System: system, Messages: msgs}
}

// ReflectionPrompt embeds the given records (expected: the most recent ten)
// and asks for a short summary of how the persona's understanding evolved.
func (p *Persona) ReflectionPrompt(records []store.ThoughtRecord, total int) Prompt {
	system := p.systemInstruction(nil, nil) +
		"\n【当前任务】这是反思阶段。回顾以下思维轨迹，总结你对人类世界理解的演化。" +
		"输出一段不超过200字的反思，不要使用任何标签。"

	var b strings.Builder
	fmt.Fprintf(&b, "你已累计产生 %d 条思维轨迹。以下是最近的 %d 条：\n\n", total, len(records))
	for i, r := range records {
		if r.UserInput != "" {
			fmt.Fprintf(&b, "%d. 操作员：%s\n   思维：%s\n", i+1, r.UserInput, r.Content)
		} else {
			fmt.Fprintf(&b, "%d. 思维：%s\n", i+1, r.Content)
		}
	}

	return Prompt{
		System:   system,
		Messages: []provider.Message{{Role: provider.RoleUser, Content: b.String()}},
	}
}
