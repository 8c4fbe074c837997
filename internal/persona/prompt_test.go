package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/xylon/internal/provider"
	"github.com/jeanpaul/xylon/internal/store"
)

func TestThoughtPromptInterleaving(t *testing.T) {
	p := Default()
	concepts := []store.ConceptEntry{{Term: "咖啡店", Definition: "社交能量交换场所"}}
	reflections := []store.ThoughtRecord{{Content: "我开始理解人类的聚集行为。", IsReflection: true}}

	prompt := p.ThoughtPrompt(concepts, reflections, nil, "地铁是什么？")

	require.Contains(t, prompt.System, p.BaseInstruction[:12])
	require.Contains(t, prompt.System, "咖啡店：社交能量交换场所")
	require.Contains(t, prompt.System, "我开始理解人类的聚集行为。")
	require.Contains(t, prompt.System, "[思维轨迹]")

	// Exemplars come first as alternating user/assistant pairs, the live
	// turn is last.
	require.GreaterOrEqual(t, len(prompt.Messages), 3)
	require.Equal(t, provider.RoleUser, prompt.Messages[0].Role)
	require.Equal(t, provider.RoleAssistant, prompt.Messages[1].Role)
	last := prompt.Messages[len(prompt.Messages)-1]
	require.Equal(t, provider.RoleUser, last.Role)
	require.Equal(t, "地铁是什么？", last.Content)
}

func TestEmptyArchivePlaceholder(t *testing.T) {
	p := Default()
	prompt := p.ThoughtPrompt(nil, nil, nil, "你好")
	require.Contains(t, prompt.System, "档案为空")
}

func TestPromptIsDeterministic(t *testing.T) {
	p := Default()
	p.SymbolTranslation = map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}
	concepts := []store.ConceptEntry{{Term: "x", Definition: "y"}}

	first := p.ThoughtPrompt(concepts, nil, nil, "test")
	for i := 0; i < 20; i++ {
		again := p.ThoughtPrompt(concepts, nil, nil, "test")
		require.Equal(t, first.System, again.System)
		require.Equal(t, first.Messages, again.Messages)
	}
}

func TestReflectionsMostRecentFirstAndBounded(t *testing.T) {
	p := Default()
	var records []store.ThoughtRecord
	for _, c := range []string{"r1", "r2", "r3", "r4", "r5"} {
		records = append(records, store.ThoughtRecord{Content: c, IsReflection: true})
	}
	system := p.systemInstruction(nil, records)

	require.NotContains(t, system, "- r1\n")
	require.NotContains(t, system, "- r2\n")
	i5 := strings.Index(system, "- r5")
	i4 := strings.Index(system, "- r4")
	i3 := strings.Index(system, "- r3")
	require.True(t, i5 >= 0 && i5 < i4 && i4 < i3, "reflections must be most-recent-first")
}

func TestReplyPromptEmbedsThoughts(t *testing.T) {
	p := Default()
	prompt := p.ReplyPrompt("[思维轨迹] 咖啡店…我现在理解为社交能量交换场所。", nil, nil, nil, "咖啡店是什么？")

	last := prompt.Messages[len(prompt.Messages)-1]
	require.Contains(t, last.Content, "社交能量交换场所")
	require.Contains(t, last.Content, "咖啡店是什么？")
	require.Contains(t, prompt.System, "[正式传输]")
}

func TestReflectionPromptListsAllRecords(t *testing.T) {
	p := Default()
	var records []store.ThoughtRecord
	for i := 0; i < 10; i++ {
		records = append(records, store.ThoughtRecord{Content: "思维", UserInput: "输入"})
	}
	prompt := p.ReflectionPrompt(records, 20)
	require.Len(t, prompt.Messages, 1)
	require.Contains(t, prompt.Messages[0].Content, "你已累计产生 20 条思维轨迹")
	require.Contains(t, prompt.Messages[0].Content, "10.")
	require.Contains(t, prompt.System, "不超过200字")
}
