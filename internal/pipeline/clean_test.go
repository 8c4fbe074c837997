package pipeline

import (
	"strings"
	"testing"
)

func TestCleanFormalTransmission(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "transmission then observation",
			raw:  "[正式传输] 你好。[观测录入] 新术语X是Y",
			want: "你好。",
		},
		{
			name: "transmission only",
			raw:  "[正式传输] 信号已锁定。请陈述观测请求。",
			want: "信号已锁定。请陈述观测请求。",
		},
		{
			name: "full-width brackets",
			raw:  "【正式传输】频率稳定。【观测录入】样本#12",
			want: "频率稳定。",
		},
		{
			name: "thought trace before transmission",
			raw:  "[思维轨迹] 操作员在问候。[正式传输] 载波已对齐。",
			want: "载波已对齐。",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.raw); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanWithoutTransmissionTag(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "thought region stripped to end",
			raw:  "回复正文。[思维轨迹] 这段不该外传",
			want: "回复正文。",
		},
		{
			name: "observation truncated",
			raw:  "观测完成。[观测录入] 样本#42的光谱",
			want: "观测完成。",
		},
		{
			name: "plain text untouched",
			raw:  "能量态稳定。",
			want: "能量态稳定。",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.raw); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanDropsMetaSentences(t *testing.T) {
	raw := "[正式传输] 频率已锁定。根据我的思维过程，这是标准流程。观测继续。"
	got := Clean(raw)
	if strings.Contains(got, "思维过程") {
		t.Errorf("meta sentence not removed: %q", got)
	}
	if !strings.Contains(got, "频率已锁定。") || !strings.Contains(got, "观测继续。") {
		t.Errorf("surrounding sentences must survive: %q", got)
	}
}

func TestCleanNeverReturnsTagsOrEmpty(t *testing.T) {
	inputs := []string{
		"[正式传输] 你好。[观测录入] X",
		"【思维轨迹】只有思维",
		"[思维轨迹] 全是内部推理，不该有输出。",
		"[正式传输][观测录入] 只有存档",
		"正常句子。",
		"???",
	}
	for _, raw := range inputs {
		got := Clean(raw)
		if strings.TrimSpace(got) == "" {
			t.Errorf("Clean(%q) returned empty output", raw)
		}
		for _, tag := range []string{"[思维轨迹]", "[正式传输]", "[观测录入]", "【思维轨迹】", "【正式传输】", "【观测录入】"} {
			if strings.Contains(got, tag) {
				t.Errorf("Clean(%q) leaked tag %s: %q", raw, tag, got)
			}
		}
	}
}

func TestCleanFallsBackToFirstSentence(t *testing.T) {
	// Every whole sentence is meta commentary; the cleaner must fall back
	// to the first sentence of the raw reply rather than return nothing.
	raw := "根据系统指令，我生成了回应。上述分析就是全部。"
	got := Clean(raw)
	if got != "根据系统指令，我生成了回应。" {
		t.Errorf("Clean() = %q, want first raw sentence", got)
	}
}
