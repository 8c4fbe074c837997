package persona

import (
	"strings"
	"testing"
)

func TestAbstractInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"past tense", "昨天的观测结果呢？", "信息累积的上一阶段的观测结果呢？"},
		{"future", "明天会发生什么？", "结构演化的下一阶段会发生什么？"},
		{"duration", "还要多久？", "还要信息熵的累积周期？"},
		{"distance far", "那颗星很远吗？", "那颗星高能量梯度区域吗？"},
		{"no rewrite", "你好", "你好"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AbstractInput(tt.input); got != tt.want {
				t.Errorf("AbstractInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranslateReplySymbols(t *testing.T) {
	p := Default()
	got := p.TranslateReply("你的朋友在城市里观测到了光谱异常。")
	if !strings.Contains(got, "稳定引力伴星") {
		t.Errorf("symbol 朋友 not translated: %q", got)
	}
	if !strings.Contains(got, "高密度信号簇") {
		t.Errorf("symbol 城市 not translated: %q", got)
	}
	if strings.Contains(got, "校准") {
		t.Errorf("reply with sourcing vocab should not gain a calibration note: %q", got)
	}
}

func TestTranslateReplyAddsCalibrationNote(t *testing.T) {
	p := Default()
	got := p.TranslateReply("这个现象很有趣。")
	if !strings.Contains(got, "进行校准") {
		t.Errorf("reply without sourcing vocab should gain a calibration note: %q", got)
	}
	// Same input always picks the same source.
	if again := p.TranslateReply("这个现象很有趣。"); again != got {
		t.Errorf("calibration note must be deterministic: %q vs %q", got, again)
	}
}
