package pipeline

import (
	"regexp"
	"strings"
)

// The model structures its raw output with three tags, in half-width or
// full-width bracket form. None of them may ever reach the operator.
var (
	thoughtTagRe  = regexp.MustCompile(`[\[【]思维轨迹[\]】]`)
	transmitTagRe = regexp.MustCompile(`[\[【]正式传输[\]】]`)
	observeTagRe  = regexp.MustCompile(`[\[【]观测录入[\]】]`)
	anyTagRe      = regexp.MustCompile(`[\[【](?:思维轨迹|正式传输|观测录入)[\]】]`)

	// tagFromHereRe matches a transmission or observation tag, used to find
	// where a thought-trace region ends.
	tagFromHereRe = regexp.MustCompile(`[\[【](?:正式传输|观测录入)[\]】]`)
)

// PlaceholderReply substitutes for a degraded (empty) oracle response.
const PlaceholderReply = "（信号衰减……本次传输内容丢失。）"

// metaPhrases are process jargon that must never reach the operator; any
// sentence containing one is removed in full.
var metaPhrases = []string{
	"思维轨迹",
	"思维过程",
	"内部推理",
	"内部处理",
	"处理流程",
	"分析流程",
	"系统指令",
	"提示词",
	"作为AI",
	"作为一个AI",
	"语言模型",
	"上述分析",
}

var sentenceRe = regexp.MustCompile(`[^。！？!?\n]*[。！？!?\n]|[^。！？!?\n]+$`)

// Clean turns a raw stage-2 reply into operator-facing text. The result
// never contains tag markers and is never empty for non-empty input.
func Clean(raw string) string {
	working := raw

	if loc := transmitTagRe.FindStringIndex(working); loc != nil {
		// Formal transmission present: keep only the content between it and
		// the next observation tag (or end of text).
		working = working[loc[1]:]
		if oloc := observeTagRe.FindStringIndex(working); oloc != nil {
			working = working[:oloc[0]]
		}
		working = anyTagRe.ReplaceAllString(working, "")
	} else {
		working = stripThoughtRegions(working)
		working = transmitTagRe.ReplaceAllString(working, "")
		if oloc := observeTagRe.FindStringIndex(working); oloc != nil {
			working = working[:oloc[0]]
		}
	}

	working = strings.TrimSpace(dropMetaSentences(working))
	if working != "" {
		return working
	}

	// Everything was stripped: fall back to the first sentence of the
	// original reply with tags removed.
	fallback := firstSentence(anyTagRe.ReplaceAllString(raw, ""))
	if fallback == "" {
		return PlaceholderReply
	}
	return fallback
}

// stripThoughtRegions removes every span from a thought-trace tag up to the
// next transmission/observation tag, or to end of text.
func stripThoughtRegions(text string) string {
	for {
		loc := thoughtTagRe.FindStringIndex(text)
		if loc == nil {
			return text
		}
		rest := text[loc[1]:]
		next := tagFromHereRe.FindStringIndex(rest)
		if next == nil {
			return text[:loc[0]]
		}
		text = text[:loc[0]] + rest[next[0]:]
	}
}

// dropMetaSentences deletes whole sentences containing meta-commentary.
func dropMetaSentences(text string) string {
	var b strings.Builder
	for _, sentence := range sentenceRe.FindAllString(text, -1) {
		if containsMetaPhrase(sentence) {
			continue
		}
		b.WriteString(sentence)
	}
	return b.String()
}

func containsMetaPhrase(sentence string) bool {
	for _, phrase := range metaPhrases {
		if strings.Contains(sentence, phrase) {
			return true
		}
	}
	return false
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if m := sentenceRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return text
}
