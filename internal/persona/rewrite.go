package persona

import (
	"regexp"
	"sort"
	"strings"
)

// Incoming operator text is abstracted into the persona's register before
// prompting: time and space vocabulary becomes observational language.
var inputRewrites = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`昨天|过去`), "信息累积的上一阶段"},
	{regexp.MustCompile(`明天|未来`), "结构演化的下一阶段"},
	{regexp.MustCompile(`多久|时间`), "信息熵的累积周期"},
	{regexp.MustCompile(`遥远|很远`), "高能量梯度区域"},
	{regexp.MustCompile(`附近|很近`), "低能量梯度区域"},
}

// AbstractInput rewrites human time/space vocabulary into the persona's
// abstract register.
func AbstractInput(s string) string {
	for _, r := range inputRewrites {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// sourcingVocab matches replies that already cite an observational data source.
var sourcingVocab = regexp.MustCompile(`光谱|辐射|光子|噪音`)

var calibrationSources = []string{"光谱分析", "热辐射强度图", "光子密度波动"}

// TranslateReply applies the persona's symbol table to an outgoing reply and,
// when the reply cites no observational source at all, appends a calibration
// note naming one.
func (p *Persona) TranslateReply(reply string) string {
	// Longer terms first so overlapping keys replace deterministically.
	terms := make([]string, 0, len(p.SymbolTranslation))
	for term := range p.SymbolTranslation {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	for _, term := range terms {
		reply = strings.ReplaceAll(reply, term, p.SymbolTranslation[term])
	}

	if !sourcingVocab.MatchString(reply) {
		source := calibrationSources[len([]rune(reply))%len(calibrationSources)]
		reply += "（但需要指出，你所描述现象的准确性，仍需结合" + source + "进行校准。）"
	}
	return reply
}
