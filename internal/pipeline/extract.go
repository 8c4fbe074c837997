package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Concept is one extracted term/definition pair, ready to merge into the
// concept archive.
type Concept struct {
	Term       string
	Definition string
}

// The extractor is a cascade of heuristics over the stage-1 thought trace.
// Each strategy either matches or yields nothing; the first one with a
// result wins. It optimizes for "never crash, sometimes learn".

// primaryRe matches the canonical learning clause the persona is prompted
// to emit: 「term…(reasoning)我现在理解为 definition。」
var primaryRe = regexp.MustCompile(`([^\s，。！？!?…]{1,30})(?:…|\.{3,6})[^。！？!?]*?(?:我现在理解为|现在理解为|理解为)\s*([^。！？!?\n]+?)[。！？!?.]`)

// candidateRe finds short tokens immediately followed by an ellipsis.
var candidateRe = regexp.MustCompile(`([^\s，。！？!?…；、]{2,12})(?:…|\.{3,6})`)

// quotedRe finds quoted substrings, a second source of term candidates.
var quotedRe = regexp.MustCompile(`[“「『]([^”」』]{2,12})[”」』]`)

// defClauseRe finds a bare understand-as clause for the last-resort pairing.
var defClauseRe = regexp.MustCompile(`(?:我现在理解为|现在理解为|理解为)\s*([^。！？!?\n]+)`)

var quoteStripper = strings.NewReplacer(
	"「", "", "」", "", "『", "", "』", "",
	"“", "", "”", "", "《", "", "》", "",
	`"`, "", "'", "", "[", "", "]", "", "【", "", "】", "",
)

var fillerPrefixes = []string{"这个", "那个", "在这个", "一个", "一种", "这", "那", "在"}

var termStoplist = map[string]struct{}{
	"用户": {},
	"信号": {},
	"现象": {},
	"一种": {},
	"数据": {},
	"概念": {},
	"人类": {},
	"它们": {},
	"我们": {},
}

// cleanTerm strips quoting punctuation and filler tokens; returns "" when
// the remainder is unusable as a term.
func cleanTerm(term string) string {
	term = strings.TrimSpace(quoteStripper.Replace(term))
	for _, prefix := range fillerPrefixes {
		if rest := strings.TrimPrefix(term, prefix); rest != term && utf8.RuneCountInString(rest) > 1 {
			term = rest
			break
		}
	}
	if _, stopped := termStoplist[term]; stopped {
		return ""
	}
	if n := utf8.RuneCountInString(term); n <= 1 || n >= 20 {
		return ""
	}
	return term
}

// Extract pulls learned concepts out of a thought trace. It never fails;
// a trace with no learnable clause yields an empty result.
func Extract(thoughts string) []Concept {
	if strings.TrimSpace(thoughts) == "" {
		return nil
	}

	// Strategy 1: full learning clauses.
	if concepts := extractClauses(thoughts); len(concepts) > 0 {
		return concepts
	}

	// Strategy 2+3: candidate terms, paired with the first bare
	// understand-as clause.
	candidates := candidateTerms(thoughts)
	if len(candidates) == 0 {
		return nil
	}
	m := defClauseRe.FindStringSubmatch(thoughts)
	if m == nil {
		return nil
	}
	definition := strings.TrimSpace(strings.TrimRight(m[1], "。！？!?."))
	if definition == "" {
		return nil
	}
	return []Concept{{Term: candidates[0], Definition: definition}}
}

func extractClauses(thoughts string) []Concept {
	var concepts []Concept
	seen := map[string]struct{}{}
	for _, m := range primaryRe.FindAllStringSubmatch(thoughts, -1) {
		term := cleanTerm(m[1])
		definition := strings.TrimSpace(m[2])
		if term == "" || definition == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		concepts = append(concepts, Concept{Term: term, Definition: definition})
	}
	return concepts
}

func candidateTerms(thoughts string) []string {
	var candidates []string
	seen := map[string]struct{}{}
	add := func(raw string) {
		term := cleanTerm(raw)
		if term == "" {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		candidates = append(candidates, term)
	}
	for _, m := range candidateRe.FindAllStringSubmatch(thoughts, -1) {
		add(m[1])
	}
	for _, m := range quotedRe.FindAllStringSubmatch(thoughts, -1) {
		add(m[1])
	}
	return candidates
}
