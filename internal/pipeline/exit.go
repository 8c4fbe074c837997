package pipeline

import (
	"regexp"
	"strings"
)

// exitWords end the conversation when the operator's whole message,
// trimmed and casefolded, is one of them.
var exitWords = map[string]struct{}{
	"再见":   {},
	"退出":   {},
	"结束":   {},
	"bye":  {},
	"exit": {},
}

// FarewellReply is the canned reply for a user-initiated exit.
const FarewellReply = "再见。"

// farewellPhrase is the canonical phrase that, coming from the model,
// also ends the conversation.
const farewellPhrase = "再见"

var farewellPunct = regexp.MustCompile(`[!！,，。.]`)

// IsUserExit reports whether the user input is an exit word.
func IsUserExit(input string) bool {
	_, ok := exitWords[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// IsFarewell reports whether a cleaned reply is the model saying goodbye:
// stripped of punctuation it must equal the canonical farewell phrase.
func IsFarewell(reply string) bool {
	return farewellPunct.ReplaceAllString(strings.TrimSpace(reply), "") == farewellPhrase
}
