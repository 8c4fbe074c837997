package provider

import (
	"encoding/json"
	"strings"
)

// statusHints maps provider HTTP statuses to short operator-facing hints,
// used when the response body carries no message of its own.
var statusHints = map[int]string{
	401: "authentication failed, check your API key",
	403: "access denied, the API key lacks permission",
	404: "model or endpoint not found",
	429: "rate limited, slow down",
	500: "provider-side internal error",
	502: "provider temporarily unavailable",
	503: "provider temporarily unavailable",
	529: "provider overloaded",
}

// apiErrorMessage pulls a message out of a provider error body. Both the
// nested shape {"error":{"message":...}} and the flat {"message":...}
// occur across backends. Callers embed the HTTP status alongside the
// returned text; the retry wrapper keys off that status.
func apiErrorMessage(statusCode int, body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error.Message != "" {
			return errResp.Error.Message
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	if hint, ok := statusHints[statusCode]; ok {
		return hint
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// networkErrorHint rewrites common transport failures into something an
// operator can act on.
func networkErrorHint(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused (is the service running?)"
	case strings.Contains(msg, "no such host"):
		return "host not found (check the URL)"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "connection timed out (service may be starting up)"
	case strings.Contains(msg, "EOF"):
		return "connection closed unexpectedly"
	case strings.Contains(msg, "reset by peer"):
		return "connection reset by server"
	}
	return msg
}
