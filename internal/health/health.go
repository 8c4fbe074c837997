// Package health probes the configured generation backend so the server
// can report whether the persona's oracle is reachable before a chat
// request fails mid-conversation.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Status is the probe result returned by the health endpoint.
type Status struct {
	Provider  string   `json:"provider"`
	BaseURL   string   `json:"baseUrl,omitempty"`
	Reachable bool     `json:"reachable"`
	Models    []string `json:"models,omitempty"`
	Error     string   `json:"error,omitempty"`
	LatencyMS int64    `json:"latencyMs"`
}

// Checker probes one provider endpoint.
type Checker struct {
	ProviderName string
	ProviderType string
	BaseURL      string
	APIKey       string
}

// Probe verifies the backend is reachable. OpenAI-compatible endpoints
// are asked for their model list; Anthropic and Google get a lightweight
// connectivity request.
func (c Checker) Probe(ctx context.Context) Status {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var s Status
	switch c.ProviderType {
	case "openai":
		s = probeOpenAICompat(ctx, c.BaseURL, c.APIKey)
	case "anthropic":
		s = probeAnthropic(ctx, c.APIKey)
	case "google":
		s = probeGoogle(ctx, c.APIKey)
	default:
		s.Error = fmt.Sprintf("unknown provider type: %s", c.ProviderType)
	}

	s.Provider = c.ProviderName
	s.LatencyMS = time.Since(start).Milliseconds()
	return s
}

func probeOpenAICompat(ctx context.Context, baseURL, apiKey string) Status {
	s := Status{BaseURL: baseURL}
	url := strings.TrimRight(baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach %s: %s", baseURL, friendlyError(err))
		return s
	}
	defer resp.Body.Close()

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		s.Error = "authentication failed, check your API key"
		return s
	}
	if resp.StatusCode != 200 {
		s.Error = fmt.Sprintf("endpoint returned HTTP %d", resp.StatusCode)
		return s
	}

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Some endpoints return non-standard JSON but are still reachable
		s.Reachable = true
		return s
	}

	s.Reachable = true
	for _, m := range result.Data {
		s.Models = append(s.Models, m.ID)
	}
	return s
}

func probeAnthropic(ctx context.Context, apiKey string) Status {
	s := Status{BaseURL: "https://api.anthropic.com"}
	if apiKey == "" {
		s.Error = "no API key configured (set ANTHROPIC_API_KEY)"
		return s
	}
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.anthropic.com/v1/models", nil)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach Anthropic API: %s", friendlyError(err))
		return s
	}
	defer resp.Body.Close()

	if resp.StatusCode == 401 {
		s.Error = "invalid API key"
		return s
	}
	s.Reachable = true
	return s
}

func probeGoogle(ctx context.Context, apiKey string) Status {
	s := Status{BaseURL: "https://generativelanguage.googleapis.com"}
	if apiKey == "" {
		s.Error = "no API key configured (set GEMINI_API_KEY)"
		return s
	}
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models?key=%s&pageSize=1", apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach Google API: %s", friendlyError(err))
		return s
	}
	defer resp.Body.Close()

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		s.Error = "invalid API key"
		return s
	}
	s.Reachable = true
	return s
}

func friendlyError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused (is the service running?)"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check the URL)"
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "connection timed out (service may be starting up)"
	}
	return msg
}
