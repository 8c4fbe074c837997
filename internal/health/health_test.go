package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeOpenAICompat(t *testing.T) {
	t.Run("lists models", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/models", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			w.Write([]byte(`{"data":[{"id":"qwen3:8b"},{"id":"llama3.2"}]}`))
		}))
		defer srv.Close()

		c := Checker{ProviderName: "local", ProviderType: "openai", BaseURL: srv.URL + "/v1", APIKey: "sk-test"}
		s := c.Probe(context.Background())
		assert.True(t, s.Reachable)
		assert.Equal(t, "local", s.Provider)
		assert.Equal(t, []string{"qwen3:8b", "llama3.2"}, s.Models)
		assert.Empty(t, s.Error)
	})

	t.Run("auth failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(401)
		}))
		defer srv.Close()

		c := Checker{ProviderType: "openai", BaseURL: srv.URL}
		s := c.Probe(context.Background())
		assert.False(t, s.Reachable)
		assert.Contains(t, s.Error, "authentication failed")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close()

		c := Checker{ProviderType: "openai", BaseURL: srv.URL}
		s := c.Probe(context.Background())
		assert.False(t, s.Reachable)
		assert.NotEmpty(t, s.Error)
	})
}

func TestProbeUnknownType(t *testing.T) {
	c := Checker{ProviderName: "x", ProviderType: "cohere"}
	s := c.Probe(context.Background())
	assert.False(t, s.Reachable)
	assert.Contains(t, s.Error, "unknown provider type")
}

func TestProbeMissingKeys(t *testing.T) {
	for _, typ := range []string{"anthropic", "google"} {
		c := Checker{ProviderType: typ}
		s := c.Probe(context.Background())
		assert.False(t, s.Reachable, typ)
		assert.Contains(t, s.Error, "no API key configured", typ)
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		in   error
		want string
	}{
		{errors.New("dial tcp 127.0.0.1:11434: connection refused"), "connection refused (is the service running?)"},
		{errors.New("dial tcp: lookup nohost: no such host"), "host not found (check the URL)"},
		{errors.New("context deadline exceeded"), "connection timed out (service may be starting up)"},
		{errors.New("something odd"), "something odd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, friendlyError(tt.in))
	}
}
