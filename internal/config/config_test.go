package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "google", cfg.DefaultProvider)
	assert.Equal(t, ":8760", cfg.Server.Addr)
	assert.Contains(t, cfg.Providers, "google")
	require.NoError(t, cfg.Validate())
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("XYLON_TEST_KEY", "sk-123")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set variable", "$XYLON_TEST_KEY", "sk-123"},
		{"unset variable kept", "$XYLON_UNSET_VAR_42", "$XYLON_UNSET_VAR_42"},
		{"embedded", "Bearer $XYLON_TEST_KEY!", "Bearer sk-123!"},
		{"no variable", "plain-key", "plain-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.input))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing default provider",
			mutate:  func(c *Config) { c.DefaultProvider = "" },
			wantErr: "default_provider is required",
		},
		{
			name:    "unknown default provider",
			mutate:  func(c *Config) { c.DefaultProvider = "missing" },
			wantErr: "not found in providers",
		},
		{
			name: "invalid provider type",
			mutate: func(c *Config) {
				c.Providers["bad"] = ProviderConfig{Type: "cohere"}
			},
			wantErr: "invalid type",
		},
		{
			name: "openai without base url",
			mutate: func(c *Config) {
				c.Providers["local"] = ProviderConfig{Type: "openai"}
			},
			wantErr: "requires base_url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_provider: google")
	assert.Contains(t, string(data), "providers:")

	err = WriteDefault(path)
	require.Error(t, err, "must not overwrite an existing config")
	assert.Contains(t, err.Error(), "already exists")
}

func TestValidateRepairsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OracleTimeout = 0
	cfg.MaxRetries = -1
	cfg.Temperatures = TemperatureConfig{}
	require.NoError(t, cfg.Validate())
	assert.Greater(t, cfg.OracleTimeout.Seconds(), 0.0)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.InDelta(t, 0.9, cfg.Temperatures.Thought, 1e-9)
	assert.InDelta(t, 0.7, cfg.Temperatures.Reply, 1e-9)
}
