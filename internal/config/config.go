package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	DefaultModel    string                    `yaml:"default_model" mapstructure:"default_model"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Server          ServerConfig              `yaml:"server" mapstructure:"server"`
	DataDir         string                    `yaml:"data_dir" mapstructure:"data_dir"`
	PersonaPath     string                    `yaml:"persona_path" mapstructure:"persona_path"`
	Temperatures    TemperatureConfig         `yaml:"temperatures" mapstructure:"temperatures"`
	OracleTimeout   time.Duration             `yaml:"oracle_timeout" mapstructure:"oracle_timeout"`
	MaxRetries      int                       `yaml:"max_retries" mapstructure:"max_retries"`
}

type ProviderConfig struct {
	Type    string `yaml:"type" mapstructure:"type"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type TemperatureConfig struct {
	Thought    float64 `yaml:"thought" mapstructure:"thought"`
	Reply      float64 `yaml:"reply" mapstructure:"reply"`
	Reflection float64 `yaml:"reflection" mapstructure:"reflection"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DefaultProvider: "google",
		DefaultModel:    "gemini-2.5-flash",
		DataDir:         filepath.Join(home, ".config", "xylon", "data"),
		Server:          ServerConfig{Addr: ":8760"},
		Temperatures:    TemperatureConfig{Thought: 0.9, Reply: 0.7, Reflection: 0.6},
		OracleTimeout:   30 * time.Second,
		MaxRetries:      3,
		Providers: map[string]ProviderConfig{
			"google": {Type: "google", APIKey: "$GEMINI_API_KEY"},
			"ollama": {Type: "openai", BaseURL: "http://localhost:11434/v1"},
		},
	}
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths
	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "xylon"))
	}
	home, _ := os.UserHomeDir()
	viper.AddConfigPath(filepath.Join(home, ".config", "xylon"))

	// Environment variables
	viper.SetEnvPrefix("XYLON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found; use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	for name, p := range cfg.Providers {
		p.APIKey = expandEnv(p.APIKey)
		p.BaseURL = expandEnv(p.BaseURL)
		cfg.Providers[name] = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is where WriteDefault places a starter config file.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "xylon", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "xylon", "config.yaml")
}

// WriteDefault writes the default configuration to path. Refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) ProviderFor(name string) (ProviderConfig, bool) {
	p, ok := c.Providers[name]
	return p, ok
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultProvider == "" {
		return fmt.Errorf("config: default_provider is required")
	}
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("config: default_provider %q not found in providers", c.DefaultProvider)
	}
	for name, p := range c.Providers {
		validTypes := map[string]bool{"openai": true, "anthropic": true, "google": true}
		if !validTypes[p.Type] {
			return fmt.Errorf("config: provider %q has invalid type %q (must be openai, anthropic, or google)", name, p.Type)
		}
		if p.Type == "openai" && p.BaseURL == "" {
			return fmt.Errorf("config: provider %q (type openai) requires base_url", name)
		}
	}
	if c.OracleTimeout <= 0 {
		c.OracleTimeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 3
	}
	if c.Temperatures.Thought <= 0 {
		c.Temperatures.Thought = 0.9
	}
	if c.Temperatures.Reply <= 0 {
		c.Temperatures.Reply = 0.7
	}
	if c.Temperatures.Reflection <= 0 {
		c.Temperatures.Reflection = 0.6
	}
	return nil
}
