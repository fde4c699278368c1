// Package config loads runtime settings from defaults, an optional config file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/spf13/viper"
)

const EnvPrefix = "CHROMASTORE"

// Config holds the settings shared by the server and CLI commands.
type Config struct {
	Addr        string `mapstructure:"addr"`
	DatabaseDSN string `mapstructure:"database_dsn"` // "", "memory", postgres:// URL or SQLite path
	Dimension   int    `mapstructure:"dimension"`
	EmbedModel  string `mapstructure:"embed_model"`
	OpenAIKey   string `mapstructure:"openai_key"`
	OpenAIURL   string `mapstructure:"openai_url"`
	OllamaURL   string `mapstructure:"ollama_url"`
	TextField   string `mapstructure:"text_field"`
	Namespace   string `mapstructure:"namespace"`
	Timeout     int    `mapstructure:"timeout"` // embedding request timeout in seconds
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8000")
	v.SetDefault("database_dsn", "")
	v.SetDefault("dimension", 1536)
	v.SetDefault("embed_model", "text-embedding-3-small")
	v.SetDefault("openai_key", "")
	v.SetDefault("openai_url", "")
	v.SetDefault("ollama_url", "")
	v.SetDefault("text_field", "text")
	v.SetDefault("namespace", "")
	v.SetDefault("timeout", 60)
}

// Load reads configuration. An empty configFile searches for chromastore.{yaml,json,toml}
// in the working directory and /etc/chromastore/; a missing file is not an error.
// Environment variables prefixed with CHROMASTORE_ override both.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("chromastore")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/chromastore/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = os.Getenv("OLLAMA_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail later at first use.
func (c *Config) Validate() error {
	if c.TextField == "" {
		return fmt.Errorf("%w: text_field must not be empty", core.ErrInvalidConfig)
	}
	if c.Dimension < 0 {
		return fmt.Errorf("%w: dimension must not be negative, got %d", core.ErrInvalidConfig, c.Dimension)
	}
	return nil
}
