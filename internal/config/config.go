// Package config loads service configuration from defaults, an optional
// YAML file, and JAXON_* environment variables (highest priority). A Config
// value is passed to constructors; there is no ambient global state.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey     = errors.New("missing OpenAI API key")
	ErrInvalidToolCycles = errors.New("max tool cycles must be at least 1")
	ErrMissingPrompt     = errors.New("missing prompt file path")
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	OpenAI struct {
		APIKey          string `mapstructure:"api_key"`
		APIBase         string `mapstructure:"api_base"`
		Model           string `mapstructure:"model"`
		TTSModel        string `mapstructure:"tts_model"`
		TTSVoice        string `mapstructure:"tts_voice"`
		TTSInstructions string `mapstructure:"tts_instructions"`
	} `mapstructure:"openai"`

	Agent struct {
		PromptPath    string `mapstructure:"prompt_path"`
		ToolsPath     string `mapstructure:"tools_path"`
		MaxToolCycles int    `mapstructure:"max_tool_cycles"`
		VectorStoreID string `mapstructure:"vector_store_id"`
		UserID        string `mapstructure:"user_id"`
		Greeting      string `mapstructure:"greeting"`
	} `mapstructure:"agent"`

	Redis struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"redis"`

	NATS struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"nats"`

	Speech struct {
		Enabled       bool     `mapstructure:"enabled"`
		PlayerCommand []string `mapstructure:"player_command"`
	} `mapstructure:"speech"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.api_base", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.tts_model", "gpt-4o-mini-tts")
	v.SetDefault("openai.tts_voice", "onyx")
	v.SetDefault("openai.tts_instructions", "Speak in a calming professional tone.")
	v.SetDefault("agent.prompt_path", "configs/prompt.txt")
	v.SetDefault("agent.tools_path", "configs/tools.json")
	v.SetDefault("agent.max_tool_cycles", 10)
	v.SetDefault("agent.vector_store_id", "")
	v.SetDefault("agent.user_id", "default")
	v.SetDefault("agent.greeting", "Hello, I am Jaxon. How can I help you today?")
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.player_command", []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "-"})
}

// Load reads configuration. path may be empty; then only defaults and
// environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JAXON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Agent.MaxToolCycles < 1 {
		return ErrInvalidToolCycles
	}
	if c.Agent.PromptPath == "" {
		return ErrMissingPrompt
	}
	return nil
}

// RetrievalMode reports whether the agent runs in document-search mode
// instead of function-calling mode.
func (c *Config) RetrievalMode() bool {
	return c.Agent.VectorStoreID != ""
}
