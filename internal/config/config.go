// Package config loads tripbot settings. Sources are layered: built-in
// defaults, then an optional YAML file, then a .env file, then the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/llm"
)

// Config holds all tripbot configuration.
type Config struct {
	Language string         `yaml:"language"`
	DBPath   string         `yaml:"db_path"`
	Log      LogConfig      `yaml:"log"`
	LLM      LLMConfig      `yaml:"llm"`
	Dialogue DialogueConfig `yaml:"dialogue"`
	Hotels   HotelConfig    `yaml:"hotels"`
	Server   ServerConfig   `yaml:"server"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// LLMConfig configures the completion service.
type LLMConfig struct {
	Provider   string `yaml:"provider"` // openai, ollama, gemini
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
	LogCalls   bool   `yaml:"log_calls"`
	// TaskTimeoutsMs overrides the timeout per task (chat, extract,
	// describe, acknowledge, itinerary).
	TaskTimeoutsMs map[string]int `yaml:"task_timeouts_ms"`
}

type DialogueConfig struct {
	// HistoryWindow is the number of recent turns sent per completion
	// call. 0 uses the built-in default; -1 sends the whole conversation.
	HistoryWindow int `yaml:"history_window"`
}

// HotelConfig configures the RapidAPI booking.com client.
type HotelConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Host      string `yaml:"host"`
	Currency  string `yaml:"currency"`
	Locale    string `yaml:"locale"`
	MaxPages  int    `yaml:"max_pages"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// SessionTTLMinutes drops API sessions unused for this long.
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	llmDefaults := llm.DefaultConfig()
	return &Config{
		Language: string(domain.LanguageEnglish),
		Log:      LogConfig{Level: "warn"},
		LLM: LLMConfig{
			Provider:   string(llmDefaults.Provider),
			Model:      llmDefaults.Model,
			TimeoutMs:  llmDefaults.TimeoutMs,
			MaxRetries: llmDefaults.MaxRetries,
		},
		Dialogue: DialogueConfig{HistoryWindow: 40},
		Hotels: HotelConfig{
			BaseURL:   "https://booking-com.p.rapidapi.com",
			Host:      "booking-com.p.rapidapi.com",
			Currency:  "USD",
			Locale:    "en-gb",
			MaxPages:  2,
			TimeoutMs: 15000,
		},
		Server: ServerConfig{Addr: ":8080", SessionTTLMinutes: 30},
	}
}

// DefaultDir is ~/.tripbot.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".tripbot"), nil
}

// Options selects the files Load reads. Empty paths use the defaults:
// $TRIPBOT_CONFIG or ~/.tripbot/config.yaml, and ./.env.
type Options struct {
	ConfigPath string
	EnvFile    string
	// Getenv reads the environment; nil uses os.Getenv.
	Getenv func(string) string
}

// Load builds the effective configuration. Missing files are skipped;
// unreadable or malformed ones are errors.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	path := opts.ConfigPath
	if path == "" {
		path = getenv("TRIPBOT_CONFIG")
	}
	if path == "" {
		if dir, err := DefaultDir(); err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg.applyEnvOverrides(getenv)

	if cfg.DBPath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(dir, "tripbot.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Save writes c as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) {
	setString := func(dst *string, name string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, name string, min int) {
		if v := getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= min {
				*dst = n
			}
		}
	}
	setBool := func(dst *bool, name string) {
		if v := getenv(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString(&c.Language, "TRIPBOT_LANGUAGE")
	setString(&c.DBPath, "TRIPBOT_DB")
	setString(&c.Log.Level, "TRIPBOT_LOG_LEVEL")
	setBool(&c.Log.JSON, "TRIPBOT_LOG_JSON")

	setString(&c.LLM.Provider, "TRIPBOT_LLM_PROVIDER")
	setString(&c.LLM.Endpoint, "TRIPBOT_LLM_ENDPOINT")
	setString(&c.LLM.Model, "TRIPBOT_LLM_MODEL")
	setInt(&c.LLM.TimeoutMs, "TRIPBOT_LLM_TIMEOUT_MS", 1)
	setInt(&c.LLM.MaxRetries, "TRIPBOT_LLM_MAX_RETRIES", 0)
	setBool(&c.LLM.LogCalls, "TRIPBOT_LLM_LOG_CALLS")
	for _, task := range []llm.TaskType{llm.TaskChat, llm.TaskExtract, llm.TaskDescribe, llm.TaskAcknowledge, llm.TaskItinerary} {
		name := "TRIPBOT_LLM_" + strings.ToUpper(string(task)) + "_TIMEOUT_MS"
		if v := getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				if c.LLM.TaskTimeoutsMs == nil {
					c.LLM.TaskTimeoutsMs = make(map[string]int)
				}
				c.LLM.TaskTimeoutsMs[string(task)] = n
			}
		}
	}

	// Provider-native key variables fill in when no explicit key is set.
	setString(&c.LLM.APIKey, "TRIPBOT_LLM_API_KEY")
	if c.LLM.APIKey == "" {
		switch llm.Provider(c.LLM.Provider) {
		case llm.ProviderOpenAI:
			c.LLM.APIKey = getenv("OPENAI_API_KEY")
		case llm.ProviderGemini:
			c.LLM.APIKey = getenv("GEMINI_API_KEY")
		}
	}

	setInt(&c.Dialogue.HistoryWindow, "TRIPBOT_HISTORY_WINDOW", -1)

	setString(&c.Hotels.APIKey, "RAPIDAPI_KEY")
	setString(&c.Hotels.APIKey, "TRIPBOT_HOTELS_API_KEY")
	setString(&c.Hotels.BaseURL, "TRIPBOT_HOTELS_BASE_URL")
	setString(&c.Hotels.Currency, "TRIPBOT_HOTELS_CURRENCY")
	setInt(&c.Hotels.MaxPages, "TRIPBOT_HOTELS_MAX_PAGES", 1)

	setString(&c.Server.Addr, "TRIPBOT_ADDR")
	setInt(&c.Server.SessionTTLMinutes, "TRIPBOT_SESSION_TTL_MINUTES", 1)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOpenAI, llm.ProviderOllama, llm.ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q (want openai, ollama or gemini)", c.LLM.Provider)
	}
	if c.LLM.TimeoutMs <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %d", c.LLM.TimeoutMs)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries must not be negative, got %d", c.LLM.MaxRetries)
	}
	if c.Dialogue.HistoryWindow < -1 {
		return fmt.Errorf("dialogue history_window must be -1 or more, got %d", c.Dialogue.HistoryWindow)
	}
	if c.Hotels.MaxPages < 1 {
		return fmt.Errorf("hotels max_pages must be at least 1, got %d", c.Hotels.MaxPages)
	}
	return nil
}

// LanguageValue resolves the configured language.
func (c *Config) LanguageValue() domain.Language {
	return domain.ParseLanguage(c.Language)
}

// LLMClientConfig converts the file-level settings into the llm
// package's config, keeping its per-task sampling defaults.
func (c *Config) LLMClientConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(c.LLM.Provider)
	out.APIKey = c.LLM.APIKey
	out.Endpoint = c.LLM.Endpoint
	out.Model = c.LLM.Model
	if out.Model == "" || (out.Provider != llm.ProviderOpenAI && out.Model == llm.DefaultModel(llm.ProviderOpenAI)) {
		out.Model = llm.DefaultModel(out.Provider)
	}
	out.LogCalls = c.LLM.LogCalls
	out.TimeoutMs = c.LLM.TimeoutMs
	out.MaxRetries = c.LLM.MaxRetries
	for task, ms := range c.LLM.TaskTimeoutsMs {
		out.SetTaskTimeout(llm.TaskType(task), ms)
	}
	return out
}
