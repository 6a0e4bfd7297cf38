package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir  string         `yaml:"data_dir" mapstructure:"data_dir"`
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Brain    BrainConfig    `yaml:"brain" mapstructure:"brain"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
}

type ProviderConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	Model          string `yaml:"model" mapstructure:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type SearchConfig struct {
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxResults     int    `yaml:"max_results" mapstructure:"max_results"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type BrainConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	HistorySize         int     `yaml:"history_size" mapstructure:"history_size"`
	PruneMaxAgeDays     int     `yaml:"prune_max_age_days" mapstructure:"prune_max_age_days"`
	PruneMinOccurrence  int     `yaml:"prune_min_occurrence" mapstructure:"prune_min_occurrence"`
	MinFactTokens       int     `yaml:"min_fact_tokens" mapstructure:"min_fact_tokens"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
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
	return &Config{
		DataDir: filepath.Join(configDir(), "data"),
		Provider: ProviderConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "mistral",
			TimeoutSeconds: 10,
		},
		Search: SearchConfig{
			UserAgent:      "Mozilla/5.0 (compatible; Jarvis/1.0)",
			MaxResults:     5,
			TimeoutSeconds: 5,
		},
		Brain: BrainConfig{
			SimilarityThreshold: 0.6,
			HistorySize:         5,
			PruneMaxAgeDays:     30,
			PruneMinOccurrence:  1,
			MinFactTokens:       3,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jarvis")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jarvis")
}

// Path returns the location of the config file.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Fresh instance per call so repeated loads never share state.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Search paths
	v.AddConfigPath(".")
	v.AddConfigPath(configDir())

	// Environment variables
	v.SetEnvPrefix("JARVIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error produced
			return nil, err
		}
		// Config file not found; ignore and use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandEnv(cfg.DataDir)
	cfg.Provider.BaseURL = expandEnv(cfg.Provider.BaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KnowledgePath is the persisted fact/QA store file.
func (c *Config) KnowledgePath() string {
	return filepath.Join(c.DataDir, "knowledge.json")
}

// MemoryPath is the session memory file.
func (c *Config) MemoryPath() string {
	return filepath.Join(c.DataDir, "memory.json")
}

// TrainLogPath is the self-training CSV log.
func (c *Config) TrainLogPath() string {
	return filepath.Join(c.DataDir, "autotrain_log.csv")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("config: provider.base_url is required")
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("config: provider.model is required")
	}
	if c.Brain.SimilarityThreshold < 0 || c.Brain.SimilarityThreshold > 1 {
		return fmt.Errorf("config: brain.similarity_threshold must be in [0,1], got %v", c.Brain.SimilarityThreshold)
	}
	if c.Provider.TimeoutSeconds < 1 {
		c.Provider.TimeoutSeconds = 10
	}
	if c.Search.TimeoutSeconds < 1 {
		c.Search.TimeoutSeconds = 5
	}
	if c.Search.MaxResults < 1 {
		c.Search.MaxResults = 5
	}
	if c.Brain.HistorySize < 1 {
		c.Brain.HistorySize = 5
	}
	return nil
}

// WriteDefault writes a default config file to Path() unless one already exists.
func WriteDefault() (string, error) {
	path := Path()
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, err
	}
	data, err := defaultYAML()
	if err != nil {
		return path, err
	}
	return path, os.WriteFile(path, data, 0644)
}
