package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type LLMConfig struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	ContextSize    int    `json:"context_size"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type ObjectivesConfig struct {
	MaxActive    int  `json:"max_active"`
	MaxImmediate int  `json:"max_immediate"`
	MaxShortTerm int  `json:"max_short_term"`
	CleanupHours int  `json:"cleanup_hours"`
	AutoCleanup  bool `json:"auto_cleanup"`
}

type SanityConfig struct {
	StableMin    int `json:"stable_min"`
	StressedMin  int `json:"stressed_min"`
	DisturbedMin int `json:"disturbed_min"`
	UnhingedMin  int `json:"unhinged_min"`
}

type AIConfig struct {
	TargetSuccessRate float64 `json:"target_success_rate"`
	Sensitivity       float64 `json:"sensitivity"`
	HistoryWindow     int     `json:"history_window"`
	MinConfidence     float64 `json:"min_confidence"`
	MaxSuggestions    int     `json:"max_suggestions"`
	SuggestionTTL     int     `json:"suggestion_ttl_seconds"`
}

type Config struct {
	Server struct {
		Host    string `json:"host"`
		Port    int    `json:"port"`
		Subpath string `json:"subpath"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	SQLite struct {
		Path string `json:"path"`
	} `json:"sqlite"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	LLM        LLMConfig        `json:"llm"`
	Objectives ObjectivesConfig `json:"objectives"`
	Sanity     SanityConfig     `json:"sanity"`
	AI         AIConfig         `json:"ai"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		applyDefaults(&c)
		if err := validate(&c); err != nil {
			cfgErr = err
			return
		}
		cfg = &c
	})
	return cfg, cfgErr
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Objectives.MaxActive == 0 {
		c.Objectives.MaxActive = 20
	}
	if c.Objectives.MaxImmediate == 0 {
		c.Objectives.MaxImmediate = 5
	}
	if c.Objectives.MaxShortTerm == 0 {
		c.Objectives.MaxShortTerm = 10
	}
	if c.Objectives.CleanupHours == 0 {
		c.Objectives.CleanupHours = 24
	}
	if c.Sanity.StableMin == 0 {
		c.Sanity.StableMin = 70
	}
	if c.Sanity.StressedMin == 0 {
		c.Sanity.StressedMin = 50
	}
	if c.Sanity.DisturbedMin == 0 {
		c.Sanity.DisturbedMin = 30
	}
	if c.Sanity.UnhingedMin == 0 {
		c.Sanity.UnhingedMin = 10
	}
	if c.AI.TargetSuccessRate == 0 {
		c.AI.TargetSuccessRate = 0.7
	}
	if c.AI.Sensitivity == 0 {
		c.AI.Sensitivity = 0.1
	}
	if c.AI.HistoryWindow == 0 {
		c.AI.HistoryWindow = 10
	}
	if c.AI.MinConfidence == 0 {
		c.AI.MinConfidence = 0.6
	}
	if c.AI.MaxSuggestions == 0 {
		c.AI.MaxSuggestions = 3
	}
	if c.AI.SuggestionTTL == 0 {
		c.AI.SuggestionTTL = 300
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
}

func validate(c *Config) error {
	if c.Objectives.MaxImmediate > c.Objectives.MaxActive {
		return errors.New("max_immediate cannot exceed max_active")
	}
	if c.Objectives.MaxShortTerm > c.Objectives.MaxActive {
		return errors.New("max_short_term cannot exceed max_active")
	}
	if c.AI.TargetSuccessRate < 0 || c.AI.TargetSuccessRate > 1 {
		return errors.New("target_success_rate must be between 0 and 1")
	}
	if !(c.Sanity.StableMin > c.Sanity.StressedMin &&
		c.Sanity.StressedMin > c.Sanity.DisturbedMin &&
		c.Sanity.DisturbedMin > c.Sanity.UnhingedMin &&
		c.Sanity.UnhingedMin > 0) {
		return errors.New("sanity thresholds must be strictly descending and positive")
	}
	return nil
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
