package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

const configFile = "omokweb/config.yaml"

type Config struct {
	ListenAddr       string  `json:"listen_addr" yaml:"listen_addr"`
	BoardSize        int     `json:"board_size" yaml:"board_size"`
	AiDepth          int     `json:"ai_depth" yaml:"ai_depth"`
	AiTimeBudgetMs   int     `json:"ai_time_budget_ms" yaml:"ai_time_budget_ms"`
	AiNodeLimit      int64   `json:"ai_node_limit" yaml:"ai_node_limit"`
	AiDefenseWeight  float64 `json:"ai_defense_weight" yaml:"ai_defense_weight"`
	AiLogSearchStats bool    `json:"ai_log_search_stats" yaml:"ai_log_search_stats"`
	RelayURL         string  `json:"relay_url" yaml:"relay_url"`
	RelayRatePerSec  float64 `json:"relay_rate_per_sec" yaml:"relay_rate_per_sec"`
	RelayTimeoutMs   int     `json:"relay_timeout_ms" yaml:"relay_timeout_ms"`
	RelayHumanMoves  bool    `json:"relay_human_moves" yaml:"relay_human_moves"`
	WsPingIntervalMs int     `json:"ws_ping_interval_ms" yaml:"ws_ping_interval_ms"`
}

type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("config error: %s %s", e.Field, e.Reason)
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":3003",
		BoardSize:  omok.DefaultBoardSize,

		// Depth is a hard cap; the time budget keeps mid-game replies snappy.
		AiDepth:          omok.DefaultDepth,
		AiTimeBudgetMs:   2000,
		AiNodeLimit:      0,
		AiDefenseWeight:  omok.DefaultDefenseWeight,
		AiLogSearchStats: false,

		RelayURL:        "",
		RelayRatePerSec: 2,
		RelayTimeoutMs:  1500,
		RelayHumanMoves: false,

		WsPingIntervalMs: 30000,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return &InvalidConfigError{Field: "listen_addr", Reason: "must not be empty"}
	}
	if c.BoardSize < omok.WinLength || c.BoardSize > 32 {
		return &InvalidConfigError{Field: "board_size", Reason: fmt.Sprintf("must be in [%d, 32]", omok.WinLength)}
	}
	if c.AiDepth < 1 || c.AiDepth > 8 {
		return &InvalidConfigError{Field: "ai_depth", Reason: "must be in [1, 8]"}
	}
	if c.AiTimeBudgetMs < 0 {
		return &InvalidConfigError{Field: "ai_time_budget_ms", Reason: "must not be negative"}
	}
	if c.AiNodeLimit < 0 {
		return &InvalidConfigError{Field: "ai_node_limit", Reason: "must not be negative"}
	}
	if c.AiDefenseWeight < 0 {
		return &InvalidConfigError{Field: "ai_defense_weight", Reason: "must not be negative"}
	}
	if c.RelayRatePerSec <= 0 {
		return &InvalidConfigError{Field: "relay_rate_per_sec", Reason: "must be positive"}
	}
	if c.WsPingIntervalMs <= 0 {
		return &InvalidConfigError{Field: "ws_ping_interval_ms", Reason: "must be positive"}
	}
	return nil
}

// SearchLimits converts the AI settings into engine limits.
func (c Config) SearchLimits() omok.Limits {
	return omok.DefaultLimits().
		WithDepth(c.AiDepth).
		WithNodes(c.AiNodeLimit).
		WithMovetime(time.Duration(c.AiTimeBudgetMs) * time.Millisecond)
}

func (c Config) Evaluator() omok.Evaluator {
	return omok.Evaluator{DefenseWeight: c.AiDefenseWeight}
}

func (c Config) PingInterval() time.Duration {
	return time.Duration(c.WsPingIntervalMs) * time.Millisecond
}

// LoadConfig layers defaults, the YAML file and OMOK_* environment overrides.
// An empty path falls back to $OMOK_CONFIG and then the XDG config dirs.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		path = os.Getenv("OMOK_CONFIG")
	}
	if path == "" {
		if found, err := xdg.SearchConfigFile(configFile); err == nil {
			path = found
		}
	}
	if path != "" {
		if err := readConfigFile(path, &config); err != nil {
			return Config{}, err
		}
		log.Printf("[backend] loaded config from %s", path)
	}
	applyEnvOverrides(&config)
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func readConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	config.ListenAddr = getenv("OMOK_LISTEN_ADDR", config.ListenAddr)
	config.AiDepth = getenvInt("OMOK_AI_DEPTH", config.AiDepth)
	config.AiTimeBudgetMs = getenvInt("OMOK_AI_TIME_BUDGET_MS", config.AiTimeBudgetMs)
	config.AiDefenseWeight = getenvFloat("OMOK_AI_DEFENSE_WEIGHT", config.AiDefenseWeight)
	config.RelayURL = getenv("OMOK_RELAY_URL", config.RelayURL)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[backend] ignoring %s=%q: %v", key, raw, err)
		return fallback
	}
	return value
}

func getenvFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[backend] ignoring %s=%q: %v", key, raw, err)
		return fallback
	}
	return value
}
