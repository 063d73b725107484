package fuzzywuzzy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	// WordCasing is the case transform applied to training sentences and
	// queries: "lower", "upper" or "ignore".
	WordCasing string `json:"wordCasing"`
	// KeepPunct disables punctuation stripping during normalization.
	KeepPunct bool `json:"keepPunct"`
	// Scorer selects the similarity metric: "weighted" (default), "ratio",
	// "partial", "token-sort" or "token-set".
	Scorer string `json:"scorer"`
	// MinScore is the initial scan cutoff; candidates scoring below it are
	// never returned. Zero accepts any candidate.
	MinScore int `json:"minScore"`
	// CacheTTLSeconds bounds how long recognition results are cached.
	CacheTTLSeconds int `json:"cacheTtlSeconds"`
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.WordCasing == "" {
		c.WordCasing = string(CasingLower)
	}
	if c.Scorer == "" {
		c.Scorer = "weighted"
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 300
	}
}

// Normalizer builds the normalizer described by the configuration.
func (c Config) Normalizer() *Normalizer {
	casing := Casing(c.WordCasing)
	switch casing {
	case CasingIgnore, CasingLower, CasingUpper:
	default:
		casing = CasingLower
	}
	return &Normalizer{Casing: casing, KeepPunct: c.KeepPunct}
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
