package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/dshills/revu/internal/gitrun"
)

// Config represents the revu configuration.
type Config struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Remote        string `json:"remote"`
	BaseBranch    string `json:"baseBranch"`
	MaxTokens     int    `json:"maxTokens"`
	MaxDiffBytes  int    `json:"maxDiffBytes"`
	RedactSecrets bool   `json:"redactSecrets"`
}

// fileConfig mirrors Config for the on-disk JSON. RedactSecrets is a
// pointer so an absent key can be told apart from an explicit false.
type fileConfig struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Remote        string `json:"remote"`
	BaseBranch    string `json:"baseBranch"`
	MaxTokens     int    `json:"maxTokens"`
	MaxDiffBytes  int    `json:"maxDiffBytes"`
	RedactSecrets *bool  `json:"redactSecrets"`
}

// Value sources reported by LoadWithSources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:      "anthropic",
		Model:         "claude-sonnet-4-6",
		Remote:        "origin",
		BaseBranch:    "main",
		MaxTokens:     4096,
		MaxDiffBytes:  gitrun.MaxOutputBytes,
		RedactSecrets: true,
	}
}

// ConfigDir returns the platform-appropriate config directory for revu.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "revu"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "revu"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "revu"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "revu"), nil
	default:
		return filepath.Join(home, ".config", "revu"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// loadFileConfig parses the config file. A missing file yields the zero
// fileConfig and nil error.
func loadFileConfig() (fileConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return fileConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parsing config file: %w", err)
	}
	return fc, nil
}

// LoadFile loads the config file with defaults filled in for keys the
// file does not set. A missing file yields the defaults.
func LoadFile() (Config, error) {
	fc, err := loadFileConfig()
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	applyFile(&cfg, fc, nil)
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags (only non-zero values
// should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg, _, err := LoadWithSources(overrides)
	return cfg, err
}

// LoadWithSources is Load plus a map reporting, for each config key,
// which layer supplied the effective value.
func LoadWithSources(overrides map[string]string) (Config, map[string]string, error) {
	cfg := Default()
	from := map[string]string{
		"provider":      SourceDefault,
		"model":         SourceDefault,
		"remote":        SourceDefault,
		"baseBranch":    SourceDefault,
		"maxTokens":     SourceDefault,
		"maxDiffBytes":  SourceDefault,
		"redactSecrets": SourceDefault,
	}

	fc, err := loadFileConfig()
	if err != nil {
		return Config{}, nil, err
	}
	applyFile(&cfg, fc, from)
	mergeEnv(&cfg, from)
	mergeOverrides(&cfg, overrides, from)

	return cfg, from, nil
}

func applyFile(dst *Config, src fileConfig, from map[string]string) {
	set := func(key string) {
		if from != nil {
			from[key] = SourceFile
		}
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
		set("provider")
	}
	if src.Model != "" {
		dst.Model = src.Model
		set("model")
	}
	if src.Remote != "" {
		dst.Remote = src.Remote
		set("remote")
	}
	if src.BaseBranch != "" {
		dst.BaseBranch = src.BaseBranch
		set("baseBranch")
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
		set("maxTokens")
	}
	if src.MaxDiffBytes > 0 {
		dst.MaxDiffBytes = src.MaxDiffBytes
		set("maxDiffBytes")
	}
	if src.RedactSecrets != nil {
		dst.RedactSecrets = *src.RedactSecrets
		set("redactSecrets")
	}
}

func mergeEnv(cfg *Config, from map[string]string) {
	set := func(key string) {
		if from != nil {
			from[key] = SourceEnv
		}
	}
	if v := os.Getenv("REVU_PROVIDER"); v != "" {
		cfg.Provider = v
		set("provider")
	}
	if v := os.Getenv("REVU_MODEL"); v != "" {
		cfg.Model = v
		set("model")
	}
	if v := os.Getenv("REVU_REMOTE"); v != "" {
		cfg.Remote = v
		set("remote")
	}
	if v := os.Getenv("REVU_BASE_BRANCH"); v != "" {
		cfg.BaseBranch = v
		set("baseBranch")
	}
	if v := os.Getenv("REVU_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
			set("maxTokens")
		}
	}
	if v := os.Getenv("REVU_MAX_DIFF_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffBytes = n
			set("maxDiffBytes")
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string, from map[string]string) {
	if overrides == nil {
		return
	}
	set := func(key string) {
		if from != nil {
			from[key] = SourceFlag
		}
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
		set("provider")
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
		set("model")
	}
	if v, ok := overrides["remote"]; ok && v != "" {
		cfg.Remote = v
		set("remote")
	}
	if v, ok := overrides["baseBranch"]; ok && v != "" {
		cfg.BaseBranch = v
		set("baseBranch")
	}
	if v, ok := overrides["maxTokens"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
			set("maxTokens")
		}
	}
	if v, ok := overrides["maxDiffBytes"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffBytes = n
			set("maxDiffBytes")
		}
	}
	if v, ok := overrides["redactSecrets"]; ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RedactSecrets = b
			set("redactSecrets")
		}
	}
}

// SetField sets a single config field by key name. Returns error if key
// is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "remote":
		cfg.Remote = value
	case "baseBranch":
		cfg.BaseBranch = value
	case "maxTokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxTokens must be an integer: %w", err)
		}
		cfg.MaxTokens = n
	case "maxDiffBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxDiffBytes must be an integer: %w", err)
		}
		cfg.MaxDiffBytes = n
	case "redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redactSecrets must be a boolean: %w", err)
		}
		cfg.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
