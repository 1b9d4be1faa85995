package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the viewer settings read from config.toml.
type Config struct {
	Region       string
	Profile      string
	GroupPrefix  string
	TickRate     time.Duration
	TailInterval time.Duration
	FetchLimit   int32
	TailLookback time.Duration
	DisplayPath  string
	LogFile      string
	FoldSidebar  bool
}

const (
	defaultConfigPath   = "~/.config/aws-multi-log-viewer/config.toml"
	defaultLogFile      = "~/.cache/aws-multi-log-viewer/viewer.log"
	defaultTickRate     = 250 * time.Millisecond
	defaultTailInterval = time.Second
	defaultFetchLimit   = 50
	defaultTailLookback = 5 * time.Minute
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TickRate:     defaultTickRate,
		TailInterval: defaultTailInterval,
		FetchLimit:   defaultFetchLimit,
		TailLookback: defaultTailLookback,
		LogFile:      mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Region          string `toml:"region"`
		Profile         string `toml:"profile"`
		GroupPrefix     string `toml:"group_prefix"`
		TickRateMS      int64  `toml:"tick_rate_ms"`
		TailIntervalMS  int64  `toml:"tail_interval_ms"`
		FetchLimit      int32  `toml:"fetch_limit"`
		TailLookbackSec int64  `toml:"tail_lookback_sec"`
		DisplayPath     string `toml:"display_path"`
		LogFile         string `toml:"log_file"`
		FoldSidebar     bool   `toml:"fold_sidebar"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Region = strings.TrimSpace(raw.Region)
	cfg.Profile = strings.TrimSpace(raw.Profile)
	cfg.GroupPrefix = strings.TrimSpace(raw.GroupPrefix)
	cfg.DisplayPath = strings.TrimSpace(raw.DisplayPath)
	cfg.FoldSidebar = raw.FoldSidebar
	if raw.TickRateMS > 0 {
		cfg.TickRate = time.Duration(raw.TickRateMS) * time.Millisecond
	}
	if raw.TailIntervalMS > 0 {
		cfg.TailInterval = time.Duration(raw.TailIntervalMS) * time.Millisecond
	}
	if raw.FetchLimit > 0 {
		cfg.FetchLimit = raw.FetchLimit
	}
	if raw.TailLookbackSec > 0 {
		cfg.TailLookback = time.Duration(raw.TailLookbackSec) * time.Second
	}
	if lf := strings.TrimSpace(raw.LogFile); lf != "" {
		cfg.LogFile = mustExpand(lf)
	}

	return cfg, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
