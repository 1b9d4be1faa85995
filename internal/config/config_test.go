package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TickRate != defaultTickRate || cfg.TailInterval != defaultTailInterval {
		t.Fatalf("ticks = (%v, %v), want defaults", cfg.TickRate, cfg.TailInterval)
	}
	if cfg.FetchLimit != defaultFetchLimit || cfg.TailLookback != defaultTailLookback {
		t.Fatalf("limit/lookback = (%d, %v), want defaults", cfg.FetchLimit, cfg.TailLookback)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
region = "  ap-northeast-1 "
profile = "dev"
group_prefix = "/aws/lambda/"
tick_rate_ms = 100
tail_interval_ms = 3000
fetch_limit = 20
tail_lookback_sec = 60
display_path = "level"
log_file = "~/logs/viewer.log"
fold_sidebar = true
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{
		Region:       "ap-northeast-1",
		Profile:      "dev",
		GroupPrefix:  "/aws/lambda/",
		TickRate:     100 * time.Millisecond,
		TailInterval: 3 * time.Second,
		FetchLimit:   20,
		TailLookback: time.Minute,
		DisplayPath:  "level",
		LogFile:      cfg.LogFile,
		FoldSidebar:  true,
	}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ZeroValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
tick_rate_ms = 0
fetch_limit = -1
log_file = "  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TickRate != defaultTickRate || cfg.FetchLimit != defaultFetchLimit {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if cfg.LogFile != mustExpand(defaultLogFile) {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("region = [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/config.toml")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "config.toml") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
