package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/config"
)

// helper to temporarily set env var
func withEnv(key, val string, fn func()) {
	old, had := os.LookupEnv(key)
	_ = os.Setenv(key, val)
	defer func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}()
	fn()
}

// helper to temporarily unset env vars
func withoutEnv(keys []string, fn func()) {
	saved := map[string]string{}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			saved[k] = v
		}
		_ = os.Unsetenv(k)
	}
	defer func() {
		for k, v := range saved {
			_ = os.Setenv(k, v)
		}
	}()
	fn()
}

var awsEnv = []string{"AWS_REGION", "AWS_PROFILE", ConfigEnv}

// execute runs the root command with args and returns what reached run.
func execute(t *testing.T, args ...string) (config.Config, logrus.Level, bool, error) {
	t.Helper()
	var (
		got    config.Config
		level  logrus.Level
		called bool
	)
	root := NewRootCommand(func(c *cobra.Command, cfg config.Config, l logrus.Level) error {
		got, level, called = cfg, l, true
		return nil
	})
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	return got, level, called, err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `
region = "us-east-1"
fetch_limit = 100
tail_interval_ms = 2000
display_path = "message"
`

func TestRootCommandMergesFlagsOverConfig(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	withoutEnv(awsEnv, func() {
		cfg, level, called, err := execute(t, "--config", path, "--fetch-limit", "200", "--region", "eu-west-1", "--debug")
		if err != nil || !called {
			t.Fatalf("execute: called=%v err=%v", called, err)
		}
		if cfg.FetchLimit != 200 || cfg.Region != "eu-west-1" {
			t.Fatalf("flags not applied: %+v", cfg)
		}
		if cfg.TailInterval != 2*time.Second || cfg.DisplayPath != "message" {
			t.Fatalf("config values lost: %+v", cfg)
		}
		if cfg.TickRate != config.Default().TickRate {
			t.Fatalf("TickRate = %v, want default", cfg.TickRate)
		}
		if level != logrus.DebugLevel {
			t.Fatalf("level = %v, want debug", level)
		}
	})
}

func TestRootCommandConfigFromEnv(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	withoutEnv(awsEnv, func() {
		withEnv(ConfigEnv, path, func() {
			cfg, level, _, err := execute(t)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if cfg.Region != "us-east-1" || cfg.FetchLimit != 100 {
				t.Fatalf("config not loaded from %s: %+v", ConfigEnv, cfg)
			}
			if level != logrus.InfoLevel {
				t.Fatalf("level = %v, want info", level)
			}
		})
		withEnv("AWS_REGION", "ap-northeast-1", func() {
			withEnv(ConfigEnv, path, func() {
				cfg, _, _, err := execute(t)
				if err != nil {
					t.Fatalf("execute: %v", err)
				}
				if cfg.Region != "ap-northeast-1" {
					t.Fatalf("Region = %q, want env value", cfg.Region)
				}
			})
		})
	})
}

func TestRootCommandRejectsInvalidSettings(t *testing.T) {
	path := writeConfig(t, "")
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero fetch limit", []string{"--fetch-limit", "0"}, "fetch limit"},
		{"fetch limit too large", []string{"--fetch-limit", "10001"}, "fetch limit"},
		{"negative tail interval", []string{"--tail-interval=-1s"}, "tail interval"},
		{"bad display path", []string{"--display-path", "foo["}, "display path"},
		{"positional arg", []string{"extra"}, "unknown command"},
	}
	withoutEnv(awsEnv, func() {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, called, err := execute(t, append([]string{"--config", path}, tt.args...)...)
				if err == nil || called {
					t.Fatalf("expected error before run, called=%v", called)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %q, want it to mention %q", err, tt.wantErr)
				}
			})
		}
	})
}

func TestValidate(t *testing.T) {
	ok := config.Default()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"display path", func(c *config.Config) { c.DisplayPath = "detail.message" }, false},
		{"zero tick", func(c *config.Config) { c.TickRate = 0 }, true},
		{"zero lookback", func(c *config.Config) { c.TailLookback = 0 }, true},
		{"limit at max", func(c *config.Config) { c.FetchLimit = MaxFetchLimit }, false},
		{"limit over max", func(c *config.Config) { c.FetchLimit = MaxFetchLimit + 1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ok
			tt.mutate(&cfg)
			if err := Validate(cfg); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveProfile(t *testing.T) {
	withEnv("AWS_PROFILE", "envp", func() {
		if got := ResolveProfile("flagp"); got != "flagp" {
			t.Fatalf("ResolveProfile(flag)=%q, want flagp", got)
		}
		if got := ResolveProfile(""); got != "envp" {
			t.Fatalf("ResolveProfile(env)=%q, want envp", got)
		}
	})
	withoutEnv([]string{"AWS_PROFILE"}, func() {
		if got := ResolveProfile(""); got != "" {
			t.Fatalf("ResolveProfile(empty)=%q, want empty", got)
		}
	})
}

func TestResolveRegion(t *testing.T) {
	withEnv("AWS_REGION", "us-west-2", func() {
		if got := ResolveRegion("eu-central-1"); got != "eu-central-1" {
			t.Fatalf("ResolveRegion(flag)=%q", got)
		}
		if got := ResolveRegion(""); got != "us-west-2" {
			t.Fatalf("ResolveRegion(env)=%q", got)
		}
	})
}
