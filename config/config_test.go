package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no stray .env
	t.Setenv("MATCHUP_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("config differs from defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "matchup.yaml")
	yml := `
server:
  port: 9090
  mode: debug
extract:
  settle: 1500ms
engine:
  escalation_delays: [0s, 1s]
export:
  csv_path: /tmp/out.csv
auth:
  api_keys: [file-key]
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MATCHUP_CONFIG", path)
	t.Setenv("MATCHUP_PORT", "7070")
	t.Setenv("MATCHUP_API_KEYS", "a, b ,")
	t.Setenv("MATCHUP_HEADLESS", "false")
	t.Setenv("MATCHUP_WEBHOOK_ASYNC", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("Mode = %q, want file value debug", cfg.Server.Mode)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default kept", cfg.Server.Host)
	}
	if cfg.Extract.Settle != 1500*time.Millisecond {
		t.Errorf("Settle = %v, want 1.5s", cfg.Extract.Settle)
	}
	if diff := cmp.Diff([]time.Duration{0, time.Second}, cfg.Engine.EscalationDelays); diff != "" {
		t.Errorf("EscalationDelays (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.Auth.APIKeys); diff != "" {
		t.Errorf("APIKeys (-want +got):\n%s", diff)
	}
	if cfg.Browser.Headless {
		t.Error("Headless = true, want env override false")
	}
	if cfg.Export.CSVPath != "/tmp/out.csv" {
		t.Errorf("CSVPath = %q", cfg.Export.CSVPath)
	}
	if !cfg.Export.WebhookAsync {
		t.Error("WebhookAsync = false, want env override true")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MATCHUP_CONFIG", "")
	t.Setenv("MATCHUP_LOG_LEVEL", "")
	os.Unsetenv("MATCHUP_LOG_LEVEL")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MATCHUP_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("MATCHUP_LOG_LEVEL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug from .env", cfg.Log.Level)
	}
}

func TestLoad_BadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MATCHUP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load succeeded with a missing config file")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "nope")
	if got := envIntOr("X_INT", 3); got != 3 {
		t.Errorf("envIntOr on junk = %d, want fallback 3", got)
	}
	t.Setenv("X_DUR", "2s")
	if got := envDurationOr("X_DUR", time.Second); got != 2*time.Second {
		t.Errorf("envDurationOr = %v, want 2s", got)
	}
	t.Setenv("X_SLICE", " , ")
	if got := envSliceOr("X_SLICE", []string{"keep"}); len(got) != 0 {
		t.Errorf("envSliceOr = %v, want empty", got)
	}
}
