package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.News.MaxItems != 8 {
		t.Errorf("News.MaxItems = %d, want 8", cfg.News.MaxItems)
	}
	if cfg.News.TimeoutSec != 15 {
		t.Errorf("News.TimeoutSec = %d, want 15", cfg.News.TimeoutSec)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("LLM.Temperature = %v, want 0.2", cfg.LLM.Temperature)
	}
	if cfg.Output.DataDir != "data/raw" {
		t.Errorf("Output.DataDir = %q, want data/raw", cfg.Output.DataDir)
	}
	if cfg.Output.ReportsDir != "data/reports" {
		t.Errorf("Output.ReportsDir = %q, want data/reports", cfg.Output.ReportsDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
news:
  max_items: 5
  timeout_sec: 10
llm:
  model: gpt-4o
  temperature: 0.1
output:
  reports_dir: out/reports
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.News.MaxItems != 5 {
		t.Errorf("News.MaxItems = %d, want 5", cfg.News.MaxItems)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("LLM.Model = %q, want gpt-4o", cfg.LLM.Model)
	}
	if cfg.Output.ReportsDir != "out/reports" {
		t.Errorf("Output.ReportsDir = %q, want out/reports", cfg.Output.ReportsDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STOCKBRIEF_NEWS_API_KEY", "env-news-key")
	t.Setenv("STOCKBRIEF_LLM_API_KEY", "env-llm-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.News.APIKey != "env-news-key" {
		t.Errorf("News.APIKey = %q, want env-news-key", cfg.News.APIKey)
	}
	if cfg.LLM.APIKey != "env-llm-key" {
		t.Errorf("LLM.APIKey = %q, want env-llm-key", cfg.LLM.APIKey)
	}
}

func TestCheckAPIKeys(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.APIKey = "sk-abcdef123456"

	statuses := cfg.CheckAPIKeys()
	if len(statuses) != 2 {
		t.Fatalf("CheckAPIKeys() returned %d statuses, want 2", len(statuses))
	}
	if statuses[0].Configured {
		t.Error("NewsAPI should not be configured")
	}
	if statuses[0].Masked != "(not set)" {
		t.Errorf("unset key masked = %q, want (not set)", statuses[0].Masked)
	}
	if !statuses[1].Configured {
		t.Error("LLM should be configured")
	}
	if statuses[1].Masked == cfg.LLM.APIKey {
		t.Error("masked key must not equal the raw key")
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("abc"); got != "****" {
		t.Errorf("maskKey short = %q, want ****", got)
	}
	if got := maskKey("sk-1234567890"); got != "sk****90" {
		t.Errorf("maskKey = %q, want sk****90", got)
	}
}
