package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
mistral:
  api_key: sk-test
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Listen.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Listen.Port)
	}
	if cfg.Mistral.BaseURL != "https://api.mistral.ai" {
		t.Errorf("base_url = %q", cfg.Mistral.BaseURL)
	}
	if cfg.Mistral.Model != "mistral-large-latest" {
		t.Errorf("model = %q", cfg.Mistral.Model)
	}
	if cfg.Mistral.EmbedModel != "mistral-embed" {
		t.Errorf("embed_model = %q", cfg.Mistral.EmbedModel)
	}
	if cfg.Mistral.MaxTokens != 600 {
		t.Errorf("max_tokens = %d, want 600", cfg.Mistral.MaxTokens)
	}
	if cfg.Retrieval.IndexPath != "data/faq_index.json" {
		t.Errorf("index_path = %q", cfg.Retrieval.IndexPath)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.Retrieval.TopK)
	}
	if cfg.Orders.DatabasePath != "data/orders.db" {
		t.Errorf("database_path = %q", cfg.Orders.DatabasePath)
	}
	if cfg.Search.Tavily.MaxResults != 2 {
		t.Errorf("tavily max_results = %d, want 2", cfg.Search.Tavily.MaxResults)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
listen:
  address: 127.0.0.1
  port: 9100
mistral:
  api_key: sk-test
  model: mistral-small-latest
  max_tokens: 300
retrieval:
  index_path: /var/lib/shopbot/index.json
  top_k: 5
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen.Address != "127.0.0.1" || cfg.Listen.Port != 9100 {
		t.Errorf("listen = %q:%d", cfg.Listen.Address, cfg.Listen.Port)
	}
	if cfg.Mistral.Model != "mistral-small-latest" {
		t.Errorf("model = %q", cfg.Mistral.Model)
	}
	if cfg.Mistral.MaxTokens != 300 {
		t.Errorf("max_tokens = %d", cfg.Mistral.MaxTokens)
	}
	if cfg.Retrieval.IndexPath != "/var/lib/shopbot/index.json" || cfg.Retrieval.TopK != 5 {
		t.Errorf("retrieval = %+v", cfg.Retrieval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "sk-from-env")
	t.Setenv("TAVILY_API_KEY", "tv-from-env")

	path := writeConfig(t, `
mistral:
  api_key: sk-from-file
search:
  tavily:
    api_key: tv-from-file
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mistral.APIKey != "sk-from-env" {
		t.Errorf("mistral api_key = %q, want env override", cfg.Mistral.APIKey)
	}
	if cfg.Search.Tavily.APIKey != "tv-from-env" {
		t.Errorf("tavily api_key = %q, want env override", cfg.Search.Tavily.APIKey)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing api key",
			content: "listen:\n  port: 8000\n",
			wantErr: "mistral.api_key is required",
		},
		{
			name:    "port out of range",
			content: "listen:\n  port: 70000\nmistral:\n  api_key: sk-test\n",
			wantErr: "out of range",
		},
		{
			name:    "bad log level",
			content: "mistral:\n  api_key: sk-test\nlog_level: verbose\n",
			wantErr: "log_level",
		},
		{
			name:    "malformed yaml",
			content: "mistral: [broken\n",
			wantErr: "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MISTRAL_API_KEY", "")
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load() succeeded")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfig(t *testing.T) {
	path := writeConfig(t, "mistral:\n  api_key: sk-test\n")

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("FindConfig() = %q, want %q", got, path)
	}

	if _, err := FindConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("FindConfig() succeeded on a missing explicit path")
	}
}
