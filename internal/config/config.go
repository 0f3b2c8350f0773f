// Package config handles ShopBot configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/shopbot/config.yaml, /etc/shopbot/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "shopbot", "config.yaml"))
	}

	paths = append(paths, "/etc/shopbot/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all ShopBot configuration.
type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	Mistral   MistralConfig   `yaml:"mistral"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Orders    OrdersConfig    `yaml:"orders"`
	Search    SearchConfig    `yaml:"search"`
	LogLevel  string          `yaml:"log_level"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// MistralConfig defines the Mistral API settings for both chat
// completions and embeddings.
type MistralConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`       // Chat model (e.g., mistral-large-latest)
	EmbedModel string `yaml:"embed_model"` // Embedding model (e.g., mistral-embed)
	MaxTokens  int    `yaml:"max_tokens"`  // Completion length cap
}

// RetrievalConfig defines the FAQ vector index settings.
type RetrievalConfig struct {
	IndexPath string `yaml:"index_path"` // Persisted vector index (JSON)
	DocsDir   string `yaml:"docs_dir"`   // Source documents for `shopbot index`
	TopK      int    `yaml:"top_k"`      // Passages per retrieval
}

// OrdersConfig defines the order lookup database settings.
type OrdersConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig defines the web search tool settings. When no API key
// is configured, the web_search tool degrades to a canned response
// instead of being removed from the catalog.
type SearchConfig struct {
	Tavily TavilyConfig `yaml:"tavily"`
}

// TavilyConfig holds Tavily Search API settings.
type TavilyConfig struct {
	APIKey     string `yaml:"api_key"`
	MaxResults int    `yaml:"max_results"`
}

// Load reads and validates a config file, applying defaults and
// environment overrides (MISTRAL_API_KEY, TAVILY_API_KEY).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets environment variables override file-based credentials,
// so keys can stay out of checked-in config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("MISTRAL_API_KEY"); v != "" {
		c.Mistral.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.Search.Tavily.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Listen.Port == 0 {
		c.Listen.Port = 8000
	}
	if c.Mistral.BaseURL == "" {
		c.Mistral.BaseURL = "https://api.mistral.ai"
	}
	if c.Mistral.Model == "" {
		c.Mistral.Model = "mistral-large-latest"
	}
	if c.Mistral.EmbedModel == "" {
		c.Mistral.EmbedModel = "mistral-embed"
	}
	if c.Mistral.MaxTokens == 0 {
		c.Mistral.MaxTokens = 600
	}
	if c.Retrieval.IndexPath == "" {
		c.Retrieval.IndexPath = "data/faq_index.json"
	}
	if c.Retrieval.DocsDir == "" {
		c.Retrieval.DocsDir = "data/docs"
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 3
	}
	if c.Orders.DatabasePath == "" {
		c.Orders.DatabasePath = "data/orders.db"
	}
	if c.Search.Tavily.MaxResults == 0 {
		c.Search.Tavily.MaxResults = 2
	}
}

func (c *Config) validate() error {
	if c.Mistral.APIKey == "" {
		return fmt.Errorf("mistral.api_key is required (or set MISTRAL_API_KEY)")
	}
	if c.Listen.Port < 1 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen.port %d out of range", c.Listen.Port)
	}
	if c.LogLevel != "" {
		if _, err := ParseLogLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}
