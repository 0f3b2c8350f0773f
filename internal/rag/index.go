// Package rag provides the FAQ retrieval gateway: a small persisted
// vector index over support documents, queried by cosine similarity
// and interpolated into the system prompt.
package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Chunk is one indexed passage with its embedding vector.
type Chunk struct {
	Text   string    `json:"text"`
	Source string    `json:"source"` // originating document path
	Vector []float32 `json:"vector"`
}

// Index is the persisted FAQ vector index.
type Index struct {
	Model     string    `json:"model"` // embedding model the vectors were built with
	CreatedAt time.Time `json:"created_at"`
	Chunks    []Chunk   `json:"chunks"`
}

// Save writes the index as JSON to path, creating parent directories.
func (ix *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// LoadIndex reads a persisted index from path.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &ix, nil
}
