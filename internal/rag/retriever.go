package rag

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
)

// NoContext is the sentinel returned when no reference material is
// available: missing index, provider failure, or an empty result set.
// The system prompt interpolates it verbatim so the model knows the FAQ
// could not be consulted, rather than receiving a bare empty string.
const NoContext = "Aucun contexte FAQ disponible."

// Separator joins retrieved passages in the prompt context.
const Separator = "\n---\n"

// Embedder turns a query into a vector comparable with indexed chunks.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever answers queries against a loaded index. It never returns an
// error: any failure degrades to NoContext so a broken retrieval layer
// cannot take down a conversation turn.
type Retriever struct {
	index    *Index
	embedder Embedder
	topK     int
	logger   *slog.Logger
}

// NewRetriever creates a retriever over a loaded index. The index may
// be nil (not yet built); retrieval then always reports no context.
func NewRetriever(index *Index, embedder Embedder, topK int, logger *slog.Logger) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		index:    index,
		embedder: embedder,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve returns the topK most similar passages joined by Separator,
// or NoContext when nothing can be retrieved.
func (r *Retriever) Retrieve(ctx context.Context, query string) string {
	if r.index == nil || len(r.index.Chunks) == 0 {
		return NoContext
	}

	qv, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, continuing without context", "error", err)
		return NoContext
	}

	type scored struct {
		chunk Chunk
		score float64
	}
	ranked := make([]scored, 0, len(r.index.Chunks))
	for _, c := range r.index.Chunks {
		ranked = append(ranked, scored{chunk: c, score: cosine(qv, c.Vector)})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	k := r.topK
	if k > len(ranked) {
		k = len(ranked)
	}

	passages := make([]string, 0, k)
	for _, s := range ranked[:k] {
		passages = append(passages, s.chunk.Text)
	}
	if len(passages) == 0 {
		return NoContext
	}
	return strings.Join(passages, Separator)
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero-length vectors score 0 rather than erroring.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
