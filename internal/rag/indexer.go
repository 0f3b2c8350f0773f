package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Chunking defaults, tuned for short FAQ passages.
const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50

	// embedBatchSize bounds how many chunks go to the embeddings API
	// in one request.
	embedBatchSize = 32
)

// BatchEmbedder generates embedding vectors for a batch of texts.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer builds a vector index from a directory of FAQ documents.
// Plain text (.txt) files are indexed as-is; markdown (.md) files are
// flattened to plain text first.
type Indexer struct {
	embedder     BatchEmbedder
	model        string
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// NewIndexer creates an indexer. The model name is recorded in the
// index so a retriever can detect vectors built with a different model.
func NewIndexer(embedder BatchEmbedder, model string, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder:     embedder,
		model:        model,
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		logger:       logger,
	}
}

// IndexDir loads every .txt and .md file under docsDir, chunks and
// embeds the contents, and returns the resulting index.
func (ix *Indexer) IndexDir(ctx context.Context, docsDir string) (*Index, error) {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		return nil, fmt.Errorf("read docs directory: %w", err)
	}

	type sourced struct {
		text   string
		source string
	}
	var chunks []sourced

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(docsDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		content := string(raw)
		if ext == ".md" {
			content = markdownToText(raw)
		}

		pieces := splitText(content, ix.chunkSize, ix.chunkOverlap)
		for _, p := range pieces {
			chunks = append(chunks, sourced{text: p, source: name})
		}
		ix.logger.Info("document loaded", "file", name, "chunks", len(pieces))
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no indexable documents (.txt, .md) in %s", docsDir)
	}

	index := &Index{
		Model:     ix.model,
		CreatedAt: time.Now().UTC(),
		Chunks:    make([]Chunk, 0, len(chunks)),
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.text
		}

		vectors, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		for i, c := range batch {
			index.Chunks = append(index.Chunks, Chunk{
				Text:   c.text,
				Source: c.source,
				Vector: vectors[i],
			})
		}
	}

	ix.logger.Info("index built", "chunks", len(index.Chunks), "model", ix.model)
	return index, nil
}

// markdownToText flattens a markdown document to plain text, keeping
// paragraph boundaries so the chunker can split on them.
func markdownToText(src []byte) string {
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				sb.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			writeLines(&sb, t, src)
		case *ast.CodeBlock:
			writeLines(&sb, t, src)
		}
		return ast.WalkContinue, nil
	})

	out := sb.String()
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

func writeLines(sb *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
}

// chunkSeparators are tried in order when splitting oversized text:
// paragraph, line, sentence, then word boundaries.
var chunkSeparators = []string{"\n\n", "\n", ". ", " "}

// splitText breaks s into chunks of at most size bytes, overlapping by
// roughly overlap bytes, preferring to cut at the coarsest boundary
// available.
func splitText(s string, size, overlap int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) <= size {
		return []string{s}
	}

	for _, sep := range chunkSeparators {
		if strings.Contains(s, sep) {
			return mergeParts(strings.Split(s, sep), sep, size, overlap)
		}
	}

	// No boundary at all: hard split.
	var out []string
	step := size - overlap
	if step <= 0 {
		step = size
	}
	for start := 0; start < len(s); start += step {
		end := start + size
		if end >= len(s) {
			out = append(out, s[start:])
			break
		}
		out = append(out, s[start:end])
	}
	return out
}

// mergeParts greedily packs split pieces back into chunks of at most
// size bytes, carrying an overlap tail between consecutive chunks.
func mergeParts(parts []string, sep string, size, overlap int) []string {
	var chunks []string
	var cur string

	flush := func() {
		if c := strings.TrimSpace(cur); c != "" {
			chunks = append(chunks, c)
		}
	}

	for _, p := range parts {
		if len(p) > size {
			// Piece is itself oversized: flush what we have and
			// split the piece at the next finer boundary.
			flush()
			cur = ""
			chunks = append(chunks, splitText(p, size, overlap)...)
			continue
		}

		candidate := cur
		if candidate != "" {
			candidate += sep
		}
		candidate += p

		if len(candidate) > size {
			flush()
			tail := cur
			if len(tail) > overlap {
				tail = tail[len(tail)-overlap:]
			}
			cur = strings.TrimSpace(tail)
			if cur != "" {
				cur += sep
			}
			cur += p
			if len(cur) > size {
				cur = p
			}
		} else {
			cur = candidate
		}
	}
	flush()
	return chunks
}
