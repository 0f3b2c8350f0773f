// ShopBot is the ModeExpress customer support agent.
//
// It answers customer questions over an HTTP API by combining retrieved
// FAQ passages with the Mistral completion service, letting the model
// call local lookup tools (order status, stock level, web search)
// mid-conversation. Configuration is loaded from a single YAML file
// discovered automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	shopbot serve              Start the API server
//	shopbot ask <question>     Ask a single question (for testing)
//	shopbot index              Build the FAQ vector index from docs
//	shopbot initdb             Create and seed the demo order database
//	shopbot version            Print version and build information
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/modeexpress/shopbot/internal/agent"
	"github.com/modeexpress/shopbot/internal/api"
	"github.com/modeexpress/shopbot/internal/buildinfo"
	"github.com/modeexpress/shopbot/internal/config"
	"github.com/modeexpress/shopbot/internal/embeddings"
	"github.com/modeexpress/shopbot/internal/inventory"
	"github.com/modeexpress/shopbot/internal/llm"
	"github.com/modeexpress/shopbot/internal/orders"
	"github.com/modeexpress/shopbot/internal/rag"
	"github.com/modeexpress/shopbot/internal/search"
	"github.com/modeexpress/shopbot/internal/session"
	"github.com/modeexpress/shopbot/internal/tools"
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run], keeping
// os.Exit and os.Args out of the application logic so the lifecycle can
// be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	fs := flag.NewFlagSet("shopbot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	command := fs.Arg(0)
	rest := fs.Args()
	if len(rest) > 0 {
		rest = rest[1:]
	}

	if command == "version" {
		fmt.Fprintln(stdout, buildinfo.String())
		return nil
	}
	if command == "" {
		return fmt.Errorf("usage: shopbot [-config file] <serve|ask|index|initdb|version>")
	}

	path, err := config.FindConfig(*configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", "path", path, "model", cfg.Mistral.Model)

	switch command {
	case "serve":
		return runServe(ctx, cfg, logger)
	case "ask":
		return runAsk(ctx, cfg, logger, stdout, strings.Join(rest, " "))
	case "index":
		return runIndex(ctx, cfg, logger, stdout)
	case "initdb":
		return runInitDB(ctx, cfg, stdout)
	default:
		return fmt.Errorf("unknown command %q (valid: serve, ask, index, initdb, version)", command)
	}
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: config.ReplaceLogLevelNames,
	})), nil
}

// buildLoop wires the agent loop and its collaborators from config.
// The returned close function releases the order database.
func buildLoop(cfg *config.Config, logger *slog.Logger) (*agent.Loop, *session.Store, func(), error) {
	orderStore, err := orders.Open(cfg.Orders.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open order database: %w", err)
	}

	embedder := embeddings.New(embeddings.Config{
		BaseURL: cfg.Mistral.BaseURL,
		APIKey:  cfg.Mistral.APIKey,
		Model:   cfg.Mistral.EmbedModel,
	})

	var index *rag.Index
	if index, err = rag.LoadIndex(cfg.Retrieval.IndexPath); err != nil {
		logger.Warn("FAQ index unavailable, answering without reference context (run `shopbot index` to build it)",
			"path", cfg.Retrieval.IndexPath, "error", err)
		index = nil
	} else {
		logger.Info("FAQ index loaded", "path", cfg.Retrieval.IndexPath, "chunks", len(index.Chunks))
	}
	retriever := rag.NewRetriever(index, embedder, cfg.Retrieval.TopK, logger)

	var searcher tools.Searcher
	if cfg.Search.Tavily.APIKey != "" {
		mgr := search.NewManager("tavily")
		mgr.Register(search.NewTavily(cfg.Search.Tavily.APIKey))
		searcher = mgr
		logger.Info("web search enabled", "provider", "tavily")
	} else {
		logger.Info("web search disabled (no API key), registering stub tool")
	}

	registry := tools.NewRegistry(logger)
	tools.RegisterOrderTool(registry, orderStore)
	tools.RegisterStockTool(registry, inventory.New())
	tools.RegisterWebSearchTool(registry, searcher)

	client := llm.NewMistralClient(llm.MistralConfig{
		BaseURL:   cfg.Mistral.BaseURL,
		APIKey:    cfg.Mistral.APIKey,
		Model:     cfg.Mistral.Model,
		MaxTokens: cfg.Mistral.MaxTokens,
	}, logger)

	sessions := session.NewStore()
	loop := agent.New(logger, client, registry, retriever, sessions)
	return loop, sessions, func() { orderStore.Close() }, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop, sessions, closeStores, err := buildLoop(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	server := api.NewServer(cfg.Listen.Address, cfg.Listen.Port, loop, sessions, cfg.Mistral.Model, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runAsk(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer, question string) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("usage: shopbot ask <question>")
	}

	loop, _, closeStores, err := buildLoop(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	sessionID := "cli-" + uuid.NewString()
	answer, err := loop.Turn(ctx, sessionID, question)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, answer)
	return nil
}

func runIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	embedder := embeddings.New(embeddings.Config{
		BaseURL: cfg.Mistral.BaseURL,
		APIKey:  cfg.Mistral.APIKey,
		Model:   cfg.Mistral.EmbedModel,
	})

	indexer := rag.NewIndexer(embedder, cfg.Mistral.EmbedModel, logger)
	index, err := indexer.IndexDir(ctx, cfg.Retrieval.DocsDir)
	if err != nil {
		return err
	}
	if err := index.Save(cfg.Retrieval.IndexPath); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "FAQ index built: %d chunks from %s written to %s\n",
		len(index.Chunks), cfg.Retrieval.DocsDir, cfg.Retrieval.IndexPath)
	return nil
}

func runInitDB(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	store, err := orders.Open(cfg.Orders.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "order database ready: %s (%d orders)\n", cfg.Orders.DatabasePath, count)
	return nil
}
