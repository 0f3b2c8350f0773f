package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modeexpress/shopbot/internal/search"
)

// fakeSearcher replays canned results and records the query.
type fakeSearcher struct {
	results   []search.Result
	err       error
	lastQuery string
	lastCount int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, opts search.Options) ([]search.Result, error) {
	f.lastQuery = query
	f.lastCount = opts.Count
	return f.results, f.err
}

func TestWebSearchFormatsResults(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Soldes d'hiver ModeExpress", URL: "https://modeexpress.example/soldes", Snippet: "Jusqu'à -50% sur la collection hiver."},
		{Title: "Nouveautés printemps", URL: "https://modeexpress.example/nouveautes", Snippet: "Découvrez la nouvelle collection."},
	}}
	r := NewRegistry(testLogger())
	RegisterWebSearchTool(r, searcher)

	got := r.Dispatch(context.Background(), "web_search", `{"query":"promotions en cours"}`)

	if searcher.lastQuery != "promotions en cours" {
		t.Errorf("query = %q", searcher.lastQuery)
	}
	if searcher.lastCount != webSearchResults {
		t.Errorf("result count = %d, want %d", searcher.lastCount, webSearchResults)
	}
	for _, want := range []string{
		"Soldes d'hiver ModeExpress (https://modeexpress.example/soldes)",
		"Jusqu'à -50% sur la collection hiver.",
		"\n---\n",
		"Nouveautés printemps",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("result %q missing %q", got, want)
		}
	}
}

func TestWebSearchNoResults(t *testing.T) {
	r := NewRegistry(testLogger())
	RegisterWebSearchTool(r, &fakeSearcher{})

	got := r.Dispatch(context.Background(), "web_search", `{"query":"soldes"}`)
	if got != "Aucun résultat web pour 'soldes'." {
		t.Errorf("result = %q", got)
	}
}

func TestWebSearchProviderFailureFoldsToText(t *testing.T) {
	r := NewRegistry(testLogger())
	RegisterWebSearchTool(r, &fakeSearcher{err: errors.New("timeout")})

	got := r.Dispatch(context.Background(), "web_search", `{"query":"soldes"}`)
	if !strings.Contains(got, "recherche web indisponible") {
		t.Errorf("result = %q, want an unavailable-search message", got)
	}
	if !strings.Contains(got, "Erreur lors de l'exécution de l'outil 'web_search'") {
		t.Errorf("result = %q, want the dispatch error wrapper", got)
	}
}

func TestWebSearchStubWhenUnconfigured(t *testing.T) {
	r := NewRegistry(testLogger())
	RegisterWebSearchTool(r, nil)

	// The tool stays in the catalog so the model sees a stable surface.
	if r.Get("web_search") == nil {
		t.Fatalf("stub tool not registered")
	}

	got := r.Dispatch(context.Background(), "web_search", `{"query":"soldes"}`)
	if !strings.Contains(got, "La recherche web n'est pas configurée") {
		t.Errorf("result = %q, want the unconfigured message", got)
	}
}
