package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modeexpress/shopbot/internal/search"
)

// Searcher is the slice of the search manager the web_search tool needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts search.Options) ([]search.Result, error)
}

// webSearchResults caps how many results are folded into the tool text.
const webSearchResults = 2

// RegisterWebSearchTool adds the web_search tool. When mgr is nil (no
// search API key configured) a stub is registered instead, so the
// catalog stays stable and the model gets a usable explanation rather
// than a missing tool.
func RegisterWebSearchTool(r *Registry, mgr Searcher) {
	if mgr == nil {
		r.Register(&Tool{
			Name:        "web_search",
			Description: "Recherche des informations récentes sur les promotions. (Outil désactivé — configurez une clé d'API de recherche pour l'activer)",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "La requête de recherche",
					},
				},
				"required": []string{"query"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return "La recherche web n'est pas configurée. " +
					"Pour les promotions en cours, orientez le client vers notre site web.", nil
			},
		})
		return
	}

	r.Register(&Tool{
		Name: "web_search",
		Description: "Recherche des informations récentes sur internet. " +
			"Utilise cet outil UNIQUEMENT pour : les promotions et soldes en cours, " +
			"les nouveautés de la boutique, les actualités récentes. " +
			"Ne l'utilise PAS pour les questions sur commandes ou stock " +
			"(utilise check_order et check_stock à la place).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "La requête de recherche",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return "", err
			}

			results, err := mgr.Search(ctx, query, search.Options{Count: webSearchResults})
			if err != nil {
				return "", fmt.Errorf("recherche web indisponible : %w", err)
			}
			if len(results) == 0 {
				return fmt.Sprintf("Aucun résultat web pour '%s'.", query), nil
			}

			var sb strings.Builder
			for i, res := range results {
				if i > 0 {
					sb.WriteString("\n---\n")
				}
				fmt.Fprintf(&sb, "%s (%s)\n%s", res.Title, res.URL, res.Snippet)
			}
			return sb.String(), nil
		},
	})
}
