package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modeexpress/shopbot/internal/inventory"
)

// RegisterStockTool adds the check_stock tool backed by the inventory.
func RegisterStockTool(r *Registry, inv *inventory.Inventory) {
	r.Register(&Tool{
		Name:        "check_stock",
		Description: "Vérifie la disponibilité d'un produit ou d'une taille en stock. Utilise cet outil quand le client demande si un article est disponible.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_ref": map[string]any{
					"type":        "string",
					"description": "La taille (S, M, L, XL, XXL) ou référence produit",
				},
			},
			"required": []string{"product_ref"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			ref, err := stringArg(args, "product_ref")
			if err != nil {
				return "", err
			}
			return formatStock(inv, ref), nil
		},
	})
}

func formatStock(inv *inventory.Inventory, ref string) string {
	refUpper := strings.ToUpper(strings.TrimSpace(ref))

	if qty, ok := inv.Quantity(refUpper); ok {
		switch {
		case qty == 0:
			alts := make([]string, 0)
			for _, sc := range inv.Available() {
				alts = append(alts, fmt.Sprintf("%s (%d)", sc.Ref, sc.Quantity))
			}
			return fmt.Sprintf(
				"Taille %s : RUPTURE DE STOCK. Tailles disponibles : %s. "+
					"Vous pouvez activer une alerte de réapprovisionnement sur notre site.",
				refUpper, strings.Join(alts, ", "))
		case qty <= 3:
			return fmt.Sprintf("Taille %s : %d unité(s) disponible(s). Stock limité — commandez rapidement !",
				refUpper, qty)
		default:
			return fmt.Sprintf("Taille %s : %d unités disponibles en stock.", refUpper, qty)
		}
	}

	if matches := inv.Matching(refUpper); len(matches) > 0 {
		parts := make([]string, 0, len(matches))
		for _, sc := range matches {
			parts = append(parts, fmt.Sprintf("%s: %d unité(s)", sc.Ref, sc.Quantity))
		}
		return fmt.Sprintf("Stock pour '%s' : %s", ref, strings.Join(parts, ", "))
	}

	return fmt.Sprintf(
		"Référence '%s' non trouvée dans notre catalogue. "+
			"Vérifiez la référence ou proposez au client de chercher "+
			"sur notre site avec le moteur de recherche.", ref)
}
