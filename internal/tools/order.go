package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modeexpress/shopbot/internal/orders"
)

// OrderStore is the slice of the order store the check_order tool needs.
type OrderStore interface {
	Get(ctx context.Context, id string) (*orders.Order, error)
}

// RegisterOrderTool adds the check_order tool backed by the given store.
func RegisterOrderTool(r *Registry, store OrderStore) {
	r.Register(&Tool{
		Name:        "check_order",
		Description: "Vérifie le statut d'une commande client. Utilise cet outil dès qu'un numéro de commande est mentionné (ex: #4521, commande 4521).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "Le numéro de la commande, chiffres uniquement (ex: '4521')",
				},
			},
			"required": []string{"order_id"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			orderID, err := stringArg(args, "order_id")
			if err != nil {
				return "", err
			}
			// Customers paste ids as "#4521" or " 4521 ".
			orderID = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(orderID), "#"))

			o, err := store.Get(ctx, orderID)
			if errors.Is(err, orders.ErrNotFound) {
				return fmt.Sprintf(
					"Commande #%s introuvable dans notre système. "+
						"Vérifiez le numéro ou demandez au client de le retrouver "+
						"dans son email de confirmation.", orderID), nil
			}
			if err != nil {
				return fmt.Sprintf("Erreur base de données : %v. Veuillez réessayer.", err), nil
			}
			return formatOrder(o), nil
		},
	})
}

// formatOrder renders an order's status as the French text handed back
// to the model.
func formatOrder(o *orders.Order) string {
	switch o.Status {
	case orders.StatusDelivered:
		return fmt.Sprintf("Commande #%s de %s : LIVRÉE le %s. Transporteur : %s.",
			o.ID, o.CustomerName, o.ETA, o.Carrier)
	case orders.StatusShipped:
		return fmt.Sprintf("Commande #%s de %s : EN TRANSIT — Expédiée le %s, livraison prévue le %s. Transporteur : %s.",
			o.ID, o.CustomerName, o.ShippedAt, o.ETA, o.Carrier)
	case orders.StatusProcessing:
		return fmt.Sprintf("Commande #%s de %s : EN PRÉPARATION — Elle sera expédiée sous 24-48h.",
			o.ID, o.CustomerName)
	case orders.StatusCancelled:
		return fmt.Sprintf("Commande #%s de %s : ANNULÉE. Contactez le support pour plus d'informations.",
			o.ID, o.CustomerName)
	default:
		return fmt.Sprintf("Commande #%s de %s : Statut = %s. Expédiée : %s, ETA : %s, Transporteur : %s.",
			o.ID, o.CustomerName, o.Status, o.ShippedAt, o.ETA, o.Carrier)
	}
}
