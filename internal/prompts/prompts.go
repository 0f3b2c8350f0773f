// Package prompts holds the fixed French prompt templates and canned
// user-facing messages.
package prompts

import (
	"fmt"
	"strings"
)

// systemTemplate is the policy prompt for every turn. The single format
// verb is the retrieved FAQ context (or the no-context sentinel).
const systemTemplate = `Tu es ShopBot, l'assistant IA de ModeExpress, une boutique de vêtements en ligne.
Tu aides les clients avec leurs questions sur les commandes, le stock, les retours et les promotions.

RÈGLES :
1. Réponds TOUJOURS en français, avec un ton professionnel et chaleureux.
2. Sois concis : 2-4 phrases maximum.
3. Propose toujours une alternative si un produit est indisponible.
4. Si tu ne sais pas, dis-le honnêtement.

Contexte FAQ :
%s
`

// noContext mirrors the retrieval gateway's sentinel, used here only
// as a guard if a caller passes an empty context string.
const noContext = "Aucun contexte FAQ disponible."

// Fallback is returned to the caller when the iteration budget is
// exhausted without a final answer. The turn leaves no trace in the
// session history so a retry starts clean.
const Fallback = "Désolé, je n'ai pas pu traiter votre demande. Réessayez ou contactez notre support."

// EmptyAnswer replaces a final completion whose content came back blank.
const EmptyAnswer = "Je n'ai pas pu générer une réponse."

// System renders the system prompt with the retrieved FAQ context.
func System(faqContext string) string {
	if strings.TrimSpace(faqContext) == "" {
		faqContext = noContext
	}
	return fmt.Sprintf(systemTemplate, faqContext)
}
