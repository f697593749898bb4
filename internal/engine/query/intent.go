package query

import "strings"

// Intent is the rule-based classification of what a query is trying to do.
type Intent string

const (
	IntentPurchase      Intent = "purchase"
	IntentComparison    Intent = "comparison"
	IntentInformational Intent = "informational"
	IntentEvaluation    Intent = "evaluation"
	IntentNavigation    Intent = "navigation"
	IntentGeneral       Intent = "general"
)

// intentRules are evaluated in order; the first matching rule wins, so the
// more specific buying/comparison signals take precedence over the broad
// informational bucket.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentPurchase, []string{"buy", "price", "pricing", "cost", "purchase", "order", "subscription", "deal"}},
	{IntentComparison, []string{" vs ", "versus", "compare", "comparison", "alternative", "better than", "competitor"}},
	{IntentEvaluation, []string{"review", "rating", "is it good", "worth it", "reliable", "good for", "is it safe", "good?"}},
	{IntentNavigation, []string{"website", "login", "sign in", "download", "docs", "documentation", "contact", "support page"}},
	{IntentInformational, []string{"what", "how", "why", "when", "where", "guide", "tutorial", "explain", "tell me"}},
}

// ClassifyIntent buckets a query into one of the six intents.  Queries that
// trip no rule fall into the general bucket.
func ClassifyIntent(q string) Intent {
	lowered := " " + strings.ToLower(q) + " "
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

// IntentDistribution counts intents across queries and normalizes the counts
// into fractions that sum to ~1.0.  An empty query list yields an empty map.
func IntentDistribution(queries []string) map[string]float64 {
	if len(queries) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]int)
	for _, q := range queries {
		counts[string(ClassifyIntent(q))]++
	}
	dist := make(map[string]float64, len(counts))
	for intent, n := range counts {
		dist[intent] = float64(n) / float64(len(queries))
	}
	return dist
}
