package categorize

import (
	"strings"

	"github.com/joseph-ayodele/budget-pipeline/constants"
)

// Static keyword-scoring fallback used when no sufficiently confident rule
// matches. Kept as an ordered slice, not a map: score ties break by table
// definition order.
type fallbackEntry struct {
	category constants.Category
	keywords []string
}

var fallbackTable = []fallbackEntry{
	{constants.Groceries, []string{"grocery", "supermarket", "walmart", "target", "kroger", "safeway", "whole foods", "trader joe", "food", "produce", "meat", "dairy"}},
	{constants.Dining, []string{"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "burger", "pizza", "dining", "food", "eat", "meal", "lunch", "dinner", "breakfast", "bar", "grill"}},
	{constants.Transport, []string{"gas", "fuel", "uber", "lyft", "taxi", "metro", "subway", "bus", "train", "airline", "airport", "parking", "toll", "car", "vehicle"}},
	{constants.Shopping, []string{"store", "shop", "retail", "amazon", "mall", "clothing", "apparel", "shoes", "electronics", "home", "furniture"}},
	{constants.Entertainment, []string{"movie", "cinema", "theater", "netflix", "spotify", "music", "concert", "game", "sports", "ticket", "entertainment"}},
	{constants.Subscriptions, []string{"subscription", "monthly", "annual", "premium", "membership", "recurring"}},
	{constants.Utilities, []string{"electric", "water", "gas", "utility", "power", "internet", "phone", "cable", "internet service"}},
	{constants.Health, []string{"pharmacy", "drug", "medical", "doctor", "hospital", "clinic", "health", "dental", "vision", "insurance"}},
	{constants.Education, []string{"school", "university", "college", "tuition", "book", "course", "education", "learning"}},
	{constants.Travel, []string{"hotel", "airbnb", "travel", "vacation", "trip", "booking", "resort"}},
}

// FallbackCategory scores each category by how many of its keywords appear
// as substrings of the lower-cased merchant + raw text, returning the
// highest nonzero scorer. ok=false when nothing scores.
func FallbackCategory(merchant, rawText string) (string, bool) {
	var b strings.Builder
	if merchant != "" {
		b.WriteString(strings.ToLower(merchant))
		b.WriteString(" ")
	}
	b.WriteString(strings.ToLower(rawText))
	search := b.String()
	if strings.TrimSpace(search) == "" {
		return "", false
	}

	bestCat := ""
	bestScore := 0
	for _, entry := range fallbackTable {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(search, kw) {
				score++
			}
		}
		if score > bestScore {
			bestCat, bestScore = string(entry.category), score
		}
	}
	if bestScore == 0 {
		return "", false
	}
	return bestCat, true
}
