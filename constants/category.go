package constants

import (
	"strings"
)

type Category string

const (
	Groceries     Category = "groceries"
	Dining        Category = "dining"
	Transport     Category = "transport"
	Shopping      Category = "shopping"
	Entertainment Category = "entertainment"
	Subscriptions Category = "subscriptions"
	Utilities     Category = "utilities"
	Health        Category = "health"
	Education     Category = "education"
	Travel        Category = "travel"
	Other         Category = "other"
)

var allCategories = []Category{
	Groceries,
	Dining,
	Transport,
	Shopping,
	Entertainment,
	Subscriptions,
	Utilities,
	Health,
	Education,
	Travel,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps free-form category labels onto the fixed set.
// Unknown labels map to Other with ok=false.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"food":          Groceries,
		"restaurant":    Dining,
		"restaurants":   Dining,
		"gas":           Transport,
		"fuel":          Transport,
		"rideshare":     Transport,
		"retail":        Shopping,
		"streaming":     Entertainment,
		"subscription":  Subscriptions,
		"bills":         Utilities,
		"medical":       Health,
		"pharmacy":      Health,
		"tuition":       Education,
		"hotel":         Travel,
		"accommodation": Travel,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	return Other, false
}
