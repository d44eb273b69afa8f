package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	data := []byte(`{
		"merchant_rules": [
			{"pattern": "starbucks", "category": "dining", "confidence": 0.95, "active": true}
		],
		"keyword_rules": [
			{"keyword": "oat milk", "scope": "line_item", "category": "groceries", "confidence": 0.85, "active": true}
		]
	}`)

	seed, err := ParseSeed(data)
	require.NoError(t, err)
	require.Len(t, seed.MerchantRules, 1)
	assert.Equal(t, "starbucks", seed.MerchantRules[0].Pattern)
	assert.Equal(t, 0.95, seed.MerchantRules[0].Confidence)
	require.Len(t, seed.KeywordRules, 1)
	assert.Equal(t, "line_item", seed.KeywordRules[0].Scope)
}

func TestParseSeedRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing category", `{"merchant_rules": [{"pattern": "x", "confidence": 0.9}]}`},
		{"confidence out of range", `{"merchant_rules": [{"pattern": "x", "category": "dining", "confidence": 1.5}]}`},
		{"bad scope", `{"keyword_rules": [{"keyword": "x", "scope": "receipt", "category": "dining", "confidence": 0.9}]}`},
		{"unknown field", `{"merchant_rules": [{"pattern": "x", "category": "dining", "confidence": 0.9, "note": "hi"}]}`},
		{"unknown top level key", `{"rules": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseSeedEmptyDocument(t *testing.T) {
	seed, err := ParseSeed([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, seed.MerchantRules)
	assert.Empty(t, seed.KeywordRules)
}
