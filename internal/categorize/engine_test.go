package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

// stubRules is an in-memory RuleSource. Rows are returned as stored; tests
// that care about tie-breaking order them most-recent-first themselves, the
// same contract the database store honors.
type stubRules struct {
	merchant []*entity.MerchantRule
	keyword  []*entity.KeywordRule
	err      error
}

func (s *stubRules) ActiveMerchantRules(ctx context.Context) ([]*entity.MerchantRule, error) {
	return s.merchant, s.err
}

func (s *stubRules) ActiveKeywordRules(ctx context.Context) ([]*entity.KeywordRule, error) {
	return s.keyword, s.err
}

func TestDetermineTrustedMerchantRule(t *testing.T) {
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: "starbucks", Category: "dining", Confidence: 0.95},
		},
	}, nil)

	got := e.Determine(context.Background(), "STARBUCKS #1234", "")
	assert.Equal(t, "dining", got)
}

func TestDetermineRegexPattern(t *testing.T) {
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: `^shell\b`, Category: "transportation", Confidence: 0.9},
		},
	}, nil)

	assert.Equal(t, "transportation", e.Determine(context.Background(), "Shell Station 42", ""))
	assert.Equal(t, "other", e.Determine(context.Background(), "Seashell Gifts", ""))
}

func TestDetermineBadRegexFallsBackToSubstring(t *testing.T) {
	// An uncompilable pattern is matched as a literal substring instead.
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: "cvs(", Category: "health", Confidence: 0.9},
		},
	}, nil)

	assert.Equal(t, "health", e.Determine(context.Background(), "CVS( PHARMACY", ""))
}

func TestDetermineKeywordRule(t *testing.T) {
	e := NewEngine(&stubRules{
		keyword: []*entity.KeywordRule{
			{Keyword: "oat milk", Scope: "line_item", Category: "groceries", Confidence: 0.85},
		},
	}, nil)

	got := e.DetermineScoped(context.Background(), "", "2x Oat Milk 5.98", constants.RuleScopeLineItem)
	assert.Equal(t, "groceries", got)
}

func TestDetermineKeywordScopeFilter(t *testing.T) {
	e := NewEngine(&stubRules{
		keyword: []*entity.KeywordRule{
			{Keyword: "pharmacy", Scope: "merchant", Category: "health", Confidence: 0.9},
		},
	}, nil)

	// Scope mismatch: merchant-scoped rule must not fire on line-item text.
	got := e.DetermineScoped(context.Background(), "", "pharmacy rewards card", constants.RuleScopeLineItem)
	assert.Equal(t, "other", got)

	// Empty scope defaults to both and fires everywhere.
	e = NewEngine(&stubRules{
		keyword: []*entity.KeywordRule{
			{Keyword: "pharmacy", Category: "health", Confidence: 0.9},
		},
	}, nil)
	got = e.DetermineScoped(context.Background(), "", "pharmacy rewards card", constants.RuleScopeLineItem)
	assert.Equal(t, "health", got)
}

func TestDetermineHighestConfidenceWinsAcrossTiers(t *testing.T) {
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: "costco", Category: "shopping", Confidence: 0.85},
		},
		keyword: []*entity.KeywordRule{
			{Keyword: "costco", Category: "groceries", Confidence: 0.95},
		},
	}, nil)

	got := e.Determine(context.Background(), "COSTCO WHOLESALE", "costco membership renewal")
	assert.Equal(t, "groceries", got)
}

func TestDetermineEqualConfidenceKeepsMostRecent(t *testing.T) {
	// Rows arrive most-recent-first; the first best seen wins the tie.
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: "acme", Category: "shopping", Confidence: 0.9},
			{Pattern: "acme", Category: "groceries", Confidence: 0.9},
		},
	}, nil)

	assert.Equal(t, "shopping", e.Determine(context.Background(), "ACME", ""))
}

func TestDetermineBelowThresholdDefersToFallback(t *testing.T) {
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: "starbucks", Category: "shopping", Confidence: 0.5},
		},
	}, nil)

	// The fallback sees "starbucks" and "coffee" and picks dining over the
	// low-confidence shopping rule.
	got := e.Determine(context.Background(), "Starbucks Coffee", "")
	assert.Equal(t, "dining", got)
}

func TestDetermineBelowThresholdRuleBeatsOther(t *testing.T) {
	// When the fallback scores nothing, a weak rule match is still better
	// than giving up.
	e := NewEngine(&stubRules{
		merchant: []*entity.MerchantRule{
			{Pattern: "xqzv", Category: "utilities", Confidence: 0.5},
		},
	}, nil)

	got := e.Determine(context.Background(), "XQZV LLC", "")
	assert.Equal(t, "utilities", got)
}

func TestDetermineStoreErrorDegradesToFallback(t *testing.T) {
	e := NewEngine(&stubRules{err: errors.New("connection refused")}, nil)

	got := e.Determine(context.Background(), "Starbucks Coffee", "")
	assert.Equal(t, "dining", got)
}

func TestDetermineNothingMatches(t *testing.T) {
	e := NewEngine(&stubRules{}, nil)
	assert.Equal(t, "other", e.Determine(context.Background(), "XQZV LLC", "qqq"))
}

func TestDetermineEmptyInputs(t *testing.T) {
	e := NewEngine(&stubRules{}, nil)
	assert.Equal(t, "other", e.Determine(context.Background(), "", ""))
}
