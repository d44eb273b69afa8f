package categorize

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

// ruleTrustThreshold separates trusted rule matches from the keyword
// fallback. Merchant/keyword rules are admin-curated (high precision, low
// recall); below this confidence the broad-coverage fallback gets a shot.
const ruleTrustThreshold = 0.8

// RuleSource provides the active rule rows. Rules are re-queried per call;
// the tables are small and low-churn. Rows must be ordered most recently
// created first so equal-confidence ties resolve deterministically.
type RuleSource interface {
	ActiveMerchantRules(ctx context.Context) ([]*entity.MerchantRule, error)
	ActiveKeywordRules(ctx context.Context) ([]*entity.KeywordRule, error)
}

// Engine assigns a spending category to a transaction from its merchant
// string and/or raw receipt text.
type Engine struct {
	rules  RuleSource
	logger *slog.Logger
}

func NewEngine(rules RuleSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rules: rules, logger: logger}
}

// Determine returns a category for the given merchant and raw text.
// Merchant rules and keyword rules are evaluated first and the single
// highest-confidence match is kept; at or above the trust threshold it wins
// outright. Otherwise the static keyword fallback scores the text, and a
// below-threshold rule match still beats "other" when the fallback finds
// nothing. Rule store errors are logged and treated as no rule matching,
// so categorization itself never fails.
func (e *Engine) Determine(ctx context.Context, merchant, rawText string) string {
	return e.DetermineScoped(ctx, merchant, rawText, constants.RuleScopeBoth)
}

// DetermineScoped is Determine with an explicit keyword-rule scope: only
// rules whose scope is "both" or equals the requested scope participate.
func (e *Engine) DetermineScoped(ctx context.Context, merchant, rawText string, scope constants.RuleScope) string {
	bestCat := ""
	bestConf := -1.0

	if cat, conf, ok := e.matchMerchantRules(ctx, merchant); ok && conf > bestConf {
		bestCat, bestConf = cat, conf
	}
	if cat, conf, ok := e.matchKeywordRules(ctx, rawText, scope); ok && conf > bestConf {
		bestCat, bestConf = cat, conf
	}

	if bestConf >= ruleTrustThreshold && bestCat != "" {
		return bestCat
	}

	if cat, ok := FallbackCategory(merchant, rawText); ok {
		return cat
	}

	if bestCat != "" {
		return bestCat
	}
	return string(constants.Other)
}

// matchMerchantRules evaluates every active merchant rule against the
// merchant string. Patterns are regexps matched case-insensitively; a
// pattern that does not compile falls back to case-insensitive substring
// containment of the literal. The highest-confidence match wins; rows
// arrive most-recent-first, so the first best seen takes equal-confidence
// ties.
func (e *Engine) matchMerchantRules(ctx context.Context, merchant string) (string, float64, bool) {
	if merchant == "" {
		return "", 0, false
	}
	rules, err := e.rules.ActiveMerchantRules(ctx)
	if err != nil {
		e.logger.Error("categorize.merchant_rules.query_failed", "error", err)
		return "", 0, false
	}

	lower := strings.ToLower(merchant)
	bestCat := ""
	bestConf := -1.0
	found := false
	for _, rule := range rules {
		if rule.Pattern == "" {
			continue
		}
		matched := false
		if re, err := regexp.Compile("(?i)" + rule.Pattern); err == nil {
			matched = re.MatchString(merchant)
		} else {
			matched = strings.Contains(lower, strings.ToLower(rule.Pattern))
		}
		if matched && rule.Confidence > bestConf {
			bestCat, bestConf = rule.Category, rule.Confidence
			found = true
		}
	}
	return bestCat, bestConf, found
}

// matchKeywordRules evaluates active keyword rules by substring containment
// only (no regexp), filtered to the requested scope.
func (e *Engine) matchKeywordRules(ctx context.Context, text string, scope constants.RuleScope) (string, float64, bool) {
	if text == "" {
		return "", 0, false
	}
	rules, err := e.rules.ActiveKeywordRules(ctx)
	if err != nil {
		e.logger.Error("categorize.keyword_rules.query_failed", "error", err)
		return "", 0, false
	}

	lower := strings.ToLower(text)
	bestCat := ""
	bestConf := -1.0
	found := false
	for _, rule := range rules {
		ruleScope := constants.RuleScope(rule.Scope)
		if ruleScope == "" {
			ruleScope = constants.RuleScopeBoth
		}
		if ruleScope != constants.RuleScopeBoth && ruleScope != scope {
			continue
		}
		kw := strings.ToLower(rule.Keyword)
		if kw == "" || !strings.Contains(lower, kw) {
			continue
		}
		if rule.Confidence > bestConf {
			bestCat, bestConf = rule.Category, rule.Confidence
			found = true
		}
	}
	return bestCat, bestConf, found
}
