package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

// RuleStore reads and writes the categorization rule tables. Active rules
// are returned most recently created first; the engine relies on that order
// for deterministic equal-confidence tie-breaks.
type RuleStore interface {
	ActiveMerchantRules(ctx context.Context) ([]*entity.MerchantRule, error)
	ActiveKeywordRules(ctx context.Context) ([]*entity.KeywordRule, error)
	UpsertMerchantRule(ctx context.Context, rule *entity.MerchantRule) error
	UpsertKeywordRule(ctx context.Context, rule *entity.KeywordRule) error
}

type ruleStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewRuleStore(pool *pgxpool.Pool, log *slog.Logger) RuleStore {
	if log == nil {
		log = slog.Default()
	}
	return &ruleStore{pool: pool, log: log}
}

func (s *ruleStore) ActiveMerchantRules(ctx context.Context) ([]*entity.MerchantRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, merchant_pattern, category, confidence, active, created_at
		FROM merchant_rules
		WHERE active = true
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*entity.MerchantRule
	for rows.Next() {
		var r entity.MerchantRule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Category, &r.Confidence, &r.Active, &r.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, &r)
	}
	return rules, rows.Err()
}

func (s *ruleStore) ActiveKeywordRules(ctx context.Context) ([]*entity.KeywordRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, keyword, scope, category, confidence, active, created_at
		FROM keyword_rules
		WHERE active = true
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*entity.KeywordRule
	for rows.Next() {
		var r entity.KeywordRule
		if err := rows.Scan(&r.ID, &r.Keyword, &r.Scope, &r.Category, &r.Confidence, &r.Active, &r.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, &r)
	}
	return rules, rows.Err()
}

func (s *ruleStore) UpsertMerchantRule(ctx context.Context, rule *entity.MerchantRule) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO merchant_rules (merchant_pattern, category, confidence, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (merchant_pattern) DO UPDATE
		SET category = EXCLUDED.category,
		    confidence = EXCLUDED.confidence,
		    active = EXCLUDED.active
		RETURNING id
	`, rule.Pattern, rule.Category, rule.Confidence, rule.Active).Scan(&rule.ID)
	if err != nil {
		s.log.Error("rules.upsert_merchant_failed", "pattern", rule.Pattern, "error", err)
		return err
	}
	s.log.Info("rules.upsert_merchant", "pattern", rule.Pattern, "category", rule.Category)
	return nil
}

func (s *ruleStore) UpsertKeywordRule(ctx context.Context, rule *entity.KeywordRule) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO keyword_rules (keyword, scope, category, confidence, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (keyword, scope) DO UPDATE
		SET category = EXCLUDED.category,
		    confidence = EXCLUDED.confidence,
		    active = EXCLUDED.active
		RETURNING id
	`, rule.Keyword, rule.Scope, rule.Category, rule.Confidence, rule.Active).Scan(&rule.ID)
	if err != nil {
		s.log.Error("rules.upsert_keyword_failed", "keyword", rule.Keyword, "error", err)
		return err
	}
	s.log.Info("rules.upsert_keyword", "keyword", rule.Keyword, "category", rule.Category)
	return nil
}
