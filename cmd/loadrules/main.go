// loadrules validates a JSON rule seed file against the schema and upserts
// the rules. Intended for seeding and admin updates:
//
//	DB_URL=... loadrules rules.json
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/budget-pipeline/internal/categorize"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
	repo "github.com/joseph-ayodele/budget-pipeline/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "loadrules <seed-file.json>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read seed file", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	seed, err := categorize.ParseSeed(data)
	if err != nil {
		logger.Error("invalid seed file", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		logger.Error("DB_URL required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := repo.Open(ctx, repo.Config{
		DSN:             dbURL,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		DialTimeout:     3 * time.Second,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rules := repo.NewRuleStore(pool, logger)

	for _, m := range seed.MerchantRules {
		rule := &entity.MerchantRule{
			Pattern:    m.Pattern,
			Category:   m.Category,
			Confidence: m.Confidence,
			Active:     m.Active,
		}
		if err := rules.UpsertMerchantRule(ctx, rule); err != nil {
			logger.Error("upsert merchant rule", "pattern", m.Pattern, "error", err)
			os.Exit(1)
		}
	}
	for _, k := range seed.KeywordRules {
		scope := k.Scope
		if scope == "" {
			scope = "both"
		}
		rule := &entity.KeywordRule{
			Keyword:    k.Keyword,
			Scope:      scope,
			Category:   k.Category,
			Confidence: k.Confidence,
			Active:     k.Active,
		}
		if err := rules.UpsertKeywordRule(ctx, rule); err != nil {
			logger.Error("upsert keyword rule", "keyword", k.Keyword, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("rules loaded",
		"merchant_rules", len(seed.MerchantRules),
		"keyword_rules", len(seed.KeywordRules),
	)
}
