// parsereceipt runs the receipt parser and the fallback categorizer over a
// text file of OCR output. Debugging aid for tuning the extraction
// patterns.
package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/budget-pipeline/internal/categorize"
	"github.com/joseph-ayodele/budget-pipeline/internal/parse"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "parsereceipt <ocr-text-file>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read input", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	text := string(data)
	parsed := parse.Receipt(text)

	merchant := ""
	if parsed.Merchant != nil {
		merchant = *parsed.Merchant
	}
	category, _ := categorize.FallbackCategory(merchant, text)

	out := map[string]any{
		"parsed":            parsed,
		"fallback_category": category,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}
