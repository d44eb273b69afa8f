// Package ocr treats text extraction as an opaque capability: image bytes
// in, text out. The pipeline never inspects how the text was produced.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// TextExtractor is the contract the receipt processor consumes. An empty
// string is a valid result; extraction errors surface as job failures, not
// worker crashes.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // default "eng"
	PSM       int    // e.g. 6 is good for a uniform block of text
}

// Extractor shells out to tesseract.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// ExtractText writes the image to a temp file and runs tesseract over it.
func (e *Extractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "receipt-*.img")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp image: %w", err)
	}

	args := []string{tmp.Name(), "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}

	stdout, stderr, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w (stderr: %s)",
			filepath.Base(tmp.Name()), err, truncate(string(stderr), 512))
	}
	return string(stdout), nil
}
