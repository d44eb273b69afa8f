package categorize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SeedFile is the JSON document format for admin-curated rule seeds.
type SeedFile struct {
	MerchantRules []MerchantRuleSeed `json:"merchant_rules"`
	KeywordRules  []KeywordRuleSeed  `json:"keyword_rules"`
}

type MerchantRuleSeed struct {
	Pattern    string  `json:"pattern"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Active     bool    `json:"active"`
}

type KeywordRuleSeed struct {
	Keyword    string  `json:"keyword"`
	Scope      string  `json:"scope"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Active     bool    `json:"active"`
}

var seedSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"merchant_rules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"pattern", "category", "confidence"},
				"additionalProperties": false,
				"properties": map[string]any{
					"pattern":    map[string]any{"type": "string", "minLength": 1},
					"category":   map[string]any{"type": "string", "minLength": 1},
					"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					"active":     map[string]any{"type": "boolean"},
				},
			},
		},
		"keyword_rules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"keyword", "category", "confidence"},
				"additionalProperties": false,
				"properties": map[string]any{
					"keyword":    map[string]any{"type": "string", "minLength": 1},
					"scope":      map[string]any{"type": "string", "enum": []any{"merchant", "line_item", "both"}},
					"category":   map[string]any{"type": "string", "minLength": 1},
					"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					"active":     map[string]any{"type": "boolean"},
				},
			},
		},
	},
}

// ParseSeed validates data against the seed schema and decodes it.
func ParseSeed(data []byte) (*SeedFile, error) {
	if err := validateJSONAgainstSchema(seedSchema, data); err != nil {
		return nil, err
	}
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unmarshal seed: %w", err)
	}
	return &seed, nil
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
