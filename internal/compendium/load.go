package compendium

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olliegilbey/resumate-sub000/internal/schemas"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

//go:embed compendium.schema.json
var compendiumSchema string

// Parse decodes and validates a compendium document. The document is first
// checked against the embedded JSON Schema, then recursively validated at
// the domain level.
func Parse(data []byte) (*types.Compendium, error) {
	if err := schemas.ValidateJSONString(compendiumSchema, string(data)); err != nil {
		return nil, fmt.Errorf("compendium failed schema validation: %w", err)
	}

	var c types.Compendium
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal compendium JSON: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("compendium failed validation: %w", err)
	}

	return &c, nil
}

// Load reads and parses a compendium JSON file.
func Load(path string) (*types.Compendium, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compendium file %s: %w", path, err)
	}
	return Parse(data)
}
