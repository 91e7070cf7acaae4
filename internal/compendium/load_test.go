package compendium

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
  "companies": [
    {
      "id": "acme",
      "name": "Acme Corp",
      "dateStart": "2022-01",
      "tags": ["backend"],
      "priority": 8,
      "children": [
        {
          "id": "acme-eng",
          "name": "Software Engineer",
          "dateStart": "2022-01",
          "tags": ["go"],
          "priority": 7,
          "children": [
            {
              "id": "acme-eng-1",
              "description": "Built the billing service",
              "tags": ["go", "backend"],
              "priority": 9
            }
          ]
        }
      ]
    }
  ],
  "roleProfiles": [
    {
      "id": "backend",
      "name": "Backend Engineer",
      "tagWeights": {"go": 1.0, "backend": 0.8},
      "scoringWeights": {"tagRelevance": 0.6, "priority": 0.4}
    }
  ]
}`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(validDocument))
	require.NoError(t, err)
	require.Len(t, c.Companies, 1)
	assert.Equal(t, "acme", c.Companies[0].ID)
	require.NotNil(t, c.Profile("backend"))
	assert.Equal(t, 0.6, c.Profile("backend").ScoringWeights.TagRelevance)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not JSON", `{{`},
		{"no companies", `{"companies": []}`},
		{"missing bullet description", `{"companies": [{"id": "a", "dateStart": "2022", "tags": [], "priority": 5,
			"children": [{"id": "p", "name": "Dev", "dateStart": "2022", "tags": [], "priority": 5,
			"children": [{"id": "b", "tags": [], "priority": 5}]}]}]}`},
		{"priority out of range", `{"companies": [{"id": "a", "dateStart": "2022", "tags": [], "priority": 11,
			"children": [{"id": "p", "name": "Dev", "dateStart": "2022", "tags": [], "priority": 5,
			"children": [{"id": "b", "description": "x", "tags": [], "priority": 5}]}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compendium.json")
	require.NoError(t, os.WriteFile(path, []byte(validDocument), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Companies, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
