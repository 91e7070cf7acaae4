package prompts

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/parse"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

func promptCompendium() *types.Compendium {
	return &types.Compendium{
		Companies: []types.Company{
			{
				ID: "acme", Name: "Acme Corp", DateStart: "2022-01", Priority: 8,
				Children: []types.Position{
					{
						ID: "acme-eng", Name: "Engineer", DateStart: "2022-01", Priority: 7,
						Description: "Owned the payments platform",
						Tags:        []types.Tag{"go", "payments"},
						Children: []types.Bullet{
							{ID: "acme-eng-1", Description: "Shipped the billing rewrite", Tags: []types.Tag{"go"}, Priority: 9},
							{ID: "acme-eng-2", Description: "Mentored three juniors", Priority: 5},
						},
					},
				},
			},
			{
				ID: "initech", Name: "Initech", DateStart: "2019-01", DateEnd: "2021-12", Priority: 4,
				Children: []types.Position{
					{
						ID: "initech-dev", Name: "Developer", DateStart: "2019-01", Priority: 4,
						Children: []types.Bullet{
							{ID: "initech-dev-1", Description: "Automated the TPS reports", Priority: 6},
						},
					},
				},
			},
		},
	}
}

var idLineRE = regexp.MustCompile(`\[id=([^\]]+)\]`)

func TestRenderInventory_RoundTripsIndexIDs(t *testing.T) {
	comp := promptCompendium()
	inventory := RenderInventory(comp)

	rendered := make(map[string]struct{})
	for _, m := range idLineRE.FindAllStringSubmatch(inventory, -1) {
		rendered[m[1]] = struct{}{}
	}

	idx := compendium.NewIndex(comp)
	assert.Equal(t, idx.ValidIDs, rendered,
		"every selectable id must appear in the inventory exactly as indexed")
}

func TestRenderInventory_Content(t *testing.T) {
	inventory := RenderInventory(promptCompendium())

	assert.Contains(t, inventory, "## Acme Corp (2022-01 - present)")
	assert.Contains(t, inventory, "## Initech (2019-01 - 2021-12)")
	assert.Contains(t, inventory, "- [id=acme-eng-1] (priority 9) Shipped the billing rewrite [tags: go]")
	// The synthetic description bullet renders like any other.
	assert.Contains(t, inventory, "- [id=acme-eng-description] (priority 7) Owned the payments platform [tags: go, payments]")
	// Untagged bullets get no tags suffix.
	assert.Contains(t, inventory, "- [id=acme-eng-2] (priority 5) Mentored three juniors\n")
}

func TestMinBulletCount(t *testing.T) {
	assert.Equal(t, 30, MinBulletCount(types.SelectionConfig{MaxBullets: 10}))
	assert.Equal(t, 30, MinBulletCount(types.SelectionConfig{MaxBullets: 18}))
	assert.Equal(t, 40, MinBulletCount(types.SelectionConfig{MaxBullets: 30}))
}

func TestBuildSelectionPrompt(t *testing.T) {
	system, user, err := BuildSelectionPrompt("We need a Go engineer.", promptCompendium(), types.DefaultSelectionConfig(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, system)
	assert.Contains(t, user, "We need a Go engineer.")
	assert.Contains(t, user, "AT LEAST 30 bullets")
	assert.Contains(t, user, "[id=acme-eng-1]")
	assert.NotContains(t, user, "PREVIOUS ATTEMPT FEEDBACK")
}

func TestBuildSelectionPrompt_RetryFeedback(t *testing.T) {
	feedback := parse.NewError(parse.CodeDuplicateBulletID, "bullet id %q appears more than once", "acme-eng-1")

	_, user, err := BuildSelectionPrompt("job text", promptCompendium(), types.DefaultSelectionConfig(), feedback)
	require.NoError(t, err)

	assert.Contains(t, user, "PREVIOUS ATTEMPT FEEDBACK")
	assert.Contains(t, user, "DUPLICATE_BULLET_ID")
	assert.Contains(t, user, `bullet id "acme-eng-1" appears more than once`)
	assert.Contains(t, user, feedback.Help)
	// The correction comes before the task, not buried after the inventory.
	assert.Less(t, strings.Index(user, "PREVIOUS ATTEMPT FEEDBACK"), strings.Index(user, "[id=acme-eng-1]"))
}

func TestPromptTemplatesLoad(t *testing.T) {
	ClearCache()
	for _, key := range []string{"system", "select-bullets", "retry-feedback"} {
		text, err := Get(selectionFile, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, text)
	}
	_, err := Get(selectionFile, "nope")
	assert.Error(t, err)
	_, err = Get("missing.json", "system")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("hello {{.Name}}, {{.Name}}! {{.Missing}}", map[string]string{"Name": "world"})
	assert.Equal(t, "hello world, world! {{.Missing}}", out)
}
