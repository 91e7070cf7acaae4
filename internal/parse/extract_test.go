package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	raw := "Here you go:\n```json\n{\"bullets\": []}\n```\nHope that helps!"
	candidate, start, ok := extractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"bullets": []}`, candidate)
	assert.Equal(t, '{', rune(raw[start]))
}

func TestExtractJSON_FencedBlockWithoutLanguage(t *testing.T) {
	raw := "```\n{\"bullets\": [{\"id\": \"a\"}]}\n```"
	candidate, _, ok := extractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"bullets": [{"id": "a"}]}`, candidate)
}

func TestExtractJSON_RawObjectWithKey(t *testing.T) {
	raw := `Sure! The selection is {"bullets": [{"id": "a", "score": 0.5}], "reasoning": "fits"} as requested.`
	candidate, start, ok := extractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"bullets": [{"id": "a", "score": 0.5}], "reasoning": "fits"}`, candidate)
	assert.Equal(t, candidate, raw[start:start+len(candidate)])
}

func TestExtractJSON_NestedKeyWidensToEnclosingObject(t *testing.T) {
	raw := `{"outer": {"bullets": [], "reasoning": "x"}}`
	candidate, _, ok := extractJSON(raw)
	require.True(t, ok)
	// The innermost balanced object containing the key wins.
	assert.Contains(t, candidate, `"bullets"`)
}

func TestExtractJSON_FirstBalancedObjectFallback(t *testing.T) {
	raw := `prose {"something": "else"} more prose`
	candidate, _, ok := extractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"something": "else"}`, candidate)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"reasoning": "uses {braces} and \"quotes\"", "bullets": []}`
	candidate, _, ok := extractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, raw, candidate)
}

func TestExtractJSON_NothingFound(t *testing.T) {
	_, _, ok := extractJSON("I am sorry, I cannot help with that.")
	assert.False(t, ok)

	_, _, ok = extractJSON("")
	assert.False(t, ok)
}

func TestExcerptAround(t *testing.T) {
	s := "0123456789"
	start, end, excerpt := excerptAround(s, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
	assert.Equal(t, s, excerpt)

	long := string(make([]byte, 200))
	start, end, _ = excerptAround(long, 100)
	assert.Equal(t, 60, start)
	assert.Equal(t, 140, end)
}
