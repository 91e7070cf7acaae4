package parse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		ValidIDs: map[string]struct{}{
			"b1": {}, "b2": {}, "b3": {}, "b4": {},
		},
		MinBullets: 3,
	}
}

// response builds a well-formed payload selecting the given ids.
func response(ids ...string) string {
	entries := make([]string, len(ids))
	for i, id := range ids {
		entries[i] = fmt.Sprintf(`{"id": %q, "score": 0.9}`, id)
	}
	return fmt.Sprintf(`{"bullets": [%s], "reasoning": "strong overlap with the posting", "jobTitle": "Backend Engineer"}`,
		strings.Join(entries, ", "))
}

func TestParse_Success(t *testing.T) {
	result, perr := Parse(response("b1", "b2", "b3"), testOptions())
	require.Nil(t, perr)
	require.Len(t, result.Bullets, 3)
	assert.Equal(t, "b1", result.Bullets[0].BulletID)
	assert.Equal(t, 0.9, result.Bullets[0].Score)
	assert.Equal(t, "strong overlap with the posting", result.Reasoning)
	assert.Equal(t, "Backend Engineer", result.JobTitle)
	assert.Nil(t, result.Salary)
	assert.Empty(t, result.Warnings)
}

func TestParse_SuccessInsideFence(t *testing.T) {
	raw := "Here is my selection:\n```json\n" + response("b1", "b2", "b3") + "\n```"
	result, perr := Parse(raw, testOptions())
	require.Nil(t, perr)
	assert.Len(t, result.Bullets, 3)
}

func TestParse_NoJSONFound(t *testing.T) {
	_, perr := Parse("I cannot produce a selection for this posting.", testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeNoJSONFound, perr.Code)
	assert.NotEmpty(t, perr.Help)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, perr := Parse("```json\n{\"bullets\": [}\n```", testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidJSON, perr.Code)
	require.NotNil(t, perr.Span, "syntax errors should carry an offending span")
	assert.NotEmpty(t, perr.Span.Excerpt)
}

func TestParse_MissingBulletsField(t *testing.T) {
	_, perr := Parse(`{"reasoning": "fits well"}`, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeMissingBulletIDs, perr.Code)
}

func TestParse_BulletsNotArray(t *testing.T) {
	_, perr := Parse(`{"bullets": "b1,b2,b3", "reasoning": "x"}`, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeMissingBulletIDs, perr.Code)
}

func TestParse_NonStringID(t *testing.T) {
	_, perr := Parse(`{"bullets": [{"id": 7, "score": 0.5}], "reasoning": "x"}`, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidBulletID, perr.Code)
}

func TestParse_TooFewBullets(t *testing.T) {
	_, perr := Parse(response("b1", "b2"), testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeWrongBulletCount, perr.Code)
	assert.Contains(t, perr.Message, "at least 3")
	assert.Contains(t, perr.Message, "got 2")
}

func TestParse_UnknownIDs(t *testing.T) {
	_, perr := Parse(response("b1", "b2", "made-up"), testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidBulletID, perr.Code)
	assert.Contains(t, perr.Message, "made-up")
}

func TestParse_DuplicateIDs(t *testing.T) {
	_, perr := Parse(response("b1", "b2", "b1"), testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeDuplicateBulletID, perr.Code)
	assert.Contains(t, perr.Message, `"b1"`)
}

func TestParse_ScoreOutOfRange(t *testing.T) {
	raw := `{"bullets": [{"id": "b1", "score": 1.5}, {"id": "b2", "score": 0.5}, {"id": "b3", "score": 0.5}], "reasoning": "x"}`
	_, perr := Parse(raw, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidScore, perr.Code)

	raw = `{"bullets": [{"id": "b1", "score": "high"}, {"id": "b2"}, {"id": "b3"}], "reasoning": "x"}`
	_, perr = Parse(raw, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidScore, perr.Code)
}

func TestParse_MissingScoreDefaultsToZero(t *testing.T) {
	raw := `{"bullets": [{"id": "b1"}, {"id": "b2", "score": 0.5}, {"id": "b3", "score": 1.0}], "reasoning": "x"}`
	result, perr := Parse(raw, testOptions())
	require.Nil(t, perr)
	assert.Equal(t, 0.0, result.Bullets[0].Score)
}

func TestParse_MissingReasoning(t *testing.T) {
	raw := `{"bullets": [{"id": "b1", "score": 0.5}, {"id": "b2", "score": 0.5}, {"id": "b3", "score": 0.5}], "reasoning": "   "}`
	_, perr := Parse(raw, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeMissingReasoning, perr.Code)
}

func TestParse_ValidSalary(t *testing.T) {
	raw := `{"bullets": [{"id": "b1", "score": 0.5}, {"id": "b2", "score": 0.5}, {"id": "b3", "score": 0.5}],
		"reasoning": "x", "salary": {"currency": "USD", "period": "annual", "min": 150000, "max": 180000}}`
	result, perr := Parse(raw, testOptions())
	require.Nil(t, perr)
	require.NotNil(t, result.Salary)
	assert.Equal(t, "USD", result.Salary.Currency)
	assert.Equal(t, 150000.0, *result.Salary.Min)
	assert.Empty(t, result.Warnings)
}

func TestParse_InvalidSalaryIsNonFatal(t *testing.T) {
	tests := []struct {
		name   string
		salary string
	}{
		{"bad period", `{"currency": "USD", "period": "quarterly"}`},
		{"empty currency", `{"currency": "", "period": "annual"}`},
		{"wrong shape", `"150k-180k"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fmt.Sprintf(`{"bullets": [{"id": "b1", "score": 0.5}, {"id": "b2", "score": 0.5}, {"id": "b3", "score": 0.5}],
				"reasoning": "x", "salary": %s}`, tt.salary)
			result, perr := Parse(raw, testOptions())
			require.Nil(t, perr, "salary problems must never fail the parse")
			assert.Nil(t, result.Salary)
			require.Len(t, result.Warnings, 1)
			assert.Contains(t, result.Warnings[0], "salary discarded")
		})
	}
}

func TestParse_ErrorOrdering(t *testing.T) {
	// Count is checked before unknown ids: two entries, one unknown.
	raw := `{"bullets": [{"id": "b1", "score": 0.5}, {"id": "nope", "score": 0.5}], "reasoning": "x"}`
	_, perr := Parse(raw, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeWrongBulletCount, perr.Code)

	// Unknown ids are checked before duplicates.
	raw = `{"bullets": [{"id": "nope", "score": 0.5}, {"id": "nope", "score": 0.5}, {"id": "b1", "score": 0.5}], "reasoning": "x"}`
	_, perr = Parse(raw, testOptions())
	require.NotNil(t, perr)
	assert.Equal(t, CodeInvalidBulletID, perr.Code)
}

func TestIsFormatCode(t *testing.T) {
	format := []ErrorCode{
		CodeNoJSONFound, CodeInvalidJSON, CodeMissingBulletIDs,
		CodeWrongBulletCount, CodeInvalidBulletID, CodeDuplicateBulletID,
		CodeMissingReasoning, CodeInvalidScore, CodeProviderError,
	}
	for _, code := range format {
		assert.True(t, IsFormatCode(code), string(code))
	}
	assert.False(t, IsFormatCode(CodeProviderDown))
	assert.False(t, IsFormatCode(CodeInvalidSalary))
}

func TestUserMessage(t *testing.T) {
	assert.NotEmpty(t, UserMessage(CodeProviderDown))
	// Unknown codes still produce something presentable.
	assert.NotEmpty(t, UserMessage(ErrorCode("BOGUS")))
}
