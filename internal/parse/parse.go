package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// invalidIDSample caps how many offending identifiers an error message
// enumerates.
const invalidIDSample = 5

// Result is a fully validated selection payload. Warnings carry non-fatal
// degradations (today: a discarded salary object) for caller visibility.
type Result struct {
	Bullets   []types.BulletScore
	Reasoning string
	JobTitle  string
	Salary    *types.SalaryInfo
	Warnings  []string
}

// Options configure one parse run.
type Options struct {
	// ValidIDs is the set of bullet identifiers that exist in the compendium.
	// Any identifier outside this set is a hard failure.
	ValidIDs map[string]struct{}
	// MinBullets is the minimum acceptable entry count.
	MinBullets int
	// Logger receives warnings for non-fatal degradations. Optional.
	Logger *zap.Logger
}

// envelope is the loose shape of the model's selection payload. Bullets and
// salary stay raw so each validation step owns its own error code.
type envelope struct {
	Bullets   json.RawMessage `json:"bullets"`
	Reasoning string          `json:"reasoning"`
	JobTitle  string          `json:"jobTitle"`
	Salary    json.RawMessage `json:"salary"`
}

type bulletEntry struct {
	ID    json.RawMessage `json:"id"`
	Score json.RawMessage `json:"score"`
}

// Parse validates raw model output against the selection contract. Checks
// run in a fixed order and the first failure determines the returned
// *ParseError, so error codes are reproducible for identical input.
func Parse(raw string, opts Options) (*Result, *ParseError) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. Locate a JSON object in the output.
	candidate, offset, found := extractJSON(raw)
	if !found {
		return nil, NewError(CodeNoJSONFound, "no JSON object found in model output (%d bytes)", len(raw))
	}

	// 2. Parse it.
	var env envelope
	if err := json.Unmarshal([]byte(candidate), &env); err != nil {
		perr := NewError(CodeInvalidJSON, "extracted text is not valid JSON: %v", err)
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			start, end, excerpt := excerptAround(candidate, int(syntaxErr.Offset))
			return nil, perr.WithSpan(offset+start, offset+end, excerpt)
		}
		start, end, excerpt := excerptAround(candidate, 0)
		return nil, perr.WithSpan(offset+start, offset+end, excerpt)
	}

	// 3. The bullets field must exist and be a list.
	if len(env.Bullets) == 0 || string(env.Bullets) == "null" {
		return nil, NewError(CodeMissingBulletIDs, "response has no \"bullets\" field")
	}
	var entries []bulletEntry
	if err := json.Unmarshal(env.Bullets, &entries); err != nil {
		return nil, NewError(CodeMissingBulletIDs, "\"bullets\" field is not an array of objects")
	}

	// 4. Every entry needs a string identifier.
	ids := make([]string, len(entries))
	for i, entry := range entries {
		var id string
		if err := json.Unmarshal(entry.ID, &id); err != nil || id == "" {
			return nil, NewError(CodeInvalidBulletID, "bullet entry %d has a missing or non-string id (%s)", i, strings.TrimSpace(string(entry.ID)))
		}
		ids[i] = id
	}

	// 5. Enough of them.
	if len(entries) < opts.MinBullets {
		return nil, NewError(CodeWrongBulletCount, "expected at least %d bullets, got %d", opts.MinBullets, len(entries))
	}

	// 6. All identifiers must exist in the compendium. Never silently drop.
	var unknown []string
	for _, id := range ids {
		if _, ok := opts.ValidIDs[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, NewError(CodeInvalidBulletID, "%d unknown bullet id(s): %s", len(unknown), sampleIDs(unknown))
	}

	// 7. No repeats.
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, NewError(CodeDuplicateBulletID, "bullet id %q appears more than once", id)
		}
		seen[id] = struct{}{}
	}

	// 8. Scores in [0.0, 1.0]. A missing score defaults to zero relevance.
	scored := make([]types.BulletScore, len(entries))
	for i, entry := range entries {
		score := 0.0
		if len(entry.Score) > 0 && string(entry.Score) != "null" {
			if err := json.Unmarshal(entry.Score, &score); err != nil {
				return nil, NewError(CodeInvalidScore, "bullet %q has a non-numeric score (%s)", ids[i], strings.TrimSpace(string(entry.Score)))
			}
		}
		if score < 0.0 || score > 1.0 {
			return nil, NewError(CodeInvalidScore, "bullet %q has score %v outside [0.0, 1.0]", ids[i], score)
		}
		scored[i] = types.BulletScore{BulletID: ids[i], Score: score}
	}

	// 9. Reasoning is load-bearing.
	reasoning := strings.TrimSpace(env.Reasoning)
	if reasoning == "" {
		return nil, NewError(CodeMissingReasoning, "response has no \"reasoning\" field or it is empty")
	}

	result := &Result{
		Bullets:   scored,
		Reasoning: reasoning,
		JobTitle:  strings.TrimSpace(env.JobTitle),
	}

	// 10. Salary is cosmetic: a bad salary object degrades to nil with a
	// warning instead of failing the parse.
	if salary, err := parseSalary(env.Salary); err != nil {
		logger.Warn("discarding invalid salary object from model output", zap.Error(err))
		result.Warnings = append(result.Warnings, fmt.Sprintf("salary discarded: %v", err))
	} else {
		result.Salary = salary
	}

	return result, nil
}

// parseSalary validates the optional salary object. A nil return with nil
// error means the field was simply absent.
func parseSalary(raw json.RawMessage) (*types.SalaryInfo, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var salary types.SalaryInfo
	if err := json.Unmarshal(raw, &salary); err != nil {
		return nil, NewError(CodeInvalidSalary, "salary object failed to parse: %v", err)
	}
	if strings.TrimSpace(salary.Currency) == "" {
		return nil, NewError(CodeInvalidSalary, "salary currency must be a non-empty string")
	}
	if !types.ValidSalaryPeriod(salary.Period) {
		return nil, NewError(CodeInvalidSalary, "salary period %q is not one of annual/monthly/weekly/daily/hourly", salary.Period)
	}
	return &salary, nil
}

func sampleIDs(ids []string) string {
	if len(ids) <= invalidIDSample {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:invalidIDSample], ", ") + fmt.Sprintf(", … (%d more)", len(ids)-invalidIDSample)
}
