package prompts

// DefaultContextBudget is a conservative common denominator across the
// supported providers' context windows, in tokens.
const DefaultContextBudget = 128000

// inventoryShare caps how much of the context budget the rendered inventory
// may consume, leaving headroom for the job description, instructions, and
// the model's own response.
const inventoryShare = 0.6

// nearThreshold marks a report as Near when usage crosses this fraction of
// the ceiling.
const nearThreshold = 0.8

// SizeReport describes how a prompt relates to the context budget.
type SizeReport struct {
	Tokens  int  // estimated token count
	Ceiling int  // maximum allowed tokens
	Near    bool // above 80% of the ceiling
	Over    bool // above the ceiling
}

// EstimateTokens approximates the token count of text as one token per four
// bytes, rounded up. Crude but provider-agnostic, and accurate enough for
// budget checks with a margin built into the ceiling.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// CheckInventorySize reports whether a rendered inventory fits inside its
// share of the context budget. Callers warn on Near and refuse on Over.
func CheckInventorySize(inventory string) SizeReport {
	tokens := EstimateTokens(inventory)
	ceiling := int(float64(DefaultContextBudget) * inventoryShare)
	return SizeReport{
		Tokens:  tokens,
		Ceiling: ceiling,
		Near:    tokens > int(float64(ceiling)*nearThreshold),
		Over:    tokens > ceiling,
	}
}
