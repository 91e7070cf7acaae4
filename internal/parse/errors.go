// Package parse converts raw model output text into a validated selection
// result. All model output is treated as untrusted text: nothing reaches the
// domain types without passing the full check sequence.
package parse

import "fmt"

// ErrorCode identifies one failure mode in the validation taxonomy.
type ErrorCode string

// The fixed error taxonomy. Format-class codes are recoverable by
// re-prompting the same provider with feedback; PROVIDER_DOWN is only
// recoverable by switching providers.
const (
	CodeNoJSONFound       ErrorCode = "NO_JSON_FOUND"
	CodeInvalidJSON       ErrorCode = "INVALID_JSON"
	CodeMissingBulletIDs  ErrorCode = "MISSING_BULLET_IDS"
	CodeWrongBulletCount  ErrorCode = "WRONG_BULLET_COUNT"
	CodeInvalidBulletID   ErrorCode = "INVALID_BULLET_ID"
	CodeDuplicateBulletID ErrorCode = "DUPLICATE_BULLET_ID"
	CodeMissingReasoning  ErrorCode = "MISSING_REASONING"
	CodeInvalidScore      ErrorCode = "INVALID_SCORE"
	CodeInvalidSalary     ErrorCode = "INVALID_SALARY"
	CodeProviderDown      ErrorCode = "PROVIDER_DOWN"
	CodeProviderError     ErrorCode = "PROVIDER_ERROR"
)

// Span pinpoints the offending region of the raw model output.
type Span struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Excerpt string `json:"excerpt"`
}

// ParseError is a single tagged validation failure. Immutable once built;
// Help carries remediation text fed back to the model on retry.
type ParseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Help    string    `json:"help"`
	Span    *Span     `json:"span,omitempty"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a ParseError with the canonical help text for its code.
func NewError(code ErrorCode, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Help:    helpTexts[code],
	}
}

// WithSpan returns a copy of the error annotated with an offending span.
func (e *ParseError) WithSpan(start, end int, excerpt string) *ParseError {
	clone := *e
	clone.Span = &Span{Start: start, End: end, Excerpt: excerpt}
	return &clone
}

// IsFormatCode reports whether a code belongs to the format class, i.e. the
// failure is worth retrying against the same provider with feedback.
func IsFormatCode(code ErrorCode) bool {
	switch code {
	case CodeNoJSONFound, CodeInvalidJSON, CodeMissingBulletIDs,
		CodeWrongBulletCount, CodeInvalidBulletID, CodeDuplicateBulletID,
		CodeMissingReasoning, CodeInvalidScore, CodeProviderError:
		return true
	}
	return false
}

// UserMessage maps an error code to one concise, non-technical sentence for
// end users. Operator diagnostics use the full error history instead.
func UserMessage(code ErrorCode) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return "Something went wrong while tailoring the selection. Please try again."
}

var userMessages = map[ErrorCode]string{
	CodeNoJSONFound:       "The assistant returned an unreadable answer. Please try again.",
	CodeInvalidJSON:       "The assistant returned an unreadable answer. Please try again.",
	CodeMissingBulletIDs:  "The assistant's answer was incomplete. Please try again.",
	CodeWrongBulletCount:  "The assistant selected too few achievements. Please try again.",
	CodeInvalidBulletID:   "The assistant referenced achievements that don't exist. Please try again.",
	CodeDuplicateBulletID: "The assistant repeated itself. Please try again.",
	CodeMissingReasoning:  "The assistant didn't explain its selection. Please try again.",
	CodeInvalidScore:      "The assistant produced invalid relevance scores. Please try again.",
	CodeProviderDown:      "The selection service is temporarily unavailable. Please try again later.",
	CodeProviderError:     "The selection service hit an unexpected problem. Please try again.",
}

// helpTexts hold the remediation text fed back to the model when an attempt
// is retried. Written for the model, not the user.
var helpTexts = map[ErrorCode]string{
	CodeNoJSONFound: "Your response did not contain a JSON object. Respond with a single JSON object, " +
		"optionally inside a ```json fenced code block, and no other prose outside it.",
	CodeInvalidJSON: "Your response contained text that looked like JSON but failed to parse. " +
		"Check for trailing commas, unbalanced braces, and unquoted keys, then resend the full object.",
	CodeMissingBulletIDs: "The JSON object must contain a \"bullets\" field whose value is an array of " +
		"{\"id\": string, \"score\": number} entries.",
	CodeWrongBulletCount: "You returned fewer bullet entries than the requested minimum. Select more bullets " +
		"from the provided inventory; it is fine to include moderately relevant ones with lower scores.",
	CodeInvalidBulletID: "Every \"id\" must be a string copied verbatim from the bullet inventory in the prompt. " +
		"Do not invent, abbreviate, or reformat identifiers.",
	CodeDuplicateBulletID: "Each bullet id may appear at most once in the \"bullets\" array. Remove the duplicates " +
		"and replace them with different bullets from the inventory.",
	CodeMissingReasoning: "Include a non-empty \"reasoning\" field: a short paragraph explaining why the selected " +
		"bullets fit the job description.",
	CodeInvalidScore: "Every \"score\" must be a number between 0.0 and 1.0 inclusive, where 1.0 means " +
		"maximally relevant to the job description.",
	CodeInvalidSalary: "If you include a \"salary\" object it needs a non-empty \"currency\" string, a \"period\" of " +
		"annual, monthly, weekly, daily or hourly, and numeric \"min\"/\"max\" if present.",
	CodeProviderError: "The previous attempt failed for an unexpected reason. Respond again with a single valid " +
		"JSON object matching the requested format.",
}
