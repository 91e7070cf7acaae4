package pipeline

import (
	"fmt"
	"strings"

	"github.com/olliegilbey/resumate-sub000/internal/parse"
)

// SelectionError is the terminal failure of a selection run: every provider
// and retry has been exhausted. It keeps the full per-attempt error history
// so operators can see exactly what each attempt produced.
type SelectionError struct {
	Message  string
	Provider string
	Attempts int
	Errors   []*parse.ParseError
}

// Error is the concise form, suitable for API responses and user-facing
// output. The last error's code drives the user message.
func (e *SelectionError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	last := e.Errors[len(e.Errors)-1]
	return fmt.Sprintf("%s after %d attempt(s): %s", e.Message, e.Attempts, parse.UserMessage(last.Code))
}

// Verbose renders the full attempt history for operators: one block per
// attempt with code, message, and offending span when available.
func (e *SelectionError) Verbose() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (provider %s, %d attempt(s))\n", e.Message, e.Provider, e.Attempts)
	for i, perr := range e.Errors {
		fmt.Fprintf(&b, "  attempt %d: [%s] %s\n", i+1, perr.Code, perr.Message)
		if perr.Span != nil {
			fmt.Fprintf(&b, "    at bytes %d-%d: %q\n", perr.Span.Start, perr.Span.End, perr.Span.Excerpt)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
