// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/olliegilbey/resumate-sub000/internal/pipeline"
	"github.com/olliegilbey/resumate-sub000/internal/prompts"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSelection outputs a human-readable summary of a selection result.
func (p *Printer) PrintSelection(result *types.SelectionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selected %d bullets", len(result.Bullets)))
	if result.JobTitle != nil {
		sb.WriteString(fmt.Sprintf(" for %q", *result.JobTitle))
	}
	sb.WriteString("\n\n")

	count := min(len(result.Bullets), maxItemsToShow)
	lastCompany := ""
	for i := 0; i < count; i++ {
		bullet := result.Bullets[i]
		if bullet.CompanyName != lastCompany {
			sb.WriteString(fmt.Sprintf("%s (%s)\n", bullet.CompanyName, bullet.PositionName))
			lastCompany = bullet.CompanyName
		}
		text := bullet.Bullet.Description
		if len(text) > 46 {
			text = text[:43] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • [%.2f] %s\n", bullet.Score, text))
	}
	if len(result.Bullets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more bullets\n", len(result.Bullets)-maxItemsToShow))
	}

	if result.Salary != nil {
		sb.WriteString("\nSalary: ")
		sb.WriteString(formatSalary(result.Salary))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nProvider: %s", result.Metadata.Provider))
	if result.Metadata.Model != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", result.Metadata.Model))
	}
	sb.WriteString(fmt.Sprintf("\nAttempts: %d", result.Metadata.Attempts))
	if result.Metadata.TokensUsed > 0 {
		sb.WriteString(fmt.Sprintf("\nTokens:   %d", result.Metadata.TokensUsed))
	}
	for _, warning := range result.Metadata.Warnings {
		sb.WriteString(fmt.Sprintf("\n⚠ %s", warning))
	}

	p.printBox("SELECTION RESULT", sb.String())
}

// PrintBudget outputs how the rendered inventory relates to the context budget.
func (p *Printer) PrintBudget(report prompts.SizeReport) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Estimated tokens: %d\n", report.Tokens))
	sb.WriteString(fmt.Sprintf("Budget ceiling:   %d\n", report.Ceiling))
	switch {
	case report.Over:
		sb.WriteString("Status:           ✗ over budget")
	case report.Near:
		sb.WriteString("Status:           ⚠ near budget")
	default:
		sb.WriteString("Status:           ✓ within budget")
	}
	p.printBox("CONTEXT BUDGET", sb.String())
}

// PrintErrors outputs the attempt history of a failed selection run.
func (p *Printer) PrintErrors(selErr *pipeline.SelectionError) {
	if selErr == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Failed after %d attempt(s)\n\n", selErr.Attempts))
	for i, perr := range selErr.Errors {
		message := perr.Message
		if len(message) > 44 {
			message = message[:41] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ attempt %d: %s\n", i+1, perr.Code))
		sb.WriteString(fmt.Sprintf("  %s\n", message))
		if i < len(selErr.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SELECTION FAILURES", strings.TrimSuffix(sb.String(), "\n"))
}

func formatSalary(s *types.SalaryInfo) string {
	var parts []string
	if s.Min != nil && s.Max != nil {
		parts = append(parts, fmt.Sprintf("%.0f-%.0f", *s.Min, *s.Max))
	} else if s.Min != nil {
		parts = append(parts, fmt.Sprintf("from %.0f", *s.Min))
	} else if s.Max != nil {
		parts = append(parts, fmt.Sprintf("up to %.0f", *s.Max))
	}
	parts = append(parts, s.Currency, string(s.Period))
	return strings.Join(parts, " ")
}
