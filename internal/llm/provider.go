// Package llm adapts LLM providers behind a single selection interface.
// Providers turn a selection request into raw text and hand everything else
// to the parse package; they never retry internally, the pipeline owns retry
// and fallback policy.
package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/parse"
	"github.com/olliegilbey/resumate-sub000/internal/prompts"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// requestTimeout bounds a single model call.
const requestTimeout = 30 * time.Second

// Request is one selection attempt against a provider.
type Request struct {
	JobDescription string
	Compendium     *types.Compendium
	Config         types.SelectionConfig
	ValidIDs       map[string]struct{}
	MinBullets     int
	// RetryFeedback carries the previous attempt's error, appended to the
	// prompt so the model can correct itself. Nil on the first attempt.
	RetryFeedback *parse.ParseError
}

// Usage reports what a provider call consumed, for result metadata.
type Usage struct {
	Model      string
	TokensUsed int
}

// Provider is a single LLM backend capable of bullet selection.
type Provider interface {
	// Name identifies the provider ("gemini", "openai", "anthropic").
	Name() string
	// Available reports whether the provider is configured, without making
	// a network call.
	Available() bool
	// Select runs one selection attempt. Parse failures come back as
	// *parse.ParseError; transport and API failures as *ProviderError.
	Select(ctx context.Context, req Request) (*parse.Result, *Usage, error)
}

// completionFunc runs one raw model call and returns the response text.
type completionFunc func(ctx context.Context, system, user string) (string, *Usage, error)

// runSelection is the shared Select body: build the prompt, call the model
// under the request timeout, validate the output.
func runSelection(ctx context.Context, req Request, logger *zap.Logger, complete completionFunc) (*parse.Result, *Usage, error) {
	system, user, err := prompts.BuildSelectionPrompt(req.JobDescription, req.Compendium, req.Config, req.RetryFeedback)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build selection prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	text, usage, err := complete(callCtx, system, user)
	if err != nil {
		return nil, usage, err
	}

	result, perr := parse.Parse(text, parse.Options{
		ValidIDs:   req.ValidIDs,
		MinBullets: req.MinBullets,
		Logger:     logger,
	})
	if perr != nil {
		return nil, usage, perr
	}
	return result, usage, nil
}

// New builds a provider by name.
func New(name string, logger *zap.Logger) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini(logger), nil
	case "openai":
		return NewOpenAI(logger), nil
	case "anthropic":
		return NewAnthropic(logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (expected gemini, openai or anthropic)", name)
	}
}

// DefaultChain returns all providers in fallback order. Unconfigured
// providers are included; the pipeline skips them via Available.
func DefaultChain(logger *zap.Logger) []Provider {
	return []Provider{
		NewGemini(logger),
		NewOpenAI(logger),
		NewAnthropic(logger),
	}
}
