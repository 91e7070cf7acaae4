// Package pipeline orchestrates selection runs: provider fallback, per
// provider retries with feedback, and assembly of the final result.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/llm"
	"github.com/olliegilbey/resumate-sub000/internal/parse"
	"github.com/olliegilbey/resumate-sub000/internal/prompts"
	"github.com/olliegilbey/resumate-sub000/internal/scoring"
	"github.com/olliegilbey/resumate-sub000/internal/selection"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// DefaultMaxRetries is the per-provider retry budget for format errors.
const DefaultMaxRetries = 3

// Options tune orchestrator behavior.
type Options struct {
	// MaxRetries is the number of attempts per provider for recoverable
	// format errors. Zero means DefaultMaxRetries.
	MaxRetries int
	// DisableFallback stops the run after the first provider instead of
	// moving down the chain.
	DisableFallback bool
}

// Orchestrator drives selection runs across a provider chain.
type Orchestrator struct {
	providers  []llm.Provider
	maxRetries int
	fallback   bool
	logger     *zap.Logger
}

// NewOrchestrator builds an orchestrator over providers, tried in order.
func NewOrchestrator(providers []llm.Provider, opts Options, logger *zap.Logger) *Orchestrator {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Orchestrator{
		providers:  providers,
		maxRetries: maxRetries,
		fallback:   !opts.DisableFallback,
		logger:     logger,
	}
}

// Prefer returns an orchestrator whose chain starts with the named provider.
// The remaining providers keep their relative order. Unknown names leave the
// chain untouched.
func (o *Orchestrator) Prefer(name string) *Orchestrator {
	reordered := make([]llm.Provider, 0, len(o.providers))
	var rest []llm.Provider
	for _, p := range o.providers {
		if p.Name() == name {
			reordered = append(reordered, p)
		} else {
			rest = append(rest, p)
		}
	}
	if len(reordered) == 0 {
		return o
	}
	clone := *o
	clone.providers = append(reordered, rest...)
	return &clone
}

// Select runs the AI selection pipeline: prompt each available provider in
// turn, retrying format errors against the same provider with feedback and
// skipping to the next provider when one is down. Returns *SelectionError
// when every option is exhausted.
func (o *Orchestrator) Select(ctx context.Context, jobDescription string, comp *types.Compendium, cfg types.SelectionConfig) (*types.SelectionResult, error) {
	idx := compendium.NewIndex(comp)

	var warnings []string
	report := prompts.CheckInventorySize(prompts.RenderInventory(comp))
	if report.Over {
		return nil, fmt.Errorf("experience inventory is too large for the context budget (%d tokens, ceiling %d)", report.Tokens, report.Ceiling)
	}
	if report.Near {
		o.logger.Warn("experience inventory is close to the context budget",
			zap.Int("tokens", report.Tokens),
			zap.Int("ceiling", report.Ceiling))
		warnings = append(warnings, fmt.Sprintf("inventory uses %d of %d budgeted tokens", report.Tokens, report.Ceiling))
	}

	req := llm.Request{
		JobDescription: jobDescription,
		Compendium:     comp,
		Config:         cfg,
		ValidIDs:       idx.ValidIDs,
		MinBullets:     prompts.MinBulletCount(cfg),
	}

	attempts := 0
	var history []*parse.ParseError
	lastProvider := ""

	for _, provider := range o.providers {
		if !provider.Available() {
			o.logger.Debug("skipping unconfigured provider", zap.String("provider", provider.Name()))
			// With fallback off, an unconfigured provider ends the run.
			if !o.fallback {
				break
			}
			continue
		}
		lastProvider = provider.Name()
		req.RetryFeedback = nil

		for retry := 0; retry < o.maxRetries; retry++ {
			attempts++
			result, usage, err := provider.Select(ctx, req)
			if err == nil {
				return o.assemble(result, usage, idx, cfg, provider.Name(), attempts, warnings)
			}

			perr := classify(provider.Name(), err)
			history = append(history, perr)
			o.logger.Warn("selection attempt failed",
				zap.String("provider", provider.Name()),
				zap.Int("attempt", attempts),
				zap.String("code", string(perr.Code)),
				zap.String("message", perr.Message))

			if perr.Code == parse.CodeProviderDown {
				// Re-prompting a down provider wastes the retry budget.
				break
			}
			req.RetryFeedback = perr
		}

		if !o.fallback {
			break
		}
	}

	if lastProvider == "" {
		return nil, &SelectionError{
			Message:  "no providers are configured",
			Attempts: attempts,
			Errors:   history,
		}
	}
	return nil, &SelectionError{
		Message:  "selection failed",
		Provider: lastProvider,
		Attempts: attempts,
		Errors:   history,
	}
}

// SelectHeuristic runs the deterministic scoring path: no providers, no
// network, same diversity filtering and result shape as the AI path.
func (o *Orchestrator) SelectHeuristic(ctx context.Context, comp *types.Compendium, profile *types.RoleProfile, cfg types.SelectionConfig) (*types.SelectionResult, error) {
	idx := compendium.NewIndex(comp)

	var warnings []string
	normalized, note := profile.ScoringWeights.Normalize()
	if note != "" {
		o.logger.Warn("adjusted role profile scoring weights", zap.String("profile", profile.ID), zap.String("note", note))
		warnings = append(warnings, note)
	}
	scoringProfile := *profile
	scoringProfile.ScoringWeights = normalized

	scored, err := scoring.ScoreCompendium(ctx, comp, &scoringProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to score compendium: %w", err)
	}

	selected := selection.Select(scored, idx, cfg)
	bullets, err := selection.Materialize(selected, idx)
	if err != nil {
		return nil, err
	}
	selection.Arrange(bullets, idx)

	return &types.SelectionResult{
		Bullets:   bullets,
		Reasoning: fmt.Sprintf("Deterministic selection using the %q role profile: bullets ranked by tag relevance and priority within their company and position context.", profile.Name),
		Metadata: types.SelectionMetadata{
			RequestID: uuid.New(),
			Provider:  "heuristic",
			Attempts:  1,
			Warnings:  warnings,
		},
	}, nil
}

// assemble turns a validated parse result into the final SelectionResult:
// diversity filtering, materialization, presentation ordering, metadata.
func (o *Orchestrator) assemble(result *parse.Result, usage *llm.Usage, idx *compendium.Index, cfg types.SelectionConfig, providerName string, attempts int, warnings []string) (*types.SelectionResult, error) {
	selected := selection.Select(result.Bullets, idx, cfg)
	bullets, err := selection.Materialize(selected, idx)
	if err != nil {
		return nil, err
	}
	selection.Arrange(bullets, idx)

	out := &types.SelectionResult{
		Bullets:   bullets,
		Reasoning: result.Reasoning,
		Salary:    result.Salary,
		Metadata: types.SelectionMetadata{
			RequestID: uuid.New(),
			Provider:  providerName,
			Attempts:  attempts,
			Warnings:  append(warnings, result.Warnings...),
		},
	}
	if result.JobTitle != "" {
		out.JobTitle = &result.JobTitle
	}
	if usage != nil {
		out.Metadata.Model = usage.Model
		out.Metadata.TokensUsed = usage.TokensUsed
	}
	return out, nil
}

// classify normalizes any provider failure into a tagged ParseError.
func classify(providerName string, err error) *parse.ParseError {
	var perr *parse.ParseError
	if errors.As(err, &perr) {
		return perr
	}
	if llm.IsProviderDown(err) {
		return parse.NewError(parse.CodeProviderDown, "provider %s is unavailable: %v", providerName, err)
	}
	return parse.NewError(parse.CodeProviderError, "provider %s failed: %v", providerName, err)
}
