package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/olliegilbey/resumate-sub000/internal/parse"
)

const defaultGeminiModel = "gemini-1.5-pro"

// Gemini selects bullets via the Google Gemini API.
type Gemini struct {
	apiKey string
	model  string
	logger *zap.Logger
}

// NewGemini reads GEMINI_API_KEY (and optional GEMINI_MODEL) from the
// environment.
func NewGemini(logger *zap.Logger) *Gemini {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  model,
		logger: logger,
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Available() bool { return g.apiKey != "" }

func (g *Gemini) Select(ctx context.Context, req Request) (*parse.Result, *Usage, error) {
	return runSelection(ctx, req, g.logger, g.complete)
}

func (g *Gemini) complete(ctx context.Context, system, user string) (string, *Usage, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", nil, g.wrap(err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", nil, g.wrap(err)
	}

	text, err := geminiText(resp)
	if err != nil {
		return "", nil, g.wrap(err)
	}

	usage := &Usage{Model: g.model}
	if resp.UsageMetadata != nil {
		usage.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	return text, usage, nil
}

// wrap classifies a Gemini failure, pulling the HTTP status out of
// googleapi errors when present.
func (g *Gemini) wrap(err error) *ProviderError {
	perr := &ProviderError{Provider: g.Name(), Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		perr.StatusCode = apiErr.Code
	}
	return perr
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
