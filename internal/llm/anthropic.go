package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/parse"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"

	defaultAnthropicModel     = "claude-sonnet-4-20250514"
	defaultAnthropicMaxTokens = 8192
)

// Anthropic selects bullets via the Anthropic Messages API. The SDK surface
// we need is small enough that a plain HTTP client suffices.
type Anthropic struct {
	apiKey string
	model  string
	http   *http.Client
	logger *zap.Logger
}

// NewAnthropic reads ANTHROPIC_API_KEY (and optional ANTHROPIC_MODEL) from
// the environment.
func NewAnthropic(logger *zap.Logger) *Anthropic {
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
		model:  model,
		http:   &http.Client{},
		logger: logger,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Available() bool { return a.apiKey != "" }

func (a *Anthropic) Select(ctx context.Context, req Request) (*parse.Result, *Usage, error) {
	return runSelection(ctx, req, a.logger, a.complete)
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (a *Anthropic) complete(ctx context.Context, system, user string) (string, *Usage, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     a.model,
		MaxTokens: defaultAnthropicMaxTokens,
		System:    system,
		Messages:  []anthropicMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", nil, a.wrap(0, fmt.Errorf("failed to encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", nil, a.wrap(0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", a.apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", nil, a.wrap(0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, a.wrap(resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		message := gjson.GetBytes(respBody, "error.message").String()
		if message == "" {
			message = string(respBody)
		}
		return "", nil, a.wrap(resp.StatusCode, fmt.Errorf("api error: %s", message))
	}

	text := gjson.GetBytes(respBody, `content.#(type=="text").text`).String()
	if text == "" {
		return "", nil, a.wrap(resp.StatusCode, fmt.Errorf("no text content in response"))
	}

	usage := &Usage{
		Model: gjson.GetBytes(respBody, "model").String(),
		TokensUsed: int(gjson.GetBytes(respBody, "usage.input_tokens").Int() +
			gjson.GetBytes(respBody, "usage.output_tokens").Int()),
	}
	if usage.Model == "" {
		usage.Model = a.model
	}
	return text, usage, nil
}

func (a *Anthropic) wrap(status int, err error) *ProviderError {
	return &ProviderError{Provider: a.Name(), StatusCode: status, Err: err}
}
