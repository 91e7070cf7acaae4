package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/parse"
)

const defaultOpenAIModel = openai.GPT4o

// OpenAI selects bullets via the OpenAI chat completions API.
type OpenAI struct {
	apiKey string
	model  string
	logger *zap.Logger
}

// NewOpenAI reads OPENAI_API_KEY (and optional OPENAI_MODEL) from the
// environment.
func NewOpenAI(logger *zap.Logger) *OpenAI {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  model,
		logger: logger,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Available() bool { return o.apiKey != "" }

func (o *OpenAI) Select(ctx context.Context, req Request) (*parse.Result, *Usage, error) {
	return runSelection(ctx, req, o.logger, o.complete)
}

func (o *OpenAI) complete(ctx context.Context, system, user string) (string, *Usage, error) {
	client := openai.NewClient(o.apiKey)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", nil, o.wrap(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, o.wrap(fmt.Errorf("no choices in response"))
	}

	usage := &Usage{Model: resp.Model, TokensUsed: resp.Usage.TotalTokens}
	return resp.Choices[0].Message.Content, usage, nil
}

func (o *OpenAI) wrap(err error) *ProviderError {
	perr := &ProviderError{Provider: o.Name(), Err: err}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		perr.StatusCode = apiErr.HTTPStatusCode
	}
	return perr
}
