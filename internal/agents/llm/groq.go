package llm

import (
	"context"
	"errors"

	groq "github.com/conneroisu/groq-go"

	"scriptforge/internal/common/config"
	commonerrors "scriptforge/internal/common/errors"
)

var errEmptyChoices = errors.New("response contained no choices")

type groqClient struct {
	client   *groq.Client
	model    groq.ChatModel
	settings Settings
	initErr  error
}

func newGroqClient(cfg config.GroqConfig, settings Settings) *groqClient {
	client, err := groq.NewClient(cfg.APIKey)
	return &groqClient{
		client:   client,
		model:    groq.ChatModel(cfg.Model),
		settings: settings,
		initErr:  err,
	}
}

func (c *groqClient) Name() string { return "groq" }

func (c *groqClient) Generate(ctx context.Context, req Request) (*Result, error) {
	if c.initErr != nil {
		return nil, commonerrors.NewProviderCallError(c.Name(), c.initErr)
	}

	ctx, cancel := context.WithTimeout(ctx, c.settings.Timeout)
	defer cancel()

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: req.SystemPrompt},
			{Role: groq.RoleUser, Content: req.UserMessage},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   maxTokens(req, c.settings),
	})
	if err != nil {
		return nil, wrapCallError(ctx, c.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return nil, commonerrors.NewProviderCallError(c.Name(), errEmptyChoices)
	}

	choice := resp.Choices[0]
	return &Result{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func maxTokens(req Request, settings Settings) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return settings.MaxTokens
}
