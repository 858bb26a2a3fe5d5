package llm

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"scriptforge/internal/common/config"
	commonerrors "scriptforge/internal/common/errors"
)

type openAIClient struct {
	client   openai.Client
	model    string
	settings Settings
}

func newOpenAIClient(cfg config.OpenAIConfig, settings Settings) *openAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIClient{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		settings: settings,
	}
}

func (c *openAIClient) Name() string { return "openai" }

func (c *openAIClient) Generate(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.settings.Timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserMessage),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(maxTokens(req, c.settings))),
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
		StopReason: choice.FinishReason,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}
