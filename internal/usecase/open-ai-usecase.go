package usecase

import (
	"context"
	"errors"
	"fmt"
	"github.com/iamvkosarev/repair-chat-bot/config"
	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("completion has no choices")

type OpenAIUsecase struct {
	cfg config.OpenAI
}

func NewOpenAIUsecase(cfg config.OpenAI) *OpenAIUsecase {
	return &OpenAIUsecase{
		cfg: cfg,
	}
}

func (o *OpenAIUsecase) Model() string {
	return o.cfg.OpenAIModel
}

// Complete sends one non-streaming chat completion and returns the reply text.
func (o *OpenAIUsecase) Complete(
	ctx context.Context,
	credential string,
	messages []openai.ChatCompletionMessage,
) (string, error) {
	clientConfig := openai.DefaultConfig(credential)
	clientConfig.BaseURL = o.cfg.OpenAIBaseURL
	c := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model:       o.cfg.OpenAIModel,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.ModelTemperature,
		Messages:    messages,
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
