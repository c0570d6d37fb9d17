package openai_tools

import (
	"fmt"
	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

const fallbackEncoding = "cl100k_base"

const (
	tokensPerMessage = 3
	tokensPerName    = 1
	tokensPerReply   = 3
	// imageTokens is the flat low-detail image cost.
	imageTokens = 85
)

// CountToken estimates the prompt size of messages for the given model.
func CountToken(messages []openai.ChatCompletionMessage, model string) (int, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("failed to get encoding for model %s: %w", model, err)
		}
	}

	count := tokensPerReply
	for _, message := range messages {
		count += tokensPerMessage
		count += len(encoding.Encode(message.Role, nil, nil))
		count += len(encoding.Encode(message.Content, nil, nil))
		for _, part := range message.MultiContent {
			switch part.Type {
			case openai.ChatMessagePartTypeText:
				count += len(encoding.Encode(part.Text, nil, nil))
			case openai.ChatMessagePartTypeImageURL:
				count += imageTokens
			}
		}
		if message.Name != "" {
			count += tokensPerName + len(encoding.Encode(message.Name, nil, nil))
		}
	}
	return count, nil
}
