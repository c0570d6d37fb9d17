package usecase

import (
	"encoding/base64"
	"fmt"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/sashabaranov/go-openai"
	"net/http"
	"strings"
)

type PromptUsecase struct {
	vocabulary model.Vocabulary
}

func NewPromptUsecase(vocabulary model.Vocabulary) *PromptUsecase {
	return &PromptUsecase{
		vocabulary: vocabulary,
	}
}

func (p *PromptUsecase) SystemInstruction(vehicle string) string {
	instruction := p.vocabulary.SystemPrompt
	if vehicle != "" && vehicle != p.vocabulary.GenericVehicle && p.vocabulary.VehicleClause != "" {
		instruction += fmt.Sprintf(p.vocabulary.VehicleClause, vehicle)
	}
	return instruction
}

// Build returns the system instruction followed by every non-welcome message in order.
func (p *PromptUsecase) Build(session model.Session, vehicle string) ([]openai.ChatCompletionMessage, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(session.Messages))
	messages = append(
		messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.SystemInstruction(vehicle),
		},
	)
	for _, msg := range session.Messages {
		if msg.IsWelcome() {
			continue
		}
		if msg.Attachment == nil {
			messages = append(
				messages, openai.ChatCompletionMessage{
					Role:    parseMessageRole(msg.Role),
					Content: msg.Content,
				},
			)
			continue
		}
		dataURI, err := encodeAttachment(*msg.Attachment)
		if err != nil {
			return nil, fmt.Errorf("failed to encode attachment of message %s: %w", msg.ID, err)
		}
		messages = append(
			messages, openai.ChatCompletionMessage{
				Role: parseMessageRole(msg.Role),
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: msg.Content,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURI,
						},
					},
				},
			},
		)
	}
	return messages, nil
}

func encodeAttachment(attachment model.Attachment) (string, error) {
	if len(attachment.Data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", model.ErrAttachmentUnreadable, attachment.Name)
	}
	mimeType := attachment.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(attachment.Data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s is %s, not an image", model.ErrAttachmentUnreadable, attachment.Name, mimeType)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(attachment.Data)), nil
}

func parseMessageRole(role model.MessageRole) string {
	switch role {
	case model.MessageRoleAssistant:
		return openai.ChatMessageRoleAssistant
	case model.MessageRoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
