package usecase

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"strings"
	"sync"
)

const (
	MessageFailureNotice   = "Sorry, I encountered an error while processing your request. Please check your API key and try again."
	MessageRepairWorked    = "✅ That solution worked! Thank you for the help."
	MessageRepairDidntHelp = "🔁 That didn't help. Can you show me the next step or suggest an alternative solution?"
	MessageAnalyzeImage    = "Please analyze this image"
)

const continueTroubleshootingFormat = "🔁 Continue troubleshooting: %s"

type SessionState int32

const (
	StateIdle = SessionState(iota)
	StateAwaitingResponse
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "idle"
	}
}

type RepairAction string

const (
	RepairActionWorked    = RepairAction("worked")
	RepairActionDidntHelp = RepairAction("didnt-help")
	RepairActionSendPhoto = RepairAction("send-photo")
)

func ParseRepairAction(s string) (RepairAction, error) {
	switch action := RepairAction(s); action {
	case RepairActionWorked, RepairActionDidntHelp, RepairActionSendPhoto:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %s", model.ErrUnknownRepairAction, s)
	}
}

type ModelClient interface {
	Complete(ctx context.Context, credential string, messages []openai.ChatCompletionMessage) (string, error)
}

// AttachmentPicker asks the user for a photo. The photo arrives later as a new turn.
type AttachmentPicker interface {
	RequestAttachment(ctx context.Context) error
}

type TokenCounter func(messages []openai.ChatCompletionMessage, model string) (int, error)

type ChatSessionUsecaseDeps struct {
	Conversation *ConversationUsecase
	Settings     *SettingsUsecase
	Prompt       *PromptUsecase
	Model        ModelClient
	Picker       AttachmentPicker
	CountTokens  TokenCounter
	Logger       logrus.FieldLogger
}

type ChatSessionUsecase struct {
	ChatSessionUsecaseDeps
	modelName string

	mu               sync.Mutex
	state            SessionState
	lastPromptTokens int
}

func NewChatSessionUsecase(deps ChatSessionUsecaseDeps, modelName string) *ChatSessionUsecase {
	return &ChatSessionUsecase{
		ChatSessionUsecaseDeps: deps,
		modelName:              modelName,
	}
}

func (c *ChatSessionUsecase) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ChatSessionUsecase) LastPromptTokens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPromptTokens
}

// SendUserTurn appends the user message, asks the model and appends exactly one assistant
// message: the reply, or MessageFailureNotice when anything after the append fails.
// Guard failures return an error and leave the session untouched.
func (c *ChatSessionUsecase) SendUserTurn(
	ctx context.Context,
	text string,
	attachment *model.Attachment,
) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		if attachment == nil {
			return model.Message{}, model.ErrEmptyTurn
		}
		text = MessageAnalyzeImage
	}
	if !c.Settings.HasCredential() {
		return model.Message{}, model.ErrMissingCredential
	}
	if attachment != nil {
		if err := model.CheckAttachmentSize(int64(len(attachment.Data))); err != nil {
			return model.Message{}, err
		}
	}
	if !c.begin() {
		return model.Message{}, model.ErrRequestInFlight
	}
	defer c.finish()

	session := c.Conversation.Active()
	userMsg := model.NewMessage(model.MessageRoleUser, text, attachment)
	if err := c.Conversation.Append(session.ID, userMsg); err != nil {
		return model.Message{}, fmt.Errorf("failed to append user message: %w", err)
	}
	session.Messages = append(session.Messages, userMsg)

	log := c.Logger.WithField("session_id", session.ID.String())
	reply, err := c.complete(ctx, session)
	if err != nil {
		log.WithError(err).Error("failed to get model reply")
		reply = MessageFailureNotice
	}

	assistantMsg := model.NewMessage(model.MessageRoleAssistant, reply, nil)
	if err = c.Conversation.Append(session.ID, assistantMsg); err != nil {
		return model.Message{}, fmt.Errorf("failed to append assistant message: %w", err)
	}
	return assistantMsg, nil
}

// Repair runs a repair-flow quick action on an assistant reply of the active session.
func (c *ChatSessionUsecase) Repair(ctx context.Context, messageID string, action RepairAction) (model.Message, error) {
	msg, ok := c.Conversation.Active().FindMessage(messageID)
	if !ok || msg.IsWelcome() || msg.Role != model.MessageRoleAssistant {
		return model.Message{}, fmt.Errorf("%w: %s", model.ErrRepairNotApplicable, messageID)
	}
	switch action {
	case RepairActionWorked:
		return c.SendUserTurn(ctx, MessageRepairWorked, nil)
	case RepairActionDidntHelp:
		return c.SendUserTurn(ctx, MessageRepairDidntHelp, nil)
	case RepairActionSendPhoto:
		if c.Picker == nil {
			return model.Message{}, nil
		}
		if err := c.Picker.RequestAttachment(ctx); err != nil {
			return model.Message{}, fmt.Errorf("failed to request attachment: %w", err)
		}
		return model.Message{}, nil
	default:
		return model.Message{}, fmt.Errorf("%w: %s", model.ErrUnknownRepairAction, action)
	}
}

// StartNew and Load refuse to swap the active session under an in-flight request.
func (c *ChatSessionUsecase) StartNew(ctx context.Context) error {
	if !c.begin() {
		return model.ErrRequestInFlight
	}
	defer c.finish()
	return c.Conversation.StartNew(ctx)
}

func (c *ChatSessionUsecase) Load(ctx context.Context, sessionID uuid.UUID) error {
	if !c.begin() {
		return model.ErrRequestInFlight
	}
	defer c.finish()
	return c.Conversation.Load(ctx, sessionID)
}

func (c *ChatSessionUsecase) ContinueTroubleshooting(ctx context.Context, problem string) (model.Message, error) {
	return c.SendUserTurn(ctx, fmt.Sprintf(continueTroubleshootingFormat, problem), nil)
}

func (c *ChatSessionUsecase) SendLookupToChat(ctx context.Context, record model.ErrorRecord) (model.Message, error) {
	return c.SendUserTurn(ctx, LookupToChatText(record), nil)
}

func (c *ChatSessionUsecase) complete(ctx context.Context, session model.Session) (string, error) {
	messages, err := c.Prompt.Build(session, c.Settings.VehicleProfile())
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	if c.CountTokens != nil {
		tokens, err := c.CountTokens(messages, c.modelName)
		if err != nil {
			c.Logger.WithError(err).Debug("failed to count prompt tokens")
		} else {
			c.mu.Lock()
			c.lastPromptTokens = tokens
			c.mu.Unlock()
			c.Logger.WithField("session_id", session.ID.String()).Debugf("prompt has %d tokens", tokens)
		}
	}
	return c.Model.Complete(ctx, c.Settings.Credential(), messages)
}

func (c *ChatSessionUsecase) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAwaitingResponse {
		return false
	}
	c.state = StateAwaitingResponse
	return true
}

func (c *ChatSessionUsecase) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
}
