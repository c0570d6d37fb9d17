package usecase

import (
	"context"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/sirupsen/logrus"
	"sync"
)

// Workspace bundles everything one owner (a Telegram chat or the local web user) talks to.
type Workspace struct {
	Owner        string
	Conversation *ConversationUsecase
	Settings     *SettingsUsecase
	Chat         *ChatSessionUsecase
}

type WorkspaceUsecaseDeps struct {
	Storage     KeyValueStorage
	Prompt      *PromptUsecase
	Model       ModelClient
	CountTokens TokenCounter
	Logger      logrus.FieldLogger
}

type WorkspaceUsecase struct {
	WorkspaceUsecaseDeps
	vocabulary        model.Vocabulary
	defaultCredential string
	modelName         string

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewWorkspaceUsecase(
	deps WorkspaceUsecaseDeps,
	vocabulary model.Vocabulary,
	defaultCredential string,
	modelName string,
) *WorkspaceUsecase {
	return &WorkspaceUsecase{
		WorkspaceUsecaseDeps: deps,
		vocabulary:           vocabulary,
		defaultCredential:    defaultCredential,
		modelName:            modelName,
		workspaces:           make(map[string]*Workspace),
	}
}

// Get returns the owner's workspace, restoring it from storage on first use.
// The picker is bound only when the workspace is created.
func (w *WorkspaceUsecase) Get(ctx context.Context, owner string, picker AttachmentPicker) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	if workspace, ok := w.workspaces[owner]; ok {
		return workspace
	}

	log := w.Logger.WithField("owner", owner)
	settings := NewSettingsUsecase(
		ctx, SettingsUsecaseDeps{
			Storage: w.Storage,
			Logger:  log,
		}, owner, w.vocabulary, w.defaultCredential,
	)
	conversation := NewConversationUsecase(
		ctx, ConversationUsecaseDeps{
			Storage: w.Storage,
			Logger:  log,
		}, owner, w.vocabulary.Welcome,
	)
	chat := NewChatSessionUsecase(
		ChatSessionUsecaseDeps{
			Conversation: conversation,
			Settings:     settings,
			Prompt:       w.Prompt,
			Model:        w.Model,
			Picker:       picker,
			CountTokens:  w.CountTokens,
			Logger:       log,
		}, w.modelName,
	)
	workspace := &Workspace{
		Owner:        owner,
		Conversation: conversation,
		Settings:     settings,
		Chat:         chat,
	}
	w.workspaces[owner] = workspace
	log.Info("workspace restored")
	return workspace
}
