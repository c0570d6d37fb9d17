package usecase

import (
	"context"
	"errors"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	in_memory "github.com/iamvkosarev/repair-chat-bot/internal/storage/in-memory"
	"github.com/iamvkosarev/repair-chat-bot/internal/vocabulary"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"sync"
	"testing"
)

const testCredential = "sk-test"

var errModelDown = errors.New("model is down")

type fakeModel struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastCall []openai.ChatCompletionMessage
	// block, when set, holds Complete until it is closed.
	block chan struct{}
	// started is signalled once Complete is entered.
	started chan struct{}
}

func (f *fakeModel) Complete(
	_ context.Context,
	credential string,
	messages []openai.ChatCompletionMessage,
) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCall = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakePicker struct {
	requests int
}

func (p *fakePicker) RequestAttachment(_ context.Context) error {
	p.requests++
	return nil
}

func newTestVocabulary(t *testing.T) model.Vocabulary {
	t.Helper()
	vocab, err := vocabulary.Load(vocabulary.Bike)
	if err != nil {
		t.Fatalf("failed to load vocabulary: %v", err)
	}
	return vocab
}

func newTestLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

type testChat struct {
	chat         *ChatSessionUsecase
	conversation *ConversationUsecase
	settings     *SettingsUsecase
	model        *fakeModel
	picker       *fakePicker
	storage      KeyValueStorage
}

func newTestChat(t *testing.T, credential string) testChat {
	t.Helper()
	ctx := context.Background()
	vocab := newTestVocabulary(t)
	storage := in_memory.NewKVStorage()
	logger := newTestLogger()

	settings := NewSettingsUsecase(ctx, SettingsUsecaseDeps{Storage: storage, Logger: logger}, "test", vocab, credential)
	conversation := NewConversationUsecase(
		ctx, ConversationUsecaseDeps{Storage: storage, Logger: logger}, "test", vocab.Welcome,
	)
	fake := &fakeModel{reply: "Check the chain tension."}
	picker := &fakePicker{}
	chat := NewChatSessionUsecase(
		ChatSessionUsecaseDeps{
			Conversation: conversation,
			Settings:     settings,
			Prompt:       NewPromptUsecase(vocab),
			Model:        fake,
			Picker:       picker,
			Logger:       logger,
		}, "gpt-4o",
	)
	return testChat{
		chat:         chat,
		conversation: conversation,
		settings:     settings,
		model:        fake,
		picker:       picker,
		storage:      storage,
	}
}
