package usecase

import (
	"context"
	in_memory "github.com/iamvkosarev/repair-chat-bot/internal/storage/in-memory"
	"testing"
)

func TestWorkspaceUsecase_Get(t *testing.T) {
	ctx := context.Background()
	vocab := newTestVocabulary(t)
	storage := in_memory.NewKVStorage()
	w := NewWorkspaceUsecase(
		WorkspaceUsecaseDeps{
			Storage: storage,
			Prompt:  NewPromptUsecase(vocab),
			Model:   &fakeModel{reply: "ok"},
			Logger:  newTestLogger(),
		}, vocab, "", "gpt-4o",
	)

	first := w.Get(ctx, "tg_1", nil)
	if first != w.Get(ctx, "tg_1", nil) {
		t.Fatal("expected the same workspace for the same owner")
	}
	second := w.Get(ctx, "tg_2", nil)
	if first == second {
		t.Fatal("expected separate workspaces per owner")
	}

	if err := first.Settings.SetCredential(ctx, "sk-one"); err != nil {
		t.Fatal(err)
	}
	if second.Settings.HasCredential() {
		t.Fatal("credentials must not leak between owners")
	}
	if _, err := first.Chat.SendUserTurn(ctx, "hello", nil); err != nil {
		t.Fatal(err)
	}
	if err := first.Chat.StartNew(ctx); err != nil {
		t.Fatal(err)
	}
	if len(second.Conversation.Archive()) != 0 {
		t.Fatal("archives must not leak between owners")
	}

	restarted := NewWorkspaceUsecase(w.WorkspaceUsecaseDeps, vocab, "", "gpt-4o")
	restored := restarted.Get(ctx, "tg_1", nil)
	if restored.Settings.Credential() != "sk-one" || len(restored.Conversation.Archive()) != 1 {
		t.Fatal("expected the owner's settings and archive to be restored from storage")
	}
}
