package usecase

import (
	"context"
	"errors"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/sashabaranov/go-openai"
	"strings"
	"testing"
)

func TestChatSessionUsecase_SendUserTurn(t *testing.T) {
	tc := newTestChat(t, testCredential)

	reply, err := tc.chat.SendUserTurn(context.Background(), "  My chain skips  ", nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Role != model.MessageRoleAssistant || reply.Content != "Check the chain tension." {
		t.Fatalf("unexpected reply %+v", reply)
	}

	messages := tc.conversation.Active().Messages
	if len(messages) != 3 {
		t.Fatalf("expected welcome, user and assistant, got %d messages", len(messages))
	}
	if messages[1].Role != model.MessageRoleUser || messages[1].Content != "My chain skips" {
		t.Fatalf("unexpected user message %+v", messages[1])
	}
	if messages[2].ID != reply.ID {
		t.Fatal("returned reply must be the appended assistant message")
	}
	if tc.chat.State() != StateIdle {
		t.Fatalf("expected idle, got %s", tc.chat.State())
	}
	if len(tc.model.lastCall) != 2 || tc.model.lastCall[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system + user turn, got %+v", tc.model.lastCall)
	}
}

func TestChatSessionUsecase_SendUserTurnUsesVehicleProfile(t *testing.T) {
	tests := []struct {
		name       string
		vehicle    string
		wantClause bool
	}{
		{name: "generic vehicle", vehicle: "Other/Generic", wantClause: false},
		{name: "named model", vehicle: "Trek Verve+", wantClause: true},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				tc := newTestChat(t, testCredential)
				if err := tc.settings.SetVehicleProfile(context.Background(), tt.vehicle); err != nil {
					t.Fatal(err)
				}
				if _, err := tc.chat.SendUserTurn(context.Background(), "My battery won't charge", nil); err != nil {
					t.Fatal(err)
				}

				system := tc.model.lastCall[0]
				if system.Role != openai.ChatMessageRoleSystem {
					t.Fatalf("expected the system turn first, got %s", system.Role)
				}
				hasClause := strings.Contains(system.Content, "The user has a **")
				if hasClause != tt.wantClause {
					t.Fatalf("clause present = %v, want %v", hasClause, tt.wantClause)
				}
				if tt.wantClause && !strings.Contains(system.Content, "**"+tt.vehicle+"**") {
					t.Fatalf("system turn must name %q", tt.vehicle)
				}
			},
		)
	}
}

func TestChatSessionUsecase_SendUserTurnFailure(t *testing.T) {
	tc := newTestChat(t, testCredential)
	tc.model.err = errModelDown

	reply, err := tc.chat.SendUserTurn(context.Background(), "Why won't it start?", nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Content != MessageFailureNotice {
		t.Fatalf("expected the failure notice, got %q", reply.Content)
	}

	messages := tc.conversation.Active().Messages
	users, assistants := 0, 0
	for _, msg := range messages[1:] {
		switch msg.Role {
		case model.MessageRoleUser:
			users++
		case model.MessageRoleAssistant:
			assistants++
		}
	}
	if users != 1 || assistants != 1 {
		t.Fatalf("expected exactly one user and one assistant message, got %d and %d", users, assistants)
	}
	if tc.chat.State() != StateIdle {
		t.Fatalf("expected idle after a failure, got %s", tc.chat.State())
	}
}

func TestChatSessionUsecase_Guards(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		text       string
		attachment *model.Attachment
		wantErr    error
	}{
		{
			name:       "missing credential",
			credential: "",
			text:       "hello",
			wantErr:    model.ErrMissingCredential,
		},
		{
			name:       "empty turn",
			credential: testCredential,
			text:       "   ",
			wantErr:    model.ErrEmptyTurn,
		},
		{
			name:       "attachment too large",
			credential: testCredential,
			text:       "look",
			attachment: &model.Attachment{
				Name:     "huge.jpg",
				MimeType: "image/jpeg",
				Data:     make([]byte, model.MaxAttachmentSize+1),
			},
			wantErr: model.ErrAttachmentTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				tc := newTestChat(t, tt.credential)

				_, err := tc.chat.SendUserTurn(context.Background(), tt.text, tt.attachment)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if got := len(tc.conversation.Active().Messages); got != 1 {
					t.Fatalf("session must be untouched, got %d messages", got)
				}
				if tc.model.calls != 0 {
					t.Fatal("model must not be called")
				}
			},
		)
	}
}

func TestChatSessionUsecase_ImageWithoutText(t *testing.T) {
	tc := newTestChat(t, testCredential)
	attachment := &model.Attachment{Name: "chain.png", MimeType: "image/png", Data: pngHeader}

	if _, err := tc.chat.SendUserTurn(context.Background(), "", attachment); err != nil {
		t.Fatal(err)
	}
	user := tc.conversation.Active().Messages[1]
	if user.Content != MessageAnalyzeImage || user.Attachment == nil {
		t.Fatalf("unexpected user message %+v", user)
	}
	if len(tc.model.lastCall[1].MultiContent) != 2 {
		t.Fatalf("expected a multipart turn, got %+v", tc.model.lastCall[1])
	}
}

func TestChatSessionUsecase_UnreadableAttachmentIsAFailedTurn(t *testing.T) {
	tc := newTestChat(t, testCredential)
	attachment := &model.Attachment{Name: "notes.txt", Data: []byte("plain text notes")}

	reply, err := tc.chat.SendUserTurn(context.Background(), "look", attachment)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Content != MessageFailureNotice {
		t.Fatalf("expected the failure notice, got %q", reply.Content)
	}
	if tc.model.calls != 0 {
		t.Fatal("model must not be called with an unreadable attachment")
	}
}

func TestChatSessionUsecase_RequestInFlight(t *testing.T) {
	tc := newTestChat(t, testCredential)
	tc.model.block = make(chan struct{})
	tc.model.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := tc.chat.SendUserTurn(context.Background(), "first", nil)
		done <- err
	}()
	<-tc.model.started

	if tc.chat.State() != StateAwaitingResponse {
		t.Fatalf("expected awaiting_response, got %s", tc.chat.State())
	}
	if _, err := tc.chat.SendUserTurn(context.Background(), "second", nil); !errors.Is(err, model.ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
	if err := tc.chat.StartNew(context.Background()); !errors.Is(err, model.ErrRequestInFlight) {
		t.Fatalf("expected StartNew to be refused, got %v", err)
	}

	close(tc.model.block)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := len(tc.conversation.Active().Messages); got != 3 {
		t.Fatalf("expected only the first turn to be recorded, got %d messages", got)
	}
	if tc.chat.State() != StateIdle {
		t.Fatalf("expected idle, got %s", tc.chat.State())
	}
}

func TestChatSessionUsecase_Repair(t *testing.T) {
	tests := []struct {
		name     string
		action   RepairAction
		wantText string
	}{
		{name: "worked", action: RepairActionWorked, wantText: MessageRepairWorked},
		{name: "didn't help", action: RepairActionDidntHelp, wantText: MessageRepairDidntHelp},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				tc := newTestChat(t, testCredential)
				reply, err := tc.chat.SendUserTurn(context.Background(), "brakes squeal", nil)
				if err != nil {
					t.Fatal(err)
				}

				if _, err = tc.chat.Repair(context.Background(), reply.ID, tt.action); err != nil {
					t.Fatal(err)
				}
				messages := tc.conversation.Active().Messages
				if len(messages) != 5 || messages[3].Content != tt.wantText {
					t.Fatalf("expected the repair text as the next user turn, got %+v", messages)
				}
			},
		)
	}
}

func TestChatSessionUsecase_RepairSendPhoto(t *testing.T) {
	tc := newTestChat(t, testCredential)
	reply, err := tc.chat.SendUserTurn(context.Background(), "brakes squeal", nil)
	if err != nil {
		t.Fatal(err)
	}

	msg, err := tc.chat.Repair(context.Background(), reply.ID, RepairActionSendPhoto)
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID != "" {
		t.Fatalf("send-photo must not produce a message, got %+v", msg)
	}
	if tc.picker.requests != 1 {
		t.Fatalf("expected one picker request, got %d", tc.picker.requests)
	}
	if got := len(tc.conversation.Active().Messages); got != 3 {
		t.Fatalf("session must be untouched, got %d messages", got)
	}
}

func TestChatSessionUsecase_RepairNotApplicable(t *testing.T) {
	tc := newTestChat(t, testCredential)
	if _, err := tc.chat.SendUserTurn(context.Background(), "brakes squeal", nil); err != nil {
		t.Fatal(err)
	}
	userID := tc.conversation.Active().Messages[1].ID

	for _, messageID := range []string{model.WelcomeMessageID, userID, "missing"} {
		_, err := tc.chat.Repair(context.Background(), messageID, RepairActionWorked)
		if !errors.Is(err, model.ErrRepairNotApplicable) {
			t.Fatalf("Repair(%q): expected ErrRepairNotApplicable, got %v", messageID, err)
		}
	}
}

func TestChatSessionUsecase_SendLookupToChat(t *testing.T) {
	tc := newTestChat(t, testCredential)
	record, _ := NewErrorCodeUsecase(newTestVocabulary(t)).Resolve("E07")

	if _, err := tc.chat.SendLookupToChat(context.Background(), record); err != nil {
		t.Fatal(err)
	}
	if got := tc.conversation.Active().Messages[1].Content; got != LookupToChatText(record) {
		t.Fatalf("unexpected user turn %q", got)
	}
}

func TestChatSessionUsecase_ContinueTroubleshooting(t *testing.T) {
	tc := newTestChat(t, testCredential)

	if _, err := tc.chat.ContinueTroubleshooting(context.Background(), "Motor cutting out"); err != nil {
		t.Fatal(err)
	}
	if got := tc.conversation.Active().Messages[1].Content; got != "🔁 Continue troubleshooting: Motor cutting out" {
		t.Fatalf("unexpected user turn %q", got)
	}
}

func TestChatSessionUsecase_TokenCount(t *testing.T) {
	tc := newTestChat(t, testCredential)
	tc.chat.CountTokens = func(messages []openai.ChatCompletionMessage, model string) (int, error) {
		return len(messages) * 10, nil
	}

	if _, err := tc.chat.SendUserTurn(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}
	if got := tc.chat.LastPromptTokens(); got != 20 {
		t.Fatalf("expected 20 tokens, got %d", got)
	}
}

func TestParseRepairAction(t *testing.T) {
	if action, err := ParseRepairAction("send-photo"); err != nil || action != RepairActionSendPhoto {
		t.Fatalf("unexpected %q, %v", action, err)
	}
	if _, err := ParseRepairAction("explode"); !errors.Is(err, model.ErrUnknownRepairAction) {
		t.Fatalf("expected ErrUnknownRepairAction, got %v", err)
	}
}
