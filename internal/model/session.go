package model

import (
	"github.com/google/uuid"
	"time"
	"unicode/utf8"
)

const (
	MaxSessionTitleLength = 50
	DefaultSessionTitle   = "New conversation"
)

type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Messages  []Message
}

func NewSession(welcome string) Session {
	return Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Messages:  []Message{NewWelcomeMessage(welcome)},
	}
}

// Title is the first user message cut to MaxSessionTitleLength runes.
func (s Session) Title() string {
	for _, msg := range s.Messages {
		if msg.Role != MessageRoleUser {
			continue
		}
		if utf8.RuneCountInString(msg.Content) <= MaxSessionTitleLength {
			return msg.Content
		}
		return string([]rune(msg.Content)[:MaxSessionTitleLength]) + "..."
	}
	return DefaultSessionTitle
}

func (s Session) HasConversation() bool {
	for _, msg := range s.Messages {
		if !msg.IsWelcome() {
			return true
		}
	}
	return false
}

func (s Session) FindMessage(messageID string) (Message, bool) {
	for _, msg := range s.Messages {
		if msg.ID == messageID {
			return msg, true
		}
	}
	return Message{}, false
}

func (s Session) Clone() Session {
	messages := make([]Message, 0, len(s.Messages))
	for _, msg := range s.Messages {
		messages = append(messages, msg.Clone())
	}
	s.Messages = messages
	return s
}
