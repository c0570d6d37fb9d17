package model

import (
	"github.com/google/uuid"
	"time"
)

// WelcomeMessageID is reserved for the synthetic greeting that opens every session.
const WelcomeMessageID = "welcome"

const MaxAttachmentSize = 10 * 1024 * 1024

type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

type Message struct {
	ID         string
	Role       MessageRole
	Content    string
	Timestamp  time.Time
	Attachment *Attachment
}

func NewMessage(role MessageRole, content string, attachment *Attachment) Message {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Message{
		ID:         id.String(),
		Role:       role,
		Content:    content,
		Timestamp:  time.Now(),
		Attachment: attachment,
	}
}

func NewWelcomeMessage(content string) Message {
	return Message{
		ID:        WelcomeMessageID,
		Role:      MessageRoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func (m Message) IsWelcome() bool {
	return m.ID == WelcomeMessageID
}

func (m Message) Clone() Message {
	if m.Attachment != nil {
		attachment := m.Attachment.Clone()
		m.Attachment = &attachment
	}
	return m
}

func (a Attachment) Clone() Attachment {
	if a.Data != nil {
		data := make([]byte, len(a.Data))
		copy(data, a.Data)
		a.Data = data
	}
	return a
}

func CheckAttachmentSize(size int64) error {
	if size > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	return nil
}
