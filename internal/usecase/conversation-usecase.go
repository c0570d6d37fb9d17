package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

const (
	MaxArchivedSessions = 10
	archiveKey          = "session_archive"
)

type attachmentInternal struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type messageInternal struct {
	ID         string              `json:"id"`
	Role       string              `json:"role"`
	Content    string              `json:"content"`
	Timestamp  time.Time           `json:"timestamp"`
	Attachment *attachmentInternal `json:"attachment,omitempty"`
}

type sessionInternal struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Title     string            `json:"title"`
	Messages  []messageInternal `json:"messages"`
}

type ConversationUsecaseDeps struct {
	Storage KeyValueStorage
	Logger  logrus.FieldLogger
}

// ConversationUsecase owns the active session and the archive of one owner.
type ConversationUsecase struct {
	ConversationUsecaseDeps
	owner   string
	welcome string

	mu      sync.Mutex
	active  model.Session
	archive []model.Session
}

func NewConversationUsecase(
	ctx context.Context,
	deps ConversationUsecaseDeps,
	owner string,
	welcome string,
) *ConversationUsecase {
	c := &ConversationUsecase{
		ConversationUsecaseDeps: deps,
		owner:                   owner,
		welcome:                 welcome,
		active:                  model.NewSession(welcome),
	}
	c.archive = c.restoreArchive(ctx)
	return c
}

func (c *ConversationUsecase) Active() model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.Clone()
}

// Archive lists archived sessions, most recent first.
func (c *ConversationUsecase) Archive() []model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	sessions := make([]model.Session, 0, len(c.archive))
	for _, session := range c.archive {
		sessions = append(sessions, session.Clone())
	}
	return sessions
}

func (c *ConversationUsecase) Append(sessionID uuid.UUID, msg model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active.ID != sessionID {
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, sessionID)
	}
	c.active.Messages = append(c.active.Messages, msg.Clone())
	return nil
}

func (c *ConversationUsecase) StartNew(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active.HasConversation() {
		archive := make([]model.Session, 0, len(c.archive)+1)
		archive = append(archive, c.active.Clone())
		for _, session := range c.archive {
			if session.ID != c.active.ID {
				archive = append(archive, session)
			}
		}
		if len(archive) > MaxArchivedSessions {
			archive = archive[:MaxArchivedSessions]
		}
		if err := c.persistArchive(ctx, archive); err != nil {
			return err
		}
		c.archive = archive
	}
	c.active = model.NewSession(c.welcome)
	return nil
}

func (c *ConversationUsecase) Load(_ context.Context, sessionID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, session := range c.archive {
		if session.ID == sessionID {
			c.active = session.Clone()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", model.ErrSessionNotFound, sessionID)
}

func (c *ConversationUsecase) ClearArchive(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Storage.Remove(ctx, getOwnerKey(c.owner, archiveKey)); err != nil {
		return fmt.Errorf("failed to remove archive: %w", err)
	}
	c.archive = nil
	return nil
}

func (c *ConversationUsecase) persistArchive(ctx context.Context, archive []model.Session) error {
	sessionsInt := make([]sessionInternal, 0, len(archive))
	for _, session := range archive {
		sessionsInt = append(sessionsInt, toSessionInternal(session))
	}
	archiveJSON, err := json.Marshal(sessionsInt)
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}
	if err = c.Storage.Set(ctx, getOwnerKey(c.owner, archiveKey), string(archiveJSON)); err != nil {
		return fmt.Errorf("failed to save archive: %w", err)
	}
	return nil
}

// restoreArchive never fails: unreadable data means an empty archive.
func (c *ConversationUsecase) restoreArchive(ctx context.Context) []model.Session {
	log := c.Logger.WithField("owner", c.owner)
	archiveRaw, err := c.Storage.Get(ctx, getOwnerKey(c.owner, archiveKey))
	if err != nil {
		if !errors.Is(err, model.ErrKeyNotFound) {
			log.WithError(err).Warn("failed to read session archive, starting empty")
		}
		return nil
	}
	var sessionsInt []sessionInternal
	if err = json.Unmarshal([]byte(archiveRaw), &sessionsInt); err != nil {
		log.WithError(err).Warn("session archive is corrupt, starting empty")
		return nil
	}
	archive := make([]model.Session, 0, len(sessionsInt))
	for _, sessionInt := range sessionsInt {
		session, err := fromSessionInternal(sessionInt)
		if err != nil {
			log.WithError(err).Warn("session archive is corrupt, starting empty")
			return nil
		}
		archive = append(archive, session)
	}
	if len(archive) > MaxArchivedSessions {
		archive = archive[:MaxArchivedSessions]
	}
	return archive
}

func toSessionInternal(session model.Session) sessionInternal {
	messages := make([]messageInternal, 0, len(session.Messages))
	for _, msg := range session.Messages {
		msgInt := messageInternal{
			ID:        msg.ID,
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if msg.Attachment != nil {
			msgInt.Attachment = &attachmentInternal{
				Name:     msg.Attachment.Name,
				MimeType: msg.Attachment.MimeType,
				Data:     msg.Attachment.Data,
			}
		}
		messages = append(messages, msgInt)
	}
	return sessionInternal{
		ID:        session.ID.String(),
		CreatedAt: session.CreatedAt,
		Title:     session.Title(),
		Messages:  messages,
	}
}

func fromSessionInternal(sessionInt sessionInternal) (model.Session, error) {
	sessionID, err := uuid.Parse(sessionInt.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to parse session id %s: %w", sessionInt.ID, err)
	}
	messages := make([]model.Message, 0, len(sessionInt.Messages))
	for _, msgInt := range sessionInt.Messages {
		msg := model.Message{
			ID:        msgInt.ID,
			Role:      model.ParseMessageRole(msgInt.Role),
			Content:   msgInt.Content,
			Timestamp: msgInt.Timestamp,
		}
		if msgInt.Attachment != nil {
			msg.Attachment = &model.Attachment{
				Name:     msgInt.Attachment.Name,
				MimeType: msgInt.Attachment.MimeType,
				Data:     msgInt.Attachment.Data,
			}
		}
		messages = append(messages, msg)
	}
	return model.Session{
		ID:        sessionID,
		CreatedAt: sessionInt.CreatedAt,
		Messages:  messages,
	}, nil
}
