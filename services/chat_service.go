package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"qc-registry/idgen"
	"qc-registry/models"
	"qc-registry/repositories"
	"qc-registry/utils"

	"go.uber.org/zap"
)

// ChatService handles the staff group channel and private one-to-one threads.
// Private threads are only ever visible to their two participants.
type ChatService struct {
	chats   *repositories.ChatRepository
	workers *repositories.WorkerRepository
	admin   models.Worker
	log     *zap.Logger
	now     func() time.Time
}

func NewChatService(store *repositories.Store, admin models.Worker, log *zap.Logger) *ChatService {
	return &ChatService{
		chats:   store.Chats(),
		workers: store.Workers(),
		admin:   admin,
		log:     log,
		now:     time.Now,
	}
}

func (s *ChatService) lookup(id string) (models.Worker, bool) {
	if id == s.admin.ID {
		return s.admin, true
	}
	w, ok := s.workers.GetByID(id)
	return w.Public(), ok
}

func (s *ChatService) participant(user models.Worker) error {
	if user.ID == "" || user.IsGuest() {
		return ErrForbidden
	}
	return nil
}

func messageKind(in models.ChatMessageInput) models.MessageKind {
	switch {
	case in.File != nil:
		return models.MessageFile
	case in.Image != "":
		return models.MessageImage
	}
	return models.MessageText
}

func (s *ChatService) Send(ctx context.Context, user models.Worker, in models.ChatMessageInput) (models.ChatMessage, error) {
	if err := s.participant(user); err != nil {
		return models.ChatMessage{}, err
	}
	if strings.TrimSpace(in.Text) == "" && in.Image == "" && in.File == nil {
		return models.ChatMessage{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}
	if in.ReceiverID != models.GroupChannel {
		if in.ReceiverID == user.ID {
			return models.ChatMessage{}, fmt.Errorf("%w: cannot message yourself", ErrValidation)
		}
		if _, ok := s.lookup(in.ReceiverID); !ok {
			return models.ChatMessage{}, fmt.Errorf("%w: unknown receiver", ErrNotFound)
		}
	}

	msg := models.ChatMessage{
		ID:         idgen.NewID(),
		SenderID:   user.ID,
		ReceiverID: in.ReceiverID,
		SenderName: user.Name,
		Text:       in.Text,
		Image:      in.Image,
		File:       in.File,
		Timestamp:  s.now().UnixMilli(),
		Type:       messageKind(in),
	}
	if err := s.chats.Append(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Edit replaces the text of one of the user's own messages.
func (s *ChatService) Edit(ctx context.Context, user models.Worker, id, text string) (models.ChatMessage, error) {
	if err := s.participant(user); err != nil {
		return models.ChatMessage{}, err
	}
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}
	msg, err := s.chats.Update(ctx, id, func(m *models.ChatMessage) error {
		if m.SenderID != user.ID {
			return ErrForbidden
		}
		if m.IsDeleted {
			return fmt.Errorf("%w: message was deleted", ErrValidation)
		}
		m.Text = text
		m.IsEdited = true
		return nil
	})
	return msg, s.mapRepoErr(err)
}

// Delete tombstones one of the user's own messages: the content is cleared and
// the message stays in the thread flagged as deleted.
func (s *ChatService) Delete(ctx context.Context, user models.Worker, id string, confirmed bool) (models.ChatMessage, error) {
	if err := s.participant(user); err != nil {
		return models.ChatMessage{}, err
	}
	if !confirmed {
		return models.ChatMessage{}, ErrNotConfirmed
	}
	msg, err := s.chats.Update(ctx, id, func(m *models.ChatMessage) error {
		if m.SenderID != user.ID {
			return ErrForbidden
		}
		m.IsDeleted = true
		m.Text = models.DeletedMessageText
		m.Image = ""
		m.File = nil
		return nil
	})
	if err == nil {
		s.log.Info("message deleted", zap.String("message_id", id), zap.String("by", user.ID))
	}
	return msg, s.mapRepoErr(err)
}

func (s *ChatService) mapRepoErr(err error) error {
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// Conversation returns the group thread, or the private thread between user and
// with, oldest first. Opening a private thread marks its incoming messages read.
func (s *ChatService) Conversation(ctx context.Context, user models.Worker, with string) ([]models.ChatMessage, error) {
	if err := s.participant(user); err != nil {
		return nil, err
	}
	if with == "" {
		with = models.GroupChannel
	}

	if with != models.GroupChannel {
		if _, err := s.chats.MarkRead(ctx, user.ID, with); err != nil {
			s.log.Warn("mark read failed", zap.Error(err))
		}
	}

	out := []models.ChatMessage{}
	for _, m := range s.chats.GetAll() {
		if with == models.GroupChannel {
			if m.IsGroup() {
				out = append(out, m)
			}
			continue
		}
		if (m.SenderID == user.ID && m.ReceiverID == with) ||
			(m.SenderID == with && m.ReceiverID == user.ID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// UnreadCount counts private messages addressed to user that are still unread.
func (s *ChatService) UnreadCount(user models.Worker) int {
	n := 0
	for _, m := range s.chats.GetAll() {
		if !m.IsRead && m.ReceiverID == user.ID {
			n++
		}
	}
	return n
}

// Contacts lists everyone user has a private thread with, in order of first contact.
func (s *ChatService) Contacts(user models.Worker) []models.Worker {
	seen := map[string]bool{}
	out := []models.Worker{}
	for _, m := range s.chats.GetAll() {
		if m.IsGroup() || (m.SenderID != user.ID && m.ReceiverID != user.ID) {
			continue
		}
		partner := m.SenderID
		if partner == user.ID {
			partner = m.ReceiverID
		}
		if seen[partner] {
			continue
		}
		seen[partner] = true
		if w, ok := s.lookup(partner); ok {
			out = append(out, w)
		}
	}
	return out
}

// People finds workers other than user by name or employee code.
func (s *ChatService) People(user models.Worker, term string) []models.Worker {
	term = strings.TrimSpace(term)
	out := []models.Worker{}
	if term == "" {
		return out
	}
	for _, w := range s.workers.GetAll() {
		if w.ID == user.ID {
			continue
		}
		if utils.ContainsFold(w.Name, term) || utils.ContainsFold(w.EmployeeCode, term) {
			out = append(out, w.Public())
		}
	}
	return out
}
