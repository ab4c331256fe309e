package repositories

import (
	"context"
	"errors"

	"qc-registry/models"
)

var ErrMessageNotFound = errors.New("message not found")

type ChatRepository struct {
	store *Store
}

func (r *ChatRepository) GetAll() []models.ChatMessage {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]models.ChatMessage, len(r.store.chats))
	copy(out, r.store.chats)
	return out
}

func (r *ChatRepository) GetByID(id string) (models.ChatMessage, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.chats {
		if m.ID == id {
			return m, true
		}
	}
	return models.ChatMessage{}, false
}

func (r *ChatRepository) Append(ctx context.Context, msg models.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	next := append(append([]models.ChatMessage(nil), r.store.chats...), msg)
	if err := r.store.persist(ctx, models.KeyChats, next); err != nil {
		return err
	}
	r.store.chats = next
	return nil
}

// Update applies mutate to the message with the given id and persists the result.
// An error from mutate aborts without writing.
func (r *ChatRepository) Update(ctx context.Context, id string, mutate func(*models.ChatMessage) error) (models.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	next := append([]models.ChatMessage(nil), r.store.chats...)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if err := mutate(&next[i]); err != nil {
			return models.ChatMessage{}, err
		}
		if err := r.store.persist(ctx, models.KeyChats, next); err != nil {
			return models.ChatMessage{}, err
		}
		r.store.chats = next
		return next[i], nil
	}
	return models.ChatMessage{}, ErrMessageNotFound
}

// MarkRead flags every unread message sent by senderID to receiverID and returns
// how many changed. Nothing is written when nothing changed.
func (r *ChatRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	next := append([]models.ChatMessage(nil), r.store.chats...)
	changed := 0
	for i := range next {
		m := &next[i]
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := r.store.persist(ctx, models.KeyChats, next); err != nil {
		return 0, err
	}
	r.store.chats = next
	return changed, nil
}
