package repositories

import (
	"context"
	"fmt"

	"qc-registry/models"
)

// SessionRepository holds the currently logged-in user entry.
type SessionRepository struct {
	store *Store
}

func (r *SessionRepository) Current() (models.Worker, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if r.store.currentUser == nil {
		return models.Worker{}, false
	}
	return *r.store.currentUser, true
}

// Set records w as the current user. The guest identity is never persisted.
func (r *SessionRepository) Set(ctx context.Context, w models.Worker) error {
	if w.IsGuest() {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	public := w.Public()
	if err := r.store.persist(ctx, models.KeyCurrentUser, public); err != nil {
		return err
	}
	r.store.currentUser = &public
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.backend.Delete(ctx, models.KeyCurrentUser); err != nil {
		return fmt.Errorf("delete %s: %w", models.KeyCurrentUser, err)
	}
	r.store.currentUser = nil
	return nil
}
