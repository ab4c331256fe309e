package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"qc-registry/database"
	"qc-registry/models"

	"go.uber.org/zap"
)

// Store owns the four persisted state entries. Load reads them once at startup;
// every mutation rewrites the affected entry before the in-memory copy changes,
// so a failed write leaves the state untouched.
type Store struct {
	backend database.Backend
	log     *zap.Logger

	mu          sync.RWMutex
	workers     []models.Worker
	records     []models.QCRecord
	chats       []models.ChatMessage
	currentUser *models.Worker
}

func NewStore(backend database.Backend, log *zap.Logger) *Store {
	return &Store{backend: backend, log: log}
}

// Load replaces the in-memory state with the persisted entries. Missing or
// corrupt entries fall back to empty defaults and are only logged.
func (s *Store) Load(ctx context.Context) error {
	var (
		workers []models.Worker
		records []models.QCRecord
		chats   []models.ChatMessage
		current *models.Worker
	)

	if err := s.loadEntry(ctx, models.KeyWorkers, &workers); err != nil {
		return err
	}
	if err := s.loadEntry(ctx, models.KeyRecords, &records); err != nil {
		return err
	}
	if err := s.loadEntry(ctx, models.KeyChats, &chats); err != nil {
		return err
	}
	if err := s.loadEntry(ctx, models.KeyCurrentUser, &current); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = workers
	s.records = records
	s.chats = chats
	s.currentUser = current

	s.log.Info("state loaded",
		zap.Int("workers", len(workers)),
		zap.Int("records", len(records)),
		zap.Int("messages", len(chats)))
	return nil
}

func (s *Store) loadEntry(ctx context.Context, key string, dst any) error {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("corrupt state entry, using defaults", zap.String("key", key), zap.Error(err))
		resetZero(dst)
	}
	return nil
}

func resetZero(dst any) {
	switch v := dst.(type) {
	case *[]models.Worker:
		*v = nil
	case *[]models.QCRecord:
		*v = nil
	case *[]models.ChatMessage:
		*v = nil
	case **models.Worker:
		*v = nil
	}
}

// persist must be called with s.mu held for writing.
func (s *Store) persist(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) Workers() *WorkerRepository {
	return &WorkerRepository{store: s}
}

func (s *Store) Records() *RecordRepository {
	return &RecordRepository{store: s}
}

func (s *Store) Chats() *ChatRepository {
	return &ChatRepository{store: s}
}

func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{store: s}
}
