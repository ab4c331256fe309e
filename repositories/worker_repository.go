package repositories

import (
	"context"
	"errors"
	"strings"

	"qc-registry/models"
)

var ErrDuplicateWorker = errors.New("mobile number or employee code already registered")

type WorkerRepository struct {
	store *Store
}

func (r *WorkerRepository) GetAll() []models.Worker {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]models.Worker, len(r.store.workers))
	copy(out, r.store.workers)
	return out
}

func (r *WorkerRepository) GetByID(id string) (models.Worker, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, w := range r.store.workers {
		if w.ID == id {
			return w, true
		}
	}
	return models.Worker{}, false
}

// GetByLogin finds a worker by mobile number or employee code.
func (r *WorkerRepository) GetByLogin(mobileOrCode string) (models.Worker, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, w := range r.store.workers {
		if w.MobileNumber == mobileOrCode || strings.EqualFold(w.EmployeeCode, mobileOrCode) {
			return w, true
		}
	}
	return models.Worker{}, false
}

func (r *WorkerRepository) Create(ctx context.Context, w models.Worker) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.workers {
		if existing.MobileNumber == w.MobileNumber || strings.EqualFold(existing.EmployeeCode, w.EmployeeCode) {
			return ErrDuplicateWorker
		}
	}

	next := append(append([]models.Worker(nil), r.store.workers...), w)
	if err := r.store.persist(ctx, models.KeyWorkers, next); err != nil {
		return err
	}
	r.store.workers = next
	return nil
}

// Delete removes the worker and reports whether it existed.
func (r *WorkerRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	next := make([]models.Worker, 0, len(r.store.workers))
	found := false
	for _, w := range r.store.workers {
		if w.ID == id {
			found = true
			continue
		}
		next = append(next, w)
	}
	if !found {
		return false, nil
	}
	if err := r.store.persist(ctx, models.KeyWorkers, next); err != nil {
		return false, err
	}
	r.store.workers = next
	return true, nil
}
