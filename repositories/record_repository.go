package repositories

import (
	"context"

	"qc-registry/models"
)

type RecordRepository struct {
	store *Store
}

// GetAll returns deep copies in storage order.
func (r *RecordRepository) GetAll() []models.QCRecord {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]models.QCRecord, len(r.store.records))
	for i, rec := range r.store.records {
		out[i] = rec.Clone()
	}
	return out
}

func (r *RecordRepository) GetByCategory(category models.QCCategory) []models.QCRecord {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []models.QCRecord
	for _, rec := range r.store.records {
		if rec.Category == category {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (r *RecordRepository) GetByID(id string) (models.QCRecord, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, rec := range r.store.records {
		if rec.ID == id {
			return rec.Clone(), true
		}
	}
	return models.QCRecord{}, false
}

// Merge reconciles batch into the collection as one entry replacement.
func (r *RecordRepository) Merge(ctx context.Context, batch []models.QCRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	incoming := make([]models.QCRecord, len(batch))
	for i, rec := range batch {
		incoming[i] = rec.Clone()
	}

	next := models.MergeRecords(r.store.records, incoming)
	if err := r.store.persist(ctx, models.KeyRecords, next); err != nil {
		return err
	}
	r.store.records = next
	return nil
}

// Delete hard-removes a record and reports whether it existed.
func (r *RecordRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	next, found := models.RemoveRecord(r.store.records, id)
	if !found {
		return false, nil
	}
	if err := r.store.persist(ctx, models.KeyRecords, next); err != nil {
		return false, err
	}
	r.store.records = next
	return true, nil
}
