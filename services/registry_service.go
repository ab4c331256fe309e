package services

import (
	"context"
	"encoding/json"
	"fmt"

	"qc-registry/access"
	"qc-registry/grid"
	"qc-registry/models"
	"qc-registry/repositories"

	"go.uber.org/zap"
)

// DraftView is what a client sees of an open grid.
type DraftView struct {
	ID        string            `json:"id"`
	Category  models.QCCategory `json:"category"`
	State     string            `json:"state"`
	CanModify bool              `json:"canModify"`
	CanDelete bool              `json:"canDelete"`
	Rows      []grid.Row        `json:"rows"`
}

func viewOf(id string, e *grid.Editor) DraftView {
	return DraftView{
		ID:        id,
		Category:  e.Category(),
		State:     e.State().String(),
		CanModify: e.CanModify(),
		CanDelete: e.CanDelete(),
		Rows:      e.Rows(),
	}
}

// RegistryService drives the grid editors and commits their batches to the
// record store.
type RegistryService struct {
	records  *repositories.RecordRepository
	workers  *repositories.WorkerRepository
	drafts   *grid.DraftManager
	notifier Notifier
	log      *zap.Logger
	opts     grid.Options
}

func NewRegistryService(store *repositories.Store, drafts *grid.DraftManager, notifier Notifier, log *zap.Logger) *RegistryService {
	return &RegistryService{
		records:  store.Records(),
		workers:  store.Workers(),
		drafts:   drafts,
		notifier: notifier,
		log:      log,
	}
}

// OpenDraft mounts a grid for user and keeps it as a draft owned by user.
func (s *RegistryService) OpenDraft(user models.Worker, category models.QCCategory) (DraftView, error) {
	e, err := grid.Open(user, category, s.records.GetAll(), s.opts)
	if err != nil {
		return DraftView{}, err
	}
	id := s.drafts.Create(user.ID, e)
	return viewOf(id, e), nil
}

func (s *RegistryService) GetDraft(user models.Worker, id string) (DraftView, error) {
	var view DraftView
	err := s.drafts.With(id, user.ID, func(e *grid.Editor) error {
		view = viewOf(id, e)
		return nil
	})
	return view, err
}

func (s *RegistryService) UpdateField(user models.Worker, id, rowID, field, value string) (grid.Row, error) {
	var row grid.Row
	err := s.drafts.With(id, user.ID, func(e *grid.Editor) error {
		var err error
		row, err = e.UpdateField(rowID, field, value)
		return err
	})
	return row, err
}

func (s *RegistryService) AddRow(user models.Worker, id string) (grid.Row, error) {
	var row grid.Row
	err := s.drafts.With(id, user.ID, func(e *grid.Editor) error {
		var err error
		row, err = e.AddRow()
		return err
	})
	return row, err
}

func (s *RegistryService) RemoveRow(user models.Worker, id, rowID string, confirmed bool) error {
	return s.drafts.With(id, user.ID, func(e *grid.Editor) error {
		return e.RemoveRow(rowID, confirmed)
	})
}

func (s *RegistryService) DiscardDraft(user models.Worker, id string) error {
	return s.drafts.Discard(id, user.ID)
}

// SaveDraft commits the draft's populated rows. The draft is released on success.
func (s *RegistryService) SaveDraft(ctx context.Context, user models.Worker, id string) ([]models.QCRecord, error) {
	var (
		batch    []models.QCRecord
		category models.QCCategory
	)
	err := s.drafts.With(id, user.ID, func(e *grid.Editor) error {
		var err error
		category = e.Category()
		batch, err = s.commit(ctx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notify(category, batch)
	return batch, nil
}

// BulkSave commits rows edited in a client-held grid in one call. A row whose
// id belongs to a stored record may only overwrite it when the user sees the
// history of that record's category.
func (s *RegistryService) BulkSave(ctx context.Context, user models.Worker, category models.QCCategory, raw []json.RawMessage) ([]models.QCRecord, error) {
	e, err := grid.Open(user, category, nil, s.opts)
	if err != nil {
		return nil, err
	}
	rows := make([]grid.Row, 0, len(raw))
	for i, r := range raw {
		row, err := grid.DecodeRow(category, r)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrValidation, i, err)
		}
		if err := s.checkOverwrite(user, category, row.ID); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	if err := e.ReplaceRows(rows); err != nil {
		return nil, err
	}
	batch, err := s.commit(ctx, e)
	if err != nil {
		return nil, err
	}
	s.notify(category, batch)
	return batch, nil
}

func (s *RegistryService) checkOverwrite(user models.Worker, category models.QCCategory, rowID string) error {
	if rowID == "" {
		return nil
	}
	existing, ok := s.records.GetByID(rowID)
	if !ok {
		return nil
	}
	if !access.CanLoadHistory(user) || existing.Category != category {
		s.log.Warn("rejected overwrite of stored record",
			zap.String("record_id", rowID),
			zap.String("record_category", existing.Category.String()),
			zap.String("category", category.String()),
			zap.String("user_id", user.ID))
		return ErrForbidden
	}
	return nil
}

func (s *RegistryService) commit(ctx context.Context, e *grid.Editor) ([]models.QCRecord, error) {
	batch, err := e.SaveWith(s.workers.GetAll(), func(batch []models.QCRecord) error {
		return s.records.Merge(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("records saved",
		zap.String("category", e.Category().String()),
		zap.String("user_id", e.User().ID),
		zap.Int("count", len(batch)))
	return batch, nil
}

// notify runs outside any draft lock since the mail server may be slow.
func (s *RegistryService) notify(category models.QCCategory, batch []models.QCRecord) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyNG(category, batch); err != nil {
		s.log.Warn("NG alert failed", zap.String("category", category.String()), zap.Error(err))
	}
}

// DeleteRecord hard-removes a stored record. Admin only, and only when confirmed.
func (s *RegistryService) DeleteRecord(ctx context.Context, user models.Worker, id string, confirmed bool) error {
	if !access.CanDelete(user) {
		return ErrForbidden
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	found, err := s.records.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.log.Info("record deleted", zap.String("record_id", id), zap.String("by", user.ID))
	return nil
}
