// Package grid implements the spreadsheet-like registry editor: one mutable row
// per record, derived columns recomputed on edit, and role-scoped rights.
package grid

import (
	"errors"
	"time"

	"qc-registry/access"
	"qc-registry/idgen"
	"qc-registry/models"
	"qc-registry/utils"
)

var (
	ErrUnauthorized    = errors.New("not permitted to enter data for this category")
	ErrReadOnly        = errors.New("grid is read-only for this user")
	ErrAdminOnly       = errors.New("only an admin may remove entries")
	ErrNotConfirmed    = errors.New("removal must be confirmed")
	ErrEmptySave       = errors.New("fill at least one row before saving")
	ErrRowNotFound     = errors.New("row not found")
	ErrUnknownField    = errors.New("unknown field for this registry")
	ErrDerivedField    = errors.New("field is computed and cannot be edited")
	ErrClosed          = errors.New("grid session is closed")
	ErrInvalidCategory = errors.New("unknown registry category")
)

// UnnamedPart is stored when a populated row has no part name.
const UnnamedPart = "UNNAMED PART"

type State int

const (
	StateUnauthorized State = iota
	StateLoaded
	StateEditing
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateUnauthorized:
		return "unauthorized"
	case StateLoaded:
		return "loaded"
	case StateEditing:
		return "editing"
	case StateSaved:
		return "saved"
	}
	return "unknown"
}

type Options struct {
	Now   func() time.Time
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = idgen.NewID
	}
	return o
}

type Editor struct {
	user     models.Worker
	category models.QCCategory
	state    State
	rows     []Row
	opts     Options
}

// Open mounts the editor for user on category. records may hold every category;
// only the matching ones are loaded, and only for roles that see history. A user
// without permission gets an editor in StateUnauthorized and ErrUnauthorized.
func Open(user models.Worker, category models.QCCategory, records []models.QCRecord, opts Options) (*Editor, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	e := &Editor{user: user, category: category, opts: opts.withDefaults()}

	if !access.CanEnter(user, category) {
		e.state = StateUnauthorized
		return e, ErrUnauthorized
	}

	if access.CanLoadHistory(user) {
		for _, r := range records {
			if r.Category == category {
				e.rows = append(e.rows, Row{ID: r.ID, Fields: r.CustomFields.Clone()})
			}
		}
	}
	if len(e.rows) == 0 && access.CanModify(user) {
		e.rows = []Row{e.newRow()}
	}
	e.state = StateLoaded
	return e, nil
}

func (e *Editor) newRow() Row {
	fields := models.NewCustomFields(e.category)
	fields.InvoiceDate = utils.Today(e.opts.Now())
	fields.NgQty = "0"
	fields.Duration = "0.0"
	if !e.user.IsGuest() {
		fields.CheckerID = e.user.ID
	}
	return Row{ID: e.opts.NewID(), Fields: fields}
}

func (e *Editor) State() State                { return e.state }
func (e *Editor) Category() models.QCCategory { return e.category }
func (e *Editor) User() models.Worker         { return e.user }
func (e *Editor) CanModify() bool             { return access.CanModify(e.user) }
func (e *Editor) CanDelete() bool             { return access.CanDelete(e.user) }

// Rows returns copies of the current rows in display order.
func (e *Editor) Rows() []Row {
	out := make([]Row, len(e.rows))
	for i, r := range e.rows {
		out[i] = r.Clone()
	}
	return out
}

func (e *Editor) open() error {
	if e.state == StateUnauthorized || e.state == StateSaved {
		return ErrClosed
	}
	return nil
}

func (e *Editor) indexOf(rowID string) int {
	for i, r := range e.rows {
		if r.ID == rowID {
			return i
		}
	}
	return -1
}

// UpdateField sets one column of a row. Editing either time column recomputes
// the duration column.
func (e *Editor) UpdateField(rowID, field, value string) (Row, error) {
	if err := e.open(); err != nil {
		return Row{}, err
	}
	if !e.CanModify() {
		return Row{}, ErrReadOnly
	}
	i := e.indexOf(rowID)
	if i < 0 {
		return Row{}, ErrRowNotFound
	}
	if field == "duration" {
		return Row{}, ErrDerivedField
	}

	row := &e.rows[i]
	if !row.Fields.Set(field, value) {
		return Row{}, ErrUnknownField
	}
	if field == "startTime" || field == "endTime" {
		row.Fields.Duration = utils.CalculateHours(row.Fields.StartTime, row.Fields.EndTime)
	}
	e.state = StateEditing
	return row.Clone(), nil
}

// AddRow appends a fresh row with today's date and a zero NG quantity.
func (e *Editor) AddRow() (Row, error) {
	if err := e.open(); err != nil {
		return Row{}, err
	}
	if !e.CanModify() {
		return Row{}, ErrReadOnly
	}
	row := e.newRow()
	e.rows = append(e.rows, row)
	e.state = StateEditing
	return row.Clone(), nil
}

// RemoveRow drops a row by identity. Admin only, and only when confirmed.
func (e *Editor) RemoveRow(rowID string, confirmed bool) error {
	if err := e.open(); err != nil {
		return err
	}
	if !e.CanDelete() {
		return ErrAdminOnly
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	i := e.indexOf(rowID)
	if i < 0 {
		return ErrRowNotFound
	}
	e.rows = append(e.rows[:i:i], e.rows[i+1:]...)
	e.state = StateEditing
	return nil
}

// ReplaceRows swaps in rows edited by a client-side grid. Durations are
// recomputed and rows without an id get one.
func (e *Editor) ReplaceRows(rows []Row) error {
	if err := e.open(); err != nil {
		return err
	}
	if !e.CanModify() {
		return ErrReadOnly
	}
	next := make([]Row, 0, len(rows))
	for _, r := range rows {
		r = r.Clone()
		if r.ID == "" {
			r.ID = e.opts.NewID()
		}
		r.Fields.Duration = utils.CalculateHours(r.Fields.StartTime, r.Fields.EndTime)
		next = append(next, r)
	}
	e.rows = next
	e.state = StateEditing
	return nil
}

// Save converts the populated rows into records and closes the editor. Rows with
// no part name, part number or quantity are left out of the batch. workers is
// used to resolve the name of each row's checker.
func (e *Editor) Save(workers []models.Worker) ([]models.QCRecord, error) {
	return e.SaveWith(workers, nil)
}

// SaveWith is Save with a persist step. The editor only closes once persist
// succeeds, so a failed write can be retried from the same grid.
func (e *Editor) SaveWith(workers []models.Worker, persist func([]models.QCRecord) error) ([]models.QCRecord, error) {
	if err := e.open(); err != nil {
		return nil, err
	}
	if !e.CanModify() {
		return nil, ErrReadOnly
	}

	now := e.opts.Now()
	var batch []models.QCRecord
	for _, row := range e.rows {
		if !row.Fields.Populated() {
			continue
		}
		batch = append(batch, e.toRecord(row, workers, now))
	}
	if len(batch) == 0 {
		return nil, ErrEmptySave
	}
	if persist != nil {
		if err := persist(batch); err != nil {
			return nil, err
		}
	}

	e.state = StateSaved
	return batch, nil
}

func (e *Editor) toRecord(row Row, workers []models.Worker, now time.Time) models.QCRecord {
	f := row.Fields.Clone()

	workerID := f.CheckerID
	if workerID == "" {
		workerID = e.user.ID
	}
	workerName := e.user.Name
	for _, w := range workers {
		if w.ID == f.CheckerID {
			workerName = w.Name
			break
		}
	}

	partName := f.PartName
	if partName == "" {
		partName = UnnamedPart
	}

	return models.QCRecord{
		ID:           row.ID,
		Category:     e.category,
		Date:         f.InvoiceDate,
		PartName:     partName,
		PartNo:       f.PartNo,
		WorkerID:     workerID,
		WorkerName:   workerName,
		Result:       InferResult(f.NgQty),
		Remarks:      f.Remarks,
		Timestamp:    now.UnixMilli(),
		CustomFields: f,
	}
}

// InferResult maps an NG quantity to the record result.
func InferResult(ngQty string) models.QCResult {
	if utils.LeadingInt(ngQty) > 0 {
		return models.ResultNG
	}
	return models.ResultOK
}
