package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"qc-registry/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func testOptions() Options {
	n := 0
	return Options{
		Now: func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("row-%d", n)
		},
	}
}

var (
	admin  = models.Worker{ID: "punit", Name: "Punit", Role: models.RoleAdmin}
	staff  = models.Worker{ID: "s1", Name: "Sana", Role: models.RoleStaff, Permissions: []models.QCCategory{models.CategoryExportOnly}}
	worker = models.Worker{ID: "w1", Name: "Asha", Role: models.RoleWorker, Permissions: []models.QCCategory{models.CategorySamplingPart}}
)

func history() []models.QCRecord {
	fields := models.NewCustomFields(models.CategorySamplingPart)
	fields.PartName = "Bracket"
	fields.Set("batchNo", "B-7")
	other := models.NewCustomFields(models.CategoryExportOnly)
	other.PartName = "Hinge"
	return []models.QCRecord{
		{ID: "r1", Category: models.CategorySamplingPart, CustomFields: fields},
		{ID: "r2", Category: models.CategoryExportOnly, CustomFields: other},
	}
}

func TestOpenUnauthorized(t *testing.T) {
	e, err := Open(worker, models.CategoryExportOnly, nil, testOptions())
	assert.ErrorIs(t, err, ErrUnauthorized)
	require.NotNil(t, e)
	assert.Equal(t, StateUnauthorized, e.State())

	_, err = e.AddRow()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenInvalidCategory(t *testing.T) {
	_, err := Open(admin, models.QCCategory("BOGUS"), nil, testOptions())
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestOpenWorkerGetsOneBlankRow(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, history(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, e.State())

	rows := e.Rows()
	require.Len(t, rows, 1)
	f := rows[0].Fields
	assert.Equal(t, "2025-03-14", f.InvoiceDate)
	assert.Equal(t, "0", f.NgQty)
	assert.Equal(t, "0.0", f.Duration)
	assert.Equal(t, "w1", f.CheckerID)
	unit, _ := f.Get("unit")
	assert.Equal(t, "Pcs", unit)
}

func TestOpenAdminLoadsHistoryOfCategoryOnly(t *testing.T) {
	e, err := Open(admin, models.CategorySamplingPart, history(), testOptions())
	require.NoError(t, err)
	rows := e.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "r1", rows[0].ID)
	batch, _ := rows[0].Fields.Get("batchNo")
	assert.Equal(t, "B-7", batch)
}

func TestOpenAdminWithoutHistoryGetsBlankRow(t *testing.T) {
	e, err := Open(admin, models.CategoryCoatingAdhesion, history(), testOptions())
	require.NoError(t, err)
	require.Len(t, e.Rows(), 1)
	assert.Equal(t, "punit", e.Rows()[0].Fields.CheckerID)
}

func TestStaffIsReadOnly(t *testing.T) {
	e, err := Open(staff, models.CategoryExportOnly, history(), testOptions())
	require.NoError(t, err)
	require.Len(t, e.Rows(), 1)
	assert.False(t, e.CanModify())

	_, err = e.UpdateField("r2", "partName", "x")
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = e.AddRow()
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = e.Save(nil)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestStaffWithoutHistoryHasNoRows(t *testing.T) {
	e, err := Open(staff, models.CategoryExportOnly, nil, testOptions())
	require.NoError(t, err)
	assert.Empty(t, e.Rows())
}

func TestGuestEntersReadOnly(t *testing.T) {
	e, err := Open(models.GuestWorker(), models.CategorySamplingPart, history(), testOptions())
	require.NoError(t, err)
	assert.Empty(t, e.Rows())
	assert.False(t, e.CanModify())
}

func TestUpdateFieldRecomputesDuration(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	id := e.Rows()[0].ID

	_, err = e.UpdateField(id, "startTime", "09:00")
	require.NoError(t, err)
	row, err := e.UpdateField(id, "endTime", "17:30")
	require.NoError(t, err)
	assert.Equal(t, "8.5", row.Fields.Duration)
	assert.Equal(t, StateEditing, e.State())

	row, err = e.UpdateField(id, "startTime", "22:00")
	require.NoError(t, err)
	assert.Equal(t, "19.5", row.Fields.Duration)
}

func TestUpdateFieldErrors(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	id := e.Rows()[0].ID

	_, err = e.UpdateField("nope", "partName", "x")
	assert.ErrorIs(t, err, ErrRowNotFound)
	_, err = e.UpdateField(id, "reworkHrs", "2")
	assert.ErrorIs(t, err, ErrUnknownField)
	_, err = e.UpdateField(id, "duration", "99")
	assert.ErrorIs(t, err, ErrDerivedField)

	row, err := e.UpdateField(id, "supplierName", "Acme")
	require.NoError(t, err)
	v, _ := row.Fields.Get("supplierName")
	assert.Equal(t, "Acme", v)
}

func TestRemoveRowAdminOnlyAndConfirmed(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	assert.ErrorIs(t, e.RemoveRow(e.Rows()[0].ID, true), ErrAdminOnly)

	a, err := Open(admin, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	second, err := a.AddRow()
	require.NoError(t, err)
	first := a.Rows()[0].ID

	assert.ErrorIs(t, a.RemoveRow(first, false), ErrNotConfirmed)
	require.Len(t, a.Rows(), 2)
	require.NoError(t, a.RemoveRow(first, true))
	rows := a.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.ErrorIs(t, a.RemoveRow(first, true), ErrRowNotFound)
}

func TestSaveEmptyGrid(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	_, err = e.Save(nil)
	assert.ErrorIs(t, err, ErrEmptySave)
	assert.NotEqual(t, StateSaved, e.State())
}

func TestSaveBuildsRecords(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	first := e.Rows()[0].ID
	_, err = e.UpdateField(first, "partNo", "PN-1")
	require.NoError(t, err)
	_, err = e.UpdateField(first, "ngQty", "3 pcs")
	require.NoError(t, err)

	_, err = e.AddRow() // left blank
	require.NoError(t, err)

	third, err := e.AddRow()
	require.NoError(t, err)
	_, err = e.UpdateField(third.ID, "partName", "Cover")
	require.NoError(t, err)
	_, err = e.UpdateField(third.ID, "checkerId", "w2")
	require.NoError(t, err)

	workers := []models.Worker{worker, {ID: "w2", Name: "Bala"}}
	batch, err := e.Save(workers)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, StateSaved, e.State())

	assert.Equal(t, first, batch[0].ID)
	assert.Equal(t, UnnamedPart, batch[0].PartName)
	assert.Equal(t, models.ResultNG, batch[0].Result)
	assert.Equal(t, "Asha", batch[0].WorkerName)
	assert.Equal(t, "w1", batch[0].WorkerID)
	assert.Equal(t, "2025-03-14", batch[0].Date)
	assert.Equal(t, fixedNow.UnixMilli(), batch[0].Timestamp)
	assert.Equal(t, models.CategorySamplingPart, batch[0].Category)

	assert.Equal(t, "Cover", batch[1].PartName)
	assert.Equal(t, models.ResultOK, batch[1].Result)
	assert.Equal(t, "Bala", batch[1].WorkerName)

	_, err = e.AddRow()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInferResult(t *testing.T) {
	cases := map[string]models.QCResult{
		"":     models.ResultOK,
		"0":    models.ResultOK,
		"abc":  models.ResultOK,
		"-2":   models.ResultOK,
		"1":    models.ResultNG,
		"12kg": models.ResultNG,
	}
	for in, want := range cases {
		assert.Equal(t, want, InferResult(in), "ngQty %q", in)
	}
}

func TestReplaceRows(t *testing.T) {
	e, err := Open(worker, models.CategorySegregationRework, nil, testOptions())
	require.NoError(t, err)

	raw := json.RawMessage(`{"partName":"Gear","startTime":"08:00","endTime":"09:15","duration":"77","reasonOfSegregation":"burr"}`)
	row, err := DecodeRow(models.CategorySegregationRework, raw)
	require.NoError(t, err)
	require.NoError(t, e.ReplaceRows([]Row{row}))

	rows := e.Rows()
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0].ID)
	assert.Equal(t, "1.3", rows[0].Fields.Duration)
	area, _ := rows[0].Fields.Get("segregationArea")
	assert.Equal(t, "BOP", area)
	reason, _ := rows[0].Fields.Get("reasonOfSegregation")
	assert.Equal(t, "burr", reason)
}

func TestRowJSONIsFlat(t *testing.T) {
	fields := models.NewCustomFields(models.CategoryExportOnly)
	fields.PartName = "Hinge"
	fields.Set("invoiceNo", "INV-9")
	raw, err := json.Marshal(Row{ID: "r9", Fields: fields})
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "r9", flat["id"])
	assert.Equal(t, "Hinge", flat["partName"])
	assert.Equal(t, "INV-9", flat["invoiceNo"])
}

func TestSaveWithFailedPersistKeepsEditorOpen(t *testing.T) {
	e, err := Open(worker, models.CategorySamplingPart, nil, testOptions())
	require.NoError(t, err)
	_, err = e.UpdateField(e.Rows()[0].ID, "invoiceQty", "40")
	require.NoError(t, err)

	boom := errors.New("write failed")
	_, err = e.SaveWith(nil, func([]models.QCRecord) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateEditing, e.State())

	var persisted []models.QCRecord
	batch, err := e.SaveWith(nil, func(b []models.QCRecord) error {
		persisted = b
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, batch, persisted)
	assert.Equal(t, StateSaved, e.State())
}
