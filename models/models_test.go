package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, part string) QCRecord {
	return QCRecord{ID: id, Category: CategorySamplingPart, PartName: part, Result: ResultOK,
		CustomFields: NewCustomFields(CategorySamplingPart)}
}

func ids(records []QCRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMergeRecordsReplacesByID(t *testing.T) {
	existing := []QCRecord{rec("1", "A"), rec("2", "B"), rec("3", "C")}
	batch := []QCRecord{rec("2", "B2"), rec("4", "D")}

	got := MergeRecords(existing, batch)

	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(got))
	assert.Equal(t, "B2", got[2].PartName)
	assert.Len(t, existing, 3, "input must not be modified")
	assert.Equal(t, "B", existing[1].PartName)
}

func TestMergeRecordsNoDuplicateIdentities(t *testing.T) {
	existing := []QCRecord{rec("1", "A"), rec("2", "B")}
	batch := []QCRecord{rec("2", "first"), rec("5", "E"), rec("2", "last")}

	got := MergeRecords(existing, batch)

	seen := map[string]int{}
	for _, r := range got {
		seen[r.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
	assert.Equal(t, []string{"1", "2", "5"}, ids(got))
	assert.Equal(t, "last", got[1].PartName)
}

func TestMergeRecordsIdempotent(t *testing.T) {
	existing := []QCRecord{rec("1", "A"), rec("2", "B"), rec("3", "C")}
	batch := []QCRecord{rec("3", "C2"), rec("9", "Z")}

	once := MergeRecords(existing, batch)
	twice := MergeRecords(once, batch)
	assert.Equal(t, once, twice)
}

func TestMergeRecordsEmpty(t *testing.T) {
	assert.Empty(t, MergeRecords(nil, nil))
	assert.Equal(t, []string{"1"}, ids(MergeRecords(nil, []QCRecord{rec("1", "A")})))
	assert.Equal(t, []string{"1"}, ids(MergeRecords([]QCRecord{rec("1", "A")}, nil)))
}

func TestRemoveRecord(t *testing.T) {
	records := []QCRecord{rec("1", "A"), rec("2", "B")}
	out, ok := RemoveRecord(records, "1")
	assert.True(t, ok)
	assert.Equal(t, []string{"2"}, ids(out))

	_, ok = RemoveRecord(records, "nope")
	assert.False(t, ok)
}

func TestCategorySegmentRoundTrip(t *testing.T) {
	for _, c := range AllCategories() {
		seg := c.PathSegment()
		assert.NotContains(t, seg, "/")
		assert.NotContains(t, seg, "(")
		assert.NotContains(t, seg, " ")

		back, err := ParseCategorySegment(seg)
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}

	_, err := ParseCategorySegment("Unknown%20Register")
	assert.Error(t, err)
}

func TestCustomFieldsFlatJSON(t *testing.T) {
	f := NewCustomFields(CategorySegregationRework)
	require.True(t, f.Set("partName", "BRACKET-A"))
	require.True(t, f.Set("reworkQty", "4"))
	assert.False(t, f.Set("batchNo", "B1"), "batchNo belongs to another registry")

	raw, err := json.Marshal(f)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "BRACKET-A", flat["partName"])
	assert.Equal(t, "4", flat["reworkQty"])
	assert.Equal(t, "BOP", flat["segregationArea"])
	assert.NotContains(t, flat, "Extra")
}

func TestRecordDecodesVariantFromCategory(t *testing.T) {
	raw := `{"id":"7","category":"Sampling Part Notebook","partName":"NUT","result":"NG",
		"timestamp":1700000000000,"customFields":{"partName":"NUT","ngQty":"2","batchNo":"B-9","unit":"Kg"}}`

	var r QCRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, CategorySamplingPart, r.CustomFields.Category())
	sampling, ok := r.CustomFields.Extra.(*SamplingPartFields)
	require.True(t, ok)
	assert.Equal(t, "B-9", sampling.BatchNo)
	assert.Equal(t, "Kg", sampling.Unit)
	assert.Equal(t, "2", r.CustomFields.NgQty)
	assert.True(t, r.Result.Failed())
}

func TestRecordWithoutCustomFields(t *testing.T) {
	var r QCRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","category":"Export Only Data Register"}`), &r))
	_, ok := r.CustomFields.Extra.(*ExportOnlyFields)
	assert.True(t, ok)
}

func TestCustomFieldsClone(t *testing.T) {
	f := NewCustomFields(CategoryWithoutInvoice)
	f.Set("mrNo", "MR-1")
	c := f.Clone()
	c.Set("mrNo", "MR-2")
	c.Set("partNo", "P-2")

	v, _ := f.Get("mrNo")
	assert.Equal(t, "MR-1", v)
	assert.Empty(t, f.PartNo)
}

func TestGuestWorker(t *testing.T) {
	g := GuestWorker()
	assert.True(t, g.IsGuest())
	assert.Equal(t, RoleWorker, g.Role)
	assert.False(t, g.CanViewHistory)
	assert.True(t, strings.HasPrefix(g.EmployeeCode, "GGC"))
}

func TestWorkerPublicHidesPassword(t *testing.T) {
	w := Worker{ID: "1", Password: "hash"}
	assert.Empty(t, w.Public().Password)
	assert.Equal(t, "hash", w.Password)
}
