package grid

import (
	"bytes"
	"encoding/json"
	"fmt"

	"qc-registry/models"
)

// Row is one editable line of a registry grid: the record identity plus its
// custom fields. It is serialized as a flat object with an "id" key.
type Row struct {
	ID     string
	Fields models.CustomFields
}

func (r Row) Clone() Row {
	return Row{ID: r.ID, Fields: r.Fields.Clone()}
}

func (r Row) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Fields)
	if err != nil {
		return nil, err
	}
	flat := map[string]any{}
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	flat["id"] = r.ID
	return json.Marshal(flat)
}

// DecodeRow reads a flat row object sent by a client grid of the given category.
func DecodeRow(category models.QCCategory, raw json.RawMessage) (Row, error) {
	var head struct {
		ID string `json:"id"`
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Row{}, fmt.Errorf("empty row")
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Row{}, fmt.Errorf("decode row: %w", err)
	}
	fields, err := models.DecodeCustomFields(category, raw)
	if err != nil {
		return Row{}, err
	}
	return Row{ID: head.ID, Fields: fields}, nil
}
