package models

import (
	"encoding/json"
	"fmt"
)

const DateLayout = "2006-01-02"

type QCResult string

const (
	ResultOK   QCResult = "OK"
	ResultNG   QCResult = "NG"
	ResultPass QCResult = "PASS"
	ResultFail QCResult = "FAIL"
)

// Failed reports NG results, including the legacy FAIL value.
func (r QCResult) Failed() bool {
	return r == ResultNG || r == ResultFail
}

func (r QCResult) Valid() bool {
	switch r {
	case ResultOK, ResultNG, ResultPass, ResultFail:
		return true
	}
	return false
}

type QCRecord struct {
	ID           string       `json:"id"`
	Category     QCCategory   `json:"category"`
	Date         string       `json:"date"`
	PartName     string       `json:"partName"`
	PartNo       string       `json:"partNo,omitempty"`
	WorkerID     string       `json:"workerId"`
	WorkerName   string       `json:"workerName"`
	Result       QCResult     `json:"result"`
	Remarks      string       `json:"remarks"`
	Timestamp    int64        `json:"timestamp"`
	CustomFields CustomFields `json:"customFields"`
}

// UnmarshalJSON picks the custom field variant from the record category.
func (r *QCRecord) UnmarshalJSON(data []byte) error {
	type alias QCRecord
	aux := struct {
		*alias
		CustomFields json.RawMessage `json:"customFields"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	fields, err := DecodeCustomFields(r.Category, aux.CustomFields)
	if err != nil {
		return fmt.Errorf("record %s: %w", r.ID, err)
	}
	r.CustomFields = fields
	return nil
}

// Clone returns a copy that shares no mutable state with r.
func (r QCRecord) Clone() QCRecord {
	r.CustomFields = r.CustomFields.Clone()
	return r
}
