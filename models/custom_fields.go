package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GridFields are the spreadsheet columns shared by every registry.
type GridFields struct {
	InvoiceDate   string `json:"invoiceDate"`
	PartName      string `json:"partName"`
	PartNo        string `json:"partNo"`
	InvoiceQty    string `json:"invoiceQty"`
	OkQty         string `json:"okQty"`
	NgQty         string `json:"ngQty"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Duration      string `json:"duration"`
	Remarks       string `json:"remarks"`
	CheckerID     string `json:"checkerId"`
	EvidenceImage string `json:"evidenceImage,omitempty"`
}

// Populated reports whether any identifying column has been filled in.
func (g GridFields) Populated() bool {
	return g.PartName != "" || g.PartNo != "" || g.InvoiceQty != ""
}

func (g *GridFields) field(name string) *string {
	switch name {
	case "invoiceDate":
		return &g.InvoiceDate
	case "partName":
		return &g.PartName
	case "partNo":
		return &g.PartNo
	case "invoiceQty":
		return &g.InvoiceQty
	case "okQty":
		return &g.OkQty
	case "ngQty":
		return &g.NgQty
	case "startTime":
		return &g.StartTime
	case "endTime":
		return &g.EndTime
	case "duration":
		return &g.Duration
	case "remarks":
		return &g.Remarks
	case "checkerId":
		return &g.CheckerID
	case "evidenceImage":
		return &g.EvidenceImage
	}
	return nil
}

// CategoryFields is the per-registry variant of the custom field union.
type CategoryFields interface {
	Category() QCCategory
	Set(field, value string) bool
	Get(field string) (string, bool)
}

type CoatingAdhesionFields struct {
	SupplierName string `json:"supplierName"`
	BatchNo      string `json:"batchNo"`
}

func (f *CoatingAdhesionFields) Category() QCCategory { return CategoryCoatingAdhesion }

func (f *CoatingAdhesionFields) ref(name string) *string {
	switch name {
	case "supplierName":
		return &f.SupplierName
	case "batchNo":
		return &f.BatchNo
	}
	return nil
}

func (f *CoatingAdhesionFields) Set(field, value string) bool { return setRef(f.ref(field), value) }
func (f *CoatingAdhesionFields) Get(field string) (string, bool) { return getRef(f.ref(field)) }

type SegregationReworkFields struct {
	ReasonOfSegregation string `json:"reasonOfSegregation"`
	SegregationArea     string `json:"segregationArea"`
	ReworkQty           string `json:"reworkQty"`
	ReworkHrs           string `json:"reworkHrs"`
}

func (f *SegregationReworkFields) Category() QCCategory { return CategorySegregationRework }

func (f *SegregationReworkFields) ref(name string) *string {
	switch name {
	case "reasonOfSegregation":
		return &f.ReasonOfSegregation
	case "segregationArea":
		return &f.SegregationArea
	case "reworkQty":
		return &f.ReworkQty
	case "reworkHrs":
		return &f.ReworkHrs
	}
	return nil
}

func (f *SegregationReworkFields) Set(field, value string) bool { return setRef(f.ref(field), value) }
func (f *SegregationReworkFields) Get(field string) (string, bool) { return getRef(f.ref(field)) }

type WithoutInvoiceFields struct {
	MrNo         string `json:"mrNo"`
	SupplierName string `json:"supplierName"`
	CheckedBy    string `json:"checkedBy"`
}

func (f *WithoutInvoiceFields) Category() QCCategory { return CategoryWithoutInvoice }

func (f *WithoutInvoiceFields) ref(name string) *string {
	switch name {
	case "mrNo":
		return &f.MrNo
	case "supplierName":
		return &f.SupplierName
	case "checkedBy":
		return &f.CheckedBy
	}
	return nil
}

func (f *WithoutInvoiceFields) Set(field, value string) bool { return setRef(f.ref(field), value) }
func (f *WithoutInvoiceFields) Get(field string) (string, bool) { return getRef(f.ref(field)) }

type SamplingPartFields struct {
	SupplierName string `json:"supplierName"`
	BatchNo      string `json:"batchNo"`
	Unit         string `json:"unit"`
}

func (f *SamplingPartFields) Category() QCCategory { return CategorySamplingPart }

func (f *SamplingPartFields) ref(name string) *string {
	switch name {
	case "supplierName":
		return &f.SupplierName
	case "batchNo":
		return &f.BatchNo
	case "unit":
		return &f.Unit
	}
	return nil
}

func (f *SamplingPartFields) Set(field, value string) bool { return setRef(f.ref(field), value) }
func (f *SamplingPartFields) Get(field string) (string, bool) { return getRef(f.ref(field)) }

type ExportOnlyFields struct {
	InvoiceNo    string `json:"invoiceNo"`
	CustomerName string `json:"customerName"`
}

func (f *ExportOnlyFields) Category() QCCategory { return CategoryExportOnly }

func (f *ExportOnlyFields) ref(name string) *string {
	switch name {
	case "invoiceNo":
		return &f.InvoiceNo
	case "customerName":
		return &f.CustomerName
	}
	return nil
}

func (f *ExportOnlyFields) Set(field, value string) bool { return setRef(f.ref(field), value) }
func (f *ExportOnlyFields) Get(field string) (string, bool) { return getRef(f.ref(field)) }

func setRef(p *string, value string) bool {
	if p == nil {
		return false
	}
	*p = value
	return true
}

func getRef(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// NewCategoryFields returns the variant for c with its form defaults, or nil for
// an unknown category.
func NewCategoryFields(c QCCategory) CategoryFields {
	switch c {
	case CategoryCoatingAdhesion:
		return &CoatingAdhesionFields{}
	case CategorySegregationRework:
		return &SegregationReworkFields{SegregationArea: "BOP"}
	case CategoryWithoutInvoice:
		return &WithoutInvoiceFields{CheckedBy: "BOP"}
	case CategorySamplingPart:
		return &SamplingPartFields{Unit: "Pcs"}
	case CategoryExportOnly:
		return &ExportOnlyFields{}
	}
	return nil
}

// CustomFields is a tagged union keyed by category: the shared grid columns plus
// the typed variant of the record's registry. It is serialized as one flat object.
type CustomFields struct {
	GridFields
	Extra CategoryFields `json:"-"`
}

func NewCustomFields(c QCCategory) CustomFields {
	return CustomFields{Extra: NewCategoryFields(c)}
}

func (f CustomFields) Category() QCCategory {
	if f.Extra == nil {
		return ""
	}
	return f.Extra.Category()
}

// Set writes a column by its JSON name. Unknown names return false.
func (f *CustomFields) Set(field, value string) bool {
	if p := f.GridFields.field(field); p != nil {
		*p = value
		return true
	}
	if f.Extra != nil {
		return f.Extra.Set(field, value)
	}
	return false
}

func (f CustomFields) Get(field string) (string, bool) {
	if p := f.GridFields.field(field); p != nil {
		return *p, true
	}
	if f.Extra != nil {
		return f.Extra.Get(field)
	}
	return "", false
}

// Clone copies the variant so edits on the copy do not leak into f.
func (f CustomFields) Clone() CustomFields {
	out := CustomFields{GridFields: f.GridFields}
	if f.Extra == nil {
		return out
	}
	out.Extra = NewCategoryFields(f.Extra.Category())
	raw, err := json.Marshal(f.Extra)
	if err == nil {
		_ = json.Unmarshal(raw, out.Extra)
	}
	return out
}

func (f CustomFields) MarshalJSON() ([]byte, error) {
	merged := map[string]any{}
	if err := mergeInto(merged, f.GridFields); err != nil {
		return nil, err
	}
	if f.Extra != nil {
		if err := mergeInto(merged, f.Extra); err != nil {
			return nil, err
		}
	}
	return json.Marshal(merged)
}

func mergeInto(dst map[string]any, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &dst)
}

// DecodeCustomFields decodes a flat custom field object for category c.
func DecodeCustomFields(c QCCategory, raw json.RawMessage) (CustomFields, error) {
	fields := NewCustomFields(c)
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields.GridFields); err != nil {
		return CustomFields{}, fmt.Errorf("decode custom fields: %w", err)
	}
	if fields.Extra != nil {
		if err := json.Unmarshal(raw, fields.Extra); err != nil {
			return CustomFields{}, fmt.Errorf("decode %s fields: %w", c, err)
		}
	}
	return fields, nil
}
