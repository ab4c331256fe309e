package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"qc-registry/access"
	"qc-registry/models"
	"qc-registry/repositories"
	"qc-registry/utils"

	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/slices"
)

const (
	LedgerSheet      = "QC_Ledger"
	ExportFileName   = "Gupta_Group_QC_Data.xlsx"
	ExportCSVName    = "Gupta_Group_QC_Data.csv"
	defaultSheetName = "Sheet1"
)

// LedgerHeaders are the export columns, in order.
var LedgerHeaders = []string{
	"Date", "Category", "Operator", "Part Name", "Part No",
	"Total Qty", "OK Qty", "NG Qty", "Hours", "Result", "Remarks",
}

type Dashboard struct {
	User       models.Worker       `json:"user"`
	Categories []models.QCCategory `json:"categories"`
	ShowLedger bool                `json:"showLedger"`
	CanDelete  bool                `json:"canDelete"`
	CanExport  bool                `json:"canExport"`
	Records    []models.QCRecord   `json:"records"`
}

type CategorySummary struct {
	Category models.QCCategory `json:"category"`
	Total    int               `json:"total"`
	OK       int               `json:"ok"`
	NG       int               `json:"ng"`
}

type LedgerService struct {
	records *repositories.RecordRepository
}

func NewLedgerService(records *repositories.RecordRepository) *LedgerService {
	return &LedgerService{records: records}
}

// Dashboard assembles the home view: the categories the user may enter and,
// for users with ledger visibility, the searched ledger.
func (s *LedgerService) Dashboard(user models.Worker, query string) Dashboard {
	d := Dashboard{
		User:       user.Public(),
		Categories: access.AllowedCategories(user, models.AllCategories()),
		ShowLedger: access.CanViewLedger(user),
		CanDelete:  access.CanDelete(user),
		CanExport:  access.CanDelete(user),
		Records:    []models.QCRecord{},
	}
	if d.ShowLedger {
		d.Records = FilterRecords(s.records.GetAll(), query)
	}
	return d
}

func (s *LedgerService) Search(user models.Worker, query string) ([]models.QCRecord, error) {
	if !access.CanViewLedger(user) {
		return nil, ErrForbidden
	}
	return FilterRecords(s.records.GetAll(), query), nil
}

// FilterRecords keeps the records whose part name, category, operator or part
// number contains query (case-insensitive) and orders them newest first.
func FilterRecords(records []models.QCRecord, query string) []models.QCRecord {
	out := make([]models.QCRecord, 0, len(records))
	for _, r := range records {
		if query == "" ||
			utils.ContainsFold(r.PartName, query) ||
			utils.ContainsFold(string(r.Category), query) ||
			utils.ContainsFold(r.WorkerName, query) ||
			utils.ContainsFold(r.PartNo, query) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.QCRecord) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	return out
}

func (s *LedgerService) Summary(user models.Worker) ([]CategorySummary, error) {
	if !access.CanViewLedger(user) {
		return nil, ErrForbidden
	}
	counts := make(map[models.QCCategory]*CategorySummary)
	out := make([]CategorySummary, 0, len(models.AllCategories()))
	for _, c := range models.AllCategories() {
		counts[c] = &CategorySummary{Category: c}
	}
	for _, r := range s.records.GetAll() {
		sum, ok := counts[r.Category]
		if !ok {
			continue
		}
		sum.Total++
		if r.Result.Failed() {
			sum.NG++
		} else {
			sum.OK++
		}
	}
	for _, c := range models.AllCategories() {
		out = append(out, *counts[c])
	}
	return out, nil
}

func orZero(s string) any {
	if s == "" {
		return 0
	}
	return s
}

func ledgerRow(r models.QCRecord) []any {
	f := r.CustomFields
	return []any{
		r.Date,
		string(r.Category),
		r.WorkerName,
		r.PartName,
		r.PartNo,
		orZero(f.InvoiceQty),
		orZero(f.OkQty),
		orZero(f.NgQty),
		orZero(f.Duration),
		string(r.Result),
		r.Remarks,
	}
}

// ExportExcel writes every stored record to w as an xlsx workbook. Admin only.
func (s *LedgerService) ExportExcel(user models.Worker, w io.Writer) error {
	if !access.CanDelete(user) {
		return ErrForbidden
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheetName, LedgerSheet); err != nil {
		return err
	}
	header := make([]any, len(LedgerHeaders))
	for i, h := range LedgerHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(LedgerSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range s.records.GetAll() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := ledgerRow(r)
		if err := f.SetSheetRow(LedgerSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportCSV writes the same columns as ExportExcel in CSV form. Admin only.
func (s *LedgerService) ExportCSV(user models.Worker, w io.Writer) error {
	if !access.CanDelete(user) {
		return ErrForbidden
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerHeaders); err != nil {
		return err
	}
	for _, r := range s.records.GetAll() {
		cells := ledgerRow(r)
		line := make([]string, len(cells))
		for i, c := range cells {
			line[i] = fmt.Sprint(c)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
