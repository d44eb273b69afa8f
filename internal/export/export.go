// Package export serializes transaction rows into downloadable artifacts.
// Output is deterministic for fixed input: the caller supplies rows already
// ordered and both writers emit them as-is.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

var columns = []string{
	"date", "merchant", "total_cents", "tax_cents", "tip_cents",
	"currency_code", "category", "subcategory",
}

// ObjectKey is where an export job's artifact lands in the blob store.
func ObjectKey(userID, jobID uuid.UUID, format constants.ExportFormat) string {
	return fmt.Sprintf("exports/%s/%s.%s", userID, jobID, format)
}

func ContentType(format constants.ExportFormat) string {
	if format == constants.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Write serializes transactions in the requested format.
func Write(format constants.ExportFormat, txns []*entity.Transaction) ([]byte, error) {
	if format == constants.ExportFormatXLSX {
		return WriteXLSX(txns)
	}
	return WriteCSV(txns)
}

// WriteCSV emits a header row then one row per transaction.
func WriteCSV(txns []*entity.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, t := range txns {
		record := []string{
			t.TxnDate.Format("2006-01-02"),
			strOrEmpty(t.Merchant),
			strconv.FormatInt(t.TotalCents, 10),
			centsOrEmpty(t.TaxCents),
			centsOrEmpty(t.TipCents),
			t.CurrencyCode,
			t.Category,
			strOrEmpty(t.Subcategory),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX emits the same columns as a workbook.
func WriteXLSX(txns []*entity.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Transactions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, t := range txns {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, t.TxnDate.Format("2006-01-02"))
		write(2, strOrEmpty(t.Merchant))
		write(3, t.TotalCents)
		write(4, centsOrEmpty(t.TaxCents))
		write(5, centsOrEmpty(t.TipCents))
		write(6, t.CurrencyCode)
		write(7, t.Category)
		write(8, strOrEmpty(t.Subcategory))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12) // date
	_ = f.SetColWidth(sheet, "B", "B", 28) // merchant
	_ = f.SetColWidth(sheet, "C", "E", 12) // amounts
	_ = f.SetColWidth(sheet, "F", "H", 16) // currency/category

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func centsOrEmpty(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}
