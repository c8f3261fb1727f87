package export

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"docflow/internal/domain"
)

const sheetName = "Documents"

type xlsxWriter struct {
	out      io.Writer
	file     *excelize.File
	row      int
	amountID int
}

func newXLSXWriter(w io.Writer) *xlsxWriter {
	f := excelize.NewFile()
	_ = f.SetSheetName(f.GetSheetName(0), sheetName)
	return &xlsxWriter{out: w, file: f, row: 1}
}

func (w *xlsxWriter) WriteHeader() error {
	bold, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	// Built-in number format 4 is "#,##0.00".
	if w.amountID, err = w.file.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		if err := w.file.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), w.row)
	if err := w.file.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return err
	}
	if err := w.file.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *xlsxWriter) WriteDocuments(docs []domain.Document, clientNames map[uuid.UUID]string) error {
	for i := range docs {
		doc := &docs[i]
		values := documentToRow(doc, clientNames)
		amounts := []float64{
			doc.Subtotal.InexactFloat64(),
			doc.TaxAmount.InexactFloat64(),
			doc.TotalAmount.InexactFloat64(),
			doc.PaidAmount.InexactFloat64(),
			doc.Remaining.InexactFloat64(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, w.row)
			var v interface{} = value
			if amountColumns[col] {
				v = amounts[col-8]
			}
			if err := w.file.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
			if amountColumns[col] {
				if err := w.file.SetCellStyle(sheetName, cell, cell, w.amountID); err != nil {
					return err
				}
			}
		}
		w.row++
	}
	return nil
}

func (w *xlsxWriter) Close() error {
	defer w.file.Close()
	if _, err := w.file.WriteTo(w.out); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
