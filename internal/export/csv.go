package export

import (
	"encoding/csv"
	"io"

	"github.com/google/uuid"

	"docflow/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel needs to detect CSV encoding on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

type csvWriter struct {
	out io.Writer
	csv *csv.Writer
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{out: w, csv: csv.NewWriter(w)}
}

func (w *csvWriter) WriteHeader() error {
	if _, err := w.out.Write(BOM); err != nil {
		return err
	}
	return w.csv.Write(columns)
}

func (w *csvWriter) WriteDocuments(docs []domain.Document, clientNames map[uuid.UUID]string) error {
	for i := range docs {
		if err := w.csv.Write(documentToRow(&docs[i], clientNames)); err != nil {
			return err
		}
	}
	return nil
}

func (w *csvWriter) Close() error {
	w.csv.Flush()
	return w.csv.Error()
}
