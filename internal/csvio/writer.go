package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"pocketbook/internal/models"
)

// ExportColumns is the header written by Writer.
var ExportColumns = []string{"id", "date", "account", "merchant", "category", "type", "method", "amount", "notes", "created_at"}

// Writer writes transactions in the export format.
type Writer struct {
	w *csv.Writer
}

// NewWriter returns a Writer on w. Call WriteHeader first and Flush last.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader() error {
	return w.w.Write(ExportColumns)
}

// Write writes one transaction row.
func (w *Writer) Write(tx *models.Transaction) error {
	return w.w.Write([]string{
		strconv.FormatUint(uint64(tx.ID), 10),
		tx.Date.String(),
		tx.Account,
		tx.Merchant,
		string(tx.Category),
		string(tx.Type),
		tx.Method,
		FormatAmount(tx.Amount),
		tx.Notes,
		tx.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Flush writes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
