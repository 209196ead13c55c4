// Package csvio reads and writes the transaction CSV format:
// a header row naming date, account, merchant, category, type, method,
// amount and optionally notes, followed by one transaction per row.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"golang.org/x/text/cases"

	"pocketbook/internal/models"
	"pocketbook/internal/month"
)

// RequiredColumns lists the mandatory header columns in the order they are
// checked. The first one missing is reported.
var RequiredColumns = []string{"date", "account", "merchant", "category", "type", "method", "amount"}

const notesColumn = "notes"

// ErrUnparseableDate marks a row whose date cell cannot be read. Such rows
// are skipped rather than failing the import.
var ErrUnparseableDate = errors.New("unparseable date")

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q in CSV", e.Column)
}

// RowError describes a bad cell. Line is the 1-based line in the input,
// the header being line 1.
type RowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Record is one raw data row keyed by column.
type Record struct {
	Line     int
	Date     string
	Account  string
	Merchant string
	Category string
	Type     string
	Method   string
	Amount   string
	Notes    string
}

// Row is a validated record ready to be stored.
type Row struct {
	Line     int
	Date     civil.Date
	Account  string
	Merchant string
	Category models.Category
	Type     models.TransactionType
	Method   string
	Amount   int64
	Notes    string
}

// Reader yields records from a transaction CSV.
type Reader struct {
	r     *csv.Reader
	index map[string]int
}

// NewReader reads and validates the header. Column names are matched after
// trimming and Unicode case folding; unknown columns are ignored.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	fold := cases.Fold()
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := fold.String(strings.TrimSpace(name))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	return &Reader{r: cr, index: index}, nil
}

// Next returns the next record, or io.EOF after the last one. Blank lines
// are skipped.
func (r *Reader) Next() (*Record, error) {
	for {
		fields, err := r.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if isBlank(fields) {
			continue
		}
		line, _ := r.r.FieldPos(0)
		return &Record{
			Line:     line,
			Date:     r.cell(fields, "date"),
			Account:  r.cell(fields, "account"),
			Merchant: r.cell(fields, "merchant"),
			Category: r.cell(fields, "category"),
			Type:     r.cell(fields, "type"),
			Method:   r.cell(fields, "method"),
			Amount:   r.cell(fields, "amount"),
			Notes:    r.cell(fields, notesColumn),
		}, nil
	}
}

func (r *Reader) cell(fields []string, col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Parse validates the record. When target is set the date is moved into
// that month, keeping its day and clamping it to the month's last day.
// Empty optional cells take defaults: category Other, type Expense,
// method Card. A bad date yields a *RowError wrapping ErrUnparseableDate.
func (rec *Record) Parse(target *month.Month) (Row, error) {
	date, err := ParseDate(rec.Date)
	if err != nil {
		return Row{}, &RowError{Line: rec.Line, Field: "date", Value: rec.Date, Err: ErrUnparseableDate}
	}
	if target != nil {
		date = target.Clamp(date.Day)
	}

	txType := models.TransactionTypeExpense
	if rec.Type != "" {
		t, ok := models.ParseTransactionType(rec.Type)
		if !ok {
			return Row{}, &RowError{Line: rec.Line, Field: "type", Value: rec.Type, Err: errors.New("must be Expense, Income or Transfer")}
		}
		txType = t
	}

	amount, err := ParseAmount(rec.Amount)
	if err != nil {
		return Row{}, &RowError{Line: rec.Line, Field: "amount", Value: rec.Amount, Err: err}
	}

	method := rec.Method
	if method == "" {
		method = models.MethodCard
	}

	return Row{
		Line:     rec.Line,
		Date:     date,
		Account:  rec.Account,
		Merchant: rec.Merchant,
		Category: models.ParseCategory(rec.Category),
		Type:     txType,
		Method:   method,
		Amount:   amount,
		Notes:    rec.Notes,
	}, nil
}
