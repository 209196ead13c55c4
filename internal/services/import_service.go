package services

import (
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"pocketbook/internal/csvio"
	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
)

// importService moves transactions in and out of CSV.
type importService struct {
	db           *gorm.DB
	transactions TransactionServicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(db *gorm.DB) ImportServicer {
	return &importService{db: db, transactions: NewTransactionService(db)}
}

// ImportTransactions reads a transaction CSV and stores its rows.
//
// A header lacking a required column fails before any row is read. Rows
// with an unreadable date are skipped and listed in the result. Any other
// bad cell stops the import: rows already stored stay stored unless
// opts.Atomic is set, in which case nothing is kept. On such a failure the
// partial result is returned alongside the error.
func (s *importService) ImportTransactions(r io.Reader, opts ImportOptions) (*ImportResult, error) {
	reader, err := csvio.NewReader(r)
	if err != nil {
		var missing *csvio.MissingColumnError
		if errors.As(err, &missing) {
			return nil, apperrors.WithMessage(apperrors.ErrMissingColumn, missing.Error())
		}
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCSV, err.Error())
	}

	result := &ImportResult{Skipped: []SkippedRow{}}
	run := func(db *gorm.DB) error {
		for {
			rec, err := reader.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return apperrors.WithMessage(apperrors.ErrInvalidCSV, err.Error())
			}

			row, err := rec.Parse(opts.TargetMonth)
			if err != nil {
				if errors.Is(err, csvio.ErrUnparseableDate) {
					result.Skipped = append(result.Skipped, SkippedRow{Row: rec.Line, Reason: err.Error()})
					continue
				}
				return rowError(err)
			}

			if _, err := insertTransaction(db, TransactionInput{
				Date:     row.Date,
				Account:  row.Account,
				Merchant: row.Merchant,
				Category: row.Category,
				Type:     row.Type,
				Method:   row.Method,
				Amount:   row.Amount,
				Notes:    row.Notes,
			}); err != nil {
				return err
			}
			result.Inserted++
		}
	}

	if opts.Atomic {
		err = s.db.Transaction(run)
	} else {
		err = run(s.db)
	}
	if err != nil {
		if opts.Atomic {
			result.Inserted = 0
		}
		return result, withImportProgress(asAppError(err), result.Inserted, opts.Atomic)
	}

	logger.Get().Infow("imported transactions",
		"inserted", result.Inserted,
		"skipped", len(result.Skipped),
		"atomic", opts.Atomic,
	)
	return result, nil
}

// ExportTransactions writes the month's transactions as CSV, newest first,
// and returns the number of rows written.
func (s *importService) ExportTransactions(w io.Writer, monthKey string) (int, error) {
	txs, err := s.transactions.GetMonthTransactions(monthKey)
	if err != nil {
		return 0, err
	}

	cw := csvio.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range txs {
		if err := cw.Write(&txs[i]); err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if err := cw.Flush(); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(txs), nil
}

// rowError maps a bad CSV cell onto the matching AppError.
func rowError(err error) error {
	var rowErr *csvio.RowError
	if !errors.As(err, &rowErr) {
		return apperrors.WithMessage(apperrors.ErrInvalidCSV, err.Error())
	}
	switch rowErr.Field {
	case "amount":
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, rowErr.Error())
	case "type":
		return apperrors.WithMessage(apperrors.ErrInvalidTransactionType, rowErr.Error())
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, rowErr.Error())
	}
}

func withImportProgress(err error, inserted int, atomic bool) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Internal != nil {
		return err
	}
	if atomic {
		return apperrors.WithMessage(appErr, appErr.Message+"; nothing was imported")
	}
	return apperrors.WithMessage(appErr, fmt.Sprintf("%s; %d rows were imported before the failure", appErr.Message, inserted))
}
