package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pocketbook/internal/csvio"
	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/models"
	"pocketbook/internal/month"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
)

// maxImportSize caps the size of an uploaded CSV file.
const maxImportSize = 10 << 20

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	importService      services.ImportServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, importService services.ImportServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, importService: importService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount is in minor units (cents).
type CreateTransactionRequest struct {
	Date     string `json:"date" binding:"required"`
	Account  string `json:"account" binding:"max=100"`
	Merchant string `json:"merchant" binding:"max=200"`
	Category string `json:"category" binding:"max=64"`
	Type     string `json:"type" binding:"required,transaction_type"`
	Method   string `json:"method" binding:"max=50"`
	Amount   int64  `json:"amount" binding:"gt=0"`
	Notes    string `json:"notes" binding:"max=500"`
}

// DeleteTransactionsRequest represents the payload for deleting several transactions.
type DeleteTransactionsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// DeleteTransactionsResponse reports how many transactions were deleted.
type DeleteTransactionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an expense, income or transfer. Amount is in cents.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	date, err := csvio.ParseDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date, use YYYY-MM-DD"))
		return
	}
	txType, _ := models.ParseTransactionType(req.Type)

	transaction, err := h.transactionService.CreateTransaction(services.TransactionInput{
		Date:     date,
		Account:  req.Account,
		Merchant: req.Merchant,
		Category: models.Category(req.Category),
		Type:     txType,
		Method:   req.Method,
		Amount:   req.Amount,
		Notes:    req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists one month's transactions, newest first
// @Summary     List transactions
// @Description Get a paginated list of the transactions dated within a month, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month     query string false "Month key YYYY-MM (default current month)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	monthKey, err := monthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	result, err := h.transactionService.GetMonthTransactionsPage(monthKey, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMonths lists the months holding transactions
// @Summary     List months
// @Description Get every month key holding at least one transaction, plus the current month, ascending
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Month keys"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /months [get]
func (h *TransactionHandler) GetMonths(c *gin.Context) {
	months, err := h.transactionService.GetMonths(now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// DeleteTransactions handles deleting several transactions at once
// @Summary     Delete transactions
// @Description Delete every transaction whose ID is listed. Unknown IDs are ignored.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DeleteTransactionsRequest true "IDs to delete"
// @Success     200 {object} DeleteTransactionsResponse "Number of rows deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/delete [post]
func (h *TransactionHandler) DeleteTransactions(c *gin.Context) {
	var req DeleteTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	deleted, err := h.transactionService.DeleteTransactions(req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteTransactionsResponse{Deleted: deleted})
}

// ImportTransactions handles a CSV upload
// @Summary     Import transactions from CSV
// @Description Upload a CSV with columns date, account, merchant, category, type, method, amount and optionally notes.
// @Description Rows with unreadable dates are skipped. With force_month the rows are moved into month.
// @Description With atomic nothing is stored unless every row is valid.
// @Tags        transactions
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file        formData file   true  "CSV file"
// @Param       month       formData string false "Target month YYYY-MM (required with force_month)"
// @Param       force_month formData bool   false "Move every row into month, keeping its day"
// @Param       atomic      formData bool   false "Store all rows or none"
// @Success     200 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ImportErrorResponse "Invalid file or row, with any partial result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is too large"))
		return
	}

	opts, err := importOptions(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	result, err := h.importService.ImportTransactions(file, opts)
	if err != nil {
		respondWithImportError(c, err, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportErrorResponse is an import failure plus what the import did
// before it stopped.
type ImportErrorResponse struct {
	Error  ErrorDetail            `json:"error"`
	Result *services.ImportResult `json:"result,omitempty"`
}

// respondWithImportError reports a failed import. Row-level failures carry
// the partial result so clients still see the rows stored and skipped.
func respondWithImportError(c *gin.Context, err error, result *services.ImportResult) {
	var appErr *apperrors.AppError
	if result == nil || !errors.As(err, &appErr) || appErr.Internal != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(appErr.StatusCode, ImportErrorResponse{
		Error:  ErrorDetail{Code: appErr.Code, Message: appErr.Message},
		Result: result,
	})
}

func importOptions(c *gin.Context) (services.ImportOptions, error) {
	var opts services.ImportOptions

	atomic, err := formBool(c, "atomic")
	if err != nil {
		return opts, err
	}
	opts.Atomic = atomic

	force, err := formBool(c, "force_month")
	if err != nil {
		return opts, err
	}
	if !force {
		return opts, nil
	}

	key := c.PostForm("month")
	if key == "" {
		return opts, apperrors.WithMessage(apperrors.ErrInvalidInput, "month is required with force_month")
	}
	target, err := month.Parse(key)
	if err != nil {
		return opts, apperrors.WithMessage(apperrors.ErrInvalidMonth, "invalid month "+strconv.Quote(key)+": must be YYYY-MM")
	}
	opts.TargetMonth = &target
	return opts, nil
}

func formBool(c *gin.Context, field string) (bool, error) {
	v := c.PostForm(field)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field)
	}
	return b, nil
}

// ExportTransactions handles a CSV download of one month
// @Summary     Export transactions as CSV
// @Description Download the month's transactions, newest first
// @Tags        transactions
// @Produce     text/csv
// @Security    BearerAuth
// @Param       month query string false "Month key YYYY-MM (default current month)"
// @Success     200 {file} file "CSV attachment"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	monthKey, err := monthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	rows, err := h.importService.ExportTransactions(&buf, monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Debugw("exported transactions", "month", monthKey, "rows", rows)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%s.csv"`, monthKey))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
