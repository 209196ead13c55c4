package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/services"
)

// ReportHandler serves the read-only monthly reports.
type ReportHandler struct {
	reportService services.ReportServicer
	trendMonths   int
}

// NewReportHandler creates a new ReportHandler. trendMonths is the trend
// length used when a request does not give one.
func NewReportHandler(reportService services.ReportServicer, trendMonths int) *ReportHandler {
	if trendMonths <= 0 {
		trendMonths = services.DefaultTrendMonths
	}
	return &ReportHandler{reportService: reportService, trendMonths: trendMonths}
}

// GetSummary handles the monthly income and expense totals
// @Summary     Month summary
// @Description Total income, total expense and net for a month. Transfers count towards neither.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month key YYYY-MM (default current month)"
// @Success     200 {object} services.MonthSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	monthKey, err := monthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.MonthSummary(monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetCategories handles the monthly spend per category
// @Summary     Category breakdown
// @Description Expenses per category with budget and variance, largest spend first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month key YYYY-MM (default current month)"
// @Success     200 {array}  services.CategoryLine "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategories(c *gin.Context) {
	monthKey, err := monthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lines, err := h.reportService.CategoryBreakdown(monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": monthKey, "categories": lines})
}

// GetTrend handles the income and expense history
// @Summary     Trend
// @Description Income, expense and net for the most recent months holding transactions, oldest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of months (default 6)"
// @Success     200 {array}  services.TrendPoint "Trend"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/trend [get]
func (h *ReportHandler) GetTrend(c *gin.Context) {
	months, err := h.monthsQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	points, err := h.reportService.Trend(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": points})
}

// GetDashboard handles the combined month view
// @Summary     Dashboard
// @Description Summary, category breakdown and trend in one response
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month  query string false "Month key YYYY-MM (default current month)"
// @Param       months query int    false "Trend length (default 6)"
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	monthKey, err := monthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	months, err := h.monthsQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dash, err := h.reportService.Dashboard(c.Request.Context(), monthKey, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

func (h *ReportHandler) monthsQuery(c *gin.Context) (int, error) {
	v := c.Query("months")
	if v == "" {
		return h.trendMonths, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > 120 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid months, must be between 1 and 120")
	}
	return n, nil
}
