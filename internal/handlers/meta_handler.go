package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocketbook/internal/models"
	"pocketbook/internal/services"
)

// MetaResponse lists the values offered when entering a transaction.
type MetaResponse struct {
	Accounts   []string                 `json:"accounts"`
	Methods    []string                 `json:"methods"`
	Types      []models.TransactionType `json:"types"`
	Categories []models.Category        `json:"categories"`
}

// MetaHandler serves the suggested values for transaction fields.
type MetaHandler struct {
	budgetService services.BudgetServicer
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(budgetService services.BudgetServicer) *MetaHandler {
	return &MetaHandler{budgetService: budgetService}
}

// GetMeta handles listing suggested accounts, methods, types and categories
// @Summary     Field suggestions
// @Description Suggested accounts, payment methods, transaction types and categories.
// @Description Categories are the defaults followed by any other budgeted category.
// @Tags        meta
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MetaResponse "Suggestions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meta [get]
func (h *MetaHandler) GetMeta(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgets()
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories := append([]models.Category{}, models.DefaultCategories...)
	for _, b := range budgets {
		if !b.Category.IsDefault() {
			categories = append(categories, b.Category)
		}
	}

	c.JSON(http.StatusOK, MetaResponse{
		Accounts:   models.DefaultAccounts,
		Methods:    models.DefaultMethods,
		Types:      models.TransactionTypes,
		Categories: categories,
	})
}
