package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocketbook/internal/models"
	"pocketbook/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the request payload for setting a budget.
// Planned is in minor units (cents).
type UpsertBudgetRequest struct {
	Planned *int64 `json:"planned" binding:"required,min=0"`
}

// GetBudgets handles listing the planned amount per category
// @Summary     List budgets
// @Description Get the planned monthly amount for every budgeted category
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Budget "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgets()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// UpsertBudget handles setting the planned amount for a category
// @Summary     Set a budget
// @Description Create or replace the planned monthly amount for a category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       category path string              true "Category name"
// @Param       request  body UpsertBudgetRequest true "Planned amount"
// @Success     200 {object} models.Budget "Budget saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{category} [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	budget, err := h.budgetService.UpsertBudget(models.Category(c.Param("category")), *req.Planned)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
