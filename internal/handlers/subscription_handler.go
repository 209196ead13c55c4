package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/services"
)

// SubscriptionHandler handles subscription-related requests.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// CreateSubscriptionRequest represents the request payload for adding a subscription.
type CreateSubscriptionRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Amount     int64  `json:"amount" binding:"gt=0"`
	BillingDay int    `json:"billing_day" binding:"required,min=1,max=31"`
	Account    string `json:"account" binding:"max=100"`
	Category   string `json:"category" binding:"omitempty,category"`
	Notes      string `json:"notes" binding:"max=500"`
	Active     *bool  `json:"active"`
}

// UpdateSubscriptionRequest represents the request payload for toggling a subscription.
type UpdateSubscriptionRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// PostSubscriptionsResponse reports the charges created for a month.
type PostSubscriptionsResponse struct {
	Month  string `json:"month"`
	Posted int    `json:"posted"`
}

// CreateSubscription handles adding a recurring charge
// @Summary     Add a subscription
// @Description Add a recurring monthly charge. Amount is in cents.
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubscriptionRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscription created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	sub, err := h.subscriptionService.AddSubscription(services.SubscriptionInput{
		Name:       req.Name,
		Amount:     req.Amount,
		BillingDay: req.BillingDay,
		Account:    req.Account,
		Category:   models.Category(req.Category),
		Notes:      req.Notes,
		Active:     req.Active,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

// GetSubscriptions handles listing subscriptions
// @Summary     List subscriptions
// @Description Get subscriptions in creation order
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       active query bool false "Only active subscriptions"
// @Success     200 {array}  models.Subscription "Subscriptions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	activeOnly := false
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid active, must be true or false"))
			return
		}
		activeOnly = b
	}

	subs, err := h.subscriptionService.GetSubscriptions(activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// UpdateSubscription handles turning a subscription on or off
// @Summary     Toggle a subscription
// @Description Activate or deactivate a subscription
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Subscription ID"
// @Param       request body UpdateSubscriptionRequest true "New state"
// @Success     200 {object} models.Subscription "Subscription updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [patch]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	sub, err := h.subscriptionService.SetSubscriptionActive(id, *req.Active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// PostSubscriptions handles posting the month's subscription charges
// @Summary     Post subscriptions
// @Description Create one expense per active subscription, dated on its billing day within the month.
// @Description Posting the same month twice creates the charges twice.
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month key YYYY-MM (default current month)"
// @Success     200 {object} PostSubscriptionsResponse "Charges posted"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/post [post]
func (h *SubscriptionHandler) PostSubscriptions(c *gin.Context) {
	monthKey, err := monthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	posted, err := h.subscriptionService.PostDueSubscriptions(monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PostSubscriptionsResponse{Month: monthKey, Posted: posted})
}
