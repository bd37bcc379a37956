package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"cap-order-service/internal/models"
	"cap-order-service/internal/services"
)

// OrderService is the order side used by the handlers
type OrderService interface {
	SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest) (*models.SubmitOrderResponse, error)
	UpdateWorkflowStage(ctx context.Context, id uint, req *models.UpdateWorkflowRequest) (*models.OrderItem, error)
}

// CheckoutService is the payment side used by the handlers
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutSessionResponse, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

// OrderHandler serves the storefront's order and checkout endpoints
type OrderHandler struct {
	orders   OrderService
	checkout CheckoutService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService, checkout CheckoutService) *OrderHandler {
	return &OrderHandler{orders: orders, checkout: checkout}
}

// RegisterRoutes mounts the endpoints on group
func (h *OrderHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.PUT("/workflow/:id", h.UpdateWorkflow)
	group.POST("/capconfigurator", h.SubmitOrder)
	group.POST("/create-checkout-session", h.CreateCheckoutSession)
	group.GET("/checkout-session", h.GetCheckoutSession)
}

// UpdateWorkflow moves an order item to a new stage and notifies the customer
// PUT /workflow/:id
func (h *OrderHandler) UpdateWorkflow(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, &services.ValidationError{Message: "Invalid order item id"})
		return
	}

	var req models.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &services.ValidationError{Message: "Invalid request body: " + err.Error()})
		return
	}

	item, err := h.orders.UpdateWorkflowStage(c.Request.Context(), uint(id), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// SubmitOrder emails a configured cap order to the customer and the shop
// POST /capconfigurator
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req models.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &services.ValidationError{Message: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.orders.SubmitOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCheckoutSession opens a hosted checkout for an order
// POST /create-checkout-session
func (h *OrderHandler) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondCheckoutError(c, &services.ValidationError{Message: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.checkout.CreateCheckoutSession(c.Request.Context(), &req)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCheckoutSession returns a checkout session as the processor sent it
// GET /checkout-session?session_id=
func (h *OrderHandler) GetCheckoutSession(c *gin.Context) {
	session, err := h.checkout.GetCheckoutSession(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	if session.LastResponse != nil && len(session.LastResponse.RawJSON) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", session.LastResponse.RawJSON)
		return
	}
	c.JSON(http.StatusOK, session)
}
