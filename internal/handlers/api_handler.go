package handlers

import (
	"net/http"

	"pizzeria/internal/models"
	"pizzeria/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	orderService  services.OrderService
	statusChanges services.StatusChangeService
}

func NewAPIHandler(orderService services.OrderService, statusChanges services.StatusChangeService) *APIHandler {
	return &APIHandler{
		orderService:  orderService,
		statusChanges: statusChanges,
	}
}

type QuoteRequest struct {
	DeliveryMethod models.DeliveryMethod `json:"delivery_method" binding:"required"`
	Lines          []services.CartLine   `json:"lines"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type PaymentRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// Cart endpoints
func (h *APIHandler) QuoteCart(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	totals, err := h.orderService.QuoteCart(c.Request.Context(), req.Lines, req.DeliveryMethod)
	if err != nil {
		respondError(c, err, "Failed to quote cart")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Order endpoints
func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req services.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":       order,
		"status_info": models.StatusInfo(order.Status),
	})
}

func (h *APIHandler) GetNextStatuses(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	next, err := h.statusChanges.ComputeValidNextStatuses(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to compute next statuses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "next_statuses": next})
}

func (h *APIHandler) GetHistory(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	history, err := h.statusChanges.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load status history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "history": history})
}

func (h *APIHandler) GetEstimate(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	minutes, known, err := h.orderService.EstimateRemainingTime(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to estimate remaining time")
		return
	}
	resp := gin.H{"order_id": id, "known": known}
	if known {
		resp["remaining_minutes"] = minutes
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus applies a manual status change for the authenticated actor.
// A refused change answers 403 with the reason.
func (h *APIHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.statusChanges.AttemptManualTransition(c.Request.Context(), id, req.Status, actor)
	if err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}
	if !result.Decision.Allowed {
		c.JSON(http.StatusForbidden, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecordPayment receives the payment outcome for an order.
func (h *APIHandler) RecordPayment(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.RecordPaymentResult(c.Request.Context(), id, *req.Paid)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, order)
}
