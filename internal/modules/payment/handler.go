package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"excursia/internal/domain"
	"excursia/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CanRefund handles GET /api/v1/orders/:id/can-refund
func (h *Handler) CanRefund(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	result, err := h.service.CanRefund(c.Request.Context(), orderID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Refund handles POST /api/v1/orders/:id/refund
func (h *Handler) Refund(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	// the description is optional, so an empty body is a valid request
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := &domain.User{
		ID:   c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}

	refund, err := h.service.Refund(c.Request.Context(), orderID, user, req.Description)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"order_id": refund.OrderID,
		"percent":  refund.Percent,
		"amount":   refund.Amount,
	})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot manage this order")
	case errors.Is(err, ErrRefundDenied):
		response.Error(c, http.StatusConflict, "REFUND_DENIED", "Order is not refundable")
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Error(c, http.StatusConflict, "ALREADY_REDEEMED", "Ticket already redeemed")
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNoTransaction):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrExternalPayment):
		response.Error(c, http.StatusBadGateway, "PAYMENT_FAILED", "Payment provider rejected the operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
