package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"excursia/internal/domain"
	"excursia/internal/modules/payment"
	"excursia/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type confirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// ConfirmTicket handles POST /api/v1/orders/confirm
func (h *Handler) ConfirmTicket(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	confirmed, err := h.service.ConfirmTicket(c.Request.Context(), req.Token, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, confirmed)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	ord, err := h.service.GetOrder(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ord)
}

// ListOrders handles GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.service.ListOrders(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

// ListSales handles GET /api/v1/sales
func (h *Handler) ListSales(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.service.ListSales(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

// Ticket handles GET /api/v1/orders/:id/ticket
func (h *Handler) Ticket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	png, err := h.service.TicketPNG(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func actorFrom(c *gin.Context) *domain.User {
	actor := &domain.User{
		ID:   c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}
	if v, ok := c.Get("employer_id"); ok {
		if id, ok := v.(int64); ok {
			actor.EmployerID = &id
		}
	}
	return actor
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot access this order")
	case errors.Is(err, ErrExpired):
		response.Error(c, http.StatusConflict, "EXPIRED", "Session is over, ticket can no longer be redeemed")
	case errors.Is(err, payment.ErrAlreadyConfirmed):
		response.Error(c, http.StatusConflict, "ALREADY_REDEEMED", "Ticket already redeemed")
	case errors.Is(err, payment.ErrInvalidTransition), errors.Is(err, payment.ErrNoTransaction):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, payment.ErrExternalPayment):
		response.Error(c, http.StatusBadGateway, "PAYMENT_FAILED", "Payment provider rejected the operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
