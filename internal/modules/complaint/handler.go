package complaint

import (
	"errors"
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

// CanComplain handles GET /api/v1/orders/:id/can-complain
func (h *Handler) CanComplain(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	checks, err := h.service.CanComplain(c.Request.Context(), orderID, userFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, checks)
}

// File handles POST /api/v1/orders/:id/complaint
func (h *Handler) File(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	var req FileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rec, err := h.service.File(c.Request.Context(), orderID, userFrom(c), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rec)
}

func userFrom(c *gin.Context) *domain.User {
	return &domain.User{
		ID:   c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, ErrDenied):
		response.Error(c, http.StatusForbidden, "COMPLAINT_DENIED", "Complaint cannot be filed for this order")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
