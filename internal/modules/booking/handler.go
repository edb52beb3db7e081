package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"excursia/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder handles POST /api/v1/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	userID := c.GetInt64("user_id")
	resp, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// CanBook handles GET /api/v1/excursions/:id/can-book?date=&time=&adults=&children=
func (h *Handler) CanBook(c *gin.Context) {
	excursionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid excursion ID")
		return
	}

	date := c.Query("date")
	start := c.Query("time")
	if date == "" || start == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "date and time query parameters are required")
		return
	}

	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))
	children, _ := strconv.Atoi(c.DefaultQuery("children", "0"))

	result, err := h.service.CanBook(c.Request.Context(), excursionID, date, start, adults, children)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Excursion or meeting point not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotActive):
		response.Error(c, http.StatusConflict, "NOT_ACTIVE", "Excursion is not open for booking")
	case errors.Is(err, ErrTooEarly):
		response.Error(c, http.StatusConflict, "TOO_EARLY", "Session is not bookable yet")
	case errors.Is(err, ErrWindowClosed):
		response.Error(c, http.StatusConflict, "WINDOW_CLOSED", "Booking window for the session has closed")
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusConflict, "AMOUNT_MISMATCH", "Price has changed, refresh and try again")
	case errors.Is(err, ErrDuplicate):
		response.Error(c, http.StatusConflict, "REPEAT_ORDER", "Identical pending order already exists")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
