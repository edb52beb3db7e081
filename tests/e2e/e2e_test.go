package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"excursia/internal/appconfig"
	"excursia/internal/database"
	"excursia/internal/domain"
	"excursia/internal/middleware"
	"excursia/internal/modules/auth"
	"excursia/internal/modules/booking"
	"excursia/internal/modules/catalog"
	"excursia/internal/modules/complaint"
	"excursia/internal/modules/order"
	"excursia/internal/modules/payment"
	jwtsvc "excursia/internal/pkg/jwt"
	"excursia/internal/repository"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service

	partnerID  int64
	employeeID int64
	buyerID    int64

	excursionID int64
	pointID     int64
	sessionDate string
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// a single connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	excursionRepo := repository.NewExcursionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	qrRepo := repository.NewQrCodeRepository(db)
	appcfgRepo := repository.NewAppConfigRepository(db)

	appcfg := appconfig.NewStore(appcfgRepo)
	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	runTx := repository.NewTxRunner(db)
	gateway := payment.NewSandboxGateway(nil)

	paymentService := payment.NewService(orderRepo, txRepo, refundRepo, gateway, appcfg, runTx, nil)
	bookingService := booking.NewService(orderRepo, excursionRepo, qrRepo, paymentService, appcfg, runTx, nil)
	orderService := order.NewService(orderRepo, qrRepo, excursionRepo, paymentService, appcfg, nil)
	complaintService := complaint.NewService(orderRepo, complaintRepo, runTx, nil)
	authService := auth.NewService(userRepo, jwtService)
	catalogService := catalog.NewService(excursionRepo)

	authHandler := auth.NewHandler(authService)
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentService)
	orderHandler := order.NewHandler(orderService)
	complaintHandler := complaint.NewHandler(complaintService)
	catalogHandler := catalog.NewHandler(catalogService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/register", authHandler.Register)
		v1.GET("/excursions", catalogHandler.ListExcursions)
		v1.GET("/excursions/:id", catalogHandler.GetExcursion)
		v1.GET("/excursions/:id/can-book", bookingHandler.CanBook)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			protected.POST("/orders", bookingHandler.CreateOrder)
			protected.GET("/orders", orderHandler.ListOrders)
			protected.POST("/orders/confirm", orderHandler.ConfirmTicket)
			protected.GET("/orders/:id", orderHandler.GetOrder)
			protected.GET("/orders/:id/ticket", orderHandler.Ticket)
			protected.GET("/orders/:id/can-refund", paymentHandler.CanRefund)
			protected.POST("/orders/:id/refund", paymentHandler.Refund)
			protected.GET("/orders/:id/can-complain", complaintHandler.CanComplain)
			protected.POST("/orders/:id/complaint", complaintHandler.File)
			protected.GET("/sales", middleware.RequireRole("partner", "admin"), orderHandler.ListSales)
		}
	}

	s := &E2ETestSuite{router: r, db: db, jwtService: jwtService}
	s.seed(t, userRepo, excursionRepo)
	return s
}

func (s *E2ETestSuite) seed(t *testing.T, users *repository.UserRepository, excursions *repository.ExcursionRepository) {
	ctx := context.Background()

	partner := s.seedUser(t, users, "partner@test.dev", domain.RolePartner, nil)
	s.partnerID = partner.ID
	s.employeeID = s.seedUser(t, users, "employee@test.dev", domain.RoleEmployee, &partner.ID).ID
	s.buyerID = s.seedUser(t, users, "buyer@test.dev", domain.RoleBuyer, nil).ID

	exc := &domain.Excursion{
		UserID:        partner.ID,
		Name:          "Rooftop tour",
		Type:          domain.TypeExc,
		Subtype:       domain.SubtypeGroup,
		PriceAdult:    2000,
		PriceChildren: 500,
		Status:        domain.ExcursionActive,
		Props: domain.ExcursionProps{
			Duration: domain.ExcursionDuration{Hour: 2},
		},
	}
	require.NoError(t, excursions.Create(ctx, exc))
	s.excursionID = exc.ID

	// five days out: inside the seven-day window, before the three-day
	// group lead, so a fresh order lands in HOLDING
	s.sessionDate = time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	etime := &domain.ExcursionTime{ExcursionID: exc.ID, Date: s.sessionDate, Start: "15:00"}
	require.NoError(t, excursions.CreateTime(ctx, etime))

	point := &domain.ExcursionTimePoint{
		ExcursionID:     exc.ID,
		ExcursionTimeID: etime.ID,
		Address:         "Main square",
		Lat:             59.93,
		Lng:             30.31,
	}
	require.NoError(t, excursions.CreatePoint(ctx, point))
	s.pointID = point.ID
}

func (s *E2ETestSuite) seedUser(t *testing.T, users *repository.UserRepository, email string, role domain.UserRole, employerID *int64) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("test-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test",
		Role:         role,
		EmployerID:   employerID,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func (s *E2ETestSuite) login(t *testing.T, email string) string {
	w := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "test-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data["token"].(string)
}

func (s *E2ETestSuite) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) createOrder(t *testing.T, token string) (int64, string) {
	w := s.request(t, http.MethodPost, "/api/v1/orders", token, gin.H{
		"excursion_id":    s.excursionID,
		"point_id":        s.pointID,
		"number_adult":    2,
		"number_children": 1,
		"amount":          4500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderData := resp.Data["order"].(map[string]interface{})
	return int64(orderData["id"].(float64)), resp.Data["qr_token"].(string)
}

func TestOrderLifecycle_CreateAndRefund(t *testing.T) {
	s := setupTestSuite(t)
	buyer := s.login(t, "buyer@test.dev")

	orderID, qrToken := s.createOrder(t, buyer)
	assert.NotEmpty(t, qrToken)

	var txRow struct{ Status int }
	require.NoError(t, s.db.Raw("SELECT status FROM transactions WHERE order_id = ?", orderID).Scan(&txRow).Error)
	assert.Equal(t, int(domain.TxHolding), txRow.Status)

	// repeat purchase of the same session is rejected
	w := s.request(t, http.MethodPost, "/api/v1/orders", buyer, gin.H{
		"excursion_id":    s.excursionID,
		"point_id":        s.pointID,
		"number_adult":    2,
		"number_children": 1,
		"amount":          4500,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// well before the session the refund is penalty free
	w = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/can-refund", orderID), buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var canRefund TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &canRefund))
	assert.Equal(t, true, canRefund.Data["status"])
	assert.Equal(t, float64(100), canRefund.Data["percent"])

	w = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/refund", orderID), buyer, gin.H{
		"description": "changed plans",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the order is canceled now, a second refund must bounce
	w = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/refund", orderID), buyer, gin.H{
		"description": "again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderLifecycle_TicketRedemption(t *testing.T) {
	s := setupTestSuite(t)
	buyer := s.login(t, "buyer@test.dev")
	employee := s.login(t, "employee@test.dev")

	orderID, qrToken := s.createOrder(t, buyer)

	// the buyer cannot redeem their own ticket
	w := s.request(t, http.MethodPost, "/api/v1/orders/confirm", buyer, gin.H{"token": qrToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.request(t, http.MethodPost, "/api/v1/orders/confirm", employee, gin.H{"token": qrToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(domain.OrderCompleted), resp.Data["status"])

	// a second scan of the same ticket is rejected
	w = s.request(t, http.MethodPost, "/api/v1/orders/confirm", employee, gin.H{"token": qrToken})
	assert.Equal(t, http.StatusConflict, w.Code)

	// a redeemed order can no longer be refunded
	w = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/refund", orderID), buyer, gin.H{
		"description": "too late",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderLifecycle_ComplaintSuspends(t *testing.T) {
	s := setupTestSuite(t)
	buyer := s.login(t, "buyer@test.dev")

	orderID, _ := s.createOrder(t, buyer)

	w := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/can-complain", orderID), buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var checks TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checks))
	assert.Equal(t, true, checks.Data["status"])

	w = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/complaint", orderID), buyer, gin.H{
		"type":        "quality",
		"description": "nobody showed up at the meeting point",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var orderRow struct{ Status int }
	require.NoError(t, s.db.Raw("SELECT status FROM orders WHERE id = ?", orderID).Scan(&orderRow).Error)
	assert.Equal(t, int(domain.OrderSuspended), orderRow.Status)

	// one complaint per order
	w = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/complaint", orderID), buyer, gin.H{
		"type":        "quality",
		"description": "still nobody",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// a suspended order can still be canceled through a refund
	w = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/refund", orderID), buyer, gin.H{
		"description": "give my money back",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCatalogAndAdmission(t *testing.T) {
	s := setupTestSuite(t)

	w := s.request(t, http.MethodGet, "/api/v1/excursions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rooftop tour")

	w = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/excursions/%d", s.excursionID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Main square")

	w = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/excursions/%d/can-book?date=%s&time=15:00&adults=2&children=1", s.excursionID, s.sessionDate), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp.Data["allowed"])
	assert.Equal(t, float64(4500), resp.Data["amount"])
}
