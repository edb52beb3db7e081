package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"excursia/internal/appconfig"
	"excursia/internal/domain"
)

// Mock Order Repository implementing the interface
type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListSalesByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, partnerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

// Mock QrCode Repository
type mockQrRepo struct {
	mock.Mock
}

func (m *mockQrRepo) GetByToken(ctx context.Context, token string) (*domain.QrCode, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QrCode), args.Error(1)
}

func (m *mockQrRepo) GetByOrderID(ctx context.Context, orderID int64) (*domain.QrCode, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QrCode), args.Error(1)
}

// Mock Excursion Repository
type mockExcursionRepo struct {
	mock.Mock
}

func (m *mockExcursionRepo) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Excursion), args.Error(1)
}

// Mock Confirmer
type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) ConfirmAndCapture(ctx context.Context, orderID, employeeID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

type stubConfig struct {
	snap appconfig.Snapshot
}

func (s stubConfig) Snapshot() appconfig.Snapshot { return s.snap }

func newTestService(orders *mockOrderRepo, qrs *mockQrRepo, excs *mockExcursionRepo, confirmer *mockConfirmer, at time.Time) *Service {
	s := NewService(orders, qrs, excs, confirmer, stubConfig{snap: appconfig.DefaultSnapshot()}, nil)
	s.now = func() time.Time { return at }
	return s
}

func partnerExcursion() *domain.Excursion {
	return &domain.Excursion{
		ID:     5,
		UserID: 2,
		Status: domain.ExcursionActive,
		Props: domain.ExcursionProps{
			Duration: domain.ExcursionDuration{Hour: 2},
		},
	}
}

func buyerOrder() *domain.Order {
	return &domain.Order{
		ID:          10,
		UserID:      1,
		ExcursionID: 5,
		Status:      domain.OrderNotCompleted,
		DateStart:   "2026-06-10",
		TimeStart:   "15:00",
	}
}

func employeeOf(partnerID int64) *domain.User {
	return &domain.User{ID: 42, Role: domain.RoleEmployee, EmployerID: &partnerID}
}

func TestConfirmTicket_EmployeeRedeems(t *testing.T) {
	orders := new(mockOrderRepo)
	qrs := new(mockQrRepo)
	excs := new(mockExcursionRepo)
	confirmer := new(mockConfirmer)
	svc := newTestService(orders, qrs, excs, confirmer, time.Date(2026, 6, 10, 15, 10, 0, 0, time.Local))

	qrs.On("GetByToken", mock.Anything, "tok-1").Return(&domain.QrCode{ID: 3, OrderID: 10, Token: "tok-1"}, nil)
	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)
	excs.On("GetByID", mock.Anything, int64(5)).Return(partnerExcursion(), nil)
	done := buyerOrder()
	done.Status = domain.OrderCompleted
	confirmer.On("ConfirmAndCapture", mock.Anything, int64(10), int64(42)).Return(done, nil)

	got, err := svc.ConfirmTicket(context.Background(), "tok-1", employeeOf(2))
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, got.Status)
	confirmer.AssertExpectations(t)
}

func TestConfirmTicket_StrangerForbidden(t *testing.T) {
	orders := new(mockOrderRepo)
	qrs := new(mockQrRepo)
	excs := new(mockExcursionRepo)
	confirmer := new(mockConfirmer)
	svc := newTestService(orders, qrs, excs, confirmer, time.Date(2026, 6, 10, 15, 10, 0, 0, time.Local))

	qrs.On("GetByToken", mock.Anything, "tok-1").Return(&domain.QrCode{ID: 3, OrderID: 10, Token: "tok-1"}, nil)
	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)
	excs.On("GetByID", mock.Anything, int64(5)).Return(partnerExcursion(), nil)

	// employee of a different partner
	_, err := svc.ConfirmTicket(context.Background(), "tok-1", employeeOf(9))
	assert.ErrorIs(t, err, ErrForbidden)
	confirmer.AssertNotCalled(t, "ConfirmAndCapture", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmTicket_ExpiredSession(t *testing.T) {
	orders := new(mockOrderRepo)
	qrs := new(mockQrRepo)
	excs := new(mockExcursionRepo)
	confirmer := new(mockConfirmer)
	// two days after the session, past duration plus the one-day grace
	svc := newTestService(orders, qrs, excs, confirmer, time.Date(2026, 6, 12, 12, 0, 0, 0, time.Local))

	qrs.On("GetByToken", mock.Anything, "tok-1").Return(&domain.QrCode{ID: 3, OrderID: 10, Token: "tok-1"}, nil)
	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)
	excs.On("GetByID", mock.Anything, int64(5)).Return(partnerExcursion(), nil)

	_, err := svc.ConfirmTicket(context.Background(), "tok-1", employeeOf(2))
	assert.ErrorIs(t, err, ErrExpired)
	confirmer.AssertNotCalled(t, "ConfirmAndCapture", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmTicket_UnknownToken(t *testing.T) {
	orders := new(mockOrderRepo)
	qrs := new(mockQrRepo)
	svc := newTestService(orders, qrs, new(mockExcursionRepo), new(mockConfirmer), time.Now())

	qrs.On("GetByToken", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ConfirmTicket(context.Background(), "nope", employeeOf(2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrder_PartnerSeesSoldOrder(t *testing.T) {
	orders := new(mockOrderRepo)
	excs := new(mockExcursionRepo)
	svc := newTestService(orders, new(mockQrRepo), excs, new(mockConfirmer), time.Now())

	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)
	excs.On("GetByID", mock.Anything, int64(5)).Return(partnerExcursion(), nil)

	got, err := svc.GetOrder(context.Background(), 10, &domain.User{ID: 2, Role: domain.RolePartner})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
}

func TestGetOrder_StrangerForbidden(t *testing.T) {
	orders := new(mockOrderRepo)
	excs := new(mockExcursionRepo)
	svc := newTestService(orders, new(mockQrRepo), excs, new(mockConfirmer), time.Now())

	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)
	excs.On("GetByID", mock.Anything, int64(5)).Return(partnerExcursion(), nil)

	_, err := svc.GetOrder(context.Background(), 10, &domain.User{ID: 77, Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTicketPNG_BuyerGetsImage(t *testing.T) {
	orders := new(mockOrderRepo)
	qrs := new(mockQrRepo)
	svc := newTestService(orders, qrs, new(mockExcursionRepo), new(mockConfirmer), time.Now())

	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)
	qrs.On("GetByOrderID", mock.Anything, int64(10)).Return(&domain.QrCode{ID: 3, OrderID: 10, Token: "tok-1"}, nil)

	png, err := svc.TicketPNG(context.Background(), 10, &domain.User{ID: 1, Role: domain.RoleBuyer})
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestTicketPNG_OtherBuyerForbidden(t *testing.T) {
	orders := new(mockOrderRepo)
	qrs := new(mockQrRepo)
	svc := newTestService(orders, qrs, new(mockExcursionRepo), new(mockConfirmer), time.Now())

	orders.On("GetByID", mock.Anything, int64(10)).Return(buyerOrder(), nil)

	_, err := svc.TicketPNG(context.Background(), 10, &domain.User{ID: 8, Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, ErrForbidden)
	qrs.AssertNotCalled(t, "GetByOrderID", mock.Anything, mock.Anything)
}
