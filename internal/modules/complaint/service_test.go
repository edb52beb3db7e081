package complaint

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

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

func (m *mockOrderRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// Mock Complaint Repository
type mockComplaintRepo struct {
	mock.Mock
}

func (m *mockComplaintRepo) Create(ctx context.Context, c *domain.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockComplaintRepo) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(orders *mockOrderRepo, complaints *mockComplaintRepo, at time.Time) *Service {
	s := NewService(orders, complaints, passthroughTx, nil)
	s.now = func() time.Time { return at }
	return s
}

func unredeemedOrder() *domain.Order {
	return &domain.Order{
		ID:          10,
		UserID:      1,
		ExcursionID: 5,
		Status:      domain.OrderNotCompleted,
		DateStart:   "2026-06-10",
		TimeStart:   "15:00",
		// session start plus the one-day grace
		DateFinish: time.Date(2026, 6, 11, 15, 0, 0, 0, time.Local),
	}
}

func buyer() *domain.User {
	return &domain.User{ID: 1, Role: domain.RoleBuyer}
}

func TestCanComplain_AllChecksPass(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	svc := newTestService(orders, complaints, time.Date(2026, 6, 11, 18, 0, 0, 0, time.Local))

	orders.On("GetByID", mock.Anything, int64(10)).Return(unredeemedOrder(), nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(false, nil)

	checks, err := svc.CanComplain(context.Background(), 10, buyer())
	assert.NoError(t, err)
	assert.True(t, checks.Status)
	assert.True(t, checks.CheckUser)
	assert.True(t, checks.CheckTicket)
	assert.True(t, checks.CheckDate)
	assert.False(t, checks.ComplaintExists)
	// deadline is one day past date_finish
	assert.Equal(t, time.Date(2026, 6, 12, 15, 0, 0, 0, time.Local).Format(time.RFC3339), checks.ExpiredDate)
}

func TestCanComplain_RedeemedTicketBlocks(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	svc := newTestService(orders, complaints, time.Date(2026, 6, 11, 18, 0, 0, 0, time.Local))

	order := unredeemedOrder()
	confirmed := time.Date(2026, 6, 10, 15, 5, 0, 0, time.Local)
	order.DateConfirm = &confirmed
	order.Status = domain.OrderCompleted

	orders.On("GetByID", mock.Anything, int64(10)).Return(order, nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(false, nil)

	checks, err := svc.CanComplain(context.Background(), 10, buyer())
	assert.NoError(t, err)
	assert.False(t, checks.Status)
	assert.False(t, checks.CheckTicket)
	assert.False(t, checks.CheckStatus)
}

func TestCanComplain_DeadlinePassed(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	// two days past date_finish
	svc := newTestService(orders, complaints, time.Date(2026, 6, 13, 12, 0, 0, 0, time.Local))

	orders.On("GetByID", mock.Anything, int64(10)).Return(unredeemedOrder(), nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(false, nil)

	checks, err := svc.CanComplain(context.Background(), 10, buyer())
	assert.NoError(t, err)
	assert.False(t, checks.Status)
	assert.False(t, checks.CheckDate)
}

func TestFile_SuspendsOrder(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	svc := newTestService(orders, complaints, time.Date(2026, 6, 11, 18, 0, 0, 0, time.Local))

	orders.On("GetByID", mock.Anything, int64(10)).Return(unredeemedOrder(), nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(false, nil)
	complaints.On("Create", mock.Anything, mock.Anything).Return(nil)
	orders.On("UpdateStatusFrom", mock.Anything, int64(10), domain.OrderNotCompleted, domain.OrderSuspended).Return(true, nil)

	rec, err := svc.File(context.Background(), 10, buyer(), FileComplaintRequest{Type: "quality", Description: "guide never showed up"})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), rec.OrderID)
	orders.AssertExpectations(t)
}

func TestFile_SecondComplaintDenied(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	svc := newTestService(orders, complaints, time.Date(2026, 6, 11, 18, 0, 0, 0, time.Local))

	orders.On("GetByID", mock.Anything, int64(10)).Return(unredeemedOrder(), nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(true, nil)

	_, err := svc.File(context.Background(), 10, buyer(), FileComplaintRequest{Description: "again"})
	assert.ErrorIs(t, err, ErrDenied)
	complaints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFile_OtherUsersOrderDenied(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	svc := newTestService(orders, complaints, time.Date(2026, 6, 11, 18, 0, 0, 0, time.Local))

	orders.On("GetByID", mock.Anything, int64(10)).Return(unredeemedOrder(), nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(false, nil)

	_, err := svc.File(context.Background(), 10, &domain.User{ID: 99, Role: domain.RoleBuyer}, FileComplaintRequest{Description: "not mine"})
	assert.ErrorIs(t, err, ErrDenied)
}

func TestFile_ConcurrentRedemptionLoses(t *testing.T) {
	orders := new(mockOrderRepo)
	complaints := new(mockComplaintRepo)
	svc := newTestService(orders, complaints, time.Date(2026, 6, 11, 18, 0, 0, 0, time.Local))

	orders.On("GetByID", mock.Anything, int64(10)).Return(unredeemedOrder(), nil)
	complaints.On("ExistsForOrder", mock.Anything, int64(10)).Return(false, nil)
	complaints.On("Create", mock.Anything, mock.Anything).Return(nil)
	// the order moved to COMPLETED between the read and the update
	orders.On("UpdateStatusFrom", mock.Anything, int64(10), domain.OrderNotCompleted, domain.OrderSuspended).Return(false, nil)

	_, err := svc.File(context.Background(), 10, buyer(), FileComplaintRequest{Description: "late"})
	assert.ErrorIs(t, err, ErrDenied)
}
