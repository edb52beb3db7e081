package complaint

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
	"excursia/internal/policy"
	"excursia/internal/repository"
)

type Service struct {
	orders     OrderRepository
	complaints ComplaintRepository
	runTx      repository.TxFunc
	loggerf    func(format string, args ...interface{})
	now        func() time.Time
}

func NewService(
	orders OrderRepository,
	complaints ComplaintRepository,
	runTx repository.TxFunc,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		orders:     orders,
		complaints: complaints,
		runTx:      runTx,
		loggerf:    loggerf,
		now:        time.Now,
	}
}

// CanComplain evaluates every complaint precondition for the order: it must
// belong to the caller, the ticket must not have been redeemed, the deadline
// of one day past date_finish must not have passed, and there may be at most
// one complaint per order.
func (s *Service) CanComplain(ctx context.Context, orderID int64, user *domain.User) (*Checks, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.checks(ctx, order, user)
}

func (s *Service) checks(ctx context.Context, order *domain.Order, user *domain.User) (*Checks, error) {
	exists, err := s.complaints.ExistsForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	deadline := policy.ComplaintDeadline(order.DateFinish)
	c := &Checks{
		CheckUser:       order.UserID == user.ID,
		CheckTicket:     order.DateConfirm == nil,
		CheckDate:       !s.now().After(deadline),
		ExpiredDate:     deadline.Format(time.RFC3339),
		ComplaintExists: exists,
		CheckStatus:     order.Status.CanTransitionTo(domain.OrderSuspended),
	}
	c.Status = c.CheckUser && c.CheckTicket && c.CheckDate && !c.ComplaintExists && c.CheckStatus
	return c, nil
}

// File records the complaint and suspends the order, which freezes partner
// settlement until the dispute is resolved. Re-validates inside the
// transaction so a concurrent redemption or second complaint loses.
func (s *Service) File(ctx context.Context, orderID int64, user *domain.User, req FileComplaintRequest) (*domain.Complaint, error) {
	var rec *domain.Complaint

	err := s.runTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		c, err := s.checks(ctx, order, user)
		if err != nil {
			return err
		}
		if !c.Status {
			return ErrDenied
		}

		rec = &domain.Complaint{
			OrderID:     order.ID,
			UserID:      user.ID,
			Type:        req.Type,
			Description: req.Description,
		}
		if err := s.complaints.Create(ctx, rec); err != nil {
			return err
		}

		changed, err := s.orders.UpdateStatusFrom(ctx, order.ID, order.Status, domain.OrderSuspended)
		if err != nil {
			return err
		}
		if !changed {
			return ErrDenied
		}

		s.loggerf("level=info msg=order suspended by complaint order_id=%d user_id=%d", order.ID, user.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
