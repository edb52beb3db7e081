package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"excursia/internal/domain"
	"excursia/internal/policy"
	"excursia/internal/repository"
)

// Service coordinates fund holding, capture and refunds against the gateway,
// keeping order and transaction status in sync. Every mutating operation is
// one database transaction; a failed gateway call rolls the whole operation
// back.
type Service struct {
	orders  OrderRepository
	txs     TransactionRepository
	refunds RefundRepository
	gateway Gateway
	cfg     ConfigSource
	runTx   repository.TxFunc
	loggerf func(format string, args ...interface{})
	now     func() time.Time
}

func NewService(
	orders OrderRepository,
	txs TransactionRepository,
	refunds RefundRepository,
	gateway Gateway,
	cfg ConfigSource,
	runTx repository.TxFunc,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		orders:  orders,
		txs:     txs,
		refunds: refunds,
		gateway: gateway,
		cfg:     cfg,
		runTx:   runTx,
		loggerf: loggerf,
		now:     time.Now,
	}
}

// InitiateHold opens the payment record for a freshly created order.
// Bookings made well before the cutoff only hold the funds; bookings near
// the cutoff settle immediately, since a late booking carries little no-show
// risk. Meant to be called inside the enclosing booking transaction.
func (s *Service) InitiateHold(ctx context.Context, order *domain.Order, exc *domain.Excursion) (*domain.Transaction, error) {
	session, err := policy.SessionStart(order.DateStart, order.TimeStart)
	if err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		OrderID:        order.ID,
		Status:         domain.TxCreated,
		Amount:         order.Amount,
		Currency:       order.Currency,
		IdempotencyKey: uuid.NewString(),
	}
	if err := s.txs.Create(ctx, t); err != nil {
		return nil, err
	}

	orderRef := strconv.FormatInt(order.ID, 10)
	holdRef, err := s.gateway.Hold(ctx, orderRef, t.Amount, t.IdempotencyKey)
	if err != nil {
		s.loggerf("level=error msg=gateway hold failed order_id=%d err=%v", order.ID, err)
		return nil, fmt.Errorf("%w: hold: %v", ErrExternalPayment, err)
	}
	t.GatewayRef = holdRef
	if err := s.txs.SetGatewayRef(ctx, t.ID, holdRef); err != nil {
		return nil, err
	}

	snap := s.cfg.Snapshot()
	if policy.ShouldHold(exc, session, s.now(), snap.BookingDays) {
		t.Status = domain.TxHolding
		if err := s.txs.UpdateStatus(ctx, t.ID, domain.TxHolding); err != nil {
			return nil, err
		}
		return t, nil
	}

	captureRef, err := s.gateway.Capture(ctx, holdRef, t.Amount, uuid.NewString())
	if err != nil {
		s.loggerf("level=error msg=gateway capture failed order_id=%d err=%v", order.ID, err)
		return nil, fmt.Errorf("%w: capture: %v", ErrExternalPayment, err)
	}
	t.GatewayRef = captureRef
	t.Status = domain.TxConfirmed
	if err := s.txs.SetGatewayRef(ctx, t.ID, captureRef); err != nil {
		return nil, err
	}
	if err := s.txs.UpdateStatus(ctx, t.ID, domain.TxConfirmed); err != nil {
		return nil, err
	}
	return t, nil
}

// CanRefund reports whether a refund may be requested for the order, the
// last no-penalty date and the percent the buyer would get back right now.
func (s *Service) CanRefund(ctx context.Context, orderID int64) (*CanRefundResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	session, err := policy.SessionStart(order.DateStart, order.TimeStart)
	if err != nil {
		return nil, err
	}

	refundable := false
	if order.Status != domain.OrderCanceled {
		t, err := s.txs.LatestValidForOrder(ctx, order.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		refundable = t != nil && t.Refundable()
	}

	snap := s.cfg.Snapshot()
	return &CanRefundResult{
		Status:        refundable,
		NoPenaltyDate: policy.NoPenaltyDeadline(session).Format("02.01.2006"),
		Percent:       policy.RefundPenaltyPercent(session, s.now(), snap.PenaltyPercent),
	}, nil
}

// Refund cancels the order and returns the funds. An unsettled hold is
// released in full; captured funds come back minus the penalty when the
// request arrives later than a day before the session.
func (s *Service) Refund(ctx context.Context, orderID int64, user *domain.User, description string) (*domain.OrderRefund, error) {
	var record *domain.OrderRefund

	err := s.runTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if user.ID != order.UserID && user.Role != domain.RoleAdmin {
			return ErrForbidden
		}
		if order.Status == domain.OrderCanceled || !order.Status.CanTransitionTo(domain.OrderCanceled) {
			return ErrRefundDenied
		}

		t, err := s.txs.LatestValidForOrder(ctx, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefundDenied
			}
			return err
		}
		if !t.Refundable() {
			return ErrRefundDenied
		}

		session, err := policy.SessionStart(order.DateStart, order.TimeStart)
		if err != nil {
			return err
		}

		percent := 100
		if !t.IsHolding() {
			snap := s.cfg.Snapshot()
			percent = policy.RefundPenaltyPercent(session, s.now(), snap.PenaltyPercent)
		}
		amount := order.Amount * int64(percent) / 100

		record = &domain.OrderRefund{
			OrderID:     order.ID,
			UserID:      user.ID,
			Description: description,
			Percent:     percent,
			Amount:      amount,
		}
		if err := s.refunds.Create(ctx, record); err != nil {
			return err
		}
		if err := s.txs.UpdateStatus(ctx, t.ID, domain.TxRefundRequested); err != nil {
			return err
		}

		changed, err := s.orders.UpdateStatusFrom(ctx, order.ID, order.Status, domain.OrderCanceled)
		if err != nil {
			return err
		}
		if !changed {
			// the order moved under us; let the caller retry
			return ErrRefundDenied
		}

		if t.IsHolding() {
			if err := s.gateway.CancelHold(ctx, t.GatewayRef, uuid.NewString()); err != nil {
				s.loggerf("level=error msg=gateway cancel hold failed order_id=%d err=%v", order.ID, err)
				return fmt.Errorf("%w: cancel hold: %v", ErrExternalPayment, err)
			}
			return nil
		}
		if _, err := s.gateway.Refund(ctx, t.GatewayRef, amount, description, uuid.NewString()); err != nil {
			s.loggerf("level=error msg=gateway refund failed order_id=%d err=%v", order.ID, err)
			return fmt.Errorf("%w: refund: %v", ErrExternalPayment, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ConfirmAndCapture settles the order on ticket redemption: redemption stamp,
// order COMPLETED, transaction finished, held funds captured. All of it is
// one atomic unit; a failed capture leaves nothing behind.
func (s *Service) ConfirmAndCapture(ctx context.Context, orderID, employeeID int64) (*domain.Order, error) {
	var confirmed *domain.Order

	err := s.runTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(domain.OrderCompleted) {
			return ErrInvalidTransition
		}

		t, err := s.txs.LatestValidForOrder(ctx, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoTransaction
			}
			return err
		}

		at := s.now()
		stamped, err := s.orders.SetConfirmed(ctx, order.ID, employeeID, at)
		if err != nil {
			return err
		}
		if !stamped {
			return ErrAlreadyConfirmed
		}

		changed, err := s.orders.UpdateStatusFrom(ctx, order.ID, order.Status, domain.OrderCompleted)
		if err != nil {
			return err
		}
		if !changed {
			return ErrInvalidTransition
		}
		if err := s.txs.UpdateStatus(ctx, t.ID, domain.TxFinished); err != nil {
			return err
		}

		if t.IsHolding() {
			if _, err := s.gateway.Capture(ctx, t.GatewayRef, t.Amount, uuid.NewString()); err != nil {
				s.loggerf("level=error msg=gateway capture on redemption failed order_id=%d err=%v", order.ID, err)
				return fmt.Errorf("%w: capture: %v", ErrExternalPayment, err)
			}
		}

		order.Status = domain.OrderCompleted
		order.DateConfirm = &at
		order.EmployeeID = &employeeID
		confirmed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}
