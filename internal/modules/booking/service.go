package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"excursia/internal/domain"
	"excursia/internal/pkg/qrcode"
	"excursia/internal/policy"
	"excursia/internal/repository"
)

type Service struct {
	orders     OrderRepository
	excursions ExcursionRepository
	qrcodes    QrCodeRepository
	payments   PaymentInitiator
	cfg        ConfigSource
	runTx      repository.TxFunc
	loggerf    func(format string, args ...interface{})
	now        func() time.Time
}

func NewService(
	orders OrderRepository,
	excursions ExcursionRepository,
	qrcodes QrCodeRepository,
	payments PaymentInitiator,
	cfg ConfigSource,
	runTx repository.TxFunc,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		orders:     orders,
		excursions: excursions,
		qrcodes:    qrcodes,
		payments:   payments,
		cfg:        cfg,
		runTx:      runTx,
		loggerf:    loggerf,
		now:        time.Now,
	}
}

// CreateOrder runs the whole purchase: price validation, booking-window
// admission, duplicate screening, the frozen items snapshot, the QR ticket
// and the payment hold. All of it is one database transaction.
func (s *Service) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*OrderResponse, error) {
	if req.NumberAdult < 0 || req.NumberChildren < 0 {
		return nil, ErrValidation
	}

	var resp *OrderResponse
	err := s.runTx(ctx, func(ctx context.Context) error {
		point, err := s.excursions.GetTimePoint(ctx, req.PointID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if point.ExcursionID != req.ExcursionID {
			return ErrValidation
		}

		etime, err := s.excursions.GetTime(ctx, point.ExcursionTimeID)
		if err != nil {
			return err
		}
		exc, err := s.excursions.GetByID(ctx, point.ExcursionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		amount := ComputeAmount(exc, req.NumberAdult, req.NumberChildren)
		if amount != req.Amount {
			return ErrAmountMismatch
		}

		session, err := policy.SessionStart(etime.Date, etime.Start)
		if err != nil {
			return ErrValidation
		}

		snap := s.cfg.Snapshot()
		at := s.now()
		if allowed, reasons := admit(exc, session, at, snap.BookingDays); !allowed {
			return admissionError(reasons)
		}

		// Friendly pre-check; the partial unique index is the authority and
		// catches whatever races past this read.
		if !req.IgnoreRepeatOrder {
			dup, err := s.orders.FindDuplicate(ctx, userID, exc.ID, point.ID, etime.Date, etime.Start, req.NumberAdult)
			if err != nil {
				return err
			}
			if dup != nil {
				return ErrDuplicate
			}
		}

		order := &domain.Order{
			UserID:         userID,
			ExcursionID:    exc.ID,
			PointID:        point.ID,
			NumberAdult:    req.NumberAdult,
			NumberChildren: req.NumberChildren,
			Items: domain.OrderItems{
				Point: domain.PointSnapshot{
					ID:              point.ID,
					ExcursionTimeID: point.ExcursionTimeID,
					Address:         point.Address,
					Lat:             point.Lat,
					Lng:             point.Lng,
				},
				DateStart: etime.Date,
				TimeStart: etime.Start,
				Languages: exc.Props.Languages,
				Transfer:  req.Transfer,
			},
			Amount:      amount,
			Currency:    "RUB",
			Status:      domain.OrderNotCompleted,
			DateStart:   etime.Date,
			TimeStart:   etime.Start,
			DateFinish:  policy.DateFinish(session, snap.ExpiredDays),
			Description: req.Description,
		}

		if err := s.orders.Create(ctx, order); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_duplicate_order" {
				return ErrDuplicate
			}
			return err
		}

		qr := &domain.QrCode{OrderID: order.ID, Token: qrcode.NewToken()}
		if err := s.qrcodes.Create(ctx, qr); err != nil {
			return err
		}

		t, err := s.payments.InitiateHold(ctx, order, exc)
		if err != nil {
			return err
		}
		order.Transaction = t

		s.loggerf("level=info msg=order created order_id=%d user_id=%d amount=%d hold=%v",
			order.ID, userID, amount, t.IsHolding())
		resp = &OrderResponse{Order: order, QrToken: qr.Token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CanBook exposes the admission verdict for one session of an excursion
// without creating anything.
func (s *Service) CanBook(ctx context.Context, excursionID int64, date, start string, adults, children int) (*AdmissionResult, error) {
	exc, err := s.excursions.GetByID(ctx, excursionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	session, err := policy.SessionStart(date, start)
	if err != nil {
		return nil, ErrValidation
	}

	snap := s.cfg.Snapshot()
	allowed, reasons := admit(exc, session, s.now(), snap.BookingDays)
	return &AdmissionResult{
		Allowed:  allowed,
		Reasons:  reasons,
		OpensAt:  policy.MaxAdvance(session).Format(time.RFC3339),
		ClosesAt: policy.BookingCutoff(exc, session, snap.BookingDays).Format(time.RFC3339),
		Amount:   ComputeAmount(exc, adults, children),
	}, nil
}

func admissionError(reasons []string) error {
	for _, r := range reasons {
		switch r {
		case reasonNotActive:
			return ErrNotActive
		case reasonTooEarly:
			return ErrTooEarly
		case reasonWindowClosed:
			return ErrWindowClosed
		}
	}
	return ErrValidation
}
