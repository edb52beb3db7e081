package order

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
	"excursia/internal/pkg/qrcode"
	"excursia/internal/policy"
)

type Service struct {
	orders     OrderRepository
	qrcodes    QrCodeRepository
	excursions ExcursionRepository
	confirmer  Confirmer
	cfg        ConfigSource
	loggerf    func(format string, args ...interface{})
	now        func() time.Time
}

func NewService(
	orders OrderRepository,
	qrcodes QrCodeRepository,
	excursions ExcursionRepository,
	confirmer Confirmer,
	cfg ConfigSource,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		orders:     orders,
		qrcodes:    qrcodes,
		excursions: excursions,
		confirmer:  confirmer,
		cfg:        cfg,
		loggerf:    loggerf,
		now:        time.Now,
	}
}

// ConfirmTicket resolves a scanned QR token, authorizes the scanning user
// against the excursion owner and settles the order. Only the partner who
// runs the excursion or one of their employees may redeem a ticket.
func (s *Service) ConfirmTicket(ctx context.Context, token string, actor *domain.User) (*domain.Order, error) {
	qr, err := s.qrcodes.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ord, err := s.orders.GetByID(ctx, qr.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exc, err := s.excursions.GetByID(ctx, ord.ExcursionID)
	if err != nil {
		return nil, err
	}
	if !actor.WorksFor(exc.UserID) && actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	session, err := policy.SessionStart(ord.DateStart, ord.TimeStart)
	if err != nil {
		return nil, err
	}
	if policy.OrderExpired(exc, session, s.now(), s.cfg.Snapshot().ExpiredDays) {
		return nil, ErrExpired
	}

	confirmed, err := s.confirmer.ConfirmAndCapture(ctx, ord.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=ticket redeemed order_id=%d employee_id=%d", ord.ID, actor.ID)
	return confirmed, nil
}

// GetOrder returns one order to its buyer, to the partner who runs the
// excursion, or to an admin.
func (s *Service) GetOrder(ctx context.Context, id int64, actor *domain.User) (*domain.Order, error) {
	ord, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ord.UserID == actor.ID || actor.Role == domain.RoleAdmin {
		return ord, nil
	}
	exc, err := s.excursions.GetByID(ctx, ord.ExcursionID)
	if err != nil {
		return nil, err
	}
	if !actor.WorksFor(exc.UserID) {
		return nil, ErrForbidden
	}
	return ord, nil
}

func (s *Service) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListSales(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Order, error) {
	return s.orders.ListSalesByPartner(ctx, partnerID, limit, offset)
}

// TicketPNG renders the order's QR ticket. Buyer only.
func (s *Service) TicketPNG(ctx context.Context, orderID int64, actor *domain.User) ([]byte, error) {
	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ord.UserID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	qr, err := s.qrcodes.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return qrcode.RenderPNG(qr.Token, 256)
}
