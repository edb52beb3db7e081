package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

var ErrNotFound = errors.New("excursion not found")

type ExcursionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
	ListActive(ctx context.Context, limit, offset int) ([]domain.Excursion, int64, error)
	ListTimes(ctx context.Context, excursionID int64) ([]domain.ExcursionTime, error)
	ListPoints(ctx context.Context, timeID int64) ([]domain.ExcursionTimePoint, error)
}

// SessionDetail is one bookable session with its meeting points.
type SessionDetail struct {
	Time   domain.ExcursionTime        `json:"time"`
	Points []domain.ExcursionTimePoint `json:"points"`
}

type ExcursionDetail struct {
	Excursion *domain.Excursion `json:"excursion"`
	Sessions  []SessionDetail   `json:"sessions"`
}

type Service struct {
	excursions ExcursionRepository
}

func NewService(excursions ExcursionRepository) *Service {
	return &Service{excursions: excursions}
}

func (s *Service) ListExcursions(ctx context.Context, limit, offset int) ([]domain.Excursion, int64, error) {
	return s.excursions.ListActive(ctx, limit, offset)
}

// GetExcursion returns one excursion with every scheduled session and its
// meeting points, which is everything the booking form needs.
func (s *Service) GetExcursion(ctx context.Context, id int64) (*ExcursionDetail, error) {
	exc, err := s.excursions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	times, err := s.excursions.ListTimes(ctx, exc.ID)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionDetail, 0, len(times))
	for _, t := range times {
		points, err := s.excursions.ListPoints(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, SessionDetail{Time: t, Points: points})
	}

	return &ExcursionDetail{Excursion: exc, Sessions: sessions}, nil
}
