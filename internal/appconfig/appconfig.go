package appconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Config keys as stored in the app_configs table.
const (
	KeyTimeMinBooking    = "time_min_booking"
	KeyPercentagePenalty = "percentage_penalty"
	KeyExpiredTime       = "expired_time"
)

type Repository interface {
	GetAll(ctx context.Context) (map[string]json.RawMessage, error)
}

// BookingDays is the per-excursion-kind lead time, in days, before a session
// during which online booking closes.
type BookingDays struct {
	VIP        int `json:"vip"`
	Individual int `json:"individual"`
	Group      int `json:"group"`
}

// Snapshot is an immutable view of the admin-mutable platform configuration.
type Snapshot struct {
	BookingDays    BookingDays
	PenaltyPercent int // refund penalty, percent of the order amount
	ExpiredDays    int // grace days after a session before the order counts as over
}

func DefaultSnapshot() Snapshot {
	return Snapshot{
		BookingDays:    BookingDays{VIP: 5, Individual: 2, Group: 3},
		PenaltyPercent: 20,
		ExpiredDays:    1,
	}
}

// Store is a process-wide read-through cache over the app_configs table.
// Load is called once at startup; Reload after an admin change.
type Store struct {
	repo Repository

	mu   sync.RWMutex
	snap Snapshot
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo, snap: DefaultSnapshot()}
}

func (s *Store) Load(ctx context.Context) error {
	values, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("appconfig load: %w", err)
	}

	snap := DefaultSnapshot()
	if raw, ok := values[KeyTimeMinBooking]; ok {
		if err := json.Unmarshal(raw, &snap.BookingDays); err != nil {
			return fmt.Errorf("appconfig %s: %w", KeyTimeMinBooking, err)
		}
	}
	if raw, ok := values[KeyPercentagePenalty]; ok {
		if err := json.Unmarshal(raw, &snap.PenaltyPercent); err != nil {
			return fmt.Errorf("appconfig %s: %w", KeyPercentagePenalty, err)
		}
	}
	if raw, ok := values[KeyExpiredTime]; ok {
		if err := json.Unmarshal(raw, &snap.ExpiredDays); err != nil {
			return fmt.Errorf("appconfig %s: %w", KeyExpiredTime, err)
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
