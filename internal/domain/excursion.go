package domain

import (
	"time"
)

type ExcursionType string

const (
	TypeExc  ExcursionType = "exc"
	TypeTour ExcursionType = "tour"
	TypeVIP  ExcursionType = "vip"
)

type ExcursionSubtype string

const (
	SubtypeGroup      ExcursionSubtype = "group"
	SubtypeIndividual ExcursionSubtype = "individual"
	SubtypePersonal   ExcursionSubtype = "personal"
)

type ExcursionStatus string

const (
	ExcursionActive   ExcursionStatus = "ACTIVE"
	ExcursionDisabled ExcursionStatus = "DISABLED"
)

// BookingBefore is the partner-configured extra lead time for an excursion,
// applied on top of the type-based cutoff.
type BookingBefore struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

type ExcursionDuration struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (d ExcursionDuration) AsDuration() time.Duration {
	return time.Duration(d.Hour)*time.Hour + time.Duration(d.Minute)*time.Minute
}

type ExcursionProps struct {
	BookingBefore *BookingBefore    `json:"booking_before,omitempty"`
	Duration      ExcursionDuration `json:"duration"`
	Languages     []string          `json:"languages,omitempty"`
	Location      string            `json:"location,omitempty"`
}

type Excursion struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Type          ExcursionType    `json:"type"`
	Subtype       ExcursionSubtype `json:"subtype"`
	PriceAdult    int64            `json:"price_adult" validate:"gte=0"`
	PriceChildren int64            `json:"price_children" validate:"gte=0"`
	Props         ExcursionProps   `json:"props"`
	Status        ExcursionStatus  `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
}

func (e *Excursion) IsActive() bool {
	return e.Status == ExcursionActive && e.DeletedAt == nil
}

// ExcursionTime is one scheduled session of an excursion.
type ExcursionTime struct {
	ID          int64     `json:"id"`
	ExcursionID int64     `json:"excursion_id"`
	Date        string    `json:"date"` // 2006-01-02
	Start       string    `json:"start"` // 15:04
	CreatedAt   time.Time `json:"created_at"`
}

// ExcursionTimePoint is a meeting point of a scheduled session, with its map
// location embedded (the original kept the map entry as a 1:1 polymorphic
// relation; here it is inlined).
type ExcursionTimePoint struct {
	ID              int64     `json:"id"`
	ExcursionID     int64     `json:"excursion_id"`
	ExcursionTimeID int64     `json:"excursion_time_id"`
	Address         string    `json:"address"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	CreatedAt       time.Time `json:"created_at"`
}
