// Package policy holds the booking-window, refund-penalty and expiry
// arithmetic. Everything here is a pure function of its arguments so the
// services stay trivially testable.
package policy

import (
	"fmt"
	"time"

	nowpkg "github.com/jinzhu/now"

	"excursia/internal/appconfig"
	"excursia/internal/domain"
)

// MaxAdvanceDays is the platform-wide ceiling: a session may not be booked
// earlier than this many days before it starts.
const MaxAdvanceDays = 7

// SessionStart parses the denormalized date_start/time_start pair
// ("2006-01-02", "15:04") into a single timestamp.
func SessionStart(dateStart, timeStart string) (time.Time, error) {
	t, err := nowpkg.Parse(dateStart + " " + timeStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session start %q %q: %w", dateStart, timeStart, err)
	}
	return t, nil
}

// LeadDays resolves the type-based booking lead time. VIP excursions use the
// vip offset regardless of subtype; otherwise the subtype decides.
func LeadDays(exc *domain.Excursion, days appconfig.BookingDays) int {
	if exc.Type == domain.TypeVIP {
		return days.VIP
	}
	switch exc.Subtype {
	case domain.SubtypeIndividual:
		return days.Individual
	case domain.SubtypeGroup:
		return days.Group
	default:
		return 0
	}
}

// BookingCutoff returns the moment after which the session may no longer be
// booked. The partner's booking_before override is applied on top of the
// type-based lead time, not instead of it.
func BookingCutoff(exc *domain.Excursion, session time.Time, days appconfig.BookingDays) time.Time {
	cutoff := session.AddDate(0, 0, -LeadDays(exc, days))
	if bb := exc.Props.BookingBefore; bb != nil {
		cutoff = cutoff.AddDate(0, 0, -bb.Day).Add(-time.Duration(bb.Hour) * time.Hour)
	}
	return cutoff
}

// MaxAdvance returns the earliest moment at which the session becomes
// bookable.
func MaxAdvance(session time.Time) time.Time {
	return session.AddDate(0, 0, -MaxAdvanceDays)
}

// ShouldHold decides whether funds are held rather than captured at booking
// time. Bookings made before the type-based cutoff window opens are held;
// late bookings settle immediately.
func ShouldHold(exc *domain.Excursion, session, at time.Time, days appconfig.BookingDays) bool {
	minBooking := session.AddDate(0, 0, -LeadDays(exc, days))
	return at.Before(minBooking)
}

// NoPenaltyDeadline is the last moment a refund is still free of penalty:
// one day before the session date, end of day boundary at the session date's
// midnight minus a day.
func NoPenaltyDeadline(session time.Time) time.Time {
	return nowpkg.New(session).BeginningOfDay().AddDate(0, 0, -1)
}

// RefundPenaltyPercent returns the percent of the order amount returned to
// the buyer for a refund requested at the given moment.
func RefundPenaltyPercent(session, at time.Time, penaltyPercent int) int {
	if !at.After(NoPenaltyDeadline(session)) {
		return 100
	}
	return 100 - penaltyPercent
}

// DateFinish is the denormalized end-of-life of an order: session start plus
// the configured grace period in days.
func DateFinish(session time.Time, expiredDays int) time.Time {
	return session.AddDate(0, 0, expiredDays)
}

// OrderExpired reports whether the session is over: session start plus the
// excursion duration plus the grace period has passed.
func OrderExpired(exc *domain.Excursion, session, at time.Time, expiredDays int) bool {
	end := session.Add(exc.Props.Duration.AsDuration()).AddDate(0, 0, expiredDays)
	return !at.Before(end)
}

// ComplaintDeadline is the last moment a complaint may still be filed:
// one day after the order's date_finish.
func ComplaintDeadline(dateFinish time.Time) time.Time {
	return dateFinish.AddDate(0, 0, 1)
}
