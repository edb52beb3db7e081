package booking

import (
	"time"

	"excursia/internal/appconfig"
	"excursia/internal/domain"
	"excursia/internal/policy"
)

const (
	reasonNotActive    = "not_active"
	reasonTooEarly     = "too_early"
	reasonWindowClosed = "window_closed"
)

// admit runs the booking-window checks for one session and returns the
// verdict with machine-readable reasons.
func admit(exc *domain.Excursion, session, at time.Time, days appconfig.BookingDays) (bool, []string) {
	var reasons []string
	if !exc.IsActive() {
		reasons = append(reasons, reasonNotActive)
	}
	// both boundaries are inclusive: booking opens strictly after the
	// advance limit and closes at the cutoff instant itself
	if !at.After(policy.MaxAdvance(session)) {
		reasons = append(reasons, reasonTooEarly)
	}
	if !at.Before(policy.BookingCutoff(exc, session, days)) {
		reasons = append(reasons, reasonWindowClosed)
	}
	return len(reasons) == 0, reasons
}
