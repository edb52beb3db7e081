package booking

import "excursia/internal/domain"

// ComputeAmount is the server-side price of a party. At least one adult seat
// is always charged, even for a children-only request.
func ComputeAmount(exc *domain.Excursion, adults, children int) int64 {
	if adults < 1 {
		adults = 1
	}
	return exc.PriceAdult*int64(adults) + exc.PriceChildren*int64(children)
}
