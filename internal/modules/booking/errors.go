package booking

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("excursion or meeting point not found")
	ErrNotActive      = errors.New("excursion is not open for booking")
	ErrTooEarly       = errors.New("session is not bookable yet")
	ErrWindowClosed   = errors.New("booking window for the session has closed")
	ErrAmountMismatch = errors.New("declared amount does not match the current price")
	ErrDuplicate      = errors.New("identical pending order already exists")
)
