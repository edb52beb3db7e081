package complaint

import "errors"

var (
	ErrNotFound = errors.New("order not found")
	ErrDenied   = errors.New("complaint denied")
)
