package order

import "errors"

var (
	ErrNotFound  = errors.New("order not found")
	ErrForbidden = errors.New("forbidden")
	ErrExpired   = errors.New("session is over, ticket can no longer be redeemed")
)
