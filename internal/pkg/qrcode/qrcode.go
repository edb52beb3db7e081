// Package qrcode generates ticket redemption tokens and renders them as QR
// images for the printable ticket.
package qrcode

import (
	"github.com/google/uuid"
	qr "github.com/skip2/go-qrcode"
)

// NewToken returns a fresh opaque redemption token.
func NewToken() string {
	return uuid.NewString()
}

// RenderPNG encodes the token into a QR image.
func RenderPNG(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qr.Encode(token, qr.Medium, size)
}
