package admin

import "errors"

var (
	ErrNotFound                = errors.New("hall not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
