package booking

import "time"

type CreateBookingRequest struct {
	HallID    int64     `json:"hall_id" binding:"required"`
	CabinID   int64     `json:"cabin_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	Months    int       `json:"months" binding:"required,gte=1,lte=12"`
	Notes     string    `json:"notes"`
}

type GuestCheckoutRequest struct {
	HallID     int64     `json:"hall_id" validate:"required"`
	CabinID    int64     `json:"cabin_id" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	Months     int       `json:"months" validate:"required,gte=1,lte=12"`
	GuestName  string    `json:"guest_name" validate:"required"`
	GuestPhone string    `json:"guest_phone" validate:"required"`
	GuestEmail string    `json:"guest_email" validate:"omitempty,email"`
	Notes      string    `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}
