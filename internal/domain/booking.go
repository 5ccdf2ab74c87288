package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference" gorm:"uniqueIndex"`
	HallID    int64  `json:"hall_id" validate:"required"`
	CabinID   int64  `json:"cabin_id" validate:"required"`

	// UserID is nil for guest checkout; guest contact fields are
	// filled instead.
	UserID     *int64 `json:"user_id,omitempty"`
	GuestName  string `json:"guest_name,omitempty"`
	GuestPhone string `json:"guest_phone,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`

	StartDate     time.Time     `json:"start_date" validate:"required"`
	Months        int           `json:"months" validate:"gte=1"`
	TotalPrice    float64       `json:"total_price" validate:"gte=0"`
	DepositAmount float64       `json:"deposit_amount,omitempty"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Notes         string        `json:"notes,omitempty" gorm:"type:text"`

	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Cabin *Cabin `json:"cabin,omitempty" gorm:"foreignKey:CabinID"`
}
