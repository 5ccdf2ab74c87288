package domain

import "time"

type HallStatus string

const (
	HallPending  HallStatus = "pending"
	HallApproved HallStatus = "approved"
	HallRejected HallStatus = "rejected"
	HallBlocked  HallStatus = "blocked"
)

type Hall struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"owner_id"`
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description,omitempty"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	BasePrice      float64    `json:"base_price" validate:"gte=0"`
	BaseDeposit    float64    `json:"base_deposit" validate:"gte=0"`
	Amenities      []string   `json:"amenities,omitempty" gorm:"serializer:json"`
	Status         HallStatus `json:"status"`
	RejectedReason string     `json:"rejected_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`

	Rows []HallRow `json:"rows,omitempty" gorm:"foreignKey:HallID"`
}

// HallRow is a persisted row of the cabin layout. Price and deposit
// overrides live here, not on cabins, so a layout save never clobbers
// per-cabin edits made elsewhere.
type HallRow struct {
	ID              int64     `json:"id"`
	HallID          int64     `json:"hall_id"`
	Position        int       `json:"position"`
	Name            string    `json:"name" validate:"required"`
	CabinCount      int       `json:"cabin_count" validate:"gte=1,lte=20"`
	PriceOverride   *float64  `json:"price_override,omitempty"`
	DepositOverride *float64  `json:"deposit_override,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
