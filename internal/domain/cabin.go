package domain

import "time"

type CabinStatus string

const (
	CabinAvailable   CabinStatus = "available"
	CabinOccupied    CabinStatus = "occupied"
	CabinMaintenance CabinStatus = "maintenance"
)

// Cabin is the persisted record of one bookable private-room unit.
// PositionID is the deterministic layout id (assigned once per grid
// position) and is the stable identity carried through every layout
// regeneration. Geometry is not stored; it is recomputed from the
// hall's rows on read.
type Cabin struct {
	ID                int64       `json:"id"`
	HallID            int64       `json:"hall_id" gorm:"uniqueIndex:idx_cabins_hall_position"`
	PositionID        string      `json:"position_id" gorm:"uniqueIndex:idx_cabins_hall_position"`
	Name              string      `json:"name"`
	MonthlyPrice      float64     `json:"monthly_price"`
	RefundableDeposit float64     `json:"refundable_deposit"`
	Amenities         []string    `json:"amenities,omitempty" gorm:"serializer:json"`
	Status            CabinStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
