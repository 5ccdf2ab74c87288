package hall

import "studyhall/internal/layout"

type CreateHallRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address" binding:"required"`
	City        string   `json:"city" binding:"required"`
	BasePrice   float64  `json:"base_price" binding:"required,gte=0"`
	BaseDeposit float64  `json:"base_deposit" binding:"gte=0"`
	Amenities   []string `json:"amenities"`
}

type UpdateHallRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Address     *string  `json:"address,omitempty"`
	City        *string  `json:"city,omitempty"`
	BasePrice   *float64 `json:"base_price,omitempty"`
	BaseDeposit *float64 `json:"base_deposit,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

// RowInput carries the layout editor fields as raw form strings; the
// service runs them through the validating numeric parse before any
// grid arithmetic sees them.
type RowInput struct {
	Name            string   `json:"name" binding:"required"`
	CabinCount      string   `json:"cabin_count" binding:"required"`
	PriceOverride   string   `json:"price_override"`
	DepositOverride string   `json:"deposit_override"`
	Amenities       []string `json:"amenities"`
}

type SaveLayoutRequest struct {
	Rows []RowInput `json:"rows" binding:"required,min=1,dive"`
}

type SetCabinStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available maintenance"`
}

// LayoutSaveResult reports a possibly-partial save: the generated
// layout plus which cabins failed to persist.
type LayoutSaveResult struct {
	Layout       *layout.LayoutData `json:"layout"`
	SavedCabins  int                `json:"saved_cabins"`
	FailedCabins []string           `json:"failed_cabins,omitempty"`
}
