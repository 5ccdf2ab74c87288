package layout

import (
	"fmt"

	"studyhall/internal/domain"
)

// Grid constants. Placement is a regular grid; rows stack vertically
// and cabins pack left to right inside a row.
const (
	CabinWidth   = 80.0
	CabinHeight  = 60.0
	CabinSpacing = 10.0
	RowSpacing   = 30.0
	CanvasMargin = 40.0

	MinCanvasWidth  = 600.0
	MinCanvasHeight = 400.0
	CanvasScale     = 1.0
)

// RowConfig is one named row of the layout editor. Overrides are
// per-row; a nil override falls back to the hall's base value, and an
// explicit zero deposit is honored.
type RowConfig struct {
	Name            string   `json:"name"`
	CabinCount      int      `json:"cabin_count"`
	PriceOverride   *float64 `json:"price_override,omitempty"`
	DepositOverride *float64 `json:"deposit_override,omitempty"`
	Amenities       []string `json:"amenities,omitempty"`
}

type CabinRecord struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	X                 float64            `json:"x"`
	Y                 float64            `json:"y"`
	Width             float64            `json:"width"`
	Height            float64            `json:"height"`
	MonthlyPrice      float64            `json:"monthly_price"`
	RefundableDeposit float64            `json:"refundable_deposit"`
	Amenities         []string           `json:"amenities,omitempty"`
	Status            domain.CabinStatus `json:"status"`
}

type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

type LayoutData struct {
	Cabins []CabinRecord `json:"cabins"`
	Canvas Canvas        `json:"canvas"`
}

// CabinID derives the stable cabin id from its grid position. Editing
// one row never reshuffles the ids of other rows.
func CabinID(rowIdx, cabinIdx int) string {
	return fmt.Sprintf("cabin-%d-%d", rowIdx, cabinIdx)
}

// Generate turns a row configuration into a positioned, priced cabin
// list plus the canvas that bounds it. It is pure: same input, same
// output, byte for byte. A row with CabinCount <= 0 contributes no
// cabins. Statuses default to available; overrides may pre-set a
// status per cabin id (occupied or maintenance overlays).
func Generate(rows []RowConfig, basePrice, baseDeposit float64, overrides map[string]domain.CabinStatus) *LayoutData {
	cabins := make([]CabinRecord, 0)
	maxCount := 0

	for rowIdx, row := range rows {
		if row.CabinCount > maxCount {
			maxCount = row.CabinCount
		}

		price := basePrice
		if row.PriceOverride != nil {
			price = *row.PriceOverride
		}
		deposit := baseDeposit
		if row.DepositOverride != nil {
			deposit = *row.DepositOverride
		}

		y := CanvasMargin + float64(rowIdx)*(CabinHeight+RowSpacing)

		for cabinIdx := 0; cabinIdx < row.CabinCount; cabinIdx++ {
			id := CabinID(rowIdx, cabinIdx)

			status := domain.CabinAvailable
			if s, ok := overrides[id]; ok {
				status = s
			}

			cabins = append(cabins, CabinRecord{
				ID:                id,
				Name:              fmt.Sprintf("%s%d", row.Name, cabinIdx+1),
				X:                 CanvasMargin + float64(cabinIdx)*(CabinWidth+CabinSpacing),
				Y:                 y,
				Width:             CabinWidth,
				Height:            CabinHeight,
				MonthlyPrice:      price,
				RefundableDeposit: deposit,
				Amenities:         row.Amenities,
				Status:            status,
			})
		}
	}

	width := CanvasMargin*2 + float64(maxCount)*(CabinWidth+CabinSpacing)
	if width < MinCanvasWidth {
		width = MinCanvasWidth
	}
	height := CanvasMargin*2 + float64(len(rows))*(CabinHeight+RowSpacing)
	if height < MinCanvasHeight {
		height = MinCanvasHeight
	}

	return &LayoutData{
		Cabins: cabins,
		Canvas: Canvas{Width: width, Height: height, Scale: CanvasScale},
	}
}

// TotalCabins sums cabin counts across rows, skipping non-positive
// counts the same way Generate does.
func TotalCabins(rows []RowConfig) int {
	n := 0
	for _, row := range rows {
		if row.CabinCount > 0 {
			n += row.CabinCount
		}
	}
	return n
}
