package availability

import (
	"time"

	"studyhall/internal/domain"
)

// CabinRef identifies one cabin for reconciliation. ID is the stable
// layout position id; RecordID is the database row id used by the
// booking fetch.
type CabinRef struct {
	ID       string
	RecordID int64
}

// BookingRecord is the read-only slice of a booking that occupancy
// depends on.
type BookingRecord struct {
	CabinID       string
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
}

type CabinAvailability struct {
	Status         domain.CabinStatus `json:"status"`
	ActiveBookings int                `json:"active_bookings"`
}

// Snapshot is the result of one reconciliation pass over a hall.
type Snapshot struct {
	HallID        int64                        `json:"hall_id"`
	Cabins        map[string]CabinAvailability `json:"cabins"`
	TotalCabins   int                          `json:"total_cabins"`
	OccupiedCount int                          `json:"occupied_count"`
	OccupancyRate float64                      `json:"occupancy_rate"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

// Reconcile overlays live booking occupancy onto a static cabin list.
// A cabin is occupied iff at least one booking references it with
// status active and payment status paid; with no matching booking
// data it stays available (never occupied by default). Maintenance is
// a reserved status set manually elsewhere, never produced here.
//
// Full recomputation per call; fine at tens of cabins and low
// hundreds of bookings per hall.
func Reconcile(cabins []CabinRef, bookings []BookingRecord) map[string]CabinAvailability {
	out := make(map[string]CabinAvailability, len(cabins))
	for _, cabin := range cabins {
		count := 0
		for _, b := range bookings {
			if b.CabinID == cabin.ID &&
				b.Status == domain.BookingActive &&
				b.PaymentStatus == domain.PaymentPaid {
				count++
			}
		}

		status := domain.CabinAvailable
		if count > 0 {
			status = domain.CabinOccupied
		}
		out[cabin.ID] = CabinAvailability{Status: status, ActiveBookings: count}
	}
	return out
}

// OccupancyRate is occupied/total in [0,1]; zero cabins is 0, not a
// divide by zero.
func OccupancyRate(cabins map[string]CabinAvailability) float64 {
	if len(cabins) == 0 {
		return 0
	}
	occupied := 0
	for _, a := range cabins {
		if a.Status == domain.CabinOccupied {
			occupied++
		}
	}
	return float64(occupied) / float64(len(cabins))
}

// NewSnapshot runs one reconciliation and packages the result.
func NewSnapshot(hallID int64, cabins []CabinRef, bookings []BookingRecord) *Snapshot {
	m := Reconcile(cabins, bookings)
	occupied := 0
	for _, a := range m {
		if a.Status == domain.CabinOccupied {
			occupied++
		}
	}
	return &Snapshot{
		HallID:        hallID,
		Cabins:        m,
		TotalCabins:   len(m),
		OccupiedCount: occupied,
		OccupancyRate: OccupancyRate(m),
		UpdatedAt:     time.Now().UTC(),
	}
}
