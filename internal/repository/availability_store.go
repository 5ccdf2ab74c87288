package repository

import (
	"context"

	"studyhall/internal/availability"
	"studyhall/internal/domain"

	"gorm.io/gorm"
)

// AvailabilityStore backs the availability reconciler with the
// two-step fetch: cabins first, then their bookings by cabin_id IN
// (...). Deliberately two queries, not a join; the cabin list is also
// what maps booking rows back to layout position ids.
type AvailabilityStore struct {
	db *gorm.DB
}

func NewAvailabilityStore(db *gorm.DB) *AvailabilityStore {
	return &AvailabilityStore{db: db}
}

func (s *AvailabilityStore) FetchCabins(ctx context.Context, hallID int64) ([]availability.CabinRef, error) {
	var cabins []domain.Cabin
	tx := s.db.WithContext(ctx).
		Select("id", "position_id").
		Where("hall_id = ?", hallID).
		Order("position_id").
		Find(&cabins)
	if tx.Error != nil {
		return nil, tx.Error
	}

	refs := make([]availability.CabinRef, 0, len(cabins))
	for _, c := range cabins {
		refs = append(refs, availability.CabinRef{ID: c.PositionID, RecordID: c.ID})
	}
	return refs, nil
}

func (s *AvailabilityStore) FetchBookings(ctx context.Context, cabins []availability.CabinRef) ([]availability.BookingRecord, error) {
	if len(cabins) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(cabins))
	position := make(map[int64]string, len(cabins))
	for _, c := range cabins {
		ids = append(ids, c.RecordID)
		position[c.RecordID] = c.ID
	}

	var bookings []domain.Booking
	tx := s.db.WithContext(ctx).
		Select("cabin_id", "status", "payment_status").
		Where("cabin_id IN ?", ids).
		Where("status IN ?", []domain.BookingStatus{domain.BookingActive, domain.BookingPending}).
		Where("payment_status = ?", domain.PaymentPaid).
		Find(&bookings)
	if tx.Error != nil {
		return nil, tx.Error
	}

	records := make([]availability.BookingRecord, 0, len(bookings))
	for _, b := range bookings {
		records = append(records, availability.BookingRecord{
			CabinID:       position[b.CabinID],
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
		})
	}
	return records, nil
}
