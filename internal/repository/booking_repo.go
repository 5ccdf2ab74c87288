package repository

import (
	"context"
	"time"

	"studyhall/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).Where("reference = ?", ref).First(&b)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

// ActiveCountByCabin counts bookings that occupy the cabin right now:
// active status, paid.
func (r *BookingRepository) ActiveCountByCabin(ctx context.Context, cabinID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("cabin_id = ? AND status = ? AND payment_status = ?",
			cabinID, domain.BookingActive, domain.PaymentPaid).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var bookings []domain.Booking
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return bookings, nil
}

func (r *BookingRepository) ListByHall(ctx context.Context, hallID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	tx := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Order("id DESC").
		Find(&bookings)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *BookingRepository) CancelWithReason(ctx context.Context, id int64, reason string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              domain.BookingCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        now,
		}).Error
}

// HallSettlement aggregates a hall's paid bookings for settlement
// review.
type HallSettlement struct {
	HallID       int64   `json:"hall_id"`
	Bookings     int64   `json:"bookings"`
	PaidBookings int64   `json:"paid_bookings"`
	GrossAmount  float64 `json:"gross_amount"`
	DepositsHeld float64 `json:"deposits_held"`
}

func (r *BookingRepository) SettlementByHall(ctx context.Context, hallID int64) (*HallSettlement, error) {
	s := HallSettlement{HallID: hallID}

	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("hall_id = ?", hallID).
		Count(&s.Bookings)
	if tx.Error != nil {
		return nil, tx.Error
	}

	row := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("COUNT(1) AS paid_bookings, COALESCE(SUM(total_price), 0) AS gross_amount, COALESCE(SUM(deposit_amount), 0) AS deposits_held").
		Where("hall_id = ? AND payment_status = ?", hallID, domain.PaymentPaid).
		Row()
	if err := row.Scan(&s.PaidBookings, &s.GrossAmount, &s.DepositsHeld); err != nil {
		return nil, err
	}

	return &s, nil
}
