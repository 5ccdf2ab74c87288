package repository

import (
	"context"
	"time"

	"studyhall/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.GatewayPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByInvID(ctx context.Context, invID int64) (*domain.GatewayPayment, error) {
	var p domain.GatewayPayment
	tx := r.db.WithContext(ctx).Where("inv_id = ?", invID).First(&p)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

// MarkPaidIdempotent flips the payment to paid unless it already is.
// Returns whether this call changed anything, so callbacks replayed by
// the gateway stay harmless.
func (r *PaymentRepository) MarkPaidIdempotent(ctx context.Context, invID int64, rawBody string, paidAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.GatewayPayment{}).
		Where("inv_id = ? AND status <> ?", invID, domain.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusPaid,
			"raw_callback": rawBody,
			"paid_at":      paidAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, invID int64, rawBody, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.GatewayPayment{}).
		Where("inv_id = ?", invID).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusFailed,
			"raw_callback": rawBody,
			"fail_reason":  reason,
		}).Error
}

// MarkPendingIfNotPaid records the browser-side success redirect
// without overriding a server-side paid confirmation.
func (r *PaymentRepository) MarkPendingIfNotPaid(ctx context.Context, invID int64, rawBody string) error {
	return r.db.WithContext(ctx).
		Model(&domain.GatewayPayment{}).
		Where("inv_id = ? AND status <> ?", invID, domain.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusPending,
			"raw_callback": rawBody,
		}).Error
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.GatewayPayment, error) {
	var payments []domain.GatewayPayment
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id DESC").
		Find(&payments)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return payments, nil
}
