package payment

import (
	"context"
	"time"

	"studyhall/internal/domain"
)

type paymentRepo interface {
	Create(ctx context.Context, p *domain.GatewayPayment) error
	GetByInvID(ctx context.Context, invID int64) (*domain.GatewayPayment, error)
	MarkPaidIdempotent(ctx context.Context, invID int64, rawBody string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, invID int64, rawBody, reason string) error
	MarkPendingIfNotPaid(ctx context.Context, invID int64, rawBody string) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.GatewayPayment, error)
}

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// bookingPaidMarker transitions the booking once the gateway confirms
// payment; implemented by the booking service.
type bookingPaidMarker interface {
	MarkPaid(ctx context.Context, bookingID int64) error
}
