package booking

import (
	"context"

	"studyhall/internal/availability"
	"studyhall/internal/domain"
)

// BookingRepository defines the persistence the booking service needs
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	ActiveCountByCabin(ctx context.Context, cabinID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListByHall(ctx context.Context, hallID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	CancelWithReason(ctx context.Context, id int64, reason string) error
}

type CabinReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Cabin, error)
}

type HallReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
}

// FeedPublisher pushes booking change events onto the hall's change
// feed. Publishing is best-effort; booking state in the database is
// authoritative.
type FeedPublisher interface {
	Publish(ctx context.Context, ev availability.Event) error
}
