package booking

import (
	"context"
	"math"
	"time"

	"studyhall/internal/availability"
	"studyhall/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type Service struct {
	bookings BookingRepository
	cabins   CabinReader
	halls    HallReader
	feed     FeedPublisher
	logf     func(format string, args ...interface{})
}

func NewService(bookings BookingRepository, cabins CabinReader, halls HallReader, feed FeedPublisher, logf func(format string, args ...interface{})) *Service {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Service{bookings: bookings, cabins: cabins, halls: halls, feed: feed, logf: logf}
}

func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	b := &domain.Booking{
		HallID:    req.HallID,
		CabinID:   req.CabinID,
		UserID:    &userID,
		StartDate: req.StartDate,
		Months:    req.Months,
		Notes:     req.Notes,
	}
	return s.create(ctx, b)
}

// GuestCheckout creates a booking without an account; the reference
// is the guest's handle for payment and the QR confirmation.
func (s *Service) GuestCheckout(ctx context.Context, req GuestCheckoutRequest) (*domain.Booking, error) {
	b := &domain.Booking{
		HallID:     req.HallID,
		CabinID:    req.CabinID,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		GuestEmail: req.GuestEmail,
		StartDate:  req.StartDate,
		Months:     req.Months,
		Notes:      req.Notes,
	}
	return s.create(ctx, b)
}

func (s *Service) create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if b.StartDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, ErrValidation
	}

	cabin, err := s.cabins.GetByID(ctx, b.CabinID)
	if err != nil {
		return nil, ErrNotFound
	}
	if cabin.HallID != b.HallID {
		return nil, ErrValidation
	}
	if cabin.Status == domain.CabinMaintenance {
		return nil, ErrNotAvailable
	}

	active, err := s.bookings.ActiveCountByCabin(ctx, b.CabinID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrNotAvailable
	}

	total := cabin.MonthlyPrice * float64(b.Months)
	b.TotalPrice = math.Round(total*100) / 100
	b.DepositAmount = cabin.RefundableDeposit
	b.Reference = uuid.NewString()
	b.Status = domain.BookingPending
	b.PaymentStatus = domain.PaymentUnpaid

	if err := s.bookings.Create(ctx, b); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	s.publish(ctx, availability.EventInsert, b)
	return b, nil
}

func (s *Service) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	b, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListByHall(ctx context.Context, hallID, ownerID int64) ([]domain.Booking, error) {
	h, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, ErrNotFound
	}
	if h.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByHall(ctx, hallID)
}

// CancelBooking cancels with a mandatory reason. Students cancel
// their own bookings; the hall owner can cancel any booking in their
// hall.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return nil, ErrInvalidStatusTransition
	}

	allowed := b.UserID != nil && *b.UserID == actorID
	if !allowed {
		h, err := s.halls.GetByID(ctx, b.HallID)
		if err == nil && h.OwnerID == actorID {
			allowed = true
		}
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if err := s.bookings.CancelWithReason(ctx, bookingID, reason); err != nil {
		return nil, err
	}

	s.publish(ctx, availability.EventUpdate, b)
	return s.bookings.GetByID(ctx, bookingID)
}

// MarkPaid is called by the payment module once the gateway confirms.
// A paid pending booking becomes active, which is what occupies the
// cabin for reconciliation.
func (s *Service) MarkPaid(ctx context.Context, bookingID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return ErrNotFound
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, bookingID, domain.PaymentPaid); err != nil {
		return err
	}
	if b.Status == domain.BookingPending {
		if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingActive); err != nil {
			return err
		}
	}

	s.publish(ctx, availability.EventUpdate, b)
	return nil
}

func (s *Service) publish(ctx context.Context, typ availability.EventType, b *domain.Booking) {
	if s.feed == nil {
		return
	}
	ev := availability.Event{Type: typ, HallID: b.HallID, BookingID: b.ID}
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.logf("level=error msg=change feed publish failed hall_id=%d booking_id=%d err=%v", b.HallID, b.ID, err)
	}
}
