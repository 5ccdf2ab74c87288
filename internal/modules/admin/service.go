package admin

import (
	"context"

	"studyhall/internal/domain"
	"studyhall/internal/repository"
)

type Service struct {
	halls       HallRepository
	users       UserLister
	settlements SettlementReader
}

func NewService(halls HallRepository, users UserLister, settlements SettlementReader) *Service {
	return &Service{halls: halls, users: users, settlements: settlements}
}

func (s *Service) ListPendingHalls(ctx context.Context) ([]domain.Hall, error) {
	return s.halls.ListByStatus(ctx, domain.HallPending)
}

// ApproveHall transitions pending -> approved. Approving an already
// moderated hall is rejected, not silently repeated.
func (s *Service) ApproveHall(ctx context.Context, hallID int64) error {
	h, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return ErrNotFound
	}
	if h.Status != domain.HallPending {
		return ErrInvalidStatusTransition
	}
	return s.halls.UpdateStatus(ctx, hallID, domain.HallApproved, "")
}

func (s *Service) RejectHall(ctx context.Context, hallID int64, reason string) error {
	h, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return ErrNotFound
	}
	if h.Status != domain.HallPending {
		return ErrInvalidStatusTransition
	}
	return s.halls.UpdateStatus(ctx, hallID, domain.HallRejected, reason)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) HallSettlement(ctx context.Context, hallID int64) (*repository.HallSettlement, error) {
	if _, err := s.halls.GetByID(ctx, hallID); err != nil {
		return nil, ErrNotFound
	}
	return s.settlements.SettlementByHall(ctx, hallID)
}
