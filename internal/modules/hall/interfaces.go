package hall

import (
	"context"

	"studyhall/internal/domain"
)

// HallRepository defines the persistence the hall service needs
type HallRepository interface {
	Create(ctx context.Context, h *domain.Hall) error
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	GetWithRows(ctx context.Context, id int64) (*domain.Hall, error)
	Update(ctx context.Context, h *domain.Hall) error
	ListApproved(ctx context.Context, city string, limit, offset int) ([]domain.Hall, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Hall, error)
	ReplaceRows(ctx context.Context, hallID int64, rows []domain.HallRow) error
}

type CabinRepository interface {
	ListByHall(ctx context.Context, hallID int64) ([]domain.Cabin, error)
	UpsertByPosition(ctx context.Context, hallID int64, cabins []domain.Cabin) (saved int, failed []string, err error)
	DeleteStale(ctx context.Context, hallID int64, keep []string) error
	UpdateStatus(ctx context.Context, hallID int64, positionID string, status domain.CabinStatus) error
}
