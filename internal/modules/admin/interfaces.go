package admin

import (
	"context"

	"studyhall/internal/domain"
	"studyhall/internal/repository"
)

type HallRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	ListByStatus(ctx context.Context, status domain.HallStatus) ([]domain.Hall, error)
	UpdateStatus(ctx context.Context, id int64, status domain.HallStatus, reason string) error
}

type UserLister interface {
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type SettlementReader interface {
	SettlementByHall(ctx context.Context, hallID int64) (*repository.HallSettlement, error)
}
