package repository

import (
	"context"

	"studyhall/internal/domain"

	"gorm.io/gorm"
)

type HallRepository struct {
	db *gorm.DB
}

func NewHallRepository(db *gorm.DB) *HallRepository {
	return &HallRepository{db: db}
}

func (r *HallRepository) Create(ctx context.Context, h *domain.Hall) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	var h domain.Hall
	tx := r.db.WithContext(ctx).First(&h, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &h, nil
}

// GetWithRows loads the hall together with its layout rows ordered by
// position.
func (r *HallRepository) GetWithRows(ctx context.Context, id int64) (*domain.Hall, error) {
	var h domain.Hall
	tx := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&h, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &h, nil
}

func (r *HallRepository) Update(ctx context.Context, h *domain.Hall) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *HallRepository) ListApproved(ctx context.Context, city string, limit, offset int) ([]domain.Hall, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", domain.HallApproved)
	if city != "" {
		q = q.Where("city = ?", city)
	}

	var halls []domain.Hall
	tx := q.Order("id").Limit(limit).Offset(offset).Find(&halls)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return halls, nil
}

func (r *HallRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Hall, error) {
	var halls []domain.Hall
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&halls)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return halls, nil
}

func (r *HallRepository) ListByStatus(ctx context.Context, status domain.HallStatus) ([]domain.Hall, error) {
	var halls []domain.Hall
	tx := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id").
		Find(&halls)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return halls, nil
}

func (r *HallRepository) UpdateStatus(ctx context.Context, id int64, status domain.HallStatus, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Hall{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"rejected_reason": reason,
		}).Error
}

// ReplaceRows swaps the hall's layout rows for the given set in one
// transaction. Row positions are reassigned from slice order.
func (r *HallRepository) ReplaceRows(ctx context.Context, hallID int64, rows []domain.HallRow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hall_id = ?", hallID).Delete(&domain.HallRow{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].HallID = hallID
			rows[i].Position = i
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
