package repository

import (
	"context"

	"studyhall/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CabinRepository struct {
	db *gorm.DB
}

func NewCabinRepository(db *gorm.DB) *CabinRepository {
	return &CabinRepository{db: db}
}

func (r *CabinRepository) GetByID(ctx context.Context, id int64) (*domain.Cabin, error) {
	var c domain.Cabin
	tx := r.db.WithContext(ctx).First(&c, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *CabinRepository) GetByPosition(ctx context.Context, hallID int64, positionID string) (*domain.Cabin, error) {
	var c domain.Cabin
	tx := r.db.WithContext(ctx).
		Where("hall_id = ? AND position_id = ?", hallID, positionID).
		First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *CabinRepository) ListByHall(ctx context.Context, hallID int64) ([]domain.Cabin, error) {
	var cabins []domain.Cabin
	tx := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Order("position_id").
		Find(&cabins)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return cabins, nil
}

// UpsertByPosition writes the generated cabin set keyed by the stable
// position id. Existing rows keep their database id, so bookings stay
// attached across layout saves. Cabins that fail to save are reported
// back by position id; successful ones are not rolled back.
func (r *CabinRepository) UpsertByPosition(ctx context.Context, hallID int64, cabins []domain.Cabin) (saved int, failed []string, err error) {
	for i := range cabins {
		cabins[i].HallID = hallID
		tx := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "hall_id"}, {Name: "position_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "monthly_price", "refundable_deposit", "amenities", "updated_at",
				}),
			}).
			Create(&cabins[i])
		if tx.Error != nil {
			failed = append(failed, cabins[i].PositionID)
			continue
		}
		saved++
	}
	return saved, failed, nil
}

// DeleteStale removes cabins whose position id is no longer part of
// the layout. Cabins with bookings are left in place; the delete is
// restricted to unreferenced rows.
func (r *CabinRepository) DeleteStale(ctx context.Context, hallID int64, keep []string) error {
	q := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Where("id NOT IN (?)", r.db.Table("bookings").Select("cabin_id").Where("hall_id = ?", hallID))
	if len(keep) > 0 {
		q = q.Where("position_id NOT IN ?", keep)
	}
	return q.Delete(&domain.Cabin{}).Error
}

func (r *CabinRepository) UpdateStatus(ctx context.Context, hallID int64, positionID string, status domain.CabinStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Cabin{}).
		Where("hall_id = ? AND position_id = ?", hallID, positionID).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
