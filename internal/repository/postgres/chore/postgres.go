package chore

import (
	"context"
	"errors"
	"time"

	choredomain "apartment-chores-go/internal/domain/chore"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(choredomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListByApartment(ctx context.Context, apartmentID string) ([]choredomain.Chore, error) {
	var chores []choredomain.Chore
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		Find(&chores).Error; err != nil {
		return nil, err
	}
	return chores, nil
}

func (r *PostgresRepository) ListByAssignee(ctx context.Context, apartmentID, userID string) ([]choredomain.Chore, error) {
	var chores []choredomain.Chore
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ? AND assigned_to = ?", apartmentID, userID).
		Order("category asc, sort_order asc").
		Find(&chores).Error; err != nil {
		return nil, err
	}
	return chores, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, choreID string) (*choredomain.Chore, error) {
	var c choredomain.Chore
	if err := r.db.WithContext(ctx).Where("id = ?", choreID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, choredomain.ErrChoreNotFound
		}
		return nil, err
	}
	return &c, nil
}

// UpdateCompletion merge-writes the completion pair on a single row; fields
// outside the pair are untouched.
func (r *PostgresRepository) UpdateCompletion(ctx context.Context, choreID string, completed bool, completedAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&choredomain.Chore{}).
		Where("id = ?", choreID).
		Updates(map[string]interface{}{
			"completed":    completed,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return choredomain.ErrChoreNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateAssignment(ctx context.Context, choreID, userID string) error {
	result := r.db.WithContext(ctx).Model(&choredomain.Chore{}).
		Where("id = ?", choreID).
		Update("assigned_to", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return choredomain.ErrChoreNotFound
	}
	return nil
}

// ResetByApartment is a single statement so the whole board resets
// atomically when run inside Transaction.
func (r *PostgresRepository) ResetByApartment(ctx context.Context, apartmentID string) error {
	return r.db.WithContext(ctx).Model(&choredomain.Chore{}).
		Where("apartment_id = ?", apartmentID).
		Updates(map[string]interface{}{
			"assigned_to":  "",
			"completed":    false,
			"completed_at": nil,
		}).Error
}
