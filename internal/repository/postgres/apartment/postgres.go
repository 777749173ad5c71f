package apartment

import (
	"context"
	"errors"

	apartmentdomain "apartment-chores-go/internal/domain/apartment"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(apartmentdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, apartmentID string) (*apartmentdomain.Apartment, error) {
	var apt apartmentdomain.Apartment
	if err := r.db.WithContext(ctx).Where("id = ?", apartmentID).First(&apt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apartmentdomain.ErrApartmentNotFound
		}
		return nil, err
	}
	return &apt, nil
}

func (r *PostgresRepository) GetFirstByUser(ctx context.Context, userID string) (*apartmentdomain.Apartment, error) {
	var apt apartmentdomain.Apartment
	err := r.db.WithContext(ctx).
		Table("apartments").
		Joins("join apartment_members on apartment_members.apartment_id = apartments.id").
		Where("apartment_members.user_id = ?", userID).
		Order("apartments.created_at asc").
		Limit(1).
		First(&apt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apartmentdomain.ErrApartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &apt, nil
}

func (r *PostgresRepository) CreateApartment(ctx context.Context, apt *apartmentdomain.Apartment) error {
	return r.db.WithContext(ctx).Create(apt).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *apartmentdomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) IsMember(ctx context.Context, apartmentID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&apartmentdomain.Member{}).
		Where("apartment_id = ? AND user_id = ?", apartmentID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListMemberProfiles(ctx context.Context, apartmentID string) ([]apartmentdomain.MemberRow, error) {
	type memberRow struct {
		UserID      string  `gorm:"column:user_id"`
		DisplayName *string `gorm:"column:display_name"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("apartment_members").
		Select("apartment_members.user_id, users.display_name").
		Joins("left join users on users.id = apartment_members.user_id").
		Where("apartment_members.apartment_id = ?", apartmentID).
		Order("apartment_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]apartmentdomain.MemberRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, apartmentdomain.MemberRow{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
		})
	}
	return result, nil
}
