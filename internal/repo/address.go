package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

type AddressFilter struct {
	UserID    *uint
	IsDefault *bool
	Page
}

func (r *GormRepo) ListAddresses(ctx context.Context, f AddressFilter) ([]models.UserAddress, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.UserAddress{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.IsDefault != nil {
		q = q.Where("is_default = ?", *f.IsDefault)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.UserAddress
	err := f.Page.apply(q.Order("is_default DESC, created_at DESC, id DESC")).Find(&list).Error
	return list, total, err
}

func (r *GormRepo) GetAddress(ctx context.Context, id uint, userID *uint) (*models.UserAddress, error) {
	q := r.DB.WithContext(ctx)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var a models.UserAddress
	if err := q.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CountAddresses(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.UserAddress{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// UnsetDefaultAddresses clears is_default on the user's addresses, skipping exceptID when non-zero.
func (r *GormRepo) UnsetDefaultAddresses(ctx context.Context, userID, exceptID uint) error {
	q := r.DB.WithContext(ctx).Model(&models.UserAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.UserAddress) error {
	return r.DB.WithContext(ctx).Omit("User").Create(a).Error
}

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.UserAddress) error {
	return r.DB.WithContext(ctx).Omit("User").Save(a).Error
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.UserAddress{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
