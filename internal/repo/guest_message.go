package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

type GuestMessageFilter struct {
	IsRead *bool
	Page
}

func (r *GormRepo) CreateGuestMessage(ctx context.Context, m *models.GuestMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) ListGuestMessages(ctx context.Context, f GuestMessageFilter) ([]models.GuestMessage, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.GuestMessage{})
	if f.IsRead != nil {
		q = q.Where("is_read = ?", *f.IsRead)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.GuestMessage
	err := f.Page.apply(q.Order("created_at DESC, id DESC")).Find(&list).Error
	return list, total, err
}

func (r *GormRepo) GetGuestMessage(ctx context.Context, id uint) (*models.GuestMessage, error) {
	var m models.GuestMessage
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepo) SetGuestMessageRead(ctx context.Context, id uint, read bool) error {
	res := r.DB.WithContext(ctx).Model(&models.GuestMessage{}).Where("id = ?", id).Update("is_read", read)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteGuestMessage(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.GuestMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GuestMessageCounts(ctx context.Context) (total, unread int64, err error) {
	db := r.DB.WithContext(ctx).Model(&models.GuestMessage{})
	if err = db.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.DB.WithContext(ctx).Model(&models.GuestMessage{}).Where("is_read = ?", false).Count(&unread).Error
	return total, unread, err
}
