package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) GetContent(ctx context.Context, key string) (*models.Content, error) {
	var c models.Content
	if err := r.DB.WithContext(ctx).Where(&models.Content{Key: key}).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) AllContents(ctx context.Context) ([]models.Content, error) {
	var list []models.Content
	if err := r.DB.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepo) UpsertContent(ctx context.Context, c *models.Content) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(c).Error
}
