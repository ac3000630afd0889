package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type OrderFilter struct {
	UserID *uint
	Status string
	Page
}

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Omit("User", "UserAddress").Create(o).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Order
	err := f.Page.apply(q.Order("created_at DESC, id DESC")).
		Preload("User").
		Preload("UserAddress").
		Preload("OrderDetails.Product").
		Find(&list).Error
	return list, total, err
}

// GetOrder loads an order with its details; userID restricts to that owner when non-nil.
func (r *GormRepo) GetOrder(ctx context.Context, id uint, userID *uint) (*models.Order, error) {
	q := r.DB.WithContext(ctx).
		Preload("User").
		Preload("UserAddress").
		Preload("OrderDetails.Product")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var o models.Order
	if err := q.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) LockOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOrder removes the order and its details. Callers wrap it in WithTx.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type OrderDetailFilter struct {
	OrderID *uint
	Page
}

func (r *GormRepo) ListOrderDetails(ctx context.Context, f OrderDetailFilter) ([]models.OrderDetail, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.OrderDetail{})
	if f.OrderID != nil {
		q = q.Where("order_id = ?", *f.OrderID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.OrderDetail
	err := f.Page.apply(q.Order("id DESC")).Preload("Product").Find(&list).Error
	return list, total, err
}

func (r *GormRepo) GetOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	var d models.OrderDetail
	if err := r.DB.WithContext(ctx).Preload("Product").First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) OrdersUsingAddress(ctx context.Context, addressID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_address_id = ?", addressID).Count(&n).Error
	return n, err
}
