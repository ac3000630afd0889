package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CartLine is a cart row joined with the product's current price.
type CartLine struct {
	CartID    uint
	ProductID uint
	Quantity  int
	Price     int64
}

func (r *GormRepo) ListCart(ctx context.Context, userID uint) ([]models.Cart, error) {
	var items []models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListAllCarts(ctx context.Context, userID *uint, p Page) ([]models.Cart, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Cart{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Cart
	if err := p.apply(q.Preload("Product").Preload("User").Order("created_at DESC, id DESC")).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetCartItem loads one row; userID restricts it to that owner when non-nil.
func (r *GormRepo) GetCartItem(ctx context.Context, id uint, userID *uint) (*models.Cart, error) {
	q := r.DB.WithContext(ctx).Preload("Product")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var item models.Cart
	if err := q.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart increments an existing row for (user, product) or inserts one.
// AddToCart inserts the line or, when the user already has the product in
// the cart, adds item.Quantity to it in the same statement. item is reloaded
// with the resulting row and its product.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.Cart) error {
	db := r.DB.WithContext(ctx)
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("carts.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error
	if err != nil {
		return err
	}

	var saved models.Cart
	if err := db.Preload("Product").
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&saved).Error; err != nil {
		return err
	}
	*item = saved
	return nil
}

func (r *GormRepo) SetCartQuantity(ctx context.Context, id, userID uint, qty int) (*models.Cart, error) {
	var item models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&item).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("quantity", qty).Error; err != nil {
			return err
		}
		return tx.Preload("Product").First(&item, item.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id, userID uint) error {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Cart{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

// CartLinesForUser resolves the given cart ids owned by userID, locking the
// rows. Ids that do not exist or belong to someone else are skipped.
func (r *GormRepo) CartLinesForUser(ctx context.Context, userID uint, ids []uint) ([]CartLine, error) {
	var lines []CartLine
	err := r.DB.WithContext(ctx).
		Table("carts").
		Select("carts.id AS cart_id, carts.product_id, carts.quantity, products.price").
		Joins("JOIN products ON products.id = carts.product_id").
		Where("carts.user_id = ? AND carts.id IN ?", userID, ids).
		Order("carts.id ASC").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "carts"}}).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) DeleteCartRows(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Cart{}).Error
}
