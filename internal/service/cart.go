package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartService struct {
	Repo *repo.GormRepo
}

func checkQuantity(qty int) error {
	if qty < MinQuantity || qty > MaxQuantity {
		return invalid("quantity", fmt.Sprintf("The quantity field must be between %d and %d.", MinQuantity, MaxQuantity))
	}
	return nil
}

func (s *CartService) List(ctx context.Context, userID uint) ([]models.Cart, error) {
	return s.Repo.ListCart(ctx, userID)
}

func (s *CartService) ListAll(ctx context.Context, userID *uint, p repo.Page) ([]models.Cart, int64, error) {
	return s.Repo.ListAllCarts(ctx, userID, p)
}

// Get returns a cart row; a non-nil userID limits the lookup to that owner.
func (s *CartService) Get(ctx context.Context, id uint, userID *uint) (*models.Cart, error) {
	c, err := s.Repo.GetCartItem(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return c, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID uint, qty int) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if isRecordNotFound(err) {
			return nil, invalid("product_id", "The selected product id is invalid.")
		}
		return nil, err
	}

	item := &models.Cart{UserID: userID, ProductID: productID, Quantity: qty}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		l.Error("add_to_cart_failed", "error", err)
		return nil, err
	}
	if item.Quantity > MaxQuantity {
		if _, err := s.Repo.SetCartQuantity(ctx, item.ID, userID, MaxQuantity); err != nil {
			return nil, err
		}
		item.Quantity = MaxQuantity
	}

	l.Info("cart_item_added", "cart_id", item.ID, "quantity", item.Quantity)
	return item, nil
}

func (s *CartService) Update(ctx context.Context, id, userID uint, qty int) (*models.Cart, error) {
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	item, err := s.Repo.SetCartQuantity(ctx, id, userID, qty)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, id, userID uint) error {
	return notFound(s.Repo.DeleteCartItem(ctx, id, userID), "cart item")
}

func (s *CartService) Clear(ctx context.Context, userID uint) (int64, error) {
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("cart_cleared", "svc", "cart.clear", "user_id", userID, "removed", n)
	return n, nil
}
