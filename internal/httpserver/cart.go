package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	return response.Success(c, http.StatusOK, "Cart retrieved successfully", items)
}

// GetCarts lists every cart row, optionally for one user_id.
func (h *CartHTTP) GetCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_carts")

	p := pageParams(c)
	items, total, err := h.Svc.ListAll(ctx, parseOptionalUint(c.QueryParam("user_id")), p.Page)
	if err != nil {
		return fail(l, "get_carts_failed", err)
	}
	return paginated(c, "Carts retrieved successfully", items, total, len(items), p)
}

func (h *CartHTTP) GetCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart_item")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := owner(c)
	if err != nil {
		return err
	}
	item, err := h.Svc.Get(ctx, id, userID)
	if err != nil {
		return fail(l, "get_cart_item_failed", err)
	}
	return response.Success(c, http.StatusOK, "Cart item retrieved successfully", item)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.AddToCartRequest
	if err := bind(c, l, "add_to_cart_failed", &req); err != nil {
		return err
	}
	item, err := h.Svc.Add(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_failed", err)
	}
	return response.Success(c, http.StatusCreated, "Product added to cart", item)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_cart_item")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.UpdateCartRequest
	if err := bind(c, l, "update_cart_item_failed", &req); err != nil {
		return err
	}
	item, err := h.Svc.Update(ctx, id, userID, req.Quantity)
	if err != nil {
		return fail(l, "update_cart_item_failed", err)
	}
	return response.Success(c, http.StatusOK, "Cart updated successfully", item)
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_cart_item")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(ctx, id, userID); err != nil {
		return fail(l, "remove_cart_item_failed", err)
	}
	return response.Success(c, http.StatusOK, "Product removed from cart", nil)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	n, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		return fail(l, "clear_cart_failed", err)
	}
	return response.Success(c, http.StatusOK, "Cart cleared", map[string]int64{"removed": n})
}
