package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	userID, err := owner(c)
	if err != nil {
		return err
	}
	if userID == nil {
		userID = parseOptionalUint(c.QueryParam("user_id"))
	}

	p := pageParams(c)
	items, total, err := h.Svc.List(ctx, repo.OrderFilter{
		UserID: userID,
		Status: c.QueryParam("status"),
		Page:   p.Page,
	})
	if err != nil {
		return fail(l, "get_orders_failed", err)
	}
	return paginated(c, "Orders retrieved successfully", items, total, len(items), p)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := owner(c)
	if err != nil {
		return err
	}
	o, err := h.Svc.Get(ctx, id, userID)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return response.Success(c, http.StatusOK, "Order retrieved successfully", o)
}

// StoreOrder accepts JSON or multipart. In multipart requests cart_ids is
// repeated (cart_ids or cart_ids[]) and order_details is a JSON string.
func (h *OrderHTTP) StoreOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.store_order")

	req, err := readStoreOrder(c)
	if err != nil {
		l.Warn("order_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if isAdminScope(c) {
		if req.UserID == 0 {
			return response.NewFieldError(map[string][]string{"user_id": {"The user id field is required."}})
		}
	} else {
		id, err := currentUser(c)
		if err != nil {
			return err
		}
		req.UserID = id
	}

	proof, closeProof, err := formUpload(c, "payment_proof")
	if err != nil {
		return err
	}
	defer closeProof()

	lines := make([]service.OrderLine, 0, len(req.OrderDetails))
	for _, d := range req.OrderDetails {
		lines = append(lines, service.OrderLine{ProductID: d.ProductID, Quantity: d.Quantity, Price: d.Price})
	}

	o, err := h.Svc.PlaceOrder(ctx, service.PlaceOrderInput{
		UserID:        req.UserID,
		UserAddressID: req.UserAddressID,
		Status:        req.Status,
		CartIDs:       req.CartIDs,
		Lines:         lines,
		PaymentProof:  proof,
	})
	if err != nil {
		return placeFailed(l, err)
	}

	l.Info("create_order_success", "order_id", o.ID, "user_id", o.UserID, "total_price", o.TotalPrice)
	return response.Success(c, http.StatusCreated, "Order created successfully", o)
}

// placeFailed surfaces the transaction cause on 500s.
func placeFailed(l *slog.Logger, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) || errors.Is(err, service.ErrBadRequest) {
		return fail(l, "order_create_failed", err)
	}
	l.Error("order_create_failed", "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func readStoreOrder(c echo.Context) (*transport.StoreOrderRequest, error) {
	req := &transport.StoreOrderRequest{}
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		if err := c.Bind(req); err != nil {
			return nil, err
		}
		return req, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	first := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if v := first("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		req.UserID = uint(id)
	}
	if v := first("user_address_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		req.UserAddressID = uint(id)
	}
	req.Status = first("status")

	for _, k := range []string{"cart_ids", "cart_ids[]"} {
		for _, v := range form.Value[k] {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, err
			}
			req.CartIDs = append(req.CartIDs, uint(id))
		}
	}
	if v := first("order_details"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.OrderDetails); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateOrderRequest
	if err := bind(c, l, "order_update_failed", &req); err != nil {
		return err
	}
	proof, closeProof, err := formUpload(c, "payment_proof")
	if err != nil {
		return err
	}
	defer closeProof()

	o, err := h.Svc.Update(ctx, id, service.UpdateOrderInput{
		Status:        req.Status,
		UserAddressID: req.UserAddressID,
		TotalPrice:    req.TotalPrice,
		PaymentProof:  proof,
	})
	if err != nil {
		return fail(l, "order_update_failed", err)
	}

	l.Info("update_order_success", "order_id", id)
	return response.Success(c, http.StatusOK, "Order updated successfully", o)
}

func (h *OrderHTTP) UploadPaymentProof(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.upload_payment_proof")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	proof, closeProof, err := formUpload(c, "payment_proof")
	if err != nil {
		return err
	}
	defer closeProof()
	if proof == nil {
		return response.NewFieldError(map[string][]string{"payment_proof": {"The payment proof field is required."}})
	}

	o, err := h.Svc.UploadProof(ctx, id, userID, proof)
	if err != nil {
		return fail(l, "upload_payment_proof_failed", err)
	}

	l.Info("upload_payment_proof_success", "order_id", id)
	return response.Success(c, http.StatusOK, "Payment proof uploaded successfully", o)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "order_delete_failed", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return response.Success(c, http.StatusOK, "Order deleted successfully", nil)
}

func (h *OrderHTTP) GetOrderDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order_details")

	p := pageParams(c)
	items, total, err := h.Svc.ListDetails(ctx, repo.OrderDetailFilter{
		OrderID: parseOptionalUint(c.QueryParam("order_id")),
		Page:    p.Page,
	})
	if err != nil {
		return fail(l, "get_order_details_failed", err)
	}
	return paginated(c, "Order details retrieved successfully", items, total, len(items), p)
}

func (h *OrderHTTP) GetOrderDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order_detail")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Svc.GetDetail(ctx, id)
	if err != nil {
		return fail(l, "get_order_detail_failed", err)
	}
	return response.Success(c, http.StatusOK, "Order detail retrieved successfully", d)
}
