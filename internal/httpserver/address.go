package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) GetAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get_addresses")

	userID, err := owner(c)
	if err != nil {
		return err
	}
	if userID == nil {
		userID = parseOptionalUint(c.QueryParam("user_id"))
	}

	p := pageParams(c)
	items, total, err := h.Svc.List(ctx, repo.AddressFilter{
		UserID:    userID,
		IsDefault: parseOptionalBool(c.QueryParam("default")),
		Page:      p.Page,
	})
	if err != nil {
		return fail(l, "get_addresses_failed", err)
	}
	return paginated(c, "Addresses retrieved successfully", items, total, len(items), p)
}

func (h *AddressHTTP) GetAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get_address")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := owner(c)
	if err != nil {
		return err
	}
	a, err := h.Svc.Get(ctx, id, userID)
	if err != nil {
		return fail(l, "get_address_failed", err)
	}
	return response.Success(c, http.StatusOK, "Address retrieved successfully", a)
}

func (h *AddressHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create_address")

	var req transport.AddressRequest
	if err := bind(c, l, "address_create_failed", &req); err != nil {
		return err
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

	a, err := h.Svc.Create(ctx, service.AddressInput{
		UserID:        req.UserID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		AddressLine:   req.AddressLine,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		return fail(l, "address_create_failed", err)
	}

	l.Info("create_address_success", "address_id", a.ID, "user_id", a.UserID, "is_default", a.IsDefault)
	return response.Success(c, http.StatusCreated, "Address created successfully", a)
}

func (h *AddressHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update_address")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := owner(c)
	if err != nil {
		return err
	}
	var req transport.UpdateAddressRequest
	if err := bind(c, l, "address_update_failed", &req); err != nil {
		return err
	}

	a, err := h.Svc.Update(ctx, id, userID, service.AddressPatch{
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		AddressLine:   req.AddressLine,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		return fail(l, "address_update_failed", err)
	}

	l.Info("update_address_success", "address_id", a.ID, "is_default", a.IsDefault)
	return response.Success(c, http.StatusOK, "Address updated successfully", a)
}

// SetDefaultAddress handles PATCH with {"is_default": true}.
func (h *AddressHTTP) SetDefaultAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.set_default")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := owner(c)
	if err != nil {
		return err
	}
	var req transport.UpdateAddressRequest
	if err := bind(c, l, "address_set_default_failed", &req); err != nil {
		return err
	}
	if req.IsDefault != nil && !*req.IsDefault {
		a, err := h.Svc.Update(ctx, id, userID, service.AddressPatch{IsDefault: req.IsDefault})
		if err != nil {
			return fail(l, "address_set_default_failed", err)
		}
		return response.Success(c, http.StatusOK, "Address updated successfully", a)
	}

	a, err := h.Svc.SetDefault(ctx, id, userID)
	if err != nil {
		return fail(l, "address_set_default_failed", err)
	}
	return response.Success(c, http.StatusOK, "Default address updated successfully", a)
}

func (h *AddressHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete_address")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := owner(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id, userID); err != nil {
		return fail(l, "address_delete_failed", err)
	}

	l.Info("delete_address_success", "address_id", id)
	return response.Success(c, http.StatusOK, "Address deleted successfully", nil)
}
