package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func TestStoreOrderFromCart(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	a := testutil.SeedProduct(t, s.db, "A", 100)
	b := testutil.SeedProduct(t, s.db, "B", 50)
	c1 := testutil.SeedCart(t, s.db, user.ID, a.ID, 2)
	c2 := testutil.SeedCart(t, s.db, user.ID, b.ID, 1)
	tok := tokenFor(t, user)

	rec, env := s.do(t, http.MethodPost, "/api/orders", tok, map[string]any{
		"user_address_id": addr.ID,
		"cart_ids":        []uint{c1.ID, c2.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	var o models.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	require.Equal(t, int64(250), o.TotalPrice)
	require.Equal(t, models.OrderStatusPending, o.Status)
	require.Len(t, o.OrderDetails, 2)

	rec, env = s.do(t, http.MethodGet, "/api/carts", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var left []models.Cart
	require.NoError(t, json.Unmarshal(env.Data, &left))
	require.Empty(t, left)
}

func TestStoreOrderValidation(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	p := testutil.SeedProduct(t, s.db, "A", 100)
	tok := tokenFor(t, user)

	rec, env := s.do(t, http.MethodPost, "/api/orders", tok, map[string]any{
		"user_address_id": addr.ID,
		"order_details":   []map[string]any{{"product_id": p.ID, "quantity": 0, "price": 100}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	require.False(t, env.Success)
	require.Contains(t, env.Errors, "order_details[0].quantity")

	rec, env = s.do(t, http.MethodPost, "/api/orders", tok, map[string]any{
		"user_address_id": addr.ID,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, env.Errors, "order_details")

	var n int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestStoreOrderForeignCartRows(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	other := testutil.SeedUser(t, s.db, "other@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	p := testutil.SeedProduct(t, s.db, "A", 100)
	foreign := testutil.SeedCart(t, s.db, other.ID, p.ID, 1)

	rec, env := s.do(t, http.MethodPost, "/api/orders", tokenFor(t, user), map[string]any{
		"user_address_id": addr.ID,
		"cart_ids":        []uint{foreign.ID},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No valid cart items found.", env.Message)

	var n int64
	require.NoError(t, s.db.Model(&models.Cart{}).Count(&n).Error)
	require.Equal(t, int64(1), n)
}

func TestStoreOrderMultipartWithProof(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	p := testutil.SeedProduct(t, s.db, "A", 300)
	c1 := testutil.SeedCart(t, s.db, user.ID, p.ID, 3)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("user_address_id", itoa(addr.ID)))
	require.NoError(t, mw.WriteField("cart_ids[]", itoa(c1.ID)))
	fw, err := mw.CreateFormFile("payment_proof", "receipt.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec, env := s.send(t, req, tokenFor(t, user))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o models.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	require.Equal(t, int64(900), o.TotalPrice)
	require.NotNil(t, o.PaymentProof)

	_, err = os.Stat(filepath.Join(s.files.Root, filepath.FromSlash(*o.PaymentProof)))
	require.NoError(t, err)
}

func TestStoreOrderRejectsProofType(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	p := testutil.SeedProduct(t, s.db, "A", 300)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("user_address_id", itoa(addr.ID)))
	require.NoError(t, mw.WriteField("order_details", `[{"product_id":`+itoa(p.ID)+`,"quantity":1,"price":300}]`))
	fw, err := mw.CreateFormFile("payment_proof", "script.exe")
	require.NoError(t, err)
	_, err = fw.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec, env := s.send(t, req, tokenFor(t, user))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	require.Contains(t, env.Errors, "payment_proof")
}

func TestOrdersScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	other := testutil.SeedUser(t, s.db, "other@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, other.ID, true)
	o := &models.Order{UserID: other.ID, UserAddressID: addr.ID, TotalPrice: 10, Status: models.OrderStatusPending}
	require.NoError(t, s.db.Create(o).Error)

	rec, _ := s.do(t, http.MethodGet, "/api/orders/"+itoa(o.ID), tokenFor(t, user), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/orders", tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(0), env.Meta.Total)

	// users cannot delete orders at all
	rec, _ = s.do(t, http.MethodDelete, "/api/orders/"+itoa(o.ID), tokenFor(t, other), nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAdminDeleteOrderByStatus(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.SeedUser(t, s.db, "admin@example.com", models.RoleAdmin)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	tok := tokenFor(t, admin)

	shipped := &models.Order{UserID: user.ID, UserAddressID: addr.ID, TotalPrice: 10, Status: models.OrderStatusShipped}
	require.NoError(t, s.db.Create(shipped).Error)
	cancelled := &models.Order{UserID: user.ID, UserAddressID: addr.ID, TotalPrice: 10, Status: models.OrderStatusCancelled}
	require.NoError(t, s.db.Create(cancelled).Error)

	rec, env := s.do(t, http.MethodDelete, "/api/admin/orders/"+itoa(shipped.ID), tok, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Cannot delete orders that are paid, shipped, or completed.", env.Message)

	var still models.Order
	require.NoError(t, s.db.First(&still, shipped.ID).Error)
	require.Equal(t, models.OrderStatusShipped, still.Status)

	rec, _ = s.do(t, http.MethodDelete, "/api/admin/orders/"+itoa(cancelled.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodPut, "/api/admin/orders/"+itoa(shipped.ID), tok, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Order
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestAdminStoreOrderRequiresUser(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.SeedUser(t, s.db, "admin@example.com", models.RoleAdmin)

	rec, env := s.do(t, http.MethodPost, "/api/admin/orders", tokenFor(t, admin), map[string]any{
		"user_address_id": 1,
		"cart_ids":        []uint{1},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, env.Errors, "user_id")
}

func TestUploadProofWithMethodOverride(t *testing.T) {
	s := newTestServer(t)
	user := testutil.SeedUser(t, s.db, "buyer@example.com", models.RoleUser)
	other := testutil.SeedUser(t, s.db, "other@example.com", models.RoleUser)
	addr := testutil.SeedAddress(t, s.db, user.ID, true)
	o := &models.Order{UserID: user.ID, UserAddressID: addr.ID, TotalPrice: 10, Status: models.OrderStatusPending}
	require.NoError(t, s.db.Create(o).Error)

	newReq := func() *http.Request {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("_method", "PUT"))
		fw, err := mw.CreateFormFile("payment_proof", "receipt.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG fake"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/orders/"+itoa(o.ID), body)
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		return req
	}

	rec, _ := s.send(t, newReq(), tokenFor(t, other))
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec, env := s.send(t, newReq(), tokenFor(t, user))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Order
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.NotNil(t, got.PaymentProof)
	require.Equal(t, models.OrderStatusPending, got.Status)

	require.NoError(t, s.db.Model(&models.Order{}).Where("id = ?", o.ID).Update("status", models.OrderStatusShipped).Error)
	rec, _ = s.send(t, newReq(), tokenFor(t, user))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}
