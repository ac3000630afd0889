// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// NewDB returns a migrated, isolated in-memory SQLite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	log := logging.NewWithWriter(io.Discard, "error")

	gdb, err := db.Open(context.Background(), dsn, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, repo.Migrate(context.Background(), gdb, log))
	return gdb
}

func SeedUser(t *testing.T, gdb *gorm.DB, email, role string) *models.User {
	t.Helper()
	h, err := hash.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{Name: email, Email: email, PasswordHash: h, Role: role}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func SeedProduct(t *testing.T, gdb *gorm.DB, name string, price int64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: 10}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func SeedAddress(t *testing.T, gdb *gorm.DB, userID uint, isDefault bool) *models.UserAddress {
	t.Helper()
	a := &models.UserAddress{
		UserID:      userID,
		AddressLine: "1 Main St",
		City:        "Springfield",
		Province:    "IL",
		PostalCode:  "62701",
		Country:     "US",
		IsDefault:   isDefault,
	}
	require.NoError(t, gdb.Omit("User").Create(a).Error)
	return a
}

func SeedCart(t *testing.T, gdb *gorm.DB, userID, productID uint, qty int) *models.Cart {
	t.Helper()
	c := &models.Cart{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, gdb.Omit("User", "Product").Create(c).Error)
	return c
}
