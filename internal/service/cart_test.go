package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func TestCart_Flow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)
	other := testutil.SeedUser(t, f.db, "b@example.com", models.RoleUser)
	p := testutil.SeedProduct(t, f.db, "A", 100)

	item, err := f.cart.Add(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	item, err = f.cart.Add(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = f.cart.Add(ctx, u.ID, 999, 1)
	requireKind(t, err, ErrValidation)
	_, err = f.cart.Add(ctx, u.ID, p.ID, 0)
	requireKind(t, err, ErrValidation)

	_, err = f.cart.Update(ctx, item.ID, other.ID, 5)
	requireKind(t, err, ErrNotFound)
	updated, err := f.cart.Update(ctx, item.ID, u.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	requireKind(t, f.cart.Remove(ctx, item.ID, other.ID), ErrNotFound)

	all, total, err := f.cart.ListAll(ctx, nil, repo.Page{Limit: 15})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.NotNil(t, all[0].User)

	n, err := f.cart.Clear(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCart_AddClampsQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)
	p := testutil.SeedProduct(t, f.db, "A", 100)

	_, err := f.cart.Add(ctx, u.ID, p.ID, 900)
	require.NoError(t, err)
	item, err := f.cart.Add(ctx, u.ID, p.ID, 900)
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, item.Quantity)
}
