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

func addrInput(userID uint, isDefault bool) AddressInput {
	return AddressInput{
		UserID: userID, AddressLine: "1 Main St", City: "Springfield",
		Province: "IL", PostalCode: "62701", Country: "US", IsDefault: isDefault,
	}
}

func defaults(t *testing.T, f *fixture, userID uint) []uint {
	t.Helper()
	yes := true
	list, _, err := f.repo.ListAddresses(context.Background(), repo.AddressFilter{UserID: &userID, IsDefault: &yes})
	require.NoError(t, err)
	ids := make([]uint, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestAddress_FirstBecomesDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)

	first, err := f.address.Create(ctx, addrInput(u.ID, false))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := f.address.Create(ctx, addrInput(u.ID, false))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, []uint{first.ID}, defaults(t, f, u.ID))
}

func TestAddress_CreateDefaultMovesFlag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)
	other := testutil.SeedUser(t, f.db, "b@example.com", models.RoleUser)

	x, err := f.address.Create(ctx, addrInput(u.ID, true))
	require.NoError(t, err)
	otherDefault, err := f.address.Create(ctx, addrInput(other.ID, true))
	require.NoError(t, err)

	y, err := f.address.Create(ctx, addrInput(u.ID, true))
	require.NoError(t, err)

	assert.Equal(t, []uint{y.ID}, defaults(t, f, u.ID))
	assert.Equal(t, []uint{otherDefault.ID}, defaults(t, f, other.ID))

	reloaded, err := f.address.Get(ctx, x.ID, nil)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestAddress_UpdateToDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)

	x, err := f.address.Create(ctx, addrInput(u.ID, true))
	require.NoError(t, err)
	y, err := f.address.Create(ctx, addrInput(u.ID, false))
	require.NoError(t, err)

	yes := true
	city := "Shelbyville"
	updated, err := f.address.Update(ctx, y.ID, &u.ID, AddressPatch{IsDefault: &yes, City: &city})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, "Shelbyville", updated.City)

	gotX, err := f.address.Get(ctx, x.ID, nil)
	require.NoError(t, err)
	assert.False(t, gotX.IsDefault)
	assert.Equal(t, []uint{y.ID}, defaults(t, f, u.ID))

	// setting the current default again keeps it
	again, err := f.address.SetDefault(ctx, y.ID, &u.ID)
	require.NoError(t, err)
	assert.True(t, again.IsDefault)
}

func TestAddress_OwnerScope(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)
	stranger := testutil.SeedUser(t, f.db, "b@example.com", models.RoleUser)
	a, err := f.address.Create(ctx, addrInput(u.ID, true))
	require.NoError(t, err)

	_, err = f.address.SetDefault(ctx, a.ID, &stranger.ID)
	requireKind(t, err, ErrNotFound)
	requireKind(t, f.address.Delete(ctx, a.ID, &stranger.ID), ErrNotFound)
}

func TestAddress_DeleteReferencedByOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := seedOrder(t, f, models.OrderStatusPending)

	err := f.address.Delete(ctx, o.UserAddressID, nil)
	requireKind(t, err, ErrConflict)
	assert.Equal(t, "Cannot delete address that is used in orders.", Message(err))

	_, err = f.address.Get(ctx, o.UserAddressID, nil)
	require.NoError(t, err)
}

func TestAddress_DeleteDefaultDoesNotPromote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)
	x, err := f.address.Create(ctx, addrInput(u.ID, true))
	require.NoError(t, err)
	_, err = f.address.Create(ctx, addrInput(u.ID, false))
	require.NoError(t, err)

	require.NoError(t, f.address.Delete(ctx, x.ID, &u.ID))
	assert.Empty(t, defaults(t, f, u.ID))
}

func TestAddress_ListDefaultFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "a@example.com", models.RoleUser)
	_, err := f.address.Create(ctx, addrInput(u.ID, false))
	require.NoError(t, err)
	_, err = f.address.Create(ctx, addrInput(u.ID, false))
	require.NoError(t, err)
	last, err := f.address.Create(ctx, addrInput(u.ID, true))
	require.NoError(t, err)

	list, total, err := f.address.List(ctx, repo.AddressFilter{UserID: &u.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, last.ID, list[0].ID)
}
