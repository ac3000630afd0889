package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/models"
)

// interleavingCache runs onFill once, right before the next fill of key
// reaches the store, to model a Save landing between a reader's database
// read and its cache write.
type interleavingCache struct {
	*cache.Memory
	key    string
	onFill func()
}

func (c *interleavingCache) SetIfGeneration(ctx context.Context, genKey string, gen int64, key string, value []byte) (bool, error) {
	if key == c.key && c.onFill != nil {
		fn := c.onFill
		c.onFill = nil
		fn()
	}
	return c.Memory.SetIfGeneration(ctx, genKey, gen, key, value)
}

func TestContent_GetMissingIsNil(t *testing.T) {
	f := newFixture(t)
	v, err := f.content.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestContent_SaveRefreshesKeyAndAggregate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.content.Save(ctx, "home", models.JSON(`{"title":"v1"}`))
	require.NoError(t, err)

	all, err := f.content.All(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"v1"}`, string(all["home"]))

	v, err := f.content.Get(ctx, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"v1"}`, string(v))

	_, err = f.content.Save(ctx, "home", models.JSON(`{"title":"v2"}`))
	require.NoError(t, err)

	v, err = f.content.Get(ctx, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"v2"}`, string(v))

	all, err = f.content.All(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"v2"}`, string(all["home"]))
}

func TestContent_ReadsAreServedFromCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.content.Save(ctx, "about", models.JSON(`"hello"`))
	require.NoError(t, err)
	_, err = f.content.All(ctx)
	require.NoError(t, err)

	// a write behind the service's back stays invisible until the next Save
	require.NoError(t, f.db.Model(&models.Content{}).Where(&models.Content{Key: "about"}).Update("value", models.JSON(`"sneaky"`)).Error)

	v, err := f.content.Get(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(v))
	all, err := f.content.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(all["about"]))
}

func TestContent_UpdateContentBulk(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.content.All(ctx)
	require.NoError(t, err)

	require.NoError(t, f.content.UpdateContent(ctx, map[string]models.JSON{
		"a": models.JSON(`1`),
		"b": models.JSON(`[2]`),
	}))

	all, err := f.content.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "[2]", string(all["b"]))

	_, err = f.content.Save(ctx, " ", models.JSON(`1`))
	requireKind(t, err, ErrValidation)
}

func TestContent_FillDoesNotOverwriteConcurrentSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ic := &interleavingCache{Memory: cache.NewMemory()}
	svc := &ContentService{Repo: f.repo, Cache: ic}

	_, err := svc.Save(ctx, "home", models.JSON(`"v1"`))
	require.NoError(t, err)
	require.NoError(t, ic.Delete(ctx, "content:home"))

	ic.key = "content:home"
	ic.onFill = func() {
		_, err := svc.Save(ctx, "home", models.JSON(`"v2"`))
		require.NoError(t, err)
	}
	v, err := svc.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, string(v))

	v, err = svc.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, `"v2"`, string(v))

	ic.key = "contents:all"
	ic.onFill = func() {
		_, err := svc.Save(ctx, "home", models.JSON(`"v3"`))
		require.NoError(t, err)
	}
	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"v2"`, string(all["home"]))

	all, err = svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"v3"`, string(all["home"]))
	v, err = svc.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, `"v3"`, string(v))
}
