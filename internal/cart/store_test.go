package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vetdesign/checkout-api/internal/cart"
	"github.com/vetdesign/checkout-api/internal/storage"
)

type failingKV struct{}

func (failingKV) GetJSON(context.Context, string, any) (bool, error) {
	return false, errors.New("storage offline")
}
func (failingKV) SetJSON(context.Context, string, any) error { return errors.New("storage offline") }
func (failingKV) Delete(context.Context, string) error       { return errors.New("storage offline") }

func TestStorePersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := cart.KVRepository{KV: storage.NewMemory()}

	st := cart.Open(ctx, repo, "sess-1")
	require.NoError(t, st.AddItem(ctx, cart.Product{ID: 1, Name: "Anatomy poster", Price: dec("49.99"), Image: "/poster.png"}))
	require.NoError(t, st.AddItem(ctx, cart.Product{ID: 2, Name: "Clinic sign", Price: dec("120.00")}))
	require.NoError(t, st.AddItem(ctx, cart.Product{ID: 3, Name: "Sticker set", Price: dec("9.50")}))
	require.NoError(t, st.UpdateQuantity(ctx, 2, 4))

	// a fresh store over the same repository observes identical state
	reloaded := cart.Open(ctx, repo, "sess-1")
	require.True(t, reloaded.Hydrated())
	require.Equal(t, st.Snapshot(), reloaded.Snapshot())
	require.Equal(t, 6, reloaded.TotalItems())
	require.True(t, reloaded.Snapshot().TotalPrice().Equal(dec("539.49")))
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := cart.KVRepository{KV: storage.NewMemory()}

	a := cart.Open(ctx, repo, "sess-a")
	require.NoError(t, a.AddItem(ctx, cart.Product{ID: 1, Name: "x", Price: dec("5")}))

	b := cart.Open(ctx, repo, "sess-b")
	require.Zero(t, b.TotalItems())
}

func TestStoreUnhydratedOnLoadFailure(t *testing.T) {
	ctx := context.Background()
	st := cart.Open(ctx, cart.KVRepository{KV: failingKV{}}, "sess-1")

	require.False(t, st.Hydrated())
	require.Empty(t, st.Snapshot().Items)
	require.Error(t, st.AddItem(ctx, cart.Product{ID: 1, Name: "x", Price: dec("5")}))
}

func TestStoreRedisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	repo := cart.KVRepository{KV: storage.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)}

	ctx := context.Background()
	st := cart.Open(ctx, repo, "sess-r")
	require.NoError(t, st.AddItem(ctx, cart.Product{ID: 11, Name: "Leaflet", Price: dec("3.20")}))
	require.NoError(t, st.AddItem(ctx, cart.Product{ID: 11, Name: "Leaflet", Price: dec("3.20")}))

	reloaded := cart.Open(ctx, repo, "sess-r")
	require.True(t, reloaded.Hydrated())
	snap := reloaded.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Equal(t, 2, snap.Items[0].Quantity)
	require.True(t, snap.Items[0].Price.Equal(dec("3.20")))
}

func TestStoreClearPersists(t *testing.T) {
	ctx := context.Background()
	repo := cart.KVRepository{KV: storage.NewMemory()}

	st := cart.Open(ctx, repo, "sess-1")
	require.NoError(t, st.AddItem(ctx, cart.Product{ID: 1, Name: "x", Price: dec("5")}))
	require.NoError(t, st.Clear(ctx))

	reloaded := cart.Open(ctx, repo, "sess-1")
	require.True(t, reloaded.Hydrated())
	require.Zero(t, reloaded.TotalItems())
}
