package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStore creates a store connected to a miniredis instance
func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisStore(rdb, "test", 30*time.Minute), mr
}

func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("round trips entries in order", func(t *testing.T) {
		sess := NewSession("menu-1")
		require.NoError(t, sess.Cart.Add(pizza))
		require.NoError(t, sess.Cart.Increment(pizza))
		require.NoError(t, sess.Cart.Add(coke))
		require.NoError(t, store.Save(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "menu-1", got.MenuID)
		assert.Equal(t, 3, got.Cart.Count())
		assert.True(t, got.Cart.Total().Equal(sess.Cart.Total()))

		entries := got.Cart.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "Pizza", entries[0].Item.Name)
		assert.Equal(t, "Coke", entries[1].Item.Name)
	})

	t.Run("missing cart", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		sess := NewSession("menu-1")
		require.NoError(t, store.Save(ctx, sess))
		require.NoError(t, store.Delete(ctx, sess.ID))

		_, err := store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrCartNotFound)
		assert.NoError(t, store.Delete(ctx, sess.ID))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	storeContract(t, store)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	sess := NewSession("menu-1")
	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("test:cart:"+sess.ID))

	mr.FastForward(31 * time.Minute)

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestRedisStore_RejectsCorruptCart(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, mr.Set("test:cart:bad", `{"menuId":"m","entries":[{"item":{"name":"Pizza","price":"1"},"quantity":5}]}`))

	_, err := store.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestRedisStore_BackendErrors(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("connection refused")

	t.Run("missing key is not found", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisStore(db, "test", time.Minute)

		mock.ExpectGet("test:cart:abc").RedisNil()

		_, err := store.Get(ctx, "abc")
		assert.ErrorIs(t, err, ErrCartNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("read failure is not reported as not found", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisStore(db, "test", time.Minute)

		mock.ExpectGet("test:cart:abc").SetErr(errDown)

		_, err := store.Get(ctx, "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCartNotFound)
		assert.ErrorIs(t, err, errDown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete failure is wrapped", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisStore(db, "test", time.Minute)

		mock.ExpectDel("test:cart:abc").SetErr(errDown)

		err := store.Delete(ctx, "abc")
		assert.ErrorIs(t, err, errDown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
