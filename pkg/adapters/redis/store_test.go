package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/quester/internal/testutils"
	"github.com/aretw0/quester/pkg/adapters/redis"
	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.GameStore = (*redis.Store)(nil)

func newGame(t *testing.T, id string) *game.Game {
	t.Helper()
	g, err := game.New("Crypt", "Dark", "en", game.User{Username: "alice"}, false, game.WithID(id))
	require.NoError(t, err)
	return g
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	ports.RunGameStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newGame(t, "ttl")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ttl")
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newGame(t, "my-game")))

	assert.True(t, mr.Exists("custom:app:my-game"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index:games"), "Expected index with custom prefix to exist")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-game"}, ids)

	require.NoError(t, store.Delete(ctx, "my-game"))
	assert.False(t, mr.Exists("custom:app:my-game"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "not json"))

	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, game.ErrGameNotFound)
}

func TestRedisStore_IndexOutsideGameKeys(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newGame(t, "index")))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"index"))
	assert.True(t, mr.Exists("quester:index:games"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"index"}, ids)
}

func TestRedisStore_RejectsIndexCollision(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newGame(t, "cave")))
	err := store.Save(ctx, newGame(t, "index:games"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cave"}, ids)
}
