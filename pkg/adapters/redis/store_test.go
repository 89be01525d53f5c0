package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/nexus/pkg/adapters/redis"
	"github.com/aretw0/nexus/pkg/domain"
	contract "github.com/aretw0/nexus/pkg/ports/tests"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	contract.SnapshotStoreContractTest(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	instanceID := "instance-ttl"

	snap := domain.NewSnapshot("nexus")
	snap.FrameSeq = 99

	// 1. Save
	err = store.Save(ctx, instanceID, snap)
	assert.NoError(t, err)

	// 2. Verify List (immediately)
	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, instanceID)

	// 3. Fast forward time in miniredis for key expiration
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, instanceID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// 5. Verify List (lazily cleaned up). The index prune compares against
	// time.Now(), so wait past the TTL in wall time too.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	instanceID := "my-instance"

	err = store.Save(ctx, instanceID, domain.NewSnapshot("nexus"))
	assert.NoError(t, err)

	// Key should be "custom:app:my-instance"
	assert.True(t, mr.Exists("custom:app:my-instance"), "Expected key with custom prefix to exist")

	// Index should be "custom:app:index"
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, instanceID)
}
