//go:build integration
// +build integration

package test

import (
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	goSentinel "github.com/MrEthical07/goSentinel"
	"github.com/MrEthical07/goSentinel/mirror"
)

// newIntegrationRedis returns a client for REDIS_ADDR, or for a miniredis
// instance when the variable is unset.
func newIntegrationRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		mr, err := miniredis.Run()
		require.NoError(t, err, "miniredis run failed")
		t.Cleanup(mr.Close)
		addr = mr.Addr()
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newMirroredRegistry(t *testing.T, rdb redis.UniversalClient, prefix string) *goSentinel.Registry {
	t.Helper()
	r, err := goSentinel.New().
		WithMirror(mirror.NewStore(rdb, mirror.Config{Prefix: prefix}, nil)).
		Build()
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}
