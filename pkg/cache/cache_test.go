package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	require.NoError(t, c.SetJSON(ctx, "stats", map[string]int{"total": 1}, time.Minute))
	var out map[string]int
	assert.ErrorIs(t, c.GetJSON(ctx, "stats", &out), ErrMiss)
	assert.Nil(t, out)
	assert.NoError(t, c.Invalidate(ctx, "stats"))
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	r, err := NewRedis(ctx, Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}, nil)
	assert.Nil(t, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping 127.0.0.1:1")
}

func TestRedis_InvalidateNoKeys(t *testing.T) {
	r := &Redis{}
	assert.NoError(t, r.Invalidate(context.Background()))
}
