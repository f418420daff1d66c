package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	require.NoError(t, SetJSON(ctx, m, "emb", []float32{0.5, -1}, time.Minute))

	var got []float32
	hit, err := GetJSON(ctx, m, "emb", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []float32{0.5, -1}, got)

	hit, err = GetJSON(ctx, m, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Second))
	_, hit, _ := m.Get(ctx, "k")
	assert.True(t, hit)

	now = now.Add(time.Second)
	_, hit, _ = m.Get(ctx, "k")
	assert.False(t, hit)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Set(ctx, "k", []byte("{not json"), 0))

	var dst []float32
	hit, err := GetJSON(ctx, m, "k", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_Bounded(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Set(ctx, k, []byte(k), 0))
	}
	assert.Equal(t, 2, m.Len())

	_, hit, _ := m.Get(ctx, "d")
	assert.True(t, hit)
}

func TestMemory_SetCopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}
