package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestSetAndGetJSON(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	in := cachedProfile{ID: 7, Name: "alice"}
	require.NoError(t, SetJSON(ctx, BloggerKey("alice"), in, BloggerTTL))

	var out cachedProfile
	found, err := GetJSON(ctx, BloggerKey("alice"), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetJSON_Miss(t *testing.T) {
	useMiniredis(t)

	var out cachedProfile
	found, err := GetJSON(context.Background(), BloggerKey("ghost"), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSON_NilClientIsMiss(t *testing.T) {
	SetClient(nil)

	var out cachedProfile
	found, err := GetJSON(context.Background(), BloggerKey("alice"), &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(context.Background(), BloggerKey("alice"), out, time.Minute))
}

func TestAside_FetchesOnMissThenCaches(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			*dest = cachedProfile{ID: 9, Name: "from source"}
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, Aside(ctx, BloggerKey("nine"), &first, BloggerTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from source", first.Name)

	var second cachedProfile
	require.NoError(t, Aside(ctx, BloggerKey("nine"), &second, BloggerTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	useMiniredis(t)

	var out cachedProfile
	err := Aside(context.Background(), BloggerKey("broken"), &out, BloggerTTL, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestInvalidate(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, BloggerKey("alice"), cachedProfile{ID: 3}, BloggerTTL))
	require.True(t, mr.Exists(BloggerKey("alice")))

	InvalidateBlogger(ctx, "alice")
	assert.False(t, mr.Exists(BloggerKey("alice")))
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "blogger:alice", BloggerKey("alice"))
	assert.Equal(t, "leaderboard:xp:10", LeaderboardKey("xp", 10))
}
