package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BloggerKeyPrefix     = "blogger:%s"
	LeaderboardKeyPrefix = "leaderboard:%s:%d"
)

const (
	BloggerTTL     = 10 * time.Minute
	LeaderboardTTL = time.Minute
)

func BloggerKey(username string) string {
	return fmt.Sprintf(BloggerKeyPrefix, username)
}

func LeaderboardKey(kind string, limit int) string {
	return fmt.Sprintf(LeaderboardKeyPrefix, kind, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateBlogger(ctx context.Context, username string) {
	Invalidate(ctx, BloggerKey(username))
}
