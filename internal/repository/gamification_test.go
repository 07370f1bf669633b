package repository

import (
	"context"
	"testing"

	"blogpad/internal/cache"
	"blogpad/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamificationRepository_RecordUnlockOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGamificationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "writer")

	created, err := repo.RecordUnlock(ctx, user.ID, models.AchievementFirstPost)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.RecordUnlock(ctx, user.ID, models.AchievementFirstPost)
	require.NoError(t, err)
	assert.False(t, created)

	unlocks, err := repo.ListUnlocks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, models.AchievementFirstPost, unlocks[0].AchievementID)
}

func TestGamificationRepository_Activities(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGamificationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "writer")

	require.NoError(t, repo.RecordActivity(ctx, &models.XPActivity{
		UserID:       user.ID,
		ActivityKind: models.ActivityPostCreate,
		XPEarned:     25,
		Description:  "Published a post",
	}))
	require.NoError(t, repo.RecordActivity(ctx, &models.XPActivity{
		UserID:       user.ID,
		ActivityKind: models.ActivityDailyLogin,
		XPEarned:     5,
		Description:  "Daily login bonus",
	}))

	activities, err := repo.ListActivities(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, activities, 2)
}

func TestUserRepository_Leaderboard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	low := createTestUser(t, db, "low")
	high := createTestUser(t, db, "high")
	require.NoError(t, db.Model(low).Update("xp", 50).Error)
	require.NoError(t, db.Model(high).Update("xp", 500).Error)

	users, err := repo.Leaderboard(ctx, "xp", 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "high", users[0].Username)
	assert.Equal(t, "low", users[1].Username)
}

func TestUserRepository_SearchBloggers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	active := createTestUser(t, db, "prolific_penny")
	silent := createTestUser(t, db, "silent_sam")
	require.NoError(t, db.Model(active).Update("posts_count", 3).Error)
	_ = silent

	// Writers without posts are still discoverable.
	users, err := repo.SearchBloggers(ctx, "", "created_at", 20, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Sorting by posts_count puts the active writer first.
	users, err = repo.SearchBloggers(ctx, "", "posts_count", 20, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "prolific_penny", users[0].Username)
	assert.Equal(t, "silent_sam", users[1].Username)

	users, err = repo.SearchBloggers(ctx, "PENNY", "created_at", 20, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "prolific_penny", users[0].Username)

	users, err = repo.SearchBloggers(ctx, "nobody", "created_at", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_UpdateInvalidatesBloggerCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "writer")
	require.NoError(t, mr.Set(cache.BloggerKey("writer"), `{"blogger":{}}`))

	user.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, user))
	assert.False(t, mr.Exists(cache.BloggerKey("writer")))
}
