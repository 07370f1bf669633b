package seed

import (
	"strings"
	"testing"

	"blogpad/internal/database"
	"blogpad/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func TestCreateUsers(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(6)
	require.NoError(t, err)
	require.Len(t, users, 6)

	for _, u := range users {
		assert.NotEmpty(t, u.Username)
		assert.Contains(t, u.Email, "@")
		assert.NotEqual(t, SeedPassword, u.Password)
		assert.True(t, u.SubscriptionPlan.Valid(), "plan %q", u.SubscriptionPlan)
	}

	// the shared password must verify against the stored hash
	err = bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte(SeedPassword))
	assert.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, users[0].ID).Error)
	assert.Equal(t, 1, stored.Level)
	assert.Contains(t, stored.UnlockedThemes, "default")
}

func TestCreatePosts(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(4)
	require.NoError(t, err)

	posts, err := s.CreatePosts(users, 20)
	require.NoError(t, err)
	require.Len(t, posts, 20)

	slugs := make(map[string]bool, len(posts))
	for _, p := range posts {
		assert.NotEmpty(t, p.Slug)
		assert.False(t, strings.Contains(p.Slug, " "))
		assert.Greater(t, p.WordCount, 0)
		slugs[p.Slug] = true
	}
	assert.Len(t, slugs, 20, "slugs should be unique")

	// cached counters follow the seeded posts
	var total int64
	for _, u := range users {
		var stored models.User
		require.NoError(t, db.First(&stored, u.ID).Error)
		var count int64
		db.Model(&models.Post{}).Where("user_id = ?", u.ID).Count(&count)
		assert.Equal(t, int(count), stored.PostsCount)
		total += count
	}
	assert.EqualValues(t, 20, total)
}

func TestCreateEngagementAndFollows(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(5)
	require.NoError(t, err)
	posts, err := s.CreatePosts(users, 15)
	require.NoError(t, err)

	require.NoError(t, s.CreateEngagement(users, posts))
	require.NoError(t, s.CreateFollows(users))

	var likes []models.Like
	require.NoError(t, db.Find(&likes).Error)
	postOwner := make(map[uint]uint, len(posts))
	for _, p := range posts {
		postOwner[p.ID] = p.UserID
	}
	for _, l := range likes {
		assert.NotEqual(t, postOwner[l.PostID], l.UserID, "seed users never like their own posts")
	}

	var follows []models.Follow
	require.NoError(t, db.Find(&follows).Error)
	for _, f := range follows {
		assert.NotEqual(t, f.FollowerID, f.FollowingID)
	}
}
