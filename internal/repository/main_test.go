package repository

import (
	"testing"

	"blogpad/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.AchievementUnlock{},
		&models.XPActivity{},
		&models.Feedback{},
	))

	return db
}

// createTestUser inserts a user with sensible defaults.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Name:     username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestPost inserts a post for the user.
func createTestPost(t *testing.T, db *gorm.DB, userID uint, title, slug string) *models.Post {
	t.Helper()

	post := &models.Post{
		UserID:   userID,
		Title:    title,
		Content:  "some words here",
		Slug:     slug,
		IsPublic: true,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
