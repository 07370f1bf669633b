package repository

import (
	"context"

	"blogpad/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GamificationRepository persists XP activity and achievement unlock records.
type GamificationRepository interface {
	RecordActivity(ctx context.Context, activity *models.XPActivity) error
	ListActivities(ctx context.Context, userID uint, limit, offset int) ([]*models.XPActivity, error)
	RecordUnlock(ctx context.Context, userID uint, achievementID string) (bool, error)
	ListUnlocks(ctx context.Context, userID uint) ([]*models.AchievementUnlock, error)
}

type gamificationRepository struct {
	db *gorm.DB
}

// NewGamificationRepository creates a new gamification repository.
func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) RecordActivity(ctx context.Context, activity *models.XPActivity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *gamificationRepository) ListActivities(ctx context.Context, userID uint, limit, offset int) ([]*models.XPActivity, error) {
	var activities []*models.XPActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&activities).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return activities, nil
}

// RecordUnlock inserts an unlock row, ignoring the insert when the user
// already holds the achievement. Returns true when the unlock is new.
func (r *gamificationRepository) RecordUnlock(ctx context.Context, userID uint, achievementID string) (bool, error) {
	unlock := models.AchievementUnlock{UserID: userID, AchievementID: achievementID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&unlock)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gamificationRepository) ListUnlocks(ctx context.Context, userID uint) ([]*models.AchievementUnlock, error) {
	var unlocks []*models.AchievementUnlock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return unlocks, nil
}
