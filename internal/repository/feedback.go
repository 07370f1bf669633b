package repository

import (
	"context"

	"blogpad/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository stores product feedback submissions.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *feedbackRepository) ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&feedback).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return feedback, nil
}
