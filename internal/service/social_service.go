package service

import (
	"context"
	"log/slog"

	"blogpad/internal/middleware"
	"blogpad/internal/models"
	"blogpad/internal/repository"
)

// SocialService owns likes, comments and the follow graph, plus the XP that
// flows to authors from engagement.
type SocialService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	socialRepo  repository.SocialRepository
	userRepo    repository.UserRepository
	gam         *GamificationService
}

// NewSocialService creates a social service.
func NewSocialService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	socialRepo repository.SocialRepository,
	userRepo repository.UserRepository,
	gam *GamificationService,
) *SocialService {
	return &SocialService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		socialRepo:  socialRepo,
		userRepo:    userRepo,
		gam:         gam,
	}
}

// ToggleLike flips the caller's like on a post. A fresh like pays the author
// XP; removing and re-adding pays again, matching one row inserted per
// insert. The author award is best-effort.
func (s *SocialService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return false, err
	}

	liked, err := s.socialRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.socialRepo.Unlike(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	created, err := s.socialRepo.Like(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if created && post.UserID != userID {
		if _, err := s.gam.AwardXP(ctx, post.UserID, models.ActivityLikeReceived, `Like on "`+post.Title+`"`); err != nil {
			middleware.Logger.WarnContext(ctx, "XP award failed for received like",
				slog.Uint64("author_id", uint64(post.UserID)), slog.String("error", err.Error()))
		}
		if _, err := s.gam.CheckAchievements(ctx, post.UserID); err != nil {
			middleware.Logger.WarnContext(ctx, "achievement sweep failed for received like",
				slog.Uint64("author_id", uint64(post.UserID)), slog.String("error", err.Error()))
		}
	}

	return true, nil
}

// LikeCount returns the like total for a post.
func (s *SocialService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.socialRepo.LikesForPost(ctx, postID)
}

// AddComment appends a comment to a post and pays the author XP for the
// engagement. Comments cannot be edited or deleted.
func (s *SocialService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.UserID != userID {
		if _, err := s.gam.AwardXP(ctx, post.UserID, models.ActivityCommentReceived, `Comment on "`+post.Title+`"`); err != nil {
			middleware.Logger.WarnContext(ctx, "XP award failed for received comment",
				slog.Uint64("author_id", uint64(post.UserID)), slog.String("error", err.Error()))
		}
		if _, err := s.gam.CheckAchievements(ctx, post.UserID); err != nil {
			middleware.Logger.WarnContext(ctx, "achievement sweep failed for received comment",
				slog.Uint64("author_id", uint64(post.UserID)), slog.String("error", err.Error()))
		}
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		comment.User = *user
	}

	return comment, nil
}

// ListComments returns a post's comments newest first.
func (s *SocialService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPostID(ctx, postID, limit, offset)
}

// ToggleFollow flips the caller's follow edge toward another user.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return false, err
	}

	following, err := s.socialRepo.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.socialRepo.Unfollow(ctx, followerID, followingID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.socialRepo.Follow(ctx, followerID, followingID); err != nil {
		return false, err
	}
	return true, nil
}

// FollowerCount returns how many users follow the given user.
func (s *SocialService) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return s.socialRepo.FollowerCount(ctx, userID)
}
