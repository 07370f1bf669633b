package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"blogpad/internal/middleware"
	"blogpad/internal/models"
	"blogpad/internal/repository"
	"blogpad/internal/validation"
)

var (
	slugStripRegex    = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaceRegex    = regexp.MustCompile(`\s+`)
	slugCollapseRegex = regexp.MustCompile(`-+`)
)

// Slugify lowercases the title and reduces it to hyphen-separated tokens.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRegex.ReplaceAllString(slug, "")
	slug = slugSpaceRegex.ReplaceAllString(slug, "-")
	slug = slugCollapseRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CountWords counts whitespace-separated non-empty tokens.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// PostService owns post CRUD and the ledger/gamification side effects of
// publishing.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	usage    *UsageService
	gam      *GamificationService
	now      func() time.Time
}

// NewPostService creates a post service. now is injectable for tests; pass
// nil for the wall clock.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	usage *UsageService,
	gam *GamificationService,
	now func() time.Time,
) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		usage:    usage,
		gam:      gam,
		now:      now,
	}
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
	Tags     []string
	IsPublic *bool
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	Category string
	Tags     []string
	IsPublic *bool
}

// PostResult pairs a post with the gamification outcome of the write.
type PostResult struct {
	Post         *models.Post `json:"post"`
	Gamification *XPAward     `json:"gamification,omitempty"`
	Streak       int          `json:"streak,omitempty"`
}

// CreatePost validates input, enforces the plan quota, persists the post and
// settles the ledger. Gamification side effects are best-effort: a failure
// there is logged but never fails the publish.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*PostResult, error) {
	if in.Title == "" && in.Content == "" {
		return nil, models.NewValidationError("Title or content is required")
	}

	title := in.Title
	if title == "" {
		title = "Untitled"
	}
	if err := validation.ValidatePostTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.usage.EnsureCanCreatePost(ctx, user); err != nil {
		return nil, err
	}

	wordCount := CountWords(in.Content)
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	post := &models.Post{
		UserID:    in.UserID,
		Title:     title,
		Content:   in.Content,
		Category:  in.Category,
		Tags:      in.Tags,
		IsPublic:  isPublic,
		Slug:      fmt.Sprintf("%s-%d", Slugify(title), s.now().UnixMilli()),
		WordCount: wordCount,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Settle the ledger. EnsureCanCreatePost may have rolled the monthly
	// counter over, so work on the copy it mutated.
	user.PostsCount++
	user.MonthlyPostsCount++
	user.TotalWords += wordCount
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	result := &PostResult{Post: post}

	award, err := s.gam.AwardXP(ctx, in.UserID, models.ActivityPostCreate, "Created post: "+title)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "XP award failed after post create",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	} else {
		result.Gamification = award
	}

	streak, err := s.gam.UpdateWritingStreak(ctx, in.UserID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "streak update failed after post create",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	} else {
		result.Streak = streak
	}

	if err := s.gam.MaybeUnlockWordWarrior(ctx, in.UserID, wordCount); err != nil {
		middleware.Logger.WarnContext(ctx, "word warrior check failed",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	}
	if _, err := s.gam.CheckAchievements(ctx, in.UserID); err != nil {
		middleware.Logger.WarnContext(ctx, "achievement sweep failed after post create",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	}

	return result, nil
}

// UpdatePost edits the caller's own post, settles the word delta and awards
// the update XP.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*PostResult, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if in.Title != "" {
		if err := validation.ValidatePostTitle(in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = in.Title
	}

	oldWordCount := post.WordCount
	post.Content = in.Content
	post.WordCount = CountWords(in.Content)
	if in.Category != "" {
		post.Category = in.Category
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if diff := post.WordCount - oldWordCount; diff != 0 {
		user, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		user.TotalWords += diff
		if user.TotalWords < 0 {
			user.TotalWords = 0
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	result := &PostResult{Post: post}

	award, err := s.gam.AwardXP(ctx, in.UserID, models.ActivityPostUpdate, "Updated post: "+post.Title)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "XP award failed after post update",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	} else {
		result.Gamification = award
	}

	return result, nil
}

// DeletePost removes the caller's own post and walks the ledger back,
// flooring both counters at zero. Deletion never claws back XP and never
// revokes achievements.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewNotFoundError("Post", postID)
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PostsCount > 0 {
		user.PostsCount--
	}
	if user.TotalWords >= post.WordCount {
		user.TotalWords -= post.WordCount
	}
	return s.userRepo.Update(ctx, user)
}

// ListOwn returns the caller's posts, most recently updated first.
func (s *PostService) ListOwn(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, userID)
}

// GetPost fetches one post with engagement details for the viewer.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// SearchPublic searches public posts by title or content.
func (s *PostService) SearchPublic(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}
