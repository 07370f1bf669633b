package service

import (
	"context"
	"strings"
	"time"

	"blogpad/internal/cache"
	"blogpad/internal/models"
	"blogpad/internal/repository"
	"blogpad/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns accounts, discovery and feedback.
type UserService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	feedbackRepo repository.FeedbackRepository
	now          func() time.Time
}

// NewUserService creates a user service. now is injectable for tests; pass
// nil for the wall clock.
func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	feedbackRepo repository.FeedbackRepository,
	now func() time.Time,
) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		feedbackRepo: feedbackRepo,
		now:          now,
	}
}

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Name         string
	Plan         models.SubscriptionPlan
	BillingCycle models.BillingCycle
}

// Register validates and creates a new account. Signing up directly on a
// paid plan starts a 7-day trial window.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	plan := in.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if !plan.Valid() {
		return nil, models.NewValidationError("Invalid subscription plan")
	}
	cycle := in.BillingCycle
	if cycle == "" {
		cycle = models.BillingMonthly
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username or email already exists")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:         in.Username,
		Email:            strings.ToLower(in.Email),
		Password:         string(hash),
		Name:             in.Name,
		SubscriptionPlan: plan,
		BillingCycle:     cycle,
	}
	if plan != models.PlanFree {
		trialEnd := s.now().AddDate(0, 0, trialDays)
		user.SubscriptionExpiresAt = &trialEnd
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username or email. The same error covers unknown
// accounts and wrong passwords.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	if identifier == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	return user, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// BloggerSummary is one discovery search result.
type BloggerSummary struct {
	ID            uint           `json:"id"`
	Username      string         `json:"username"`
	Name          string         `json:"name"`
	PostsCount    int            `json:"posts_count"`
	MemberSince   time.Time      `json:"member_since"`
	RecentPosts   []*models.Post `json:"recent_posts"`
	AvatarInitial string         `json:"avatar_initial"`
}

func avatarInitial(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(trimmed)[0]))
}

// bloggerSortColumns maps the public sort names onto user columns. Unknown
// values fall back to newest members first.
var bloggerSortColumns = map[string]string{
	"recent":    "created_at",
	"popular":   "posts_count",
	"posts":     "posts_count",
	"followers": "posts_count",
}

// SearchBloggers finds writers by name, each with their three most recent
// public posts attached.
func (s *UserService) SearchBloggers(ctx context.Context, query, sort string, limit int) ([]BloggerSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	column, ok := bloggerSortColumns[sort]
	if !ok {
		column = "created_at"
	}

	users, err := s.userRepo.SearchBloggers(ctx, query, column, limit, 0)
	if err != nil {
		return nil, err
	}

	summaries := make([]BloggerSummary, 0, len(users))
	for _, user := range users {
		recent, err := s.postRepo.ListPublicByUserID(ctx, user.ID, 3, 0)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, BloggerSummary{
			ID:            user.ID,
			Username:      user.Username,
			Name:          user.Name,
			PostsCount:    user.PostsCount,
			MemberSince:   user.CreatedAt,
			RecentPosts:   recent,
			AvatarInitial: avatarInitial(user.Name),
		})
	}
	return summaries, nil
}

// BloggerProfile is the public view of a writer plus their posts.
type BloggerProfile struct {
	Blogger BloggerSummary `json:"blogger"`
	Posts   []*models.Post `json:"posts"`
}

// GetBloggerProfile returns a writer's profile. The owner sees all of their
// posts; everyone else sees only public ones. The public view is served from
// Redis; profile edits and counter updates invalidate the key.
func (s *UserService) GetBloggerProfile(ctx context.Context, username string, currentUserID uint) (*BloggerProfile, error) {
	profile := &BloggerProfile{}

	fetch := func() error {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("Blogger", username)
		}

		var posts []*models.Post
		if currentUserID == user.ID {
			posts, err = s.postRepo.GetByUserID(ctx, user.ID, 10, 0, currentUserID)
		} else {
			posts, err = s.postRepo.ListPublicByUserID(ctx, user.ID, 10, 0)
		}
		if err != nil {
			return err
		}

		profile.Blogger = BloggerSummary{
			ID:            user.ID,
			Username:      user.Username,
			Name:          user.Name,
			PostsCount:    user.PostsCount,
			MemberSince:   user.CreatedAt,
			AvatarInitial: avatarInitial(user.Name),
		}
		profile.Posts = posts
		return nil
	}

	// Signed-in viewers may be the owner, whose view includes drafts, so only
	// the anonymous view is served from the cache.
	if currentUserID != 0 {
		if err := fetch(); err != nil {
			return nil, err
		}
		return profile, nil
	}

	if err := cache.Aside(ctx, cache.BloggerKey(username), profile, cache.BloggerTTL, fetch); err != nil {
		return nil, err
	}
	return profile, nil
}

// SubmitFeedback records a product feedback entry.
func (s *UserService) SubmitFeedback(ctx context.Context, userID uint, rating int, category, title, message string) error {
	if err := validation.ValidateRating(rating); err != nil {
		return models.NewValidationError(err.Error())
	}
	if category == "" || title == "" || message == "" {
		return models.NewValidationError("Category, title and message are required")
	}

	return s.feedbackRepo.Create(ctx, &models.Feedback{
		UserID:   userID,
		Rating:   rating,
		Category: category,
		Title:    title,
		Message:  message,
	})
}

// ListFeedback returns the ten most recent feedback entries.
func (s *UserService) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	return s.feedbackRepo.ListRecent(ctx, 10)
}
