package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"blogpad/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memUserRepo is an in-memory repository.UserRepository. Reads return copies
// so services see database-like snapshot semantics.
type memUserRepo struct {
	users  map[uint]*models.User
	nextID uint

	usernameLookups int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.usernameLookups++
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.NewValidationError("User already exists")
		}
	}
	user.ID = r.nextID
	r.nextID++
	if user.Level == 0 {
		user.Level = 1
	}
	if len(user.UnlockedThemes) == 0 {
		user.UnlockedThemes = []string{"default"}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return models.NewNotFoundError("User", user.ID)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) SearchBloggers(_ context.Context, query, sortColumn string, limit, _ int) ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Username), strings.ToLower(query)) &&
			!strings.Contains(strings.ToLower(user.Name), strings.ToLower(query)) {
			continue
		}
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool {
		if sortColumn == "posts_count" {
			return out[i].PostsCount > out[j].PostsCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) Leaderboard(_ context.Context, sortColumn string, limit int) ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := 0, 0
		switch sortColumn {
		case "writing_streak":
			vi, vj = out[i].WritingStreak, out[j].WritingStreak
		case "posts_count":
			vi, vj = out[i].PostsCount, out[j].PostsCount
		case "total_words":
			vi, vj = out[i].TotalWords, out[j].TotalWords
		default:
			vi, vj = out[i].XP, out[j].XP
		}
		if vi != vj {
			return vi > vj
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memPostRepo is an in-memory repository.PostRepository.
type memPostRepo struct {
	posts  map[uint]*models.Post
	nextID uint
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[uint]*models.Post{}, nextID: 1}
}

func (r *memPostRepo) Create(_ context.Context, post *models.Post) error {
	for _, existing := range r.posts {
		if existing.Slug == post.Slug {
			return models.NewValidationError("A post with this slug already exists")
		}
	}
	post.ID = r.nextID
	r.nextID++
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id uint, _ uint) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	copied := *post
	return &copied, nil
}

func (r *memPostRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, post := range r.posts {
		if post.Slug == slug {
			copied := *post
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("Post", slug)
}

func (r *memPostRepo) GetByUserID(_ context.Context, userID uint, limit, _ int, _ uint) ([]*models.Post, error) {
	return r.collect(func(p *models.Post) bool { return p.UserID == userID }, limit), nil
}

func (r *memPostRepo) ListPublic(_ context.Context, limit, _ int, _ uint) ([]*models.Post, error) {
	return r.collect(func(p *models.Post) bool { return p.IsPublic }, limit), nil
}

func (r *memPostRepo) ListPublicByUserID(_ context.Context, userID uint, limit, _ int) ([]*models.Post, error) {
	return r.collect(func(p *models.Post) bool { return p.UserID == userID && p.IsPublic }, limit), nil
}

func (r *memPostRepo) Search(_ context.Context, query string, limit, _ int, _ uint) ([]*models.Post, error) {
	q := strings.ToLower(query)
	return r.collect(func(p *models.Post) bool {
		return p.IsPublic && (strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q))
	}, limit), nil
}

func (r *memPostRepo) collect(match func(*models.Post) bool, limit int) []*models.Post {
	var out []*models.Post
	for _, post := range r.posts {
		if match(post) {
			copied := *post
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memPostRepo) Update(_ context.Context, post *models.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return models.NewNotFoundError("Post", post.ID)
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id uint) error {
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) CountByUserID(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, post := range r.posts {
		if post.UserID == userID {
			count++
		}
	}
	return count, nil
}

// memSocialRepo is an in-memory repository.SocialRepository.
type memSocialRepo struct {
	likes   map[[2]uint]bool // [userID, postID]
	follows map[[2]uint]bool // [followerID, followingID]
	posts   *memPostRepo
}

func newMemSocialRepo(posts *memPostRepo) *memSocialRepo {
	return &memSocialRepo{
		likes:   map[[2]uint]bool{},
		follows: map[[2]uint]bool{},
		posts:   posts,
	}
}

func (r *memSocialRepo) Like(_ context.Context, userID, postID uint) (bool, error) {
	key := [2]uint{userID, postID}
	if r.likes[key] {
		return false, nil
	}
	r.likes[key] = true
	return true, nil
}

func (r *memSocialRepo) Unlike(_ context.Context, userID, postID uint) error {
	delete(r.likes, [2]uint{userID, postID})
	return nil
}

func (r *memSocialRepo) IsLiked(_ context.Context, userID, postID uint) (bool, error) {
	return r.likes[[2]uint{userID, postID}], nil
}

func (r *memSocialRepo) LikesForPost(_ context.Context, postID uint) (int64, error) {
	var count int64
	for key := range r.likes {
		if key[1] == postID {
			count++
		}
	}
	return count, nil
}

func (r *memSocialRepo) CountLikesReceived(_ context.Context, authorID uint) (int64, error) {
	var count int64
	for key := range r.likes {
		post, ok := r.posts.posts[key[1]]
		if ok && post.UserID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *memSocialRepo) Follow(_ context.Context, followerID, followingID uint) (bool, error) {
	key := [2]uint{followerID, followingID}
	if r.follows[key] {
		return false, nil
	}
	r.follows[key] = true
	return true, nil
}

func (r *memSocialRepo) Unfollow(_ context.Context, followerID, followingID uint) error {
	delete(r.follows, [2]uint{followerID, followingID})
	return nil
}

func (r *memSocialRepo) IsFollowing(_ context.Context, followerID, followingID uint) (bool, error) {
	return r.follows[[2]uint{followerID, followingID}], nil
}

func (r *memSocialRepo) FollowerCount(_ context.Context, userID uint) (int64, error) {
	var count int64
	for key := range r.follows {
		if key[1] == userID {
			count++
		}
	}
	return count, nil
}

func (r *memSocialRepo) FollowingCount(_ context.Context, userID uint) (int64, error) {
	var count int64
	for key := range r.follows {
		if key[0] == userID {
			count++
		}
	}
	return count, nil
}

func (r *memSocialRepo) ListFollowers(_ context.Context, _ uint, _, _ int) ([]models.User, error) {
	return nil, nil
}

// memCommentRepo is an in-memory repository.CommentRepository.
type memCommentRepo struct {
	comments []*models.Comment
	posts    *memPostRepo
	nextID   uint
}

func newMemCommentRepo(posts *memPostRepo) *memCommentRepo {
	return &memCommentRepo{posts: posts, nextID: 1}
}

func (r *memCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	copied := *comment
	r.comments = append(r.comments, &copied)
	return nil
}

func (r *memCommentRepo) GetByPostID(_ context.Context, postID uint, limit, _ int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			copied := *comment
			out = append(out, &copied)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memCommentRepo) CountByPostID(_ context.Context, postID uint) (int64, error) {
	var count int64
	for _, comment := range r.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *memCommentRepo) CountReceivedByAuthor(_ context.Context, authorID uint) (int64, error) {
	var count int64
	for _, comment := range r.comments {
		post, ok := r.posts.posts[comment.PostID]
		if ok && post.UserID == authorID {
			count++
		}
	}
	return count, nil
}

// memGamRepo is an in-memory repository.GamificationRepository.
type memGamRepo struct {
	activities []*models.XPActivity
	unlocks    map[uint]map[string]bool
}

func newMemGamRepo() *memGamRepo {
	return &memGamRepo{unlocks: map[uint]map[string]bool{}}
}

func (r *memGamRepo) RecordActivity(_ context.Context, activity *models.XPActivity) error {
	copied := *activity
	r.activities = append(r.activities, &copied)
	return nil
}

func (r *memGamRepo) ListActivities(_ context.Context, userID uint, limit, _ int) ([]*models.XPActivity, error) {
	var out []*models.XPActivity
	for i := len(r.activities) - 1; i >= 0; i-- {
		if r.activities[i].UserID == userID {
			out = append(out, r.activities[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memGamRepo) RecordUnlock(_ context.Context, userID uint, achievementID string) (bool, error) {
	if r.unlocks[userID] == nil {
		r.unlocks[userID] = map[string]bool{}
	}
	if r.unlocks[userID][achievementID] {
		return false, nil
	}
	r.unlocks[userID][achievementID] = true
	return true, nil
}

func (r *memGamRepo) ListUnlocks(_ context.Context, userID uint) ([]*models.AchievementUnlock, error) {
	var out []*models.AchievementUnlock
	for id := range r.unlocks[userID] {
		out = append(out, &models.AchievementUnlock{UserID: userID, AchievementID: id})
	}
	return out, nil
}

// memFeedbackRepo is an in-memory repository.FeedbackRepository.
type memFeedbackRepo struct {
	entries []*models.Feedback
}

func (r *memFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	copied := *feedback
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *memFeedbackRepo) ListRecent(_ context.Context, limit int) ([]*models.Feedback, error) {
	out := r.entries
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// fixture bundles the in-memory repos and services around a controllable clock.
type fixture struct {
	users    *memUserRepo
	posts    *memPostRepo
	social   *memSocialRepo
	comments *memCommentRepo
	gamRepo  *memGamRepo
	feedback *memFeedbackRepo

	clock time.Time

	usage  *UsageService
	gam    *GamificationService
	postSv *PostService
	socSv  *SocialService
	userSv *UserService
}

func newFixture() *fixture {
	f := &fixture{
		users:    newMemUserRepo(),
		feedback: &memFeedbackRepo{},
		clock:    time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
	f.posts = newMemPostRepo()
	f.social = newMemSocialRepo(f.posts)
	f.comments = newMemCommentRepo(f.posts)
	f.gamRepo = newMemGamRepo()

	now := func() time.Time { return f.clock }
	f.usage = NewUsageService(f.users, now)
	f.gam = NewGamificationService(f.users, f.gamRepo, f.social, f.comments, now)
	f.postSv = NewPostService(f.posts, f.users, f.usage, f.gam, now)
	f.socSv = NewSocialService(f.posts, f.comments, f.social, f.users, f.gam)
	f.userSv = NewUserService(f.users, f.posts, f.feedback, now)
	return f
}

// advance moves the fixture clock forward.
func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// seedUser creates a user directly in the repo.
func (f *fixture) seedUser(t *testing.T, username string, plan models.SubscriptionPlan) *models.User {
	t.Helper()
	user := &models.User{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "hashed",
		Name:             username,
		SubscriptionPlan: plan,
		LastResetDate:    f.clock,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) mustUser(t *testing.T, id uint) *models.User {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
