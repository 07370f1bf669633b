// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"blogpad/internal/models"
	"blogpad/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the plaintext password shared by all seeded users.
const SeedPassword = "password123"

// Options controls how much data the seeder generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with generated blog data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	//nolint:gosec // weak randomness is fine for seed data
	return &Seeder{db: db, rng: rand.New(rand.NewSource(seed))}
}

// Run executes a full seeding pass: users, posts, likes, comments and follows.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.CreatePosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.CreateEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := s.CreateFollows(users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	log.Println("Seeding completed successfully")
	return nil
}

// ClearAll removes all seedable rows. Table order matters for FK constraints.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE xp_activities, achievement_unlocks, feedbacks, follows, likes, comments, posts, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

var postCategories = []string{
	"General", "Technology", "Travel", "Food", "Fitness",
	"Books", "Music", "Career", "Personal", "Tutorials",
}

// CreateUsers generates n users across the subscription tiers. All users
// share SeedPassword so the accounts are usable from the login form.
func (s *Seeder) CreateUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := models.User{
			Username: fmt.Sprintf("%s%s%d", firstLower(first), firstLower(last), gofakeit.Number(10, 999)),
			Email:    fmt.Sprintf("%s.%s%d@%s", firstLower(first), firstLower(last), i, gofakeit.DomainName()),
			Password: string(hashed),
			Name:     first + " " + last,
		}

		// roughly one paid account in four
		switch s.rng.Intn(8) {
		case 0:
			user.SubscriptionPlan = models.PlanBusiness
			user.PaymentStatus = models.PaymentStatusPaid
			expiry := time.Now().AddDate(0, 1, 0)
			user.SubscriptionExpiresAt = &expiry
		case 1, 2:
			user.SubscriptionPlan = models.PlanPremium
			user.PaymentStatus = models.PaymentStatusPaid
			expiry := time.Now().AddDate(0, 1, 0)
			user.SubscriptionExpiresAt = &expiry
		}

		users = append(users, user)
	}

	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreatePosts spreads n posts across the given users with realistic
// timestamps over the past 90 days. Slugs and word counts are derived the
// same way the post service derives them.
func (s *Seeder) CreatePosts(users []models.User, n int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		title := gofakeit.Sentence(s.rng.Intn(5) + 3)
		content := gofakeit.Paragraph(s.rng.Intn(4)+2, 4, 12, "\n\n")
		createdAt := time.Now().
			Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour).
			Add(-time.Duration(s.rng.Intn(60)) * time.Minute)

		post := models.Post{
			UserID:    author.ID,
			Title:     title,
			Content:   content,
			Category:  postCategories[s.rng.Intn(len(postCategories))],
			Tags:      s.randomTags(),
			IsPublic:  s.rng.Intn(5) != 0,
			Slug:      fmt.Sprintf("%s-%d", service.Slugify(title), createdAt.UnixMilli()),
			WordCount: service.CountWords(content),
			CreatedAt: createdAt,
		}
		posts = append(posts, post)
	}

	if err := s.db.Create(&posts).Error; err != nil {
		return nil, err
	}

	// bring the cached counters and writing stats in line with the posts
	for i := range users {
		user := &users[i]
		var count, words int64
		s.db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&count)
		s.db.Model(&models.Post{}).Where("user_id = ?", user.ID).
			Select("COALESCE(SUM(word_count), 0)").Scan(&words)

		perPost, _ := service.XPForActivity(models.ActivityPostCreate)
		xp := int(count) * perPost
		updates := map[string]interface{}{
			"posts_count":         count,
			"monthly_posts_count": 0,
			"total_words":         words,
			"xp":                  xp,
			"level":               models.LevelForXP(xp),
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// CreateEngagement adds likes and comments from random users to random posts.
func (s *Seeder) CreateEngagement(users []models.User, posts []models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	likes := 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID || s.rng.Intn(4) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, PostID: post.ID, Type: "like"}
			if err := s.db.Create(&like).Error; err == nil {
				likes++
			}
		}
	}

	comments := 0
	for _, post := range posts {
		for s.rng.Intn(3) == 0 {
			commenter := users[s.rng.Intn(len(users))]
			comment := models.Comment{
				PostID:  post.ID,
				UserID:  commenter.ID,
				Content: gofakeit.Sentence(s.rng.Intn(10) + 4),
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return err
			}
			comments++
		}
	}

	log.Printf("created %d likes and %d comments", likes, comments)
	return nil
}

// CreateFollows builds a sparse follow graph between the seeded users.
func (s *Seeder) CreateFollows(users []models.User) error {
	follows := 0
	for _, follower := range users {
		for _, followed := range users {
			if follower.ID == followed.ID || s.rng.Intn(6) != 0 {
				continue
			}
			follow := models.Follow{FollowerID: follower.ID, FollowingID: followed.ID}
			if err := s.db.Create(&follow).Error; err == nil {
				follows++
			}
		}
	}

	log.Printf("created %d follows", follows)
	return nil
}

func (s *Seeder) randomTags() []string {
	count := s.rng.Intn(4)
	tags := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tags = append(tags, gofakeit.BuzzWord())
	}
	return tags
}

func firstLower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
