package service

import (
	"context"
	"fmt"
	"time"

	"blogpad/internal/cache"
	"blogpad/internal/models"
	"blogpad/internal/observability"
	"blogpad/internal/repository"
)

// AchievementInfo describes an achievement in the catalog.
type AchievementInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
	Icon        string `json:"icon"`
}

var achievementCatalog = map[string]AchievementInfo{
	models.AchievementFirstPost:       {Name: "First Steps", Description: "Published your first post", XP: 50, Icon: "fas fa-pen-fancy"},
	models.AchievementWordWarrior:     {Name: "Word Warrior", Description: "Wrote 1000+ words in a single post", XP: 100, Icon: "fas fa-sword"},
	models.AchievementStreak7:         {Name: "Week Warrior", Description: "Maintained 7-day writing streak", XP: 200, Icon: "fas fa-fire"},
	models.AchievementStreak30:        {Name: "Monthly Master", Description: "Maintained 30-day writing streak", XP: 500, Icon: "fas fa-crown"},
	models.AchievementPosts10:         {Name: "Prolific Writer", Description: "Published 10 posts", XP: 150, Icon: "fas fa-star"},
	models.AchievementPosts50:         {Name: "Blog Master", Description: "Published 50 posts", XP: 300, Icon: "fas fa-trophy"},
	models.AchievementPosts100:        {Name: "Legend", Description: "Published 100 posts", XP: 1000, Icon: "fas fa-crown"},
	models.AchievementSocialButterfly: {Name: "Social Butterfly", Description: "Received 50 likes", XP: 100, Icon: "fas fa-heart"},
	models.AchievementEngagementKing:  {Name: "Engagement King", Description: "Received 100 comments", XP: 200, Icon: "fas fa-comments"},
}

// AchievementCatalog returns the static achievement definitions.
func AchievementCatalog() map[string]AchievementInfo {
	return achievementCatalog
}

// XPForActivity returns the XP reward for an activity kind. The lookup is
// exhaustive: an unknown kind is an error, never a zero award.
func XPForActivity(kind models.ActivityKind) (int, error) {
	switch kind {
	case models.ActivityPostCreate:
		return 25, nil
	case models.ActivityPostUpdate:
		return 10, nil
	case models.ActivityDailyLogin:
		return 5, nil
	case models.ActivityStreakBonus:
		return 15, nil
	case models.ActivityCommentReceived:
		return 5, nil
	case models.ActivityLikeReceived:
		return 2, nil
	}
	return 0, fmt.Errorf("unknown activity kind %q", kind)
}

// themeRequirement gates a cosmetic theme on either an XP floor or a held
// achievement.
type themeRequirement struct {
	XP          int
	Achievement string
}

var themeRequirements = map[string]themeRequirement{
	"dark":    {XP: 100},
	"neon":    {XP: 500},
	"vintage": {Achievement: models.AchievementPosts10},
	"minimal": {XP: 200},
}

// GamificationService owns XP awards, streaks, achievements and unlocks.
type GamificationService struct {
	userRepo    repository.UserRepository
	gamRepo     repository.GamificationRepository
	socialRepo  repository.SocialRepository
	commentRepo repository.CommentRepository
	now         func() time.Time
}

// NewGamificationService creates a gamification service. now is injectable
// for tests; pass nil for the wall clock.
func NewGamificationService(
	userRepo repository.UserRepository,
	gamRepo repository.GamificationRepository,
	socialRepo repository.SocialRepository,
	commentRepo repository.CommentRepository,
	now func() time.Time,
) *GamificationService {
	if now == nil {
		now = time.Now
	}
	return &GamificationService{
		userRepo:    userRepo,
		gamRepo:     gamRepo,
		socialRepo:  socialRepo,
		commentRepo: commentRepo,
		now:         now,
	}
}

// XPAward summarizes the result of an XP grant.
type XPAward struct {
	XPEarned  int  `json:"xpEarned"`
	NewXP     int  `json:"newXP"`
	NewLevel  int  `json:"newLevel"`
	LeveledUp bool `json:"leveledUp"`
}

// AwardXP grants the reward for the activity kind, records the activity and
// re-derives the user's level. A level-up triggers an achievement sweep.
func (s *GamificationService) AwardXP(ctx context.Context, userID uint, kind models.ActivityKind, description string) (*XPAward, error) {
	xpEarned, err := XPForActivity(kind)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldLevel := user.Level
	user.XP += xpEarned
	user.Level = models.LevelForXP(user.XP)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.gamRepo.RecordActivity(ctx, &models.XPActivity{
		UserID:       userID,
		ActivityKind: kind,
		XPEarned:     xpEarned,
		Description:  description,
	}); err != nil {
		return nil, err
	}

	observability.XPAwarded.WithLabelValues(string(kind)).Add(float64(xpEarned))

	leveledUp := user.Level > oldLevel
	if leveledUp {
		if _, err := s.CheckAchievements(ctx, userID); err != nil {
			return nil, err
		}
		// Re-read so the award reflects any achievement XP.
		if user, err = s.userRepo.GetByID(ctx, userID); err != nil {
			return nil, err
		}
	}

	return &XPAward{
		XPEarned:  xpEarned,
		NewXP:     user.XP,
		NewLevel:  user.Level,
		LeveledUp: leveledUp,
	}, nil
}

// sameDay compares two instants by calendar date.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween returns whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// UpdateWritingStreak advances the user's streak for a post published now.
// Posting on consecutive days extends the streak and earns a bonus; a gap of
// more than one day resets it to 1; multiple posts on the same day are
// neutral. Returns the current streak.
func (s *GamificationService) UpdateWritingStreak(ctx context.Context, userID uint) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	streakExtended := false

	if user.LastPostDate == nil {
		user.WritingStreak = 1
		user.LongestStreak = 1
	} else {
		switch days := daysBetween(*user.LastPostDate, now); {
		case days == 1:
			user.WritingStreak++
			if user.WritingStreak > user.LongestStreak {
				user.LongestStreak = user.WritingStreak
			}
			streakExtended = true
		case days > 1:
			user.WritingStreak = 1
		}
		// Same-day posts leave the streak untouched.
	}

	user.LastPostDate = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return 0, err
	}

	streak := user.WritingStreak
	if streakExtended {
		if _, err := s.AwardXP(ctx, userID, models.ActivityStreakBonus, fmt.Sprintf("%d day streak", streak)); err != nil {
			return 0, err
		}
	}

	return streak, nil
}

// DailyLoginBonus awards the login XP once per calendar day. Returns true
// when a bonus was granted.
func (s *GamificationService) DailyLoginBonus(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	now := s.now()
	if user.LastLoginDate != nil && sameDay(*user.LastLoginDate, now) {
		return false, nil
	}

	if _, err := s.AwardXP(ctx, userID, models.ActivityDailyLogin, "Daily login bonus"); err != nil {
		return false, err
	}

	// AwardXP saved its own copy; reload before stamping the login date.
	user, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	user.LastLoginDate = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// CheckAchievements sweeps every threshold-based achievement and unlocks the
// ones newly earned. Each unlock adds its XP exactly once; the unlock table's
// uniqueness guarantee makes re-runs harmless.
func (s *GamificationService) CheckAchievements(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	likesReceived, err := s.socialRepo.CountLikesReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	commentsReceived, err := s.commentRepo.CountReceivedByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []string
	if user.PostsCount >= 1 {
		candidates = append(candidates, models.AchievementFirstPost)
	}
	if user.PostsCount >= 10 {
		candidates = append(candidates, models.AchievementPosts10)
	}
	if user.PostsCount >= 50 {
		candidates = append(candidates, models.AchievementPosts50)
	}
	if user.PostsCount >= 100 {
		candidates = append(candidates, models.AchievementPosts100)
	}
	if user.WritingStreak >= 7 {
		candidates = append(candidates, models.AchievementStreak7)
	}
	if user.WritingStreak >= 30 {
		candidates = append(candidates, models.AchievementStreak30)
	}
	if likesReceived >= 50 {
		candidates = append(candidates, models.AchievementSocialButterfly)
	}
	if commentsReceived >= 100 {
		candidates = append(candidates, models.AchievementEngagementKing)
	}

	return s.unlockAll(ctx, user, candidates)
}

// MaybeUnlockWordWarrior grants the single-post word count achievement.
func (s *GamificationService) MaybeUnlockWordWarrior(ctx context.Context, userID uint, wordCount int) error {
	if wordCount < 1000 {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.unlockAll(ctx, user, []string{models.AchievementWordWarrior})
	return err
}

// unlockAll applies the not-yet-held achievements from candidates, adding
// their XP and re-deriving the level in a single user save.
func (s *GamificationService) unlockAll(ctx context.Context, user *models.User, candidates []string) ([]string, error) {
	var unlocked []string
	for _, id := range candidates {
		if user.HasAchievement(id) {
			continue
		}
		isNew, err := s.gamRepo.RecordUnlock(ctx, user.ID, id)
		if err != nil {
			return nil, err
		}
		if !isNew {
			continue
		}
		user.Achievements = append(user.Achievements, id)
		user.XP += achievementCatalog[id].XP
		unlocked = append(unlocked, id)
		observability.AchievementsUnlocked.WithLabelValues(id).Inc()
	}

	if len(unlocked) == 0 {
		return nil, nil
	}

	user.Level = models.LevelForXP(user.XP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return unlocked, nil
}

// Stats is the response shape of the gamification stats endpoint.
type Stats struct {
	XP             int      `json:"xp"`
	Level          int      `json:"level"`
	XPForNext      int      `json:"xpForNext"`
	XPProgress     int      `json:"xpProgress"`
	WritingStreak  int      `json:"writing_streak"`
	LongestStreak  int      `json:"longest_streak"`
	TotalWords     int      `json:"total_words"`
	Achievements   []string `json:"achievements"`
	UnlockedThemes []string `json:"unlocked_themes"`
}

// GetStats reports the user's XP, level progress, streaks and unlocks.
func (s *GamificationService) GetStats(ctx context.Context, userID uint) (*Stats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := user.XP - (user.Level-1)*100
	if progress < 0 {
		progress = 0
	}

	achievements := user.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	themes := user.UnlockedThemes
	if len(themes) == 0 {
		themes = []string{"default"}
	}

	return &Stats{
		XP:             user.XP,
		Level:          user.Level,
		XPForNext:      user.Level * 100,
		XPProgress:     progress,
		WritingStreak:  user.WritingStreak,
		LongestStreak:  user.LongestStreak,
		TotalWords:     user.TotalWords,
		Achievements:   achievements,
		UnlockedThemes: themes,
	}, nil
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	WritingStreak int    `json:"writing_streak"`
	PostsCount    int    `json:"posts_count"`
	TotalWords    int    `json:"total_words"`
}

var leaderboardColumns = map[string]string{
	"xp":     "xp",
	"streak": "writing_streak",
	"posts":  "posts_count",
	"words":  "total_words",
}

// Leaderboard ranks users by one of: xp, streak, posts, words. Unknown types
// fall back to xp. Rankings are served from a short-lived Redis entry, so
// fresh XP can lag the board by up to a minute.
func (s *GamificationService) Leaderboard(ctx context.Context, leaderboardType string, limit int) ([]LeaderboardEntry, error) {
	column, ok := leaderboardColumns[leaderboardType]
	if !ok {
		column = "xp"
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var entries []LeaderboardEntry
	err := cache.Aside(ctx, cache.LeaderboardKey(column, limit), &entries, cache.LeaderboardTTL, func() error {
		users, err := s.userRepo.Leaderboard(ctx, column, limit)
		if err != nil {
			return err
		}

		entries = make([]LeaderboardEntry, 0, len(users))
		for i, user := range users {
			entries = append(entries, LeaderboardEntry{
				Rank:          i + 1,
				Username:      user.Username,
				Name:          user.Name,
				XP:            user.XP,
				Level:         user.Level,
				WritingStreak: user.WritingStreak,
				PostsCount:    user.PostsCount,
				TotalWords:    user.TotalWords,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListActivities returns the user's recent XP activity log.
func (s *GamificationService) ListActivities(ctx context.Context, userID uint, limit int) ([]*models.XPActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.gamRepo.ListActivities(ctx, userID, limit, 0)
}

// UnlockTheme grants a cosmetic theme when the user meets its XP floor or
// holds its gating achievement.
func (s *GamificationService) UnlockTheme(ctx context.Context, userID uint, theme string) error {
	requirement, ok := themeRequirements[theme]
	if !ok {
		return models.NewValidationError("Invalid theme")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	canUnlock := false
	if requirement.XP > 0 && user.XP >= requirement.XP {
		canUnlock = true
	}
	if requirement.Achievement != "" && user.HasAchievement(requirement.Achievement) {
		canUnlock = true
	}
	if !canUnlock {
		return models.NewForbiddenError("Requirements not met")
	}

	if user.HasTheme(theme) {
		return nil
	}

	user.UnlockedThemes = append(user.UnlockedThemes, theme)
	return s.userRepo.Update(ctx, user)
}
