package models

import "time"

// ActivityKind identifies an XP-earning activity. The reward lookup in the
// gamification service matches these exhaustively; an unknown kind is an
// error, never a silent zero award.
type ActivityKind string

const (
	ActivityPostCreate      ActivityKind = "post_create"
	ActivityPostUpdate      ActivityKind = "post_update"
	ActivityDailyLogin      ActivityKind = "daily_login"
	ActivityStreakBonus     ActivityKind = "streak_bonus"
	ActivityCommentReceived ActivityKind = "comment_received"
	ActivityLikeReceived    ActivityKind = "like_received"
)

// Achievement ids. Each unlocks at most once per user.
const (
	AchievementFirstPost       = "first_post"
	AchievementWordWarrior     = "word_warrior"
	AchievementStreak7         = "streak_7"
	AchievementStreak30        = "streak_30"
	AchievementPosts10         = "posts_10"
	AchievementPosts50         = "posts_50"
	AchievementPosts100        = "posts_100"
	AchievementSocialButterfly = "social_butterfly"
	AchievementEngagementKing  = "engagement_king"
)

// AchievementUnlock is the append-only record of a user unlocking an
// achievement. (UserID, AchievementID) is unique.
type AchievementUnlock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// XPActivity is the append-only audit trail of XP awards. Rows are never
// mutated after creation.
type XPActivity struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	ActivityKind ActivityKind `gorm:"type:varchar(30);not null" json:"activity_type"`
	XPEarned     int          `gorm:"not null" json:"xp_earned"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"created_at"`
}

// LevelForXP derives the level tier from an XP total.
func LevelForXP(xp int) int {
	return xp/100 + 1
}
