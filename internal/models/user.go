// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan identifies a billing tier.
type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "free"
	PlanPremium  SubscriptionPlan = "premium"
	PlanBusiness SubscriptionPlan = "business"
)

// Valid reports whether p is a known plan.
func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanFree, PlanPremium, PlanBusiness:
		return true
	}
	return false
}

// PaymentStatus tracks the billing state of an account.
type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = "none"
	PaymentStatusTrial     PaymentStatus = "trial"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// BillingCycle is the subscription renewal interval.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

// User represents an account in the Blogpad application. Besides identity and
// billing state it carries the per-user ledger the usage policy and the
// gamification engine operate on: post counters, XP, streaks and unlocks.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`

	SubscriptionPlan      SubscriptionPlan `gorm:"type:varchar(20);default:'free'" json:"subscription_plan"`
	SubscriptionExpiresAt *time.Time       `json:"subscription_expires_at,omitempty"`
	PaymentStatus         PaymentStatus    `gorm:"type:varchar(20);default:'none'" json:"payment_status"`
	BillingCycle          BillingCycle     `gorm:"type:varchar(20);default:'monthly'" json:"billing_cycle"`
	TrialUsed             bool             `gorm:"default:false" json:"trial_used"`

	PostsCount        int       `gorm:"default:0" json:"posts_count"`
	MonthlyPostsCount int       `gorm:"default:0" json:"monthly_posts_count"`
	LastResetDate     time.Time `gorm:"autoCreateTime" json:"last_reset_date"`

	XP             int        `gorm:"default:0" json:"xp"`
	Level          int        `gorm:"default:1" json:"level"`
	WritingStreak  int        `gorm:"default:0" json:"writing_streak"`
	LongestStreak  int        `gorm:"default:0" json:"longest_streak"`
	LastPostDate   *time.Time `json:"last_post_date,omitempty"`
	LastLoginDate  *time.Time `json:"last_login_date,omitempty"`
	TotalWords     int        `gorm:"default:0" json:"total_words"`
	Achievements   []string   `gorm:"serializer:json" json:"achievements"`
	UnlockedThemes []string   `gorm:"serializer:json" json:"unlocked_themes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// BeforeCreate seeds the unlock sets so every account starts with the
// default theme and an empty (but non-null) achievement list.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.Achievements == nil {
		u.Achievements = []string{}
	}
	if len(u.UnlockedThemes) == 0 {
		u.UnlockedThemes = []string{"default"}
	}
	if u.SubscriptionPlan == "" {
		u.SubscriptionPlan = PlanFree
	}
	if u.Level == 0 {
		u.Level = 1
	}
	return nil
}

// HasAchievement reports whether the achievement id has been unlocked.
func (u *User) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// HasTheme reports whether the theme is unlocked for this user.
func (u *User) HasTheme(theme string) bool {
	for _, t := range u.UnlockedThemes {
		if t == theme {
			return true
		}
	}
	return false
}
