// Package service contains the business logic for the application.
package service

import (
	"context"
	"time"

	"blogpad/internal/models"
	"blogpad/internal/observability"
	"blogpad/internal/repository"
)

// Unlimited marks a quota dimension with no cap.
const Unlimited = -1

// PlanLimits describes the post quotas of a subscription plan.
type PlanLimits struct {
	MonthlyPosts int `json:"monthly_posts"`
	TotalPosts   int `json:"total_posts"`
}

// PlanPricing holds the price points of a paid plan.
type PlanPricing struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

var planLimits = map[models.SubscriptionPlan]PlanLimits{
	models.PlanFree:     {MonthlyPosts: 5, TotalPosts: 10},
	models.PlanPremium:  {MonthlyPosts: 100, TotalPosts: Unlimited},
	models.PlanBusiness: {MonthlyPosts: Unlimited, TotalPosts: Unlimited},
}

var planPricing = map[models.SubscriptionPlan]PlanPricing{
	models.PlanPremium:  {Monthly: 9, Yearly: 90},
	models.PlanBusiness: {Monthly: 19, Yearly: 190},
}

// LimitsForPlan returns the quota for a plan, defaulting unknown plans to free.
func LimitsForPlan(plan models.SubscriptionPlan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[models.PlanFree]
}

// PricingForPlan returns the price points for a paid plan.
func PricingForPlan(plan models.SubscriptionPlan) (PlanPricing, bool) {
	pricing, ok := planPricing[plan]
	return pricing, ok
}

// UsageService enforces plan quotas and keeps the per-user post ledger.
type UsageService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUsageService creates a usage service. now is injectable for tests; pass
// nil for the wall clock.
func NewUsageService(userRepo repository.UserRepository, now func() time.Time) *UsageService {
	if now == nil {
		now = time.Now
	}
	return &UsageService{userRepo: userRepo, now: now}
}

// UsageSummary is the response shape of the usage endpoint.
type UsageSummary struct {
	SubscriptionPlan      models.SubscriptionPlan `json:"subscription_plan"`
	PostsCount            int                     `json:"posts_count"`
	MonthlyPostsCount     int                     `json:"monthly_posts_count"`
	Limits                PlanLimits              `json:"limits"`
	SubscriptionExpiresAt *time.Time              `json:"subscription_expires_at,omitempty"`
}

// rolloverIfNewMonth zeroes the monthly counter when the calendar month has
// changed since the last reset. The check is lazy: it only happens when the
// user attempts a post, and there is no transactional guard around the
// read-modify-write, so concurrent requests can race.
func (s *UsageService) rolloverIfNewMonth(ctx context.Context, user *models.User) error {
	now := s.now()
	last := user.LastResetDate
	if now.Month() == last.Month() && now.Year() == last.Year() {
		return nil
	}
	user.MonthlyPostsCount = 0
	user.LastResetDate = now
	return s.userRepo.Update(ctx, user)
}

// EnsureCanCreatePost applies the lazy monthly rollover and then checks both
// quota dimensions. It returns a QuotaExceededError when either cap is hit.
func (s *UsageService) EnsureCanCreatePost(ctx context.Context, user *models.User) error {
	if err := s.rolloverIfNewMonth(ctx, user); err != nil {
		return err
	}

	limits := LimitsForPlan(user.SubscriptionPlan)

	if limits.MonthlyPosts != Unlimited && user.MonthlyPostsCount >= limits.MonthlyPosts {
		observability.QuotaDenials.WithLabelValues(string(models.QuotaScopeMonthly), string(user.SubscriptionPlan)).Inc()
		return &models.QuotaExceededError{
			Scope:   models.QuotaScopeMonthly,
			Limit:   limits.MonthlyPosts,
			Current: user.MonthlyPostsCount,
			Plan:    user.SubscriptionPlan,
		}
	}

	if limits.TotalPosts != Unlimited && user.PostsCount >= limits.TotalPosts {
		observability.QuotaDenials.WithLabelValues(string(models.QuotaScopeTotal), string(user.SubscriptionPlan)).Inc()
		return &models.QuotaExceededError{
			Scope:   models.QuotaScopeTotal,
			Limit:   limits.TotalPosts,
			Current: user.PostsCount,
			Plan:    user.SubscriptionPlan,
		}
	}

	return nil
}

// Summary reports current usage against the user's plan limits.
func (s *UsageService) Summary(ctx context.Context, userID uint) (*UsageSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UsageSummary{
		SubscriptionPlan:      user.SubscriptionPlan,
		PostsCount:            user.PostsCount,
		MonthlyPostsCount:     user.MonthlyPostsCount,
		Limits:                LimitsForPlan(user.SubscriptionPlan),
		SubscriptionExpiresAt: user.SubscriptionExpiresAt,
	}, nil
}
