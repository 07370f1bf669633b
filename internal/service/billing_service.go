package service

import (
	"context"
	"fmt"
	"time"

	"blogpad/internal/models"
	"blogpad/internal/observability"
	"blogpad/internal/payments"
	"blogpad/internal/repository"
)

const trialDays = 7

// BillingService owns subscription lifecycle and payment processing.
type BillingService struct {
	userRepo repository.UserRepository
	gateway  payments.Gateway
	now      func() time.Time
}

// NewBillingService creates a billing service. now is injectable for tests;
// pass nil for the wall clock.
func NewBillingService(userRepo repository.UserRepository, gateway payments.Gateway, now func() time.Time) *BillingService {
	if now == nil {
		now = time.Now
	}
	return &BillingService{userRepo: userRepo, gateway: gateway, now: now}
}

// StartSubscriptionResult describes the outcome of a subscription start. A
// never-trialed free user gets the trial immediately; everyone else is
// redirected to payment.
type StartSubscriptionResult struct {
	Message         string                  `json:"message"`
	Plan            models.SubscriptionPlan `json:"plan"`
	BillingCycle    models.BillingCycle     `json:"billing_cycle,omitempty"`
	Price           float64                 `json:"price,omitempty"`
	TrialEnds       *time.Time              `json:"trial_ends,omitempty"`
	PaymentRequired bool                    `json:"payment_required"`
	PaymentURL      string                  `json:"payment_url,omitempty"`
}

// StartSubscription begins a trial or quotes the payment for a paid plan.
func (s *BillingService) StartSubscription(ctx context.Context, userID uint, plan models.SubscriptionPlan, cycle models.BillingCycle) (*StartSubscriptionResult, error) {
	if plan != models.PlanPremium && plan != models.PlanBusiness {
		return nil, models.NewValidationError("Invalid subscription plan")
	}
	if cycle == "" {
		cycle = models.BillingMonthly
	}
	if cycle != models.BillingMonthly && cycle != models.BillingYearly {
		return nil, models.NewValidationError("Invalid billing cycle")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.TrialUsed && user.SubscriptionPlan == models.PlanFree {
		trialEnd := s.now().AddDate(0, 0, trialDays)
		user.SubscriptionPlan = plan
		user.BillingCycle = cycle
		user.PaymentStatus = models.PaymentStatusTrial
		user.TrialUsed = true
		user.SubscriptionExpiresAt = &trialEnd

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

		return &StartSubscriptionResult{
			Message:         "Free trial started successfully",
			Plan:            plan,
			TrialEnds:       &trialEnd,
			PaymentRequired: false,
		}, nil
	}

	pricing, _ := PricingForPlan(plan)
	price := pricing.Monthly
	if cycle == models.BillingYearly {
		price = pricing.Yearly
	}

	return &StartSubscriptionResult{
		Message:         "Payment required",
		Plan:            plan,
		BillingCycle:    cycle,
		Price:           price,
		PaymentRequired: true,
		PaymentURL:      fmt.Sprintf("/payment?plan=%s&billing=%s&price=%g", plan, cycle, price),
	}, nil
}

// PaymentResult describes a processed payment.
type PaymentResult struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	Plan      models.SubscriptionPlan `json:"plan,omitempty"`
	ExpiresAt *time.Time              `json:"expires_at,omitempty"`
}

// ProcessPayment charges the card and on success activates the plan until
// the end of the billing cycle. A declined card marks the account failed and
// leaves the plan unchanged.
func (s *BillingService) ProcessPayment(ctx context.Context, userID uint, plan models.SubscriptionPlan, cycle models.BillingCycle, card payments.CardDetails) (*PaymentResult, error) {
	if plan != models.PlanPremium && plan != models.PlanBusiness {
		return nil, models.NewValidationError("Invalid subscription plan")
	}
	if cycle != models.BillingMonthly && cycle != models.BillingYearly {
		return nil, models.NewValidationError("Invalid billing cycle")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.gateway.Charge(ctx, card) {
		observability.PaymentOutcomes.WithLabelValues("failed").Inc()
		user.PaymentStatus = models.PaymentStatusFailed
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return &PaymentResult{
			Success: false,
			Message: "Payment failed. Please try again.",
		}, nil
	}

	observability.PaymentOutcomes.WithLabelValues("success").Inc()

	var expiry time.Time
	if cycle == models.BillingYearly {
		expiry = s.now().AddDate(1, 0, 0)
	} else {
		expiry = s.now().AddDate(0, 1, 0)
	}

	user.SubscriptionPlan = plan
	user.BillingCycle = cycle
	user.PaymentStatus = models.PaymentStatusPaid
	user.SubscriptionExpiresAt = &expiry

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &PaymentResult{
		Success:   true,
		Message:   "Payment successful! Subscription activated.",
		Plan:      plan,
		ExpiresAt: &expiry,
	}, nil
}

// CancelResult describes a cancellation.
type CancelResult struct {
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CancelSubscription marks the subscription cancelled. Access continues
// until the paid-through date; there is no immediate downgrade.
func (s *BillingService) CancelSubscription(ctx context.Context, userID uint) (*CancelResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.SubscriptionPlan == models.PlanFree {
		return nil, models.NewValidationError("No active subscription to cancel")
	}

	user.PaymentStatus = models.PaymentStatusCancelled
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &CancelResult{
		Message:   "Subscription cancelled. Access will continue until expiry date.",
		ExpiresAt: user.SubscriptionExpiresAt,
	}, nil
}
