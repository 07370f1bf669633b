package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpad_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// XPAwarded counts XP granted by activity kind.
	XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpad_xp_awarded_total",
		Help: "Total XP granted to users by activity kind",
	}, []string{"activity"})

	// AchievementsUnlocked counts achievement unlocks by achievement id.
	AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpad_achievements_unlocked_total",
		Help: "Total achievement unlocks by achievement id",
	}, []string{"achievement"})

	// QuotaDenials counts post creations denied by the usage policy.
	QuotaDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpad_quota_denials_total",
		Help: "Post creations denied by plan limits, by scope and plan",
	}, []string{"scope", "plan"})

	// PaymentOutcomes counts simulated payment results.
	PaymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpad_payment_outcomes_total",
		Help: "Payment attempts by outcome",
	}, []string{"outcome"})

	// AssistRequests counts AI assist calls by action and outcome.
	AssistRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpad_assist_requests_total",
		Help: "AI assist requests by action and outcome",
	}, []string{"action", "outcome"})
)
