// Package payments provides the simulated card gateway used by billing.
package payments

import (
	"context"
	"math/rand"
	"sync"
)

// CardDetails carries the fields a charge attempt requires.
type CardDetails struct {
	Number string `json:"number"`
	CVV    string `json:"cvv"`
	Expiry string `json:"expiry"`
	Name   string `json:"name"`
}

// Complete reports whether every required card field is present.
func (c CardDetails) Complete() bool {
	return c.Number != "" && c.CVV != "" && c.Expiry != ""
}

// Gateway processes charge attempts. The real implementation would talk to a
// payment provider; the simulated one approves roughly 90% of complete cards.
type Gateway interface {
	Charge(ctx context.Context, card CardDetails) bool
}

// SimulatedGateway approves complete cards with a fixed probability.
type SimulatedGateway struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
}

// NewSimulatedGateway returns a gateway with a 90% approval rate.
func NewSimulatedGateway(seed int64) *SimulatedGateway {
	return &SimulatedGateway{
		rng:         rand.New(rand.NewSource(seed)),
		successRate: 0.9,
	}
}

// Charge validates the card fields and then rolls for approval.
func (g *SimulatedGateway) Charge(_ context.Context, card CardDetails) bool {
	if !card.Complete() {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64() < g.successRate
}

// StaticGateway always returns a fixed outcome. Used in tests.
type StaticGateway struct {
	Approve bool
}

func (g StaticGateway) Charge(_ context.Context, card CardDetails) bool {
	if !card.Complete() {
		return false
	}
	return g.Approve
}
