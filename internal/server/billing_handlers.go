package server

import (
	"blogpad/internal/models"
	"blogpad/internal/payments"

	"github.com/gofiber/fiber/v2"
)

// StartSubscription handles POST /api/start-subscription
func (s *Server) StartSubscription(c *fiber.Ctx) error {
	var req struct {
		Plan         models.SubscriptionPlan `json:"plan"`
		BillingCycle models.BillingCycle     `json:"billing_cycle"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.billingService.StartSubscription(c.Context(), s.userID(c), req.Plan, req.BillingCycle)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// ProcessPayment handles POST /api/process-payment
func (s *Server) ProcessPayment(c *fiber.Ctx) error {
	var req struct {
		Plan         models.SubscriptionPlan `json:"plan"`
		BillingCycle models.BillingCycle     `json:"billing_cycle"`
		Card         payments.CardDetails    `json:"card"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.billingService.ProcessPayment(c.Context(), s.userID(c), req.Plan, req.BillingCycle, req.Card)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if !result.Success {
		status = fiber.StatusPaymentRequired
	}
	return c.Status(status).JSON(result)
}

// CancelSubscription handles POST /api/cancel-subscription
func (s *Server) CancelSubscription(c *fiber.Ctx) error {
	result, err := s.billingService.CancelSubscription(c.Context(), s.userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
