package server

import (
	"blogpad/internal/assist"
	"blogpad/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AIAssist handles POST /api/ai-assist
func (s *Server) AIAssist(c *fiber.Ctx) error {
	var req struct {
		Text   string        `json:"text"`
		Action assist.Action `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.assistService.Assist(c.Context(), req.Text, req.Action)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
