package server

import (
	"blogpad/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchBloggers handles GET /api/search/bloggers
func (s *Server) SearchBloggers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	results, err := s.userService.SearchBloggers(c.Context(), c.Query("q"), c.Query("sort", "recent"), p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bloggers": results})
}

// GetBloggerProfile handles GET /api/bloggers/:username. The profile owner
// sees all of their posts, everyone else only public ones.
func (s *Server) GetBloggerProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	currentUserID, _ := s.optionalUserID(c)

	profile, err := s.userService.GetBloggerProfile(c.Context(), username, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// SubmitFeedback handles POST /api/feedback
func (s *Server) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		Rating   int    `json:"rating"`
		Category string `json:"category"`
		Title    string `json:"title"`
		Message  string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.SubmitFeedback(c.Context(), s.userID(c),
		req.Rating, req.Category, req.Title, req.Message); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Feedback submitted. Thank you!"})
}

// GetFeedback handles GET /api/feedback
func (s *Server) GetFeedback(c *fiber.Ctx) error {
	entries, err := s.userService.ListFeedback(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"feedback": entries})
}
