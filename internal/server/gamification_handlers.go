package server

import (
	"sort"

	"blogpad/internal/models"
	"blogpad/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/gamification/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.gamService.GetStats(c.Context(), s.userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetLeaderboard handles GET /api/gamification/leaderboard?type=xp|streak|posts|words
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := s.gamService.Leaderboard(c.Context(),
		c.Query("type", "xp"), c.QueryInt("limit", 10))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

// GetAchievements handles GET /api/gamification/achievements, pairing the
// full catalog with the caller's unlock state.
func (s *Server) GetAchievements(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.Context(), s.userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	type achievementStatus struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		XP          int    `json:"xp"`
		Icon        string `json:"icon"`
		Unlocked    bool   `json:"unlocked"`
	}

	catalog := service.AchievementCatalog()
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	// Stable response order; map iteration would shuffle it per request.
	sort.Strings(ids)

	out := make([]achievementStatus, 0, len(ids))
	for _, id := range ids {
		info := catalog[id]
		out = append(out, achievementStatus{
			ID:          id,
			Name:        info.Name,
			Description: info.Description,
			XP:          info.XP,
			Icon:        info.Icon,
			Unlocked:    user.HasAchievement(id),
		})
	}
	return c.JSON(fiber.Map{"achievements": out})
}

// GetActivities handles GET /api/gamification/activities
func (s *Server) GetActivities(c *fiber.Ctx) error {
	activities, err := s.gamService.ListActivities(c.Context(), s.userID(c), c.QueryInt("limit", 20))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities})
}

// UnlockTheme handles POST /api/gamification/unlock-theme
func (s *Server) UnlockTheme(c *fiber.Ctx) error {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.gamService.UnlockTheme(c.Context(), s.userID(c), req.Theme); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Theme unlocked", "theme": req.Theme})
}
