package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"blogpad/internal/middleware"
	"blogpad/internal/models"
	"blogpad/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Register handles POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username     string                  `json:"username"`
		Email        string                  `json:"email"`
		Password     string                  `json:"password"`
		Name         string                  `json:"name"`
		Plan         models.SubscriptionPlan `json:"plan"`
		BillingCycle models.BillingCycle     `json:"billing_cycle"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Plan:         req.Plan,
		BillingCycle: req.BillingCycle,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/login. The identifier may be a username or email.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/logout. The token's JTI is blacklisted in Redis
// for the remainder of its lifetime so it cannot be replayed.
func (s *Server) Logout(c *fiber.Ctx) error {
	if s.redis != nil {
		if jti, ttl, ok := s.tokenJTI(c); ok && ttl > 0 {
			if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "failed to blacklist token",
					slog.String("error", err.Error()))
			}
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// CurrentUser handles GET /api/user. Fetching the profile counts as the daily
// login, so the 5 XP bonus is settled here.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	userID := s.userID(c)

	bonusAwarded, err := s.gamService.DailyLoginBonus(c.Context(), userID)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "daily login bonus failed",
			slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
	}

	user, err := s.userService.GetUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":                user,
		"limits":              service.LimitsForPlan(user.SubscriptionPlan),
		"daily_bonus_awarded": bonusAwarded,
	})
}

// GetUsage handles GET /api/usage
func (s *Server) GetUsage(c *fiber.Ctx) error {
	summary, err := s.usageService.Summary(c.Context(), s.userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "blogpad-api",
		"aud":      "blogpad-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(), // 7 days
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// tokenJTI extracts the JTI and remaining lifetime of the bearer token. The
// token was already validated by AuthRequired.
func (s *Server) tokenJTI(c *fiber.Ctx) (string, time.Duration, bool) {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, false
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", 0, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", 0, false
	}
	return jti, time.Until(time.Unix(int64(exp), 0)), true
}
