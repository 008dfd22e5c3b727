package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/models"
	jwtPkg "github.com/blocksmith-ai/backend/pkg/jwt"
)

// ProfileProvisioner ensures a credit profile exists for an identity.
type ProfileProvisioner interface {
	GetOrCreate(userID, email string) (*models.Profile, error)
}

// AuthMiddleware resolves the bearer token to a user identity, provisions the
// credit profile on first contact, and stores the identity in request locals
// as "userID" and "userEmail".
func AuthMiddleware(validator *jwtPkg.Validator, profiles ProfileProvisioner, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid authorization header format",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, email, err := validator.ValidateToken(tokenString)
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token",
			})
		}

		if _, err := profiles.GetOrCreate(userID, email); err != nil {
			logger.Error("cannot provision profile",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Account unavailable",
			})
		}

		c.Locals("userID", userID)
		c.Locals("userEmail", email)

		return c.Next()
	}
}
