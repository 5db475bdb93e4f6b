package middleware

import (
	"slices"
	"strings"

	"go-warung-pos/internal/logger"
	"go-warung-pos/internal/repository"
	"go-warung-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository, tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_privileges", claims.Privileges)

		ctx := c.UserContext()
		log := logger.FromContext(ctx, zerolog.Nop()).With().Str("user_id", claims.UserID.String()).Logger()
		c.SetUserContext(logger.WithContext(ctx, log))

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return requireAny([]string{requiredPrivilege}, "Forbidden: requires '"+requiredPrivilege+"' privilege")
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return requireAny(requiredPrivileges, "Forbidden: requires one of "+strings.Join(requiredPrivileges, ", ")+" privileges")
}

func requireAny(required []string, denied string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// set by RequireAuth
		granted, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}
		for _, code := range required {
			if slices.Contains(granted, code) {
				return c.Next()
			}
		}
		l := logger.FromContext(c.UserContext(), zerolog.Nop())
		l.Warn().
			Strs("required", required).
			Str("path", c.Path()).
			Msg("privilege check failed")
		return c.Status(403).JSON(fiber.Map{"error": denied})
	}
}
