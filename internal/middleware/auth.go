package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/klearport/customs-console/internal/config"
	"github.com/klearport/customs-console/internal/models"
)

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID    int         `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CompanyID *int        `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthRequired middleware checks for a valid JWT token
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization format",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_role", claims.Role)
		if claims.CompanyID != nil {
			c.Locals("company_id", *claims.CompanyID)
		}

		return c.Next()
	}
}

// AdminRequired middleware checks if the user has admin role
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}

		return c.Next()
	}
}

// OfficerRequired middleware checks if the user may modify declaration data
func OfficerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if role != models.RoleAdmin && role != models.RoleOfficer {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "officer access required",
			})
		}

		return c.Next()
	}
}

// GetUserID extracts the user ID from the context
func GetUserID(c *fiber.Ctx) int {
	if id, ok := c.Locals("user_id").(int); ok {
		return id
	}
	return 0
}

// GetCurrentUser builds the explicit identity value handlers pass into
// policy checks and repositories. A zero ID means the request carried no
// valid token.
func GetCurrentUser(c *fiber.Ctx) models.CurrentUser {
	cu := models.CurrentUser{}
	if id, ok := c.Locals("user_id").(int); ok {
		cu.ID = id
	}
	if role, ok := c.Locals("user_role").(models.Role); ok {
		cu.Role = role
	} else {
		cu.Role = models.RoleViewer
	}
	if companyID, ok := c.Locals("company_id").(int); ok {
		cu.CompanyID = &companyID
	}
	return cu
}
