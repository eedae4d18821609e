package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/kevmuri/referral_rewards/configs"
	"github.com/kevmuri/referral_rewards/database"
	"github.com/kevmuri/referral_rewards/models"
)

// Protected verifies the bearer token's signature and expiry. Missing,
// malformed, invalid and expired tokens all get the same generic 401 so
// nothing about token state leaks.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": "Not authorized to access this route"})
}

// AttachBusiness loads the business named in the verified token and puts
// it on the request locals for handlers downstream. Runs after Protected.
func AttachBusiness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		businessID, ok := claims["business_id"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"success": false, "message": "Not authorized to access this route"})
		}

		var business models.Business
		if err := database.DB.Where("id = ?", businessID).First(&business).Error; err != nil {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"success": false, "message": "Business not found"})
		}

		c.Locals("business", &business)
		return c.Next()
	}
}

// BusinessFromContext returns the business attached by AttachBusiness.
func BusinessFromContext(c *fiber.Ctx) *models.Business {
	business, _ := c.Locals("business").(*models.Business)
	return business
}
