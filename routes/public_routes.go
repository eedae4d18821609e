package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/handlers"
)

// PublicRoutes must be registered before CampaignRoutes so the
// unauthenticated campaign paths match ahead of the protected group.
func PublicRoutes(app *fiber.App) {
	app.Get("/campaigns/active", handlers.ListActiveCampaigns)
	app.Get("/campaigns/:id/public", handlers.GetPublicCampaign)
}
