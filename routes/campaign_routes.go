package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/handlers"
	"github.com/kevmuri/referral_rewards/middleware"
)

func CampaignRoutes(app *fiber.App) {
	campaigns := app.Group("/campaigns", middleware.Protected(), middleware.AttachBusiness())
	campaigns.Get("", handlers.ListCampaigns)
	campaigns.Post("", handlers.CreateCampaign)
	campaigns.Get("/:id", handlers.GetCampaign)
	campaigns.Put("/:id", handlers.UpdateCampaign)
	campaigns.Delete("/:id", handlers.DeleteCampaign)
}
