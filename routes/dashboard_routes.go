package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/handlers"
	"github.com/kevmuri/referral_rewards/middleware"
)

func DashboardRoutes(app *fiber.App) {
	dashboard := app.Group("/dashboard", middleware.Protected(), middleware.AttachBusiness())
	dashboard.Get("/stats", handlers.GetDashboardStats)
}
