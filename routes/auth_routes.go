package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/handlers"
)

func AuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", handlers.RegisterBusiness)
	auth.Post("/login", handlers.LoginBusiness)
}
