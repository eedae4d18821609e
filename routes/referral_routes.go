package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/handlers"
)

func ReferralRoutes(app *fiber.App) {
	referrals := app.Group("/referrals")
	referrals.Post("/generate", handlers.GenerateReferralLink)
	referrals.Post("/complete", handlers.CompleteReferral)
}
