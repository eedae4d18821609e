package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/database"
	"github.com/kevmuri/referral_rewards/middleware"
	"github.com/kevmuri/referral_rewards/models"
)

// GetDashboardStats summarizes the caller's campaigns and the referral
// activity flowing through them.
func GetDashboardStats(c *fiber.Ctx) error {
	business := middleware.BusinessFromContext(c)

	var totalCampaigns int64
	database.DB.Model(&models.Campaign{}).
		Where("business_id = ?", business.ID).
		Count(&totalCampaigns)

	var activeCampaigns int64
	database.DB.Model(&models.Campaign{}).
		Where("business_id = ? AND active = ?", business.ID, true).
		Count(&activeCampaigns)

	var totalReferrals int64
	database.DB.Model(&models.Referral{}).
		Joins("JOIN campaigns ON campaigns.id = referrals.campaign_id").
		Where("campaigns.business_id = ?", business.ID).
		Count(&totalReferrals)

	var rewardsIssued int64
	database.DB.Model(&models.Reward{}).
		Joins("JOIN campaigns ON campaigns.id = rewards.campaign_id").
		Where("campaigns.business_id = ?", business.ID).
		Count(&rewardsIssued)

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"totalCampaigns":  totalCampaigns,
		"activeCampaigns": activeCampaigns,
		"totalReferrals":  totalReferrals,
		"rewardsIssued":   rewardsIssued,
	}})
}
