package jobs

import (
	"log"

	"github.com/kevmuri/referral_rewards/database"
	"github.com/kevmuri/referral_rewards/models"
)

// LogDailyStats writes a one-line platform summary to the log. Visibility
// only, no state changes.
func LogDailyStats() {
	log.Println("Running job: LogDailyStats...")

	var businesses, campaigns, referrals, rewards int64

	if err := database.DB.Model(&models.Business{}).Count(&businesses).Error; err != nil {
		log.Printf("Error collecting daily stats: %v", err)
		return
	}
	database.DB.Model(&models.Campaign{}).Count(&campaigns)
	database.DB.Model(&models.Referral{}).Count(&referrals)
	database.DB.Model(&models.Reward{}).Count(&rewards)

	log.Printf("Daily stats: %d businesses, %d campaigns, %d referrals, %d rewards issued.",
		businesses, campaigns, referrals, rewards)
}
