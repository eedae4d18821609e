package services_test

import (
	"testing"
	"time"

	"github.com/kevmuri/referral_rewards/models"
	"github.com/kevmuri/referral_rewards/services"
	"github.com/kevmuri/referral_rewards/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Business{},
		&models.Campaign{},
		&models.User{},
		&models.CompletedTask{},
		&models.Reward{},
		&models.Referral{},
	))
	return db
}

func seedCampaign(t *testing.T, db *gorm.DB, active bool) models.Campaign {
	t.Helper()

	business := models.Business{Name: "Acme", Email: "acme@x.com", Password: "hash"}
	require.NoError(t, db.Create(&business).Error)

	campaign := models.Campaign{
		BusinessID:  business.ID,
		Name:        "Summer",
		Description: "Summer referral push",
		Task: models.CampaignTask{
			Description:      "Share post",
			ValidationMethod: models.ValidationManual,
		},
		Rewards: models.CampaignRewards{
			ReferrerDiscount: 10,
			ReferredDiscount: 5,
			DiscountType:     models.DiscountPercentage,
		},
		Active: active,
	}
	require.NoError(t, db.Create(&campaign).Error)
	return campaign
}

func seedUser(t *testing.T, db *gorm.DB, email, name string) models.User {
	t.Helper()

	code, err := utils.GenerateUniqueReferralCode(db)
	require.NoError(t, err)
	user := models.User{Email: email, Name: name, ReferralCode: code}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestGenerateReferralLink(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)

	result, err := services.GenerateReferralLink(db, "http://app.test", services.GenerateLinkInput{
		Email:      "alice@x.com",
		Name:       "Alice",
		CampaignID: campaign.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ReferralCode)
	assert.Equal(t, "http://app.test/refer/"+result.ReferralCode+"/"+campaign.ID.String(), result.ReferralURL)

	// Same email, same code.
	again, err := services.GenerateReferralLink(db, "http://app.test", services.GenerateLinkInput{
		Email:      "alice@x.com",
		Name:       "Alice",
		CampaignID: campaign.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, result.ReferralCode, again.ReferralCode)
}

func TestGenerateReferralLinkInactiveCampaign(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, false)

	_, err := services.GenerateReferralLink(db, "http://app.test", services.GenerateLinkInput{
		Email:      "alice@x.com",
		Name:       "Alice",
		CampaignID: campaign.ID,
	})
	assert.ErrorIs(t, err, services.ErrCampaignNotFound)

	// Rejected before the user is created.
	var count int64
	db.Model(&models.User{}).Where("email = ?", "alice@x.com").Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCompleteReferral(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)
	alice := seedUser(t, db, "alice@x.com", "Alice")

	reward, err := services.CompleteReferral(db, services.CompleteReferralInput{
		ReferralCode: alice.ReferralCode,
		CampaignID:   campaign.ID,
		Email:        "bob@x.com",
		Name:         "Bob",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reward.DiscountCode)
	assert.Equal(t, 5.0, reward.DiscountAmount)
	assert.Equal(t, models.DiscountPercentage, reward.DiscountType)

	var bob models.User
	require.NoError(t, db.Preload("CompletedTasks").Preload("Rewards").
		Where("email = ?", "bob@x.com").First(&bob).Error)
	require.NotNil(t, bob.ReferredByID)
	assert.Equal(t, alice.ID, *bob.ReferredByID)
	require.Len(t, bob.CompletedTasks, 1)
	assert.Equal(t, campaign.ID, bob.CompletedTasks[0].CampaignID)
	require.Len(t, bob.Rewards, 1)
	assert.Equal(t, 5.0, bob.Rewards[0].Amount)
	assert.Equal(t, reward.DiscountCode, bob.Rewards[0].DiscountCode)

	var aliceRewards []models.Reward
	require.NoError(t, db.Where("user_id = ?", alice.ID).Find(&aliceRewards).Error)
	require.Len(t, aliceRewards, 1)
	assert.Equal(t, 10.0, aliceRewards[0].Amount)
	assert.NotEqual(t, reward.DiscountCode, aliceRewards[0].DiscountCode)

	var referral models.Referral
	require.NoError(t, db.Where("campaign_id = ? AND referrer_id = ?", campaign.ID, alice.ID).First(&referral).Error)
	assert.Equal(t, models.ReferralRewarded, referral.Status)
	require.NotNil(t, referral.ReferredID)
	assert.Equal(t, bob.ID, *referral.ReferredID)
	assert.NotNil(t, referral.CompletedAt)
}

func TestCompleteReferralDuplicate(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)
	alice := seedUser(t, db, "alice@x.com", "Alice")

	input := services.CompleteReferralInput{
		ReferralCode: alice.ReferralCode,
		CampaignID:   campaign.ID,
		Email:        "bob@x.com",
		Name:         "Bob",
	}
	_, err := services.CompleteReferral(db, input)
	require.NoError(t, err)

	_, err = services.CompleteReferral(db, input)
	assert.ErrorIs(t, err, services.ErrTaskAlreadyCompleted)

	// No double-appended records.
	var tasks, rewards int64
	db.Model(&models.CompletedTask{}).Where("campaign_id = ?", campaign.ID).Count(&tasks)
	assert.EqualValues(t, 1, tasks)
	db.Model(&models.Reward{}).Where("campaign_id = ?", campaign.ID).Count(&rewards)
	assert.EqualValues(t, 2, rewards)
}

func TestCompleteReferralLedgerConflict(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)
	alice := seedUser(t, db, "alice@x.com", "Alice")
	carol := seedUser(t, db, "carol@x.com", "Carol")
	bob := seedUser(t, db, "bob@x.com", "Bob")

	// Another referrer already holds the (campaign, referred) slot in the
	// ledger, so bob has no completed-task row and the pre-check passes.
	// The unique index has to stop the completion instead.
	existing := models.Referral{
		CampaignID: campaign.ID,
		ReferrerID: carol.ID,
		ReferredID: &bob.ID,
		Status:     models.ReferralPending,
	}
	require.NoError(t, db.Create(&existing).Error)

	_, err := services.CompleteReferral(db, services.CompleteReferralInput{
		ReferralCode: alice.ReferralCode,
		CampaignID:   campaign.ID,
		Email:        bob.Email,
		Name:         bob.Name,
	})
	assert.ErrorIs(t, err, services.ErrTaskAlreadyCompleted)

	// The whole transaction rolls back: no rewards, no completed task,
	// and no second ledger entry for the pair.
	var tasks, rewards, referrals int64
	db.Model(&models.CompletedTask{}).Count(&tasks)
	db.Model(&models.Reward{}).Count(&rewards)
	db.Model(&models.Referral{}).Where("campaign_id = ? AND referred_id = ?", campaign.ID, bob.ID).Count(&referrals)
	assert.EqualValues(t, 0, tasks)
	assert.EqualValues(t, 0, rewards)
	assert.EqualValues(t, 1, referrals)

	var untouched models.Referral
	require.NoError(t, db.Where("id = ?", existing.ID).First(&untouched).Error)
	assert.Equal(t, models.ReferralPending, untouched.Status)
	assert.Equal(t, carol.ID, untouched.ReferrerID)
}

func TestCompleteReferralSelfReferral(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)
	alice := seedUser(t, db, "alice@x.com", "Alice")

	_, err := services.CompleteReferral(db, services.CompleteReferralInput{
		ReferralCode: alice.ReferralCode,
		CampaignID:   campaign.ID,
		Email:        alice.Email,
		Name:         alice.Name,
	})
	assert.ErrorIs(t, err, services.ErrSelfReferral)

	// Rejected before any mutation.
	var tasks, rewards, referrals int64
	db.Model(&models.CompletedTask{}).Count(&tasks)
	db.Model(&models.Reward{}).Count(&rewards)
	db.Model(&models.Referral{}).Count(&referrals)
	assert.EqualValues(t, 0, tasks)
	assert.EqualValues(t, 0, rewards)
	assert.EqualValues(t, 0, referrals)
}

func TestCompleteReferralUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)

	_, err := services.CompleteReferral(db, services.CompleteReferralInput{
		ReferralCode: "NOSUCHCD",
		CampaignID:   campaign.ID,
		Email:        "bob@x.com",
		Name:         "Bob",
	})
	assert.ErrorIs(t, err, services.ErrInvalidReferralCode)
}

func TestCompleteReferralInactiveCampaign(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, false)
	alice := seedUser(t, db, "alice@x.com", "Alice")

	_, err := services.CompleteReferral(db, services.CompleteReferralInput{
		ReferralCode: alice.ReferralCode,
		CampaignID:   campaign.ID,
		Email:        "bob@x.com",
		Name:         "Bob",
	})
	assert.ErrorIs(t, err, services.ErrCampaignNotFound)

	// The referred user is never created.
	var count int64
	db.Model(&models.User{}).Where("email = ?", "bob@x.com").Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCompleteReferralReplayNeverRegressesStatus(t *testing.T) {
	db := setupTestDB(t)
	campaign := seedCampaign(t, db, true)
	alice := seedUser(t, db, "alice@x.com", "Alice")
	bob := seedUser(t, db, "bob@x.com", "Bob")

	stale := time.Now().Add(-time.Hour)
	existing := models.Referral{
		CampaignID:  campaign.ID,
		ReferrerID:  alice.ID,
		ReferredID:  &bob.ID,
		Status:      models.ReferralRewarded,
		CompletedAt: &stale,
	}
	require.NoError(t, db.Create(&existing).Error)

	_, err := services.CompleteReferral(db, services.CompleteReferralInput{
		ReferralCode: alice.ReferralCode,
		CampaignID:   campaign.ID,
		Email:        bob.Email,
		Name:         bob.Name,
	})
	require.NoError(t, err)

	var referral models.Referral
	require.NoError(t, db.Where("id = ?", existing.ID).First(&referral).Error)
	assert.Equal(t, models.ReferralRewarded, referral.Status)
	require.NotNil(t, referral.CompletedAt)
	assert.True(t, referral.CompletedAt.After(stale), "completedAt is re-stamped on replay")
}
