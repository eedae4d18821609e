package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kevmuri/referral_rewards/models"
	"github.com/kevmuri/referral_rewards/notifications"
	"github.com/kevmuri/referral_rewards/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidReferralCode  = errors.New("invalid referral code")
	ErrCampaignNotFound     = errors.New("campaign not found or inactive")
	ErrSelfReferral         = errors.New("cannot refer yourself")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)

type GenerateLinkInput struct {
	Email      string
	Name       string
	CampaignID uuid.UUID
}

type GenerateLinkResult struct {
	ReferralURL  string
	ReferralCode string
}

type CompleteReferralInput struct {
	ReferralCode string
	CampaignID   uuid.UUID
	Email        string
	Name         string
}

type CompletionReward struct {
	DiscountCode   string
	DiscountAmount float64
	DiscountType   string
}

func findOrCreateUser(tx *gorm.DB, email, name string, referredBy *uuid.UUID) (*models.User, bool, error) {
	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	code, err := utils.GenerateUniqueReferralCode(tx)
	if err != nil {
		return nil, false, err
	}
	user = models.User{
		Email:        email,
		Name:         name,
		ReferralCode: code,
		ReferredByID: referredBy,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

// GenerateReferralLink resolves the campaign, finds or creates the user
// behind the email, and composes the shareable URL. Repeat calls for the
// same email hand back the same code.
func GenerateReferralLink(db *gorm.DB, baseURL string, input GenerateLinkInput) (*GenerateLinkResult, error) {
	var campaign models.Campaign
	if err := db.Where("id = ? AND active = ?", input.CampaignID, true).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	user, _, err := findOrCreateUser(db, input.Email, input.Name, nil)
	if err != nil {
		return nil, err
	}

	return &GenerateLinkResult{
		ReferralURL:  fmt.Sprintf("%s/refer/%s/%s", baseURL, user.ReferralCode, input.CampaignID),
		ReferralCode: user.ReferralCode,
	}, nil
}

// CompleteReferral runs the whole completion workflow in one transaction:
// resolve referrer and campaign, find or create the referred user, record
// the completed task, issue both discount codes, and advance the ledger
// entry to rewarded. A failure anywhere rolls the sequence back, and the
// ledger's (campaign, referred) unique index turns a concurrent duplicate
// submission into a deterministic conflict.
func CompleteReferral(db *gorm.DB, input CompleteReferralInput) (*CompletionReward, error) {
	var reward CompletionReward
	var referrer models.User
	var campaign models.Campaign

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("referral_code = ?", input.ReferralCode).First(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReferralCode
			}
			return err
		}

		if err := tx.Where("id = ? AND active = ?", input.CampaignID, true).First(&campaign).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}

		referred, _, err := findOrCreateUser(tx, input.Email, input.Name, &referrer.ID)
		if err != nil {
			return err
		}
		if referred.ID == referrer.ID {
			return ErrSelfReferral
		}

		var completed int64
		if err := tx.Model(&models.CompletedTask{}).
			Where("user_id = ? AND campaign_id = ?", referred.ID, campaign.ID).
			Count(&completed).Error; err != nil {
			return err
		}
		if completed > 0 {
			return ErrTaskAlreadyCompleted
		}

		now := time.Now()

		var referral models.Referral
		err = tx.Where("campaign_id = ? AND referrer_id = ? AND referred_id = ?",
			campaign.ID, referrer.ID, referred.ID).First(&referral).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			referral = models.Referral{
				CampaignID:  campaign.ID,
				ReferrerID:  referrer.ID,
				ReferredID:  &referred.ID,
				Status:      models.ReferralCompleted,
				CompletedAt: &now,
			}
			if err := tx.Create(&referral).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrTaskAlreadyCompleted
				}
				return err
			}
		case err != nil:
			return err
		default:
			// Replays re-stamp the completion time but never move the
			// status backward.
			referral.Advance(models.ReferralCompleted)
			referral.CompletedAt = &now
			if err := tx.Save(&referral).Error; err != nil {
				return err
			}
		}

		task := models.CompletedTask{
			UserID:      referred.ID,
			CampaignID:  campaign.ID,
			CompletedAt: now,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		referredCode, err := utils.GenerateDiscountCode()
		if err != nil {
			return err
		}
		referredReward := models.Reward{
			UserID:       referred.ID,
			CampaignID:   campaign.ID,
			DiscountCode: referredCode,
			Amount:       campaign.Rewards.ReferredDiscount,
			DiscountType: campaign.Rewards.DiscountType,
		}
		if err := tx.Create(&referredReward).Error; err != nil {
			return err
		}

		referrerCode, err := utils.GenerateDiscountCode()
		if err != nil {
			return err
		}
		referrerReward := models.Reward{
			UserID:       referrer.ID,
			CampaignID:   campaign.ID,
			DiscountCode: referrerCode,
			Amount:       campaign.Rewards.ReferrerDiscount,
			DiscountType: campaign.Rewards.DiscountType,
		}
		if err := tx.Create(&referrerReward).Error; err != nil {
			return err
		}

		referral.Advance(models.ReferralRewarded)
		if err := tx.Save(&referral).Error; err != nil {
			return err
		}

		reward = CompletionReward{
			DiscountCode:   referredCode,
			DiscountAmount: campaign.Rewards.ReferredDiscount,
			DiscountType:   campaign.Rewards.DiscountType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go notifications.SendEmail(
		referrer.Name,
		referrer.Email,
		"You've Earned a Referral Reward!",
		fmt.Sprintf("<h1>Congratulations!</h1><p>Someone completed the %q task through your link. A discount code is waiting in your rewards.</p>", campaign.Name),
	)

	return &reward, nil
}
