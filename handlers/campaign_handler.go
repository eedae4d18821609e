package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kevmuri/referral_rewards/database"
	"github.com/kevmuri/referral_rewards/middleware"
	"github.com/kevmuri/referral_rewards/models"
)

const activeCampaignsLimit = 10

type CampaignTaskRequest struct {
	Description      string `json:"description" validate:"required,max=500"`
	ValidationMethod string `json:"validationMethod" validate:"omitempty,oneof=auto manual"`
}

type CampaignRewardsRequest struct {
	ReferrerDiscount *float64 `json:"referrerDiscount" validate:"required,gte=0"`
	ReferredDiscount *float64 `json:"referredDiscount" validate:"required,gte=0"`
	DiscountType     string   `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
}

type CreateCampaignRequest struct {
	Name        string                 `json:"name" validate:"required,max=100"`
	Description string                 `json:"description" validate:"required,max=500"`
	Task        CampaignTaskRequest    `json:"task"`
	Rewards     CampaignRewardsRequest `json:"rewards"`
	Active      *bool                  `json:"active"`
}

type UpdateCampaignRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,max=100"`
	Description *string                 `json:"description" validate:"omitempty,max=500"`
	Task        *CampaignTaskRequest    `json:"task"`
	Rewards     *CampaignRewardsRequest `json:"rewards"`
	Active      *bool                   `json:"active"`
}

// ActiveCampaignResponse is the field-limited shape for the public
// listing: no owning business, no task details.
type ActiveCampaignResponse struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Rewards     models.CampaignRewards `json:"rewards"`
}

// PublicCampaignResponse strips only the owning business id.
type PublicCampaignResponse struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Task        models.CampaignTask    `json:"task"`
	Rewards     models.CampaignRewards `json:"rewards"`
	Active      bool                   `json:"active"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func CreateCampaign(c *fiber.Ctx) error {
	business := middleware.BusinessFromContext(c)

	var req CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	validationMethod := req.Task.ValidationMethod
	if validationMethod == "" {
		validationMethod = models.ValidationManual
	}
	discountType := req.Rewards.DiscountType
	if discountType == "" {
		discountType = models.DiscountPercentage
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	// The owner is always the authenticated business, never caller input.
	campaign := models.Campaign{
		BusinessID:  business.ID,
		Name:        req.Name,
		Description: req.Description,
		Task: models.CampaignTask{
			Description:      req.Task.Description,
			ValidationMethod: validationMethod,
		},
		Rewards: models.CampaignRewards{
			ReferrerDiscount: *req.Rewards.ReferrerDiscount,
			ReferredDiscount: *req.Rewards.ReferredDiscount,
			DiscountType:     discountType,
		},
		Active: active,
	}

	if err := database.DB.Create(&campaign).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create campaign"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": campaign})
}

func ListCampaigns(c *fiber.Ctx) error {
	business := middleware.BusinessFromContext(c)

	var campaigns []models.Campaign
	if err := database.DB.Where("business_id = ?", business.ID).Find(&campaigns).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch campaigns"})
	}

	return c.JSON(fiber.Map{"success": true, "data": campaigns})
}

func GetCampaign(c *fiber.Ctx) error {
	business := middleware.BusinessFromContext(c)
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid campaign ID format"})
	}

	var campaign models.Campaign
	if err := database.DB.Where("id = ? AND business_id = ?", campaignID, business.ID).First(&campaign).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Campaign not found"})
	}

	return c.JSON(fiber.Map{"success": true, "data": campaign})
}

func UpdateCampaign(c *fiber.Ctx) error {
	business := middleware.BusinessFromContext(c)
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid campaign ID format"})
	}

	var campaign models.Campaign
	if err := database.DB.Where("id = ? AND business_id = ?", campaignID, business.ID).First(&campaign).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Campaign not found"})
	}

	var req UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Task != nil {
		campaign.Task.Description = req.Task.Description
		if req.Task.ValidationMethod != "" {
			campaign.Task.ValidationMethod = req.Task.ValidationMethod
		}
	}
	if req.Rewards != nil {
		campaign.Rewards.ReferrerDiscount = *req.Rewards.ReferrerDiscount
		campaign.Rewards.ReferredDiscount = *req.Rewards.ReferredDiscount
		if req.Rewards.DiscountType != "" {
			campaign.Rewards.DiscountType = req.Rewards.DiscountType
		}
	}
	if req.Active != nil {
		campaign.Active = *req.Active
	}

	if err := database.DB.Save(&campaign).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update campaign"})
	}

	return c.JSON(fiber.Map{"success": true, "data": campaign})
}

func DeleteCampaign(c *fiber.Ctx) error {
	business := middleware.BusinessFromContext(c)
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid campaign ID format"})
	}

	result := database.DB.Where("id = ? AND business_id = ?", campaignID, business.ID).Delete(&models.Campaign{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete campaign"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Campaign not found"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func ListActiveCampaigns(c *fiber.Ctx) error {
	var campaigns []models.Campaign
	if err := database.DB.Where("active = ?", true).Limit(activeCampaignsLimit).Find(&campaigns).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch campaigns"})
	}

	responses := make([]ActiveCampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		responses = append(responses, ActiveCampaignResponse{
			ID:          campaign.ID,
			Name:        campaign.Name,
			Description: campaign.Description,
			Rewards:     campaign.Rewards,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": responses})
}

func GetPublicCampaign(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid campaign ID format"})
	}

	var campaign models.Campaign
	if err := database.DB.Where("id = ? AND active = ?", campaignID, true).First(&campaign).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Campaign not found or inactive"})
	}

	return c.JSON(fiber.Map{"success": true, "data": PublicCampaignResponse{
		ID:          campaign.ID,
		Name:        campaign.Name,
		Description: campaign.Description,
		Task:        campaign.Task,
		Rewards:     campaign.Rewards,
		Active:      campaign.Active,
		CreatedAt:   campaign.CreatedAt,
	}})
}
