package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/kevmuri/referral_rewards/configs"
	"github.com/kevmuri/referral_rewards/database"
	"github.com/kevmuri/referral_rewards/services"
)

type GenerateReferralRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	CampaignID string `json:"campaignId" validate:"required,uuid"`
}

type CompleteReferralRequest struct {
	ReferralCode string `json:"referralCode" validate:"required"`
	CampaignID   string `json:"campaignId" validate:"required,uuid"`
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name" validate:"required"`
}

func referralErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidReferralCode),
		errors.Is(err, services.ErrCampaignNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrSelfReferral),
		errors.Is(err, services.ErrTaskAlreadyCompleted):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func GenerateReferralLink(c *fiber.Ctx) error {
	var req GenerateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid campaign ID format"})
	}

	baseURL := config.ConfigDefault("APP_URL", "http://localhost:8080")
	result, err := services.GenerateReferralLink(database.DB, baseURL, services.GenerateLinkInput{
		Email:      req.Email,
		Name:       req.Name,
		CampaignID: campaignID,
	})
	if err != nil {
		status := referralErrorStatus(err)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			message = "Failed to generate referral link"
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"referralUrl":  result.ReferralURL,
		"referralCode": result.ReferralCode,
	}})
}

func CompleteReferral(c *fiber.Ctx) error {
	var req CompleteReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid campaign ID format"})
	}

	reward, err := services.CompleteReferral(database.DB, services.CompleteReferralInput{
		ReferralCode: req.ReferralCode,
		CampaignID:   campaignID,
		Email:        req.Email,
		Name:         req.Name,
	})
	if err != nil {
		status := referralErrorStatus(err)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			message = "Failed to complete referral"
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"message":        "Referral completed successfully",
		"discountCode":   reward.DiscountCode,
		"discountAmount": reward.DiscountAmount,
		"discountType":   reward.DiscountType,
	}})
}
