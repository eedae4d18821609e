package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ValidationAuto   = "auto"
	ValidationManual = "manual"

	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type CampaignTask struct {
	Description      string `gorm:"size:500;not null" json:"description"`
	ValidationMethod string `gorm:"size:20;not null;default:'manual'" json:"validationMethod"`
}

type CampaignRewards struct {
	ReferrerDiscount float64 `gorm:"not null" json:"referrerDiscount"`
	ReferredDiscount float64 `gorm:"not null" json:"referredDiscount"`
	DiscountType     string  `gorm:"size:20;not null;default:'percentage'" json:"discountType"`
}

type Campaign struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"businessId"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Task        CampaignTask    `gorm:"embedded;embeddedPrefix:task_" json:"task"`
	Rewards     CampaignRewards `gorm:"embedded;embeddedPrefix:reward_" json:"rewards"`
	Active      bool            `gorm:"not null;default:true" json:"active"`

	Business Business `gorm:"foreignkey:BusinessID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
