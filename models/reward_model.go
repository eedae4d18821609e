package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward is one discount code issued to a user for a campaign, either as
// the referred party or as the referrer.
type Reward struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	CampaignID   uuid.UUID `gorm:"type:uuid;not null" json:"campaignId"`
	DiscountCode string    `gorm:"size:20;not null" json:"discountCode"`
	Amount       float64   `gorm:"not null" json:"amount"`
	DiscountType string    `gorm:"size:20;not null" json:"discountType"`
	Used         bool      `gorm:"not null;default:false" json:"used"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
