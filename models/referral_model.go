package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReferralPending   = "pending"
	ReferralCompleted = "completed"
	ReferralRewarded  = "rewarded"
)

var referralStatusRank = map[string]int{
	ReferralPending:   0,
	ReferralCompleted: 1,
	ReferralRewarded:  2,
}

// Referral is one ledger entry per (campaign, referrer, referred) triple.
// The unique index on (campaign_id, referred_id) makes a concurrent
// double completion fail as a duplicate key instead of double-issuing
// rewards.
type Referral struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CampaignID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_referrals_campaign_referred" json:"campaignId"`
	ReferrerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"referrerId"`
	ReferredID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_referrals_campaign_referred" json:"referredId"`
	Status     string     `gorm:"size:20;not null;default:'pending'" json:"status"`

	Referrer     User `gorm:"foreignkey:ReferrerID" json:"-"`
	ReferredUser User `gorm:"foreignkey:ReferredID" json:"-"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Advance moves the status forward. A later status never regresses, so
// replaying a completion against a rewarded entry leaves it rewarded.
func (r *Referral) Advance(status string) {
	if referralStatusRank[status] > referralStatusRank[r.Status] {
		r.Status = status
	}
}
