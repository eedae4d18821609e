package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a referral participant, created lazily the first time an email
// shows up in link generation or completion.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email        string     `gorm:"size:255;not null;unique" json:"email"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	ReferralCode string     `gorm:"size:10;not null;unique" json:"referralCode"`
	ReferredByID *uuid.UUID `gorm:"type:uuid" json:"referredBy,omitempty"`

	CompletedTasks []CompletedTask `gorm:"foreignkey:UserID" json:"completedTasks,omitempty"`
	Rewards        []Reward        `gorm:"foreignkey:UserID" json:"rewards,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type CompletedTask struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	CampaignID  uuid.UUID `gorm:"type:uuid;not null" json:"campaignId"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (t *CompletedTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
