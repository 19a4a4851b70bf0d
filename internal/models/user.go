package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id" yaml:"id"`
	Name                 string    `gorm:"not null;column:name" json:"name" yaml:"name"`
	Email                string    `gorm:"uniqueIndex;not null;column:email" json:"email" yaml:"email"`
	StripeCustomerID     *string   `gorm:"column:stripe_customer_id" json:"stripeCustomerId,omitempty" yaml:"stripeCustomerId,omitempty"`
	StripeSubscriptionID *string   `gorm:"column:stripe_subscription_id" json:"stripeSubscriptionId,omitempty" yaml:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time `gorm:"not null" json:"createdAt" yaml:"createdAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
