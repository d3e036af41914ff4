package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is one append-only entry in a user's activity feed.
type Activity struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"_id"`
	OwnerID     string    `gorm:"type:char(36);not null;index" json:"owner"`
	Type        string    `gorm:"size:64;not null" json:"type"`
	Description string    `gorm:"size:1024" json:"description"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name for Activity
func (Activity) TableName() string {
	return "activities"
}

// BeforeCreate assigns a uuid primary key when none is set.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
