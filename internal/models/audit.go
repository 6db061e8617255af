package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionType string

const (
	ActionDeleteUser      ActionType = "DELETE_USER"
	ActionPromoteUser     ActionType = "PROMOTE_USER"
	ActionUpdateSetting   ActionType = "UPDATE_SETTING"
	ActionTriggerReminder ActionType = "TRIGGER_REMINDER"
)

// AdminAction is the audit trail of admin operations.
type AdminAction struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	AdminID    string     `gorm:"type:text;index" json:"adminId"`
	Action     ActionType `gorm:"type:text" json:"action"`
	TargetID   string     `gorm:"type:text" json:"targetId"`
	TargetType string     `gorm:"type:text" json:"targetType"` // "user", "setting", "reminder"
	Details    string     `gorm:"type:text" json:"details"`
	IPAddress  string     `gorm:"type:text" json:"ipAddress"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}

func (a *AdminAction) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
