package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeReminder    NotificationType = "reminder"
	NotificationTypeAppointment NotificationType = "appointment"
	NotificationTypeAssignment  NotificationType = "assignment"
	NotificationTypeSystem      NotificationType = "system"
)

// Period is a daily reminder slot.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodNight     Period = "night"
)

var Periods = []Period{PeriodMorning, PeriodAfternoon, PeriodNight}

func ParsePeriod(s string) (Period, bool) {
	for _, p := range Periods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Notification rows. Reminders carry Period and ReminderDate and are unique
// per (user, period, date) through migration 002.
type Notification struct {
	ID           string           `gorm:"primaryKey;type:text" json:"id"`
	UserID       string           `gorm:"type:text;index;not null" json:"userId"`
	Type         NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title        string           `gorm:"type:text" json:"title"`
	Message      string           `gorm:"type:text" json:"message"`
	Period       *Period          `gorm:"type:text" json:"period,omitempty"`
	ReminderDate *string          `gorm:"type:text" json:"reminderDate,omitempty"` // YYYY-MM-DD
	IsRead       bool             `gorm:"default:false" json:"isRead"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return
}
