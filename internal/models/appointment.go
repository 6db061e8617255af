package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentKind string

const (
	AppointmentSession      AppointmentKind = "session"      // client + instructor
	AppointmentConsultation AppointmentKind = "consultation" // client + dietician
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Terminal statuses accept no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCancelled || s == AppointmentCompleted
}

type Appointment struct {
	ID              string            `gorm:"primaryKey;type:text" json:"id"`
	Kind            AppointmentKind   `gorm:"type:text;not null" json:"kind"`
	ClientID        string            `gorm:"type:text;index;not null" json:"clientId"`       // account id
	ProfessionalID  string            `gorm:"type:text;index;not null" json:"professionalId"` // account id
	ScheduledAt     time.Time         `gorm:"index;not null" json:"scheduledAt"`
	DurationMinutes int               `gorm:"default:60" json:"durationMinutes"`
	Status          AppointmentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	Client       User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Professional User `gorm:"foreignKey:ProfessionalID" json:"professional,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
