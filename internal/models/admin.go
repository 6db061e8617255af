package models

import "time"

// SystemSettings stores global configuration toggles
type SystemSettings struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedBy string    `gorm:"type:text" json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// System setting keys
const (
	SettingMaintenanceMode  = "maintenance_mode"
	SettingRegistrationOpen = "registration_open"
	SettingChatEnabled      = "chat_enabled"
	SettingMatchingEnabled  = "matching_enabled"
)

// DashboardMetrics is returned by the admin overview (not persisted)
type DashboardMetrics struct {
	TotalUsers          int64 `json:"totalUsers"`
	Clients             int64 `json:"clients"`
	Instructors         int64 `json:"instructors"`
	Dieticians          int64 `json:"dieticians"`
	IncompleteProfiles  int64 `json:"incompleteProfiles"`
	UpcomingAppointment int64 `json:"upcomingAppointments"`
	Conversations       int64 `json:"conversations"`
	MessagesToday       int64 `json:"messagesToday"`
}
