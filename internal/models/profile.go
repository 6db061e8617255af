package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role profiles are separate rows with their own ids. Some tables reference
// the profile id, others the account id; see Conversation.

type Client struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"type:text;uniqueIndex;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Age                int            `json:"age"`
	Gender             string         `gorm:"type:text" json:"gender"`
	WeightKg           float64        `json:"weightKg"`
	HeightCm           float64        `json:"heightCm"`
	Goal               string         `gorm:"type:text" json:"goal"`
	ActivityLevel      string         `gorm:"type:text" json:"activityLevel"`
	DietaryPreferences pq.StringArray `gorm:"type:text[]" json:"dietaryPreferences"`
	HealthConditions   pq.StringArray `gorm:"type:text[]" json:"healthConditions"`
	Location           string         `gorm:"type:text" json:"location"`
	Budget             float64        `json:"budget"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

type Instructor struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"type:text;uniqueIndex;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Specializations pq.StringArray `gorm:"type:text[]" json:"specializations"`
	Certifications  pq.StringArray `gorm:"type:text[]" json:"certifications"`
	YearsExperience int            `json:"yearsExperience"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Location        string         `gorm:"type:text" json:"location"`
	HourlyRate      float64        `json:"hourlyRate"`
	CoachingMode    string         `gorm:"type:text" json:"coachingMode"` // online, in-person, hybrid
	Availability    datatypes.JSON `gorm:"type:jsonb" json:"availability"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (i *Instructor) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}

type Dietician struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"type:text;uniqueIndex;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Specializations pq.StringArray `gorm:"type:text[]" json:"specializations"`
	Certifications  pq.StringArray `gorm:"type:text[]" json:"certifications"`
	YearsExperience int            `json:"yearsExperience"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Location        string         `gorm:"type:text" json:"location"`
	ConsultationFee float64        `json:"consultationFee"`
	ClinicName      string         `gorm:"type:text" json:"clinicName"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (d *Dietician) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}
