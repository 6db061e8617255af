package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MealPlan struct {
	ID             string         `gorm:"primaryKey;type:text" json:"id"`
	DieticianID    string         `gorm:"type:text;index;not null" json:"dieticianId"` // account id
	Title          string         `gorm:"type:text;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	CaloriesPerDay int            `json:"caloriesPerDay"`
	Meals          datatypes.JSON `gorm:"type:jsonb" json:"meals"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (m *MealPlan) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

type MealPlanAssignment struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	MealPlanID string    `gorm:"type:text;not null;uniqueIndex:idx_meal_plan_client" json:"mealPlanId"`
	ClientID   string    `gorm:"type:text;not null;uniqueIndex:idx_meal_plan_client;index" json:"clientId"`
	AssignedBy string    `gorm:"type:text;not null" json:"assignedBy"`
	AssignedAt time.Time `json:"assignedAt"`

	MealPlan MealPlan `gorm:"foreignKey:MealPlanID" json:"mealPlan,omitempty"`
}

func (a *MealPlanAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
