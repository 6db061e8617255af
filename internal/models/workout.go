package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type Workout struct {
	ID              string         `gorm:"primaryKey;type:text" json:"id"`
	InstructorID    string         `gorm:"type:text;index;not null" json:"instructorId"` // account id
	Title           string         `gorm:"type:text;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Difficulty      Difficulty     `gorm:"type:text;default:'beginner'" json:"difficulty"`
	DurationMinutes int            `json:"durationMinutes"`
	Exercises       datatypes.JSON `gorm:"type:jsonb" json:"exercises"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

type WorkoutAssignment struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	WorkoutID  string    `gorm:"type:text;not null;uniqueIndex:idx_workout_client" json:"workoutId"`
	ClientID   string    `gorm:"type:text;not null;uniqueIndex:idx_workout_client;index" json:"clientId"` // account id
	AssignedBy string    `gorm:"type:text;not null" json:"assignedBy"`
	AssignedAt time.Time `json:"assignedAt"`

	Workout Workout `gorm:"foreignKey:WorkoutID" json:"workout,omitempty"`
}

func (a *WorkoutAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// WorkoutLog records a client completing a workout on a calendar day.
type WorkoutLog struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	ClientID  string    `gorm:"type:text;not null;uniqueIndex:idx_workout_log_day" json:"clientId"`
	WorkoutID string    `gorm:"type:text;not null;uniqueIndex:idx_workout_log_day" json:"workoutId"`
	LoggedOn  string    `gorm:"type:text;not null;uniqueIndex:idx_workout_log_day" json:"loggedOn"` // YYYY-MM-DD
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *WorkoutLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}
