package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleInstructor Role = "instructor"
	RoleDietician  Role = "dietician"
	RoleAdmin      Role = "admin"
)

// IsProfessional reports whether the role can own the professional slot of
// a conversation.
func (r Role) IsProfessional() bool {
	return r == RoleInstructor || r == RoleDietician
}

// SelfRegistrable roles may be chosen at sign-up. Admins are promoted.
func (r Role) SelfRegistrable() bool {
	return r == RoleClient || r.IsProfessional()
}

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `gorm:"type:text;not null" json:"name"`
	Email     string `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Phone     string `gorm:"type:text" json:"phone"`
	AvatarURL string `gorm:"type:text" json:"avatarUrl"`
	Password  string `gorm:"type:text;not null" json:"-"`

	Role             Role `gorm:"type:text;index;not null;default:'client'" json:"role"`
	ProfileCompleted bool `gorm:"default:false" json:"profileCompleted"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
