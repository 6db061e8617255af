package testutil

import (
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"gorm.io/gorm"
)

// MustOpen opens a fresh database for t and closes it on cleanup.
func MustOpen(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role models.Role, name string) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func CreateClient(t testing.TB, db *gorm.DB, name string) (models.User, models.Client) {
	t.Helper()
	u := CreateUser(t, db, models.RoleClient, name)
	p := models.Client{UserID: u.ID, Goal: "lose weight", Age: 30}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create client profile: %v", err)
	}
	return u, p
}

func CreateInstructor(t testing.TB, db *gorm.DB, name string) (models.User, models.Instructor) {
	t.Helper()
	u := CreateUser(t, db, models.RoleInstructor, name)
	p := models.Instructor{UserID: u.ID, Specializations: []string{"strength"}, YearsExperience: 4}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create instructor profile: %v", err)
	}
	return u, p
}

func CreateDietician(t testing.TB, db *gorm.DB, name string) (models.User, models.Dietician) {
	t.Helper()
	u := CreateUser(t, db, models.RoleDietician, name)
	p := models.Dietician{UserID: u.ID, Specializations: []string{"diabetes"}, YearsExperience: 6}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create dietician profile: %v", err)
	}
	return u, p
}
