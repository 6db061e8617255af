// Package seeds loads demo accounts for local development.
package seeds

import (
	"context"
	"fmt"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "Coach2025!"

type demoAccount struct {
	Name  string
	Email string
	Role  models.Role
}

var demoAccounts = []demoAccount{
	{Name: "Platform Admin", Email: "admin@lifestylecoach.dev", Role: models.RoleAdmin},
	{Name: "Amani Client", Email: "client@lifestylecoach.dev", Role: models.RoleClient},
	{Name: "Baraka Instructor", Email: "instructor@lifestylecoach.dev", Role: models.RoleInstructor},
	{Name: "Zawadi Dietician", Email: "dietician@lifestylecoach.dev", Role: models.RoleDietician},
}

// Summary reports what a seed run created.
type Summary struct {
	Created  int
	Existing int
}

// SeedDemo creates the demo accounts with completed profiles and opens a
// conversation between the client and both professionals. Running it again
// changes nothing.
func SeedDemo(ctx context.Context, db *gorm.DB) (Summary, error) {
	var sum Summary
	users := make(map[models.Role]models.User, len(demoAccounts))

	for _, acc := range demoAccounts {
		user, created, err := getOrCreateUser(ctx, db, acc)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Created++
		} else {
			sum.Existing++
		}
		users[acc.Role] = user
	}

	profiles := services.NewProfileService(db)
	client := users[models.RoleClient]
	instructor := users[models.RoleInstructor]
	dietician := users[models.RoleDietician]

	if _, err := profiles.SaveClient(ctx, asCaller(client), services.ClientProfileInput{
		Age:                31,
		Gender:             "female",
		WeightKg:           78,
		HeightCm:           165,
		Goal:               "Lose 6kg and run a 10k",
		ActivityLevel:      "light",
		DietaryPreferences: []string{"vegetarian"},
		Location:           "Nairobi",
		Budget:             3000,
	}); err != nil {
		return sum, fmt.Errorf("seed client profile: %w", err)
	}

	if _, err := profiles.SaveInstructor(ctx, asCaller(instructor), services.InstructorProfileInput{
		Specializations: []string{"weight loss", "running", "strength"},
		Certifications:  []string{"ACE CPT"},
		YearsExperience: 7,
		Bio:             "Endurance and strength coach.",
		Location:        "Nairobi",
		HourlyRate:      2500,
		CoachingMode:    "hybrid",
	}); err != nil {
		return sum, fmt.Errorf("seed instructor profile: %w", err)
	}

	if _, err := profiles.SaveDietician(ctx, asCaller(dietician), services.DieticianProfileInput{
		Specializations: []string{"weight management", "plant-based nutrition"},
		Certifications:  []string{"RD"},
		YearsExperience: 5,
		Location:        "Nairobi",
		ConsultationFee: 2000,
		ClinicName:      "Green Plate Clinic",
	}); err != nil {
		return sum, fmt.Errorf("seed dietician profile: %w", err)
	}

	conversations := services.NewConversationService(db)
	for _, pro := range []models.User{instructor, dietician} {
		if _, _, err := conversations.Resolve(ctx, asCaller(client), pro.ID); err != nil {
			return sum, fmt.Errorf("seed conversation with %s: %w", pro.Email, err)
		}
	}

	logger.Info().Int("created", sum.Created).Int("existing", sum.Existing).Msg("Demo accounts seeded")
	return sum, nil
}

func asCaller(u models.User) reqctx.Context {
	return reqctx.New(u.ID, u.Role, "seed")
}

func getOrCreateUser(ctx context.Context, db *gorm.DB, acc demoAccount) (models.User, bool, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", acc.Email).Limit(1).Find(&user).Error; err != nil {
		return user, false, err
	}
	if user.ID != "" {
		return user, false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return user, false, err
	}
	user = models.User{
		Name:     acc.Name,
		Email:    acc.Email,
		Password: string(hash),
		Role:     acc.Role,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return user, false, fmt.Errorf("create %s: %w", acc.Email, err)
	}
	return user, true, nil
}
