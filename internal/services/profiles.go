package services

import (
	"context"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrWrongRole = apperrors.Forbidden("This profile does not match your role")

type ClientProfileInput struct {
	Age                int      `json:"age" binding:"required,min=1,max=120"`
	Gender             string   `json:"gender"`
	WeightKg           float64  `json:"weightKg"`
	HeightCm           float64  `json:"heightCm"`
	Goal               string   `json:"goal" binding:"required"`
	ActivityLevel      string   `json:"activityLevel"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	HealthConditions   []string `json:"healthConditions"`
	Location           string   `json:"location"`
	Budget             float64  `json:"budget"`
}

type InstructorProfileInput struct {
	Specializations []string        `json:"specializations" binding:"required,min=1"`
	Certifications  []string        `json:"certifications"`
	YearsExperience int             `json:"yearsExperience"`
	Bio             string          `json:"bio"`
	Location        string          `json:"location"`
	HourlyRate      float64         `json:"hourlyRate"`
	CoachingMode    string          `json:"coachingMode"`
	Availability    json.RawMessage `json:"availability"`
}

type DieticianProfileInput struct {
	Specializations []string `json:"specializations" binding:"required,min=1"`
	Certifications  []string `json:"certifications"`
	YearsExperience int      `json:"yearsExperience"`
	Bio             string   `json:"bio"`
	Location        string   `json:"location"`
	ConsultationFee float64  `json:"consultationFee"`
	ClinicName      string   `json:"clinicName"`
}

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// saveProfile upserts the role profile and flags the account complete in
// one transaction.
func (s *ProfileService) saveProfile(ctx context.Context, userID string, profile interface{}, columns map[string]interface{}) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(profile).Where("user_id = ?", userID).Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("profile_completed", true).Error
	})
}

func (s *ProfileService) SaveClient(ctx context.Context, rc reqctx.Context, in ClientProfileInput) (*models.Client, error) {
	if !rc.Is(models.RoleClient) {
		return nil, ErrWrongRole
	}
	profile := &models.Client{
		UserID:             rc.UserID,
		Age:                in.Age,
		Gender:             in.Gender,
		WeightKg:           in.WeightKg,
		HeightCm:           in.HeightCm,
		Goal:               in.Goal,
		ActivityLevel:      in.ActivityLevel,
		DietaryPreferences: pq.StringArray(in.DietaryPreferences),
		HealthConditions:   pq.StringArray(in.HealthConditions),
		Location:           in.Location,
		Budget:             in.Budget,
	}
	columns := map[string]interface{}{
		"age":                 in.Age,
		"gender":              in.Gender,
		"weight_kg":           in.WeightKg,
		"height_cm":           in.HeightCm,
		"goal":                in.Goal,
		"activity_level":      in.ActivityLevel,
		"dietary_preferences": pq.StringArray(in.DietaryPreferences),
		"health_conditions":   pq.StringArray(in.HealthConditions),
		"location":            in.Location,
		"budget":              in.Budget,
	}
	if err := s.saveProfile(ctx, rc.UserID, profile, columns); err != nil {
		return nil, apperrors.FromDB(err, "client profile")
	}

	var saved models.Client
	if err := s.db.WithContext(ctx).Where("user_id = ?", rc.UserID).First(&saved).Error; err != nil {
		return nil, apperrors.FromDB(err, "client profile")
	}
	return &saved, nil
}

func (s *ProfileService) SaveInstructor(ctx context.Context, rc reqctx.Context, in InstructorProfileInput) (*models.Instructor, error) {
	if !rc.Is(models.RoleInstructor) {
		return nil, ErrWrongRole
	}
	availability := datatypes.JSON(in.Availability)
	if len(availability) == 0 {
		availability = datatypes.JSON("{}")
	}
	profile := &models.Instructor{
		UserID:          rc.UserID,
		Specializations: pq.StringArray(in.Specializations),
		Certifications:  pq.StringArray(in.Certifications),
		YearsExperience: in.YearsExperience,
		Bio:             in.Bio,
		Location:        in.Location,
		HourlyRate:      in.HourlyRate,
		CoachingMode:    in.CoachingMode,
		Availability:    availability,
	}
	columns := map[string]interface{}{
		"specializations":  pq.StringArray(in.Specializations),
		"certifications":   pq.StringArray(in.Certifications),
		"years_experience": in.YearsExperience,
		"bio":              in.Bio,
		"location":         in.Location,
		"hourly_rate":      in.HourlyRate,
		"coaching_mode":    in.CoachingMode,
		"availability":     availability,
	}
	if err := s.saveProfile(ctx, rc.UserID, profile, columns); err != nil {
		return nil, apperrors.FromDB(err, "instructor profile")
	}

	var saved models.Instructor
	if err := s.db.WithContext(ctx).Where("user_id = ?", rc.UserID).First(&saved).Error; err != nil {
		return nil, apperrors.FromDB(err, "instructor profile")
	}
	return &saved, nil
}

func (s *ProfileService) SaveDietician(ctx context.Context, rc reqctx.Context, in DieticianProfileInput) (*models.Dietician, error) {
	if !rc.Is(models.RoleDietician) {
		return nil, ErrWrongRole
	}
	profile := &models.Dietician{
		UserID:          rc.UserID,
		Specializations: pq.StringArray(in.Specializations),
		Certifications:  pq.StringArray(in.Certifications),
		YearsExperience: in.YearsExperience,
		Bio:             in.Bio,
		Location:        in.Location,
		ConsultationFee: in.ConsultationFee,
		ClinicName:      in.ClinicName,
	}
	columns := map[string]interface{}{
		"specializations":  pq.StringArray(in.Specializations),
		"certifications":   pq.StringArray(in.Certifications),
		"years_experience": in.YearsExperience,
		"bio":              in.Bio,
		"location":         in.Location,
		"consultation_fee": in.ConsultationFee,
		"clinic_name":      in.ClinicName,
	}
	if err := s.saveProfile(ctx, rc.UserID, profile, columns); err != nil {
		return nil, apperrors.FromDB(err, "dietician profile")
	}

	var saved models.Dietician
	if err := s.db.WithContext(ctx).Where("user_id = ?", rc.UserID).First(&saved).Error; err != nil {
		return nil, apperrors.FromDB(err, "dietician profile")
	}
	return &saved, nil
}

// Mine returns the caller's role profile, or 404 if it was never completed.
func (s *ProfileService) Mine(ctx context.Context, rc reqctx.Context) (interface{}, error) {
	var profile interface{}
	switch rc.Role {
	case models.RoleClient:
		profile = &models.Client{}
	case models.RoleInstructor:
		profile = &models.Instructor{}
	case models.RoleDietician:
		profile = &models.Dietician{}
	default:
		return nil, apperrors.NotFound("No profile for this role")
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", rc.UserID).First(profile).Error; err != nil {
		return nil, apperrors.FromDB(err, "profile")
	}
	return profile, nil
}

// ListInstructors returns instructors with completed accounts, optionally
// filtered to one specialization.
func (s *ProfileService) ListInstructors(ctx context.Context, specialization string) ([]models.Instructor, error) {
	var all []models.Instructor
	err := s.db.WithContext(ctx).
		Joins("JOIN users ON users.id = instructors.user_id AND users.deleted_at IS NULL").
		Where("users.profile_completed = ?", true).
		Preload("User").
		Order("instructors.years_experience desc").
		Find(&all).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "instructor")
	}
	out := make([]models.Instructor, 0, len(all))
	for _, in := range all {
		if specialization == "" || containsFold(in.Specializations, specialization) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *ProfileService) ListDieticians(ctx context.Context, specialization string) ([]models.Dietician, error) {
	var all []models.Dietician
	err := s.db.WithContext(ctx).
		Joins("JOIN users ON users.id = dieticians.user_id AND users.deleted_at IS NULL").
		Where("users.profile_completed = ?", true).
		Preload("User").
		Order("dieticians.years_experience desc").
		Find(&all).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "dietician")
	}
	out := make([]models.Dietician, 0, len(all))
	for _, d := range all {
		if specialization == "" || containsFold(d.Specializations, specialization) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *ProfileService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at desc").Find(&clients).Error; err != nil {
		return nil, apperrors.FromDB(err, "client")
	}
	return clients, nil
}
