package services

import (
	"context"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"gorm.io/gorm"
)

var ErrProfileIncomplete = apperrors.BadRequest("Complete your profile before requesting matches")

var (
	instructorRubric = Rubric{
		Subject: "fitness instructors",
		Categories: []RubricCategory{
			{Name: "goal fit", Weight: 35, Guidance: "specializations that serve the client's stated goal"},
			{Name: "health considerations", Weight: 20, Guidance: "experience with the client's health conditions"},
			{Name: "location and mode", Weight: 20, Guidance: "same location or a compatible coaching mode"},
			{Name: "budget", Weight: 15, Guidance: "hourly rate within the client's budget"},
			{Name: "experience", Weight: 10, Guidance: "years of experience and certifications"},
		},
		Threshold: 50,
	}

	dieticianRubric = Rubric{
		Subject: "dieticians",
		Categories: []RubricCategory{
			{Name: "dietary needs", Weight: 35, Guidance: "specializations covering the client's dietary preferences and goal"},
			{Name: "health conditions", Weight: 30, Guidance: "clinical experience with the client's health conditions"},
			{Name: "location", Weight: 15, Guidance: "same city or region"},
			{Name: "budget", Weight: 10, Guidance: "consultation fee within the client's budget"},
			{Name: "experience", Weight: 10, Guidance: "years of experience and certifications"},
		},
		Threshold: 50,
	}

	clientLeadRubric = Rubric{
		Subject: "prospective clients",
		Categories: []RubricCategory{
			{Name: "goal fit", Weight: 40, Guidance: "client goal served by the instructor's specializations"},
			{Name: "location", Weight: 25, Guidance: "client location reachable by the instructor"},
			{Name: "activity level", Weight: 20, Guidance: "client activity level suits the instructor's programs"},
			{Name: "budget", Weight: 15, Guidance: "client budget covers the hourly rate"},
		},
		Threshold:       40,
		EmptyOnFallback: true,
	}
)

// MatchService loads profiles and pools and hands them to the Matcher.
type MatchService struct {
	db      *gorm.DB
	matcher *Matcher
}

func NewMatchService(db *gorm.DB, matcher *Matcher) *MatchService {
	return &MatchService{db: db, matcher: matcher}
}

func (s *MatchService) InstructorsForClient(ctx context.Context, rc reqctx.Context) (MatchOutcome, error) {
	client, err := s.clientProfile(ctx, rc.UserID)
	if err != nil {
		return MatchOutcome{}, err
	}

	var instructors []models.Instructor
	if err := s.db.WithContext(ctx).Preload("User").Find(&instructors).Error; err != nil {
		return MatchOutcome{}, apperrors.FromDB(err, "instructor")
	}

	pool := make([]Candidate, 0, len(instructors))
	for _, in := range instructors {
		pool = append(pool, Candidate{
			ID:   in.UserID,
			Name: in.User.Name,
			Profile: map[string]interface{}{
				"specializations": in.Specializations,
				"certifications":  in.Certifications,
				"yearsExperience": in.YearsExperience,
				"location":        in.Location,
				"hourlyRate":      in.HourlyRate,
				"coachingMode":    in.CoachingMode,
				"bio":             in.Bio,
			},
		})
	}
	return s.matcher.Match(ctx, clientSummary(client), pool, instructorRubric), nil
}

func (s *MatchService) DieticiansForClient(ctx context.Context, rc reqctx.Context) (MatchOutcome, error) {
	client, err := s.clientProfile(ctx, rc.UserID)
	if err != nil {
		return MatchOutcome{}, err
	}

	var dieticians []models.Dietician
	if err := s.db.WithContext(ctx).Preload("User").Find(&dieticians).Error; err != nil {
		return MatchOutcome{}, apperrors.FromDB(err, "dietician")
	}

	pool := make([]Candidate, 0, len(dieticians))
	for _, d := range dieticians {
		pool = append(pool, Candidate{
			ID:   d.UserID,
			Name: d.User.Name,
			Profile: map[string]interface{}{
				"specializations": d.Specializations,
				"certifications":  d.Certifications,
				"yearsExperience": d.YearsExperience,
				"location":        d.Location,
				"consultationFee": d.ConsultationFee,
				"clinicName":      d.ClinicName,
			},
		})
	}
	return s.matcher.Match(ctx, clientSummary(client), pool, dieticianRubric), nil
}

func (s *MatchService) ClientsForInstructor(ctx context.Context, rc reqctx.Context) (MatchOutcome, error) {
	var instructor models.Instructor
	if err := s.db.WithContext(ctx).Where("user_id = ?", rc.UserID).Limit(1).Find(&instructor).Error; err != nil {
		return MatchOutcome{}, apperrors.FromDB(err, "instructor profile")
	}
	if instructor.ID == "" {
		return MatchOutcome{}, ErrProfileIncomplete
	}

	var clients []models.Client
	if err := s.db.WithContext(ctx).Preload("User").Find(&clients).Error; err != nil {
		return MatchOutcome{}, apperrors.FromDB(err, "client")
	}

	pool := make([]Candidate, 0, len(clients))
	for _, c := range clients {
		pool = append(pool, Candidate{ID: c.UserID, Name: c.User.Name, Profile: clientSummary(c)})
	}

	requester := map[string]interface{}{
		"specializations": instructor.Specializations,
		"location":        instructor.Location,
		"hourlyRate":      instructor.HourlyRate,
		"coachingMode":    instructor.CoachingMode,
		"yearsExperience": instructor.YearsExperience,
	}
	return s.matcher.Match(ctx, requester, pool, clientLeadRubric), nil
}

func (s *MatchService) clientProfile(ctx context.Context, userID string) (models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&client).Error; err != nil {
		return client, apperrors.FromDB(err, "client profile")
	}
	if client.ID == "" {
		return client, ErrProfileIncomplete
	}
	return client, nil
}

// clientSummary is the part of a client profile shared with the model.
// Contact details stay out of the prompt.
func clientSummary(c models.Client) map[string]interface{} {
	return map[string]interface{}{
		"age":                c.Age,
		"gender":             c.Gender,
		"goal":               c.Goal,
		"activityLevel":      c.ActivityLevel,
		"dietaryPreferences": c.DietaryPreferences,
		"healthConditions":   c.HealthConditions,
		"location":           c.Location,
		"budget":             c.Budget,
	}
}
