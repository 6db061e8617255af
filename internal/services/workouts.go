package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dayLayout = "2006-01-02"

var (
	ErrAlreadyAssigned = apperrors.BadRequest("Already assigned to this client")
	ErrAlreadyLogged   = apperrors.BadRequest("Workout already logged for this day")
	ErrNotAssigned     = apperrors.Forbidden("This workout is not assigned to you")
)

type WorkoutInput struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	Difficulty      models.Difficulty `json:"difficulty"`
	DurationMinutes int               `json:"durationMinutes" binding:"min=0"`
	Exercises       json.RawMessage   `json:"exercises"`
}

type MealPlanInput struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	CaloriesPerDay int             `json:"caloriesPerDay" binding:"min=0"`
	Meals          json.RawMessage `json:"meals"`
}

type Streak struct {
	Current   int `json:"current"`
	Longest   int `json:"longest"`
	TotalDays int `json:"totalDays"`
}

// PlanService covers instructor workouts and dietician meal plans.
type PlanService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewPlanService(db *gorm.DB, notifications *NotificationService) *PlanService {
	return &PlanService{db: db, notifications: notifications, now: time.Now}
}

func jsonOrEmpty(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

func (s *PlanService) CreateWorkout(ctx context.Context, rc reqctx.Context, in WorkoutInput) (*models.Workout, error) {
	difficulty := in.Difficulty
	switch difficulty {
	case "":
		difficulty = models.DifficultyBeginner
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		return nil, apperrors.BadRequest("Difficulty must be beginner, intermediate or advanced")
	}

	w := models.Workout{
		InstructorID:    rc.UserID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Difficulty:      difficulty,
		DurationMinutes: in.DurationMinutes,
		Exercises:       jsonOrEmpty(in.Exercises),
	}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, apperrors.FromDB(err, "workout")
	}
	return &w, nil
}

// ListWorkouts returns authored workouts for instructors and assigned ones
// for clients.
func (s *PlanService) ListWorkouts(ctx context.Context, rc reqctx.Context) ([]models.Workout, error) {
	workouts := []models.Workout{}
	q := s.db.WithContext(ctx).Order("workouts.created_at desc")
	if rc.Is(models.RoleClient) {
		q = q.Joins("JOIN workout_assignments ON workout_assignments.workout_id = workouts.id").
			Where("workout_assignments.client_id = ?", rc.UserID)
	} else {
		q = q.Where("workouts.instructor_id = ?", rc.UserID)
	}
	if err := q.Find(&workouts).Error; err != nil {
		return nil, apperrors.FromDB(err, "workout")
	}
	return workouts, nil
}

func (s *PlanService) AssignWorkout(ctx context.Context, rc reqctx.Context, workoutID, clientID string) (*models.WorkoutAssignment, error) {
	var w models.Workout
	if err := s.db.WithContext(ctx).Where("id = ?", workoutID).First(&w).Error; err != nil {
		return nil, apperrors.FromDB(err, "workout")
	}
	if w.InstructorID != rc.UserID {
		return nil, apperrors.Forbidden("You can only assign your own workouts")
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	a := models.WorkoutAssignment{
		WorkoutID:  w.ID,
		ClientID:   clientID,
		AssignedBy: rc.UserID,
		AssignedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrAlreadyAssigned
		}
		return nil, apperrors.FromDB(err, "workout assignment")
	}

	s.notifications.notify(ctx, clientID, models.NotificationTypeAssignment,
		"New workout assigned", fmt.Sprintf("You have a new workout: %s", w.Title))
	return &a, nil
}

// LogWorkout records a completed workout. date defaults to today and must
// be YYYY-MM-DD.
func (s *PlanService) LogWorkout(ctx context.Context, rc reqctx.Context, workoutID, date, notes string) (*models.WorkoutLog, error) {
	if date == "" {
		date = s.now().Format(dayLayout)
	}
	if _, err := time.Parse(dayLayout, date); err != nil {
		return nil, apperrors.BadRequest("date must be formatted YYYY-MM-DD")
	}

	var assigned int64
	if err := s.db.WithContext(ctx).Model(&models.WorkoutAssignment{}).
		Where("workout_id = ? AND client_id = ?", workoutID, rc.UserID).
		Count(&assigned).Error; err != nil {
		return nil, apperrors.FromDB(err, "workout assignment")
	}
	if assigned == 0 {
		return nil, ErrNotAssigned
	}

	l := models.WorkoutLog{ClientID: rc.UserID, WorkoutID: workoutID, LoggedOn: date, Notes: notes}
	if err := s.db.WithContext(ctx).Create(&l).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrAlreadyLogged
		}
		return nil, apperrors.FromDB(err, "workout log")
	}
	return &l, nil
}

func (s *PlanService) Streak(ctx context.Context, clientID string) (Streak, error) {
	var days []string
	if err := s.db.WithContext(ctx).Model(&models.WorkoutLog{}).
		Where("client_id = ?", clientID).
		Distinct("logged_on").
		Pluck("logged_on", &days).Error; err != nil {
		return Streak{}, apperrors.FromDB(err, "workout log")
	}
	return computeStreak(days, s.now()), nil
}

// computeStreak counts distinct log days. The current streak ends today or
// yesterday; anything older means it is broken.
func computeStreak(days []string, now time.Time) Streak {
	seen := make(map[string]struct{}, len(days))
	parsed := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(dayLayout, d)
		if err != nil {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return Streak{}
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	longest, run := 1, 1
	for i := 1; i < len(parsed); i++ {
		if parsed[i].Sub(parsed[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today, _ := time.Parse(dayLayout, now.Format(dayLayout))
	last := parsed[len(parsed)-1]
	current := 0
	if gap := today.Sub(last); gap == 0 || gap == 24*time.Hour {
		current = 1
		for i := len(parsed) - 1; i > 0; i-- {
			if parsed[i].Sub(parsed[i-1]) != 24*time.Hour {
				break
			}
			current++
		}
	}

	return Streak{Current: current, Longest: longest, TotalDays: len(parsed)}
}

func (s *PlanService) CreateMealPlan(ctx context.Context, rc reqctx.Context, in MealPlanInput) (*models.MealPlan, error) {
	m := models.MealPlan{
		DieticianID:    rc.UserID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		CaloriesPerDay: in.CaloriesPerDay,
		Meals:          jsonOrEmpty(in.Meals),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, apperrors.FromDB(err, "meal plan")
	}
	return &m, nil
}

func (s *PlanService) ListMealPlans(ctx context.Context, rc reqctx.Context) ([]models.MealPlan, error) {
	plans := []models.MealPlan{}
	q := s.db.WithContext(ctx).Order("meal_plans.created_at desc")
	if rc.Is(models.RoleClient) {
		q = q.Joins("JOIN meal_plan_assignments ON meal_plan_assignments.meal_plan_id = meal_plans.id").
			Where("meal_plan_assignments.client_id = ?", rc.UserID)
	} else {
		q = q.Where("meal_plans.dietician_id = ?", rc.UserID)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, apperrors.FromDB(err, "meal plan")
	}
	return plans, nil
}

func (s *PlanService) AssignMealPlan(ctx context.Context, rc reqctx.Context, planID, clientID string) (*models.MealPlanAssignment, error) {
	var m models.MealPlan
	if err := s.db.WithContext(ctx).Where("id = ?", planID).First(&m).Error; err != nil {
		return nil, apperrors.FromDB(err, "meal plan")
	}
	if m.DieticianID != rc.UserID {
		return nil, apperrors.Forbidden("You can only assign your own meal plans")
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	a := models.MealPlanAssignment{
		MealPlanID: m.ID,
		ClientID:   clientID,
		AssignedBy: rc.UserID,
		AssignedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrAlreadyAssigned
		}
		return nil, apperrors.FromDB(err, "meal plan assignment")
	}

	s.notifications.notify(ctx, clientID, models.NotificationTypeAssignment,
		"New meal plan assigned", fmt.Sprintf("You have a new meal plan: %s", m.Title))
	return &a, nil
}

func (s *PlanService) requireClient(ctx context.Context, clientID string) error {
	var client models.User
	if err := s.db.WithContext(ctx).Select("id", "role").Where("id = ?", clientID).Limit(1).Find(&client).Error; err != nil {
		return apperrors.FromDB(err, "client")
	}
	if client.ID == "" {
		return apperrors.NotFound("client not found")
	}
	if client.Role != models.RoleClient {
		return apperrors.BadRequest("Plans can only be assigned to clients")
	}
	return nil
}
