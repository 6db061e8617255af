package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want Streak
	}{
		{"no logs", nil, Streak{}},
		{"today only", []string{"2025-06-10"}, Streak{Current: 1, Longest: 1, TotalDays: 1}},
		{"ends yesterday", []string{"2025-06-08", "2025-06-09"}, Streak{Current: 2, Longest: 2, TotalDays: 2}},
		{"broken", []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-07"}, Streak{Current: 0, Longest: 3, TotalDays: 4}},
		{"unsorted with duplicates", []string{"2025-06-10", "2025-06-09", "2025-06-10", "bad"}, Streak{Current: 2, Longest: 2, TotalDays: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeStreak(tt.days, now))
		})
	}
}

func TestWorkoutFlow(t *testing.T) {
	db := testutil.MustOpen(t)
	notifier := newRecordingNotifier()
	svc := NewPlanService(db, NewNotificationService(db, notifier))
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	instructor, _ := testutil.CreateInstructor(t, db, "abe")
	client, _ := testutil.CreateClient(t, db, "bea")
	instructorRC := reqctx.New(instructor.ID, instructor.Role, "")
	clientRC := reqctx.New(client.ID, client.Role, "")

	w, err := svc.CreateWorkout(ctx, instructorRC, WorkoutInput{
		Title:     "Leg day",
		Exercises: json.RawMessage(`[{"name":"squat","sets":5}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyBeginner, w.Difficulty)

	_, err = svc.LogWorkout(ctx, clientRC, w.ID, "", "")
	assert.ErrorIs(t, err, ErrNotAssigned)

	_, err = svc.AssignWorkout(ctx, instructorRC, w.ID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count(client.ID))

	_, err = svc.AssignWorkout(ctx, instructorRC, w.ID, client.ID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	assigned, err := svc.ListWorkouts(ctx, clientRC)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, w.ID, assigned[0].ID)

	_, err = svc.LogWorkout(ctx, clientRC, w.ID, "2025-06-09", "")
	require.NoError(t, err)
	_, err = svc.LogWorkout(ctx, clientRC, w.ID, "", "felt great")
	require.NoError(t, err)
	_, err = svc.LogWorkout(ctx, clientRC, w.ID, "2025-06-10", "")
	assert.ErrorIs(t, err, ErrAlreadyLogged)
	_, err = svc.LogWorkout(ctx, clientRC, w.ID, "10/06/2025", "")
	assert.Error(t, err)

	streak, err := svc.Streak(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, Streak{Current: 2, Longest: 2, TotalDays: 2}, streak)
}

func TestAssign_OnlyOwnPlansToClients(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewPlanService(db, NewNotificationService(db, nil))
	ctx := context.Background()

	owner, _ := testutil.CreateDietician(t, db, "cleo")
	other, _ := testutil.CreateDietician(t, db, "cruz")
	client, _ := testutil.CreateClient(t, db, "cole")

	plan, err := svc.CreateMealPlan(ctx, reqctx.New(owner.ID, owner.Role, ""), MealPlanInput{Title: "Low carb", CaloriesPerDay: 1800})
	require.NoError(t, err)

	_, err = svc.AssignMealPlan(ctx, reqctx.New(other.ID, other.Role, ""), plan.ID, client.ID)
	assert.Error(t, err)

	_, err = svc.AssignMealPlan(ctx, reqctx.New(owner.ID, owner.Role, ""), plan.ID, other.ID)
	assert.Error(t, err, "dieticians are not clients")

	_, err = svc.AssignMealPlan(ctx, reqctx.New(owner.ID, owner.Role, ""), plan.ID, client.ID)
	require.NoError(t, err)

	plans, err := svc.ListMealPlans(ctx, reqctx.New(client.ID, client.Role, ""))
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Low carb", plans[0].Title)
}
