package services

import (
	"context"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveClient_CreatesThenReplaces(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewProfileService(db)
	user := testutil.CreateUser(t, db, models.RoleClient, "vera")
	rc := reqctx.New(user.ID, user.Role, "")

	first, err := svc.SaveClient(context.Background(), rc, ClientProfileInput{
		Age:              28,
		Goal:             "run a marathon",
		HealthConditions: []string{"asthma"},
	})
	require.NoError(t, err)
	assert.Equal(t, "run a marathon", first.Goal)
	assert.Equal(t, []string{"asthma"}, []string(first.HealthConditions))

	second, err := svc.SaveClient(context.Background(), rc, ClientProfileInput{Age: 29, Goal: "build muscle"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 29, second.Age)

	var count int64
	db.Model(&models.Client{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.True(t, reloaded.ProfileCompleted)
}

func TestSaveProfile_RoleMustMatch(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewProfileService(db)
	user := testutil.CreateUser(t, db, models.RoleClient, "wes")

	_, err := svc.SaveInstructor(context.Background(), reqctx.New(user.ID, user.Role, ""), InstructorProfileInput{Specializations: []string{"yoga"}})
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestListInstructors_FiltersBySpecialization(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	yogi := testutil.CreateUser(t, db, models.RoleInstructor, "xena")
	lifter := testutil.CreateUser(t, db, models.RoleInstructor, "yuri")
	_, err := svc.SaveInstructor(ctx, reqctx.New(yogi.ID, yogi.Role, ""), InstructorProfileInput{Specializations: []string{"Yoga"}, YearsExperience: 3})
	require.NoError(t, err)
	_, err = svc.SaveInstructor(ctx, reqctx.New(lifter.ID, lifter.Role, ""), InstructorProfileInput{Specializations: []string{"strength"}, YearsExperience: 9})
	require.NoError(t, err)

	all, err := svc.ListInstructors(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, lifter.ID, all[0].UserID)

	yoga, err := svc.ListInstructors(ctx, "yoga")
	require.NoError(t, err)
	require.Len(t, yoga, 1)
	assert.Equal(t, "xena", yoga[0].User.Name)
}

func TestMine_ReturnsRoleProfile(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewProfileService(db)
	user, profile := testutil.CreateDietician(t, db, "zoe")

	got, err := svc.Mine(context.Background(), reqctx.New(user.ID, user.Role, ""))
	require.NoError(t, err)
	d, ok := got.(*models.Dietician)
	require.True(t, ok)
	assert.Equal(t, profile.ID, d.ID)

	admin := testutil.CreateUser(t, db, models.RoleAdmin, "root")
	_, err = svc.Mine(context.Background(), reqctx.New(admin.ID, admin.Role, ""))
	assert.Error(t, err)
}
