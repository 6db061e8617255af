package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	e := &env{open: func(string) (*gorm.DB, func(), error) {
		return db, func() {}, nil
	}}
	root := newRootCmdWith(e)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRemindCommand(t *testing.T) {
	db := testutil.MustOpen(t)
	testutil.CreateClient(t, db, "cli_client")
	testutil.CreateInstructor(t, db, "cli_coach")

	out, err := run(t, db, "remind", "--period", "morning")
	require.NoError(t, err)
	assert.Equal(t, "created 1 morning reminders\n", out)

	out, err = run(t, db, "remind", "--period", "morning")
	require.NoError(t, err)
	assert.Equal(t, "created 0 morning reminders\n", out)

	_, err = run(t, db, "remind", "--period", "dawn")
	assert.Error(t, err)

	_, err = run(t, db, "remind")
	assert.Error(t, err)
}

func TestRemindEnqueueNeedsRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	db := testutil.MustOpen(t)

	_, err := run(t, db, "remind", "--period", "night", "--enqueue")
	assert.ErrorContains(t, err, "REDIS_ADDR")
}

func TestPromoteAdminCommand(t *testing.T) {
	db := testutil.MustOpen(t)
	user := testutil.CreateUser(t, db, models.RoleInstructor, "cli_future_admin")

	out, err := run(t, db, "promote-admin", "--email", user.Email)
	require.NoError(t, err)
	assert.Contains(t, out, "promoted cli_future_admin")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)

	_, err = run(t, db, "promote-admin", "--email", "nobody@example.com")
	assert.Error(t, err)
}

func TestMigrateCommandIsIdempotent(t *testing.T) {
	db := testutil.MustOpen(t)

	out, err := run(t, db, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrations applied\n", out)

	_, err = run(t, db, "migrate")
	require.NoError(t, err)
}

func TestMigrateStatus(t *testing.T) {
	db := testutil.MustOpen(t)

	out, err := run(t, db, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "001_conversation_pair_uniqueness\tapplied")
}
