package seeds

import (
	"context"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemo_Idempotent(t *testing.T) {
	db := testutil.MustOpen(t)
	ctx := context.Background()

	first, err := SeedDemo(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Summary{Created: 4}, first)

	second, err := SeedDemo(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Summary{Existing: 4}, second)

	var users, conversations, instructors int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Conversation{}).Count(&conversations)
	db.Model(&models.Instructor{}).Count(&instructors)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(2), conversations)
	assert.Equal(t, int64(1), instructors)

	var client models.User
	require.NoError(t, db.Where("email = ?", "client@lifestylecoach.dev").First(&client).Error)
	assert.True(t, client.ProfileCompleted)
}
