package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type memoryStore struct {
	keys []string
	fail bool
}

func (m *memoryStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewAccountService(db, testSecret, nil, nil)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Name:     "Rita",
		Email:    "  Rita@Example.com ",
		Password: "Secret123",
		Role:     models.RoleInstructor,
	})
	require.NoError(t, err)
	assert.Equal(t, "rita@example.com", res.User.Email)

	claims, err := utils.ValidateToken(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "instructor", claims.Role)

	_, err = svc.Register(ctx, RegisterInput{Name: "Rita 2", Email: "rita@example.com", Password: "Secret123", Role: models.RoleClient})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, "RITA@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "rita@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewAccountService(db, testSecret, nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "Secret123", Role: models.RoleAdmin})
	assert.Error(t, err, "admins cannot self-register")

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "short", Role: models.RoleClient})
	assert.Error(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "Secret123", Role: models.RoleClient})
	assert.Error(t, err)
}

func TestUpdate_OnlyTouchesProvidedFields(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewAccountService(db, testSecret, nil, nil)
	user := testutil.CreateUser(t, db, models.RoleClient, "sam")
	require.NoError(t, db.Model(&user).Update("phone", "0700000000").Error)

	name := "Samuel"
	updated, err := svc.Update(context.Background(), user.ID, UpdateAccountInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", updated.Name)
	assert.Equal(t, "0700000000", updated.Phone)
	assert.Equal(t, "sam@example.com", updated.Email)

	_, err = svc.Update(context.Background(), user.ID, UpdateAccountInput{})
	assert.Error(t, err)
}

func TestUploadAvatar(t *testing.T) {
	db := testutil.MustOpen(t)
	user := testutil.CreateUser(t, db, models.RoleClient, "tara")

	_, err := NewAccountService(db, testSecret, nil, nil).
		UploadAvatar(context.Background(), user.ID, "me.png", "image/png", bytes.NewReader([]byte("png")))
	assert.ErrorIs(t, err, ErrStorageDisabled)

	store := &memoryStore{}
	svc := NewAccountService(db, testSecret, nil, store)

	_, err = svc.UploadAvatar(context.Background(), user.ID, "notes.txt", "text/plain", bytes.NewReader([]byte("x")))
	assert.Error(t, err)

	updated, err := svc.UploadAvatar(context.Background(), user.ID, "me.PNG", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.Contains(t, store.keys[0], "avatars/"+user.ID+"/")
	assert.Equal(t, "https://cdn.test/"+store.keys[0], updated.AvatarURL)
}

func TestPromoteToAdmin(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewAccountService(db, testSecret, nil, nil)
	testutil.CreateUser(t, db, models.RoleClient, "uma")

	user, err := svc.PromoteToAdmin(context.Background(), "UMA@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.PromoteToAdmin(context.Background(), "ghost@example.com")
	assert.Error(t, err)
}

func TestList_FiltersByRoleAndSearch(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewAccountService(db, testSecret, nil, nil)
	ctx := context.Background()

	testutil.CreateUser(t, db, models.RoleClient, "mary_wanjiku")
	testutil.CreateUser(t, db, models.RoleInstructor, "mary_coach")
	testutil.CreateUser(t, db, models.RoleClient, "peter")

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	marys, err := svc.List(ctx, "", "MARY")
	require.NoError(t, err)
	assert.Len(t, marys, 2)

	clients, err := svc.List(ctx, string(models.RoleClient), "mary")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "mary_wanjiku", clients[0].Name)

	// Wildcards in the query are literal
	none, err := svc.List(ctx, "", "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}
