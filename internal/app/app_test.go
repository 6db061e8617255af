package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const appSecret = "app-secret"

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		JWTSecret:        appSecret,
		FrontendURL:      "http://localhost:5173",
		ReminderTimezone: "UTC",
	}
}

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func (a apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func newTestApp(t *testing.T) (*gorm.DB, *App, apiClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.MustOpen(t)
	a := New(testConfig(), Deps{DB: db})
	return db, a, apiClient{t: t, router: a.Router}
}

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	admin := testutil.CreateUser(t, db, models.RoleAdmin, "root_admin")
	token, err := utils.GenerateToken(appSecret, admin.ID, string(admin.Role))
	require.NoError(t, err)
	return token
}

func TestCoachingJourney(t *testing.T) {
	_, _, api := newTestApp(t)

	var clientAuth, coachAuth services.AuthResult
	w := api.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Wanjiru", "email": "wanjiru@example.com", "password": "Str0ngPass", "role": "client",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &clientAuth)

	w = api.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Otieno", "email": "otieno@example.com", "password": "Str0ngPass", "role": "instructor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &coachAuth)

	w = api.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Again", "email": "wanjiru@example.com", "password": "Str0ngPass", "role": "client",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "wanjiru@example.com", "password": "Str0ngPass"})
	require.Equal(t, http.StatusOK, w.Code)

	clientToken, coachToken := clientAuth.Token, coachAuth.Token

	// Profiles
	w = api.do(http.MethodPut, "/api/profiles/client", clientToken, gin.H{"age": 29, "goal": "lose 5kg", "location": "Nairobi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(http.MethodPut, "/api/profiles/instructor", clientToken, gin.H{"specializations": []string{"yoga"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodPut, "/api/profiles/instructor", coachToken, gin.H{
		"specializations": []string{"strength", "weight loss"}, "yearsExperience": 6, "location": "Nairobi",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/instructors?specialization=strength", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Instructors []models.Instructor `json:"instructors"`
	}
	decode(t, w, &listed)
	require.Len(t, listed.Instructors, 1)

	// Without a model provider the client gets the unscored pool
	w = api.do(http.MethodGet, "/api/match/instructors", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var outcome services.MatchOutcome
	decode(t, w, &outcome)
	assert.True(t, outcome.Fallback)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, coachAuth.User.ID, outcome.Matches[0].CandidateID)

	w = api.do(http.MethodGet, "/api/match/instructors", coachToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Workouts
	w = api.do(http.MethodPost, "/api/workouts", coachToken, gin.H{"title": "Full body", "durationMinutes": 45})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Workout models.Workout `json:"workout"`
	}
	decode(t, w, &created)

	w = api.do(http.MethodPost, "/api/workouts/"+created.Workout.ID+"/assign", coachToken, gin.H{"clientId": clientAuth.User.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = api.do(http.MethodPost, "/api/workouts/"+created.Workout.ID+"/assign", coachToken, gin.H{"clientId": clientAuth.User.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/workouts/"+created.Workout.ID+"/log", clientToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = api.do(http.MethodGet, "/api/workouts/streak", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"current":1,"longest":1,"totalDays":1}`, w.Body.String())

	// The assignment produced a notification
	w = api.do(http.MethodGet, "/api/notifications/unread-count", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())
	w = api.do(http.MethodPut, "/api/notifications/read-all", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, "/api/notifications/unread-count", clientToken, nil)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())

	// Partial account update keeps other fields
	w = api.do(http.MethodPatch, "/api/users/me", clientToken, gin.H{"phone": "+254700000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me struct {
		User models.User `json:"user"`
	}
	decode(t, w, &me)
	assert.Equal(t, "Wanjiru", me.User.Name)
	assert.Equal(t, "+254700000000", me.User.Phone)
	assert.True(t, me.User.ProfileCompleted)

	// Avatar upload requires a multipart file
	w = api.do(http.MethodPost, "/api/users/me/avatar", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	db, _, api := newTestApp(t)
	token := adminToken(t, db)
	client, _ := testutil.CreateClient(t, db, "admin_view_client")
	clientToken, err := utils.GenerateToken(appSecret, client.ID, string(client.Role))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/admin/dashboard", clientToken, nil).Code)

	w := api.do(http.MethodPost, "/api/admin/reminders/morning", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"period":"morning","created":1}`, w.Body.String())

	w = api.do(http.MethodPost, "/api/admin/reminders/midnight", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/admin/users?role=client", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users struct {
		Users []models.User `json:"users"`
	}
	decode(t, w, &users)
	require.Len(t, users.Users, 1)
	assert.Equal(t, client.ID, users.Users[0].ID)

	// Maintenance blocks everyone but admins
	w = api.do(http.MethodPut, "/api/admin/settings", token, gin.H{"key": models.SettingMaintenanceMode, "value": "true"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusServiceUnavailable, api.do(http.MethodGet, "/api/users/me", clientToken, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/me", token, nil).Code)

	w = api.do(http.MethodGet, "/api/system/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]bool
	decode(t, w, &status)
	assert.True(t, status["maintenanceMode"])

	w = api.do(http.MethodDelete, "/api/admin/users/"+client.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// A deleted account can no longer authenticate
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/notifications", clientToken, nil).Code)

	w = api.do(http.MethodGet, "/api/admin/audit", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var audit struct {
		Actions []models.AdminAction `json:"actions"`
	}
	decode(t, w, &audit)
	assert.Len(t, audit.Actions, 3)
}

func TestFeatureToggles(t *testing.T) {
	db, _, api := newTestApp(t)
	require.NoError(t, db.Create(&models.SystemSettings{Key: models.SettingChatEnabled, Value: "false"}).Error)
	require.NoError(t, db.Create(&models.SystemSettings{Key: models.SettingRegistrationOpen, Value: "false"}).Error)

	client, _ := testutil.CreateClient(t, db, "toggle_client")
	token, err := utils.GenerateToken(appSecret, client.ID, string(client.Role))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/chat/conversations", token, nil).Code)
	w := api.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Late", "email": "late@example.com", "password": "Str0ngPass", "role": "client",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	_, _, api := newTestApp(t)

	w := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "not configured", body.Checks["redis"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRemindersReachableFromApp(t *testing.T) {
	db, a, _ := newTestApp(t)
	testutil.CreateClient(t, db, "fanout_client")

	created, err := a.Reminders.FanOut(context.Background(), models.PeriodNight, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}
