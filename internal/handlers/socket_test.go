package handlers

import (
	"context"
	"sync"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handlers-secret"

type emitted struct {
	room    string
	except  string
	event   string
	payload interface{}
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (f *fakeEmitter) BroadcastToRoom(room, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{room: room, event: event, payload: payload})
}

func (f *fakeEmitter) BroadcastExcept(room, exceptConnID, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{room: room, except: exceptConnID, event: event, payload: payload})
}

type hubFixture struct {
	db         *gorm.DB
	hub        *SocketHub
	emitter    *fakeEmitter
	client     models.User
	instructor models.User
	conv       *models.Conversation
}

func newHubFixture(t *testing.T) hubFixture {
	t.Helper()
	db := testutil.MustOpen(t)
	conversations := services.NewConversationService(db)
	emitter := &fakeEmitter{}
	hub := newSocketHub(emitter, db, conversations, testSecret, nil)

	client, _ := testutil.CreateClient(t, db, "sock_client")
	instructor, _ := testutil.CreateInstructor(t, db, "sock_coach")
	conv, _, err := conversations.Resolve(context.Background(), reqctx.New(client.ID, client.Role, ""), instructor.ID)
	require.NoError(t, err)

	return hubFixture{db: db, hub: hub, emitter: emitter, client: client, instructor: instructor, conv: conv}
}

func TestSocketSendMessage_SkipsSender(t *testing.T) {
	f := newHubFixture(t)
	rc := reqctx.New(f.client.ID, f.client.Role, "")

	f.hub.sendMessage(context.Background(), rc, "conn-1", SendMessagePayload{
		Room:      f.conv.ID,
		SenderID:  f.client.ID,
		Message:   "  hello coach  ",
		Timestamp: "2025-05-10T08:00:00Z",
	})

	require.Len(t, f.emitter.events, 1)
	ev := f.emitter.events[0]
	assert.Equal(t, f.conv.ID, ev.room)
	assert.Equal(t, "conn-1", ev.except)
	assert.Equal(t, EventReceiveMessage, ev.event)

	payload := ev.payload.(SendMessagePayload)
	assert.Equal(t, "hello coach", payload.Message)
	assert.Equal(t, f.client.ID, payload.SenderID)
	assert.NotZero(t, payload.ID)

	var count int64
	f.db.Model(&models.Message{}).Where("conversation_id = ?", f.conv.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSocketSendMessage_UsesAuthenticatedSender(t *testing.T) {
	f := newHubFixture(t)
	rc := reqctx.New(f.instructor.ID, f.instructor.Role, "")

	f.hub.sendMessage(context.Background(), rc, "conn-2", SendMessagePayload{
		Room:     f.conv.ID,
		SenderID: f.client.ID,
		Message:  "spoofed",
	})

	var msg models.Message
	require.NoError(t, f.db.Where("conversation_id = ?", f.conv.ID).First(&msg).Error)
	assert.Equal(t, f.instructor.ID, msg.SenderID)
}

func TestSocketSendMessage_NoBroadcastOnFailure(t *testing.T) {
	f := newHubFixture(t)
	outsider := testutil.CreateUser(t, f.db, models.RoleClient, "sock_outsider")

	cases := []struct {
		name    string
		rc      reqctx.Context
		payload SendMessagePayload
	}{
		{"not a participant", reqctx.New(outsider.ID, outsider.Role, ""), SendMessagePayload{Room: f.conv.ID, Message: "hi"}},
		{"empty message", reqctx.New(f.client.ID, f.client.Role, ""), SendMessagePayload{Room: f.conv.ID, Message: "   "}},
		{"unknown room", reqctx.New(f.client.ID, f.client.Role, ""), SendMessagePayload{Room: "missing", Message: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.hub.sendMessage(context.Background(), tc.rc, "conn", tc.payload)
		})
	}

	assert.Empty(t, f.emitter.events)
	var count int64
	f.db.Model(&models.Message{}).Count(&count)
	assert.Zero(t, count)
}

func TestSocketCanJoin(t *testing.T) {
	f := newHubFixture(t)
	outsider := testutil.CreateUser(t, f.db, models.RoleInstructor, "sock_other_coach")
	ctx := context.Background()

	assert.True(t, f.hub.canJoin(ctx, reqctx.New(f.client.ID, f.client.Role, ""), f.conv.ID))
	assert.True(t, f.hub.canJoin(ctx, reqctx.New(f.instructor.ID, f.instructor.Role, ""), f.conv.ID))
	assert.False(t, f.hub.canJoin(ctx, reqctx.New(outsider.ID, outsider.Role, ""), f.conv.ID))
	assert.False(t, f.hub.canJoin(ctx, reqctx.New(f.client.ID, f.client.Role, ""), ""))
}

func TestSocketAuthenticate(t *testing.T) {
	f := newHubFixture(t)
	ctx := context.Background()

	_, err := f.hub.authenticate(ctx, "")
	assert.ErrorIs(t, err, errSocketAuthRequired)

	_, err = f.hub.authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, errSocketInvalidToken)

	ghost, err := utils.GenerateToken(testSecret, "ghost", "client")
	require.NoError(t, err)
	_, err = f.hub.authenticate(ctx, ghost)
	assert.ErrorIs(t, err, errSocketInvalidToken)

	// Role comes from the account, not the token
	token, err := utils.GenerateToken(testSecret, f.instructor.ID, "client")
	require.NoError(t, err)
	rc, err := f.hub.authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, f.instructor.ID, rc.UserID)
	assert.Equal(t, models.RoleInstructor, rc.Role)
	assert.NotEmpty(t, rc.RequestID)
}

func TestSocketNotifyUser(t *testing.T) {
	f := newHubFixture(t)
	var notifier services.Notifier = f.hub

	notifier.NotifyUser(f.client.ID, services.EventNotification, map[string]string{"title": "Morning"})

	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, f.client.ID, f.emitter.events[0].room)
	assert.Equal(t, services.EventNotification, f.emitter.events[0].event)
}
