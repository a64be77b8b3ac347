package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/entity"
)

func newTestGateway() (*Gateway, *chat.Registry, *chat.Table, *chat.Rooms) {
	subs := chat.NewTable()
	reg := chat.NewRegistry(subs)
	rooms := chat.NewRooms(subs, 10*time.Minute, time.Minute)
	router := chat.NewRouter(reg, rooms, subs, nil)
	return NewGateway(reg, subs, rooms, router), reg, subs, rooms
}

func testClient(gw *Gateway, connID string, user *entity.User) *Client {
	c := &Client{
		ID:     connID,
		User:   user,
		send:   make(chan []byte, 16),
		gw:     gw,
		closed: make(chan struct{}),
	}
	gw.reg.Register(c.ID, c.User, c)
	return c
}

func guest(id int64, nickname string) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleGuest, Nickname: nickname}
}

func registered(id int64, nickname string) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleUser, Nickname: nickname}
}

func drain(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	default:
		t.Fatal("expected a queued frame")
		return nil
	}
}

func TestGateway_SubscribeCreatesRoom(t *testing.T) {
	gw, _, subs, rooms := newTestGateway()
	c := testClient(gw, "c1", guest(1, "neo"))

	require.NoError(t, gw.Subscribe(c.ID, c.User, "matrix"))

	room, ok := rooms.Get("matrix")
	require.True(t, ok)
	assert.Equal(t, entity.RoomEphemeral, room.Kind)
	assert.Equal(t, 1, subs.Count(room.ID))
}

func TestGateway_OnRoomCreatedFiresForDurableRoomsOnly(t *testing.T) {
	gw, _, _, _ := newTestGateway()
	var created []*chat.Room
	gw.OnRoomCreated = func(r *chat.Room) { created = append(created, r) }

	g := testClient(gw, "c1", guest(1, "neo"))
	u := testClient(gw, "c2", registered(2, "tank"))

	require.NoError(t, gw.Subscribe(g.ID, g.User, "matrix"))
	assert.Empty(t, created, "ephemeral rooms are never persisted")

	require.NoError(t, gw.Subscribe(u.ID, u.User, "general"))
	require.Len(t, created, 1)
	assert.Equal(t, "general", created[0].Title)

	// Resolving an existing room must not refire the hook.
	require.NoError(t, gw.Subscribe(g.ID, g.User, "general"))
	assert.Len(t, created, 1)
}

func TestGateway_Unsubscribe(t *testing.T) {
	gw, _, subs, rooms := newTestGateway()
	c := testClient(gw, "c1", guest(1, "neo"))
	require.NoError(t, gw.Subscribe(c.ID, c.User, "matrix"))
	room, _ := rooms.Get("matrix")

	gw.Unsubscribe(c.ID, "matrix")
	assert.Zero(t, subs.Count(room.ID))

	gw.Unsubscribe(c.ID, "nowhere")
}

func TestGateway_PublishDeliversBroadcastFrames(t *testing.T) {
	gw, _, _, _ := newTestGateway()
	neo := testClient(gw, "c1", guest(1, "neo"))
	trinity := testClient(gw, "c2", guest(2, "trinity"))
	require.NoError(t, gw.Subscribe(neo.ID, neo.User, "matrix"))
	require.NoError(t, gw.Subscribe(trinity.ID, trinity.User, "matrix"))

	msg, err := gw.Publish(neo.ID, "matrix", "<b>hi</b>")
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", msg.Content)

	var frame Broadcast
	require.NoError(t, json.Unmarshal(drain(t, trinity), &frame))
	assert.Equal(t, "message", frame.Type)
	assert.Equal(t, "neo", frame.Sender)
	assert.Equal(t, "matrix", frame.Room)
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", frame.Content)
	assert.False(t, frame.Timestamp.IsZero())
}

func TestGateway_HandleFrameSendsErrorToSenderOnly(t *testing.T) {
	gw, _, _, _ := newTestGateway()
	neo := testClient(gw, "c1", guest(1, "neo"))
	trinity := testClient(gw, "c2", guest(2, "trinity"))
	require.NoError(t, gw.Subscribe(trinity.ID, trinity.User, "matrix"))

	gw.handleFrame(neo, Frame{Type: FramePublish, Destination: "/app/chat/nowhere", Content: "hi"})

	var errFrame ErrorFrame
	require.NoError(t, json.Unmarshal(drain(t, neo), &errFrame))
	assert.Equal(t, "error", errFrame.Type)
	assert.Equal(t, "room_not_found", errFrame.Code)
	assert.Empty(t, trinity.send, "bystanders never see sender-facing errors")
}

func TestGateway_HandleFrameDropsBadDestination(t *testing.T) {
	gw, _, _, rooms := newTestGateway()
	neo := testClient(gw, "c1", guest(1, "neo"))

	gw.handleFrame(neo, Frame{Type: FrameSubscribe, Destination: "/app/chat/matrix"})
	gw.handleFrame(neo, Frame{Type: "bogus", Destination: "/topic/matrix"})

	assert.Zero(t, rooms.Size())
	assert.Empty(t, neo.send)
}

func TestGateway_DisconnectReapsGuestRooms(t *testing.T) {
	gw, reg, _, rooms := newTestGateway()
	neo := testClient(gw, "c1", guest(1, "neo"))
	require.NoError(t, gw.Subscribe(neo.ID, neo.User, "matrix"))

	var gone []*entity.User
	gw.OnGuestGone = func(u *entity.User) { gone = append(gone, u) }

	gw.Disconnect(neo)
	gw.Disconnect(neo)

	_, ok := rooms.Get("matrix")
	assert.False(t, ok, "abandoned guest room must be reclaimed on disconnect")
	require.Len(t, gone, 1, "a double disconnect must not refire the hook")
	assert.Equal(t, int64(1), gone[0].ID)
	assert.Zero(t, reg.Size())
}

func TestGateway_DisconnectKeepsRoomsWhileGuestHasOtherConns(t *testing.T) {
	gw, _, _, rooms := newTestGateway()
	user := guest(1, "neo")
	first := testClient(gw, "c1", user)
	second := testClient(gw, "c2", user)
	require.NoError(t, gw.Subscribe(first.ID, user, "matrix"))
	require.NoError(t, gw.Subscribe(second.ID, user, "matrix"))

	gw.Disconnect(first)
	_, ok := rooms.Get("matrix")
	assert.True(t, ok, "guest still online through another session")

	gw.Disconnect(second)
	_, ok = rooms.Get("matrix")
	assert.False(t, ok)
}

func TestGateway_RegisteredDisconnectNeverReaps(t *testing.T) {
	gw, _, _, rooms := newTestGateway()
	tank := testClient(gw, "c1", registered(1, "tank"))
	require.NoError(t, gw.Subscribe(tank.ID, tank.User, "general"))

	var fired bool
	gw.OnGuestGone = func(*entity.User) { fired = true }

	gw.Disconnect(tank)
	_, ok := rooms.Get("general")
	assert.True(t, ok, "durable rooms outlive their members")
	assert.False(t, fired)
}
