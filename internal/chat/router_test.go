package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	subs   *Table
	reg    *Registry
	rooms  *Rooms
	router *Router
}

func newFixture(archive Archiver) *fixture {
	subs := NewTable()
	reg := NewRegistry(subs)
	rooms := NewRooms(subs, 10*time.Minute, time.Minute)
	return &fixture{
		subs:   subs,
		reg:    reg,
		rooms:  rooms,
		router: NewRouter(reg, rooms, subs, archive),
	}
}

func (f *fixture) connect(t *testing.T, connID, nickname string, id int64) *captureSink {
	t.Helper()
	sink := &captureSink{}
	f.reg.Register(connID, guest(id, nickname), sink)
	return sink
}

func (f *fixture) join(t *testing.T, connID, title string) *Room {
	t.Helper()
	user, ok := f.reg.UserOf(connID)
	require.True(t, ok)
	room, _, err := f.rooms.ResolveOrCreate(title, user)
	require.NoError(t, err)
	f.subs.Subscribe(connID, room.ID)
	f.rooms.Touch(room.ID)
	return room
}

func TestRouter_RouteBroadcastsToAllSubscribers(t *testing.T) {
	f := newFixture(nil)
	neo := f.connect(t, "c1", "neo", 1)
	trinity := f.connect(t, "c2", "trinity", 2)
	f.join(t, "c1", "matrix")
	f.join(t, "c2", "matrix")

	msg, err := f.router.Route("c1", "matrix", "hello")
	require.NoError(t, err)

	assert.Equal(t, "neo", msg.Sender)
	assert.Equal(t, "matrix", msg.Room)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, time.UTC, msg.CreatedAt.Location())

	require.Len(t, neo.received(), 1, "sender is a subscriber and receives its own message")
	require.Len(t, trinity.received(), 1)
	assert.Equal(t, msg, trinity.received()[0])
}

func TestRouter_UnknownSender(t *testing.T) {
	f := newFixture(nil)

	_, err := f.router.Route("nobody", "matrix", "hello")
	assert.ErrorIs(t, err, ErrUnknownSender)
}

func TestRouter_EmptyContent(t *testing.T) {
	f := newFixture(nil)
	sink := f.connect(t, "c1", "neo", 1)
	f.join(t, "c1", "lobby")

	_, err := f.router.Route("c1", "lobby", "   \t ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Empty(t, sink.received(), "rejected message must not be broadcast")
}

func TestRouter_PublishNeverCreatesRooms(t *testing.T) {
	f := newFixture(nil)
	f.connect(t, "c1", "neo", 1)

	_, err := f.router.Route("c1", "nowhere", "hello")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, ok := f.rooms.Get("nowhere")
	assert.False(t, ok)
}

func TestRouter_SanitizesContent(t *testing.T) {
	f := newFixture(nil)
	sink := f.connect(t, "c1", "neo", 1)
	f.join(t, "c1", "lobby")

	msg, err := f.router.Route("c1", "lobby", "<script>alert(1)</script>\x07")
	require.NoError(t, err)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", msg.Content)
	require.Len(t, sink.received(), 1)
}

func TestRouter_DisconnectedSubscriberIsSwallowed(t *testing.T) {
	f := newFixture(nil)
	f.connect(t, "c1", "neo", 1)
	trinity := f.connect(t, "c2", "trinity", 2)
	dead := f.connect(t, "c3", "smith", 3)
	dead.fail = true

	f.join(t, "c1", "matrix")
	f.join(t, "c2", "matrix")
	f.join(t, "c3", "matrix")

	_, err := f.router.Route("c1", "matrix", "hello")
	require.NoError(t, err, "a dead subscriber must not fail the broadcast")
	assert.Len(t, trinity.received(), 1)
	assert.Empty(t, dead.received())
}

func TestRouter_SameRoomOrderingPreserved(t *testing.T) {
	f := newFixture(nil)
	f.connect(t, "c1", "neo", 1)
	trinity := f.connect(t, "c2", "trinity", 2)
	f.join(t, "c1", "matrix")
	f.join(t, "c2", "matrix")

	for _, body := range []string{"one", "two", "three", "four"} {
		_, err := f.router.Route("c1", "matrix", body)
		require.NoError(t, err)
	}

	got := trinity.received()
	require.Len(t, got, 4)
	var bodies []string
	for _, m := range got {
		bodies = append(bodies, m.Content)
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, bodies)

	// Timestamps are monotonic non-decreasing within a room.
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt))
	}
}

func TestRouter_ArchiverReceivesRoutedMessages(t *testing.T) {
	var archived []*Message
	f := newFixture(ArchiverFunc(func(m *Message) { archived = append(archived, m) }))
	f.connect(t, "c1", "neo", 1)
	f.join(t, "c1", "matrix")

	msg, err := f.router.Route("c1", "matrix", "hello")
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, msg, archived[0])

	_, err = f.router.Route("c1", "matrix", "  ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Len(t, archived, 1, "rejected messages are never archived")
}

// Full guest lifecycle: two guests meet in an auto-created ephemeral room,
// chat, leave one by one, and the room is reclaimed once abandoned.
func TestGuestRoomLifecycleScenario(t *testing.T) {
	f := newFixture(nil)
	threshold := 10 * time.Minute

	neo := f.connect(t, "c1", "neo", 1)
	trinity := f.connect(t, "c2", "trinity", 2)
	matrix := f.join(t, "c1", "matrix")
	f.join(t, "c2", "matrix")

	msg, err := f.router.Route("c1", "matrix", "hello")
	require.NoError(t, err)
	assert.Equal(t, "neo", msg.Sender)
	require.Len(t, neo.received(), 1)
	require.Len(t, trinity.received(), 1)
	assert.Equal(t, "hello", trinity.received()[0].Content)
	assert.Equal(t, "matrix", trinity.received()[0].Room)

	// neo disconnects; trinity keeps the room alive through the sweep.
	f.reg.Deregister("c1")
	f.rooms.ReapOwned(1)
	future := time.Now().UTC().Add(threshold + time.Hour)
	f.rooms.EvictIdle(future, threshold)
	_, ok := f.rooms.Get("matrix")
	require.True(t, ok, "room with a live subscriber must survive the sweep")

	// trinity leaves too; the next sweep past the threshold reclaims it.
	f.reg.Deregister("c2")
	f.rooms.ReapOwned(2)
	f.rooms.EvictIdle(future.Add(time.Hour), threshold)
	_, ok = f.rooms.Get("matrix")
	assert.False(t, ok, "abandoned ephemeral room must not be resolvable")
	assert.Empty(t, f.subs.SubscribersOf(matrix.ID))
}
