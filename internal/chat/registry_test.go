package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-training/chat-backend/internal/entity"
)

// captureSink records delivered messages; it stands in for the gateway's
// buffered connection writer.
type captureSink struct {
	mu   sync.Mutex
	msgs []*Message
	fail bool
}

func (s *captureSink) Deliver(msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ErrDisconnected
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *captureSink) received() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func guest(id int64, nickname string) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleGuest, Nickname: nickname, Active: true}
}

func registered(id int64, nickname string) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleUser, Nickname: nickname, Active: true}
}

func TestRegistry_RegisterAndSend(t *testing.T) {
	subs := NewTable()
	reg := NewRegistry(subs)
	sink := &captureSink{}

	reg.Register("c1", guest(1, "neo"), sink)

	err := reg.Send("c1", &Message{Content: "hello"})
	require.NoError(t, err)
	require.Len(t, sink.received(), 1)

	user, ok := reg.UserOf("c1")
	require.True(t, ok)
	assert.Equal(t, "neo", user.Nickname)
	assert.Equal(t, 1, reg.ConnCount(1))
}

func TestRegistry_SendToUnknownConnection(t *testing.T) {
	reg := NewRegistry(NewTable())

	err := reg.Send("missing", &Message{Content: "hello"})
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestRegistry_DeregisterDropsSubscriptions(t *testing.T) {
	subs := NewTable()
	reg := NewRegistry(subs)
	reg.Register("c1", guest(1, "neo"), &captureSink{})

	subs.Subscribe("c1", 10)
	subs.Subscribe("c1", 20)

	affected, ok := reg.Deregister("c1")
	require.True(t, ok)
	assert.ElementsMatch(t, []int64{10, 20}, affected)
	assert.Empty(t, subs.SubscribersOf(10))
	assert.Empty(t, subs.SubscribersOf(20))
	assert.Equal(t, 0, reg.ConnCount(1))

	_, ok = reg.UserOf("c1")
	assert.False(t, ok)

	_, ok = reg.Deregister("c1")
	assert.False(t, ok, "deregister must be idempotent")
	assert.ErrorIs(t, reg.Send("c1", &Message{}), ErrDisconnected)
}

func TestRegistry_ConnCountPerUser(t *testing.T) {
	reg := NewRegistry(NewTable())
	user := guest(7, "morpheus")

	reg.Register("c1", user, &captureSink{})
	reg.Register("c2", user, &captureSink{})
	assert.Equal(t, 2, reg.ConnCount(7))

	reg.Deregister("c1")
	assert.Equal(t, 1, reg.ConnCount(7))
	reg.Deregister("c2")
	assert.Equal(t, 0, reg.ConnCount(7))
}

func TestRegistry_ConcurrentRegisterDeregisterSend(t *testing.T) {
	subs := NewTable()
	reg := NewRegistry(subs)
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		connID := fmt.Sprintf("c%d", i)
		wg.Add(1)
		go func(id string, n int64) {
			defer wg.Done()
			reg.Register(id, guest(n, "g"), &captureSink{})
			subs.Subscribe(id, 1)
			_ = reg.Send(id, &Message{Content: "x"})
			reg.Deregister(id)
			_ = reg.Send(id, &Message{Content: "y"})
		}(connID, int64(i))
	}
	wg.Wait()

	assert.Zero(t, reg.Size())
	assert.Empty(t, subs.SubscribersOf(1))
}
