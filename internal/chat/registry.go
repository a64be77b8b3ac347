package chat

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/entity"
)

// Outbound is the delivery side of a live connection. Implementations must
// not block on peer I/O: the gateway backs this with a buffered send
// channel drained by the connection's write pump.
type Outbound interface {
	Deliver(msg *Message) error
}

type connection struct {
	user *entity.User
	out  Outbound
}

// Registry tracks every live connection and its resolved identity. It owns
// the connID -> connection mapping; the subscription table is consulted on
// deregistration so that no subscription outlives its connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*connection
	users map[int64]int // userID -> live connection count
	subs  *Table
}

func NewRegistry(subs *Table) *Registry {
	return &Registry{
		conns: make(map[string]*connection),
		users: make(map[int64]int),
		subs:  subs,
	}
}

// Register adds a live connection with its resolved user.
func (r *Registry) Register(connID string, user *entity.User, out Outbound) {
	r.mu.Lock()
	r.conns[connID] = &connection{user: user, out: out}
	r.users[user.ID]++
	total := len(r.conns)
	r.mu.Unlock()

	log.Info().
		Str("connID", connID).
		Str("nickname", user.Nickname).
		Str("role", string(user.Role)).
		Int("connections", total).
		Msg("chat: connection registered")
}

// Deregister removes a connection and drops all subscriptions it held,
// returning the ids of the affected rooms. Idempotent: deregistering an
// unknown connection reports false. Safe to call while sends to the same
// connection are in flight; those sends fail with ErrDisconnected and are
// dropped.
func (r *Registry) Deregister(connID string) ([]int64, bool) {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	delete(r.conns, connID)
	if r.users[conn.user.ID]--; r.users[conn.user.ID] <= 0 {
		delete(r.users, conn.user.ID)
	}
	r.mu.Unlock()

	affected := r.subs.DropConnection(connID)

	log.Info().
		Str("connID", connID).
		Str("nickname", conn.user.Nickname).
		Int("rooms", len(affected)).
		Msg("chat: connection deregistered")
	return affected, true
}

// Send delivers a message to one connection. Fails with ErrDisconnected
// when the connection no longer exists.
func (r *Registry) Send(connID string, msg *Message) error {
	r.mu.RLock()
	conn, ok := r.conns[connID]
	r.mu.RUnlock()

	if !ok {
		return ErrDisconnected
	}
	return conn.out.Deliver(msg)
}

// UserOf resolves the identity bound to a connection.
func (r *Registry) UserOf(connID string) (*entity.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	return conn.user, true
}

// ConnCount returns how many live connections a user currently holds.
// Guests are reaped when this drops to zero.
func (r *Registry) ConnCount(userID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID]
}

// Size returns the number of live connections.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
