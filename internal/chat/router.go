package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Archiver receives every routed message after fan-out, fire-and-forget.
// The queue-backed implementation hands messages to the worker pool for
// persistence; a nil Archiver disables archiving.
type Archiver interface {
	Archive(msg *Message)
}

// ArchiverFunc adapts a function to the Archiver interface.
type ArchiverFunc func(msg *Message)

func (f ArchiverFunc) Archive(msg *Message) { f(msg) }

// roomOrder serializes routing per room so that two messages routed to the
// same room reach every common subscriber in route-call order. Cross-room
// traffic never shares this lock.
type roomOrder struct {
	mu   sync.Mutex
	last time.Time
}

// Router validates an inbound message, stamps it and fans it out to every
// current subscriber of the destination room.
type Router struct {
	reg     *Registry
	rooms   *Rooms
	subs    *Table
	archive Archiver

	mu    sync.Mutex
	order map[int64]*roomOrder
}

func NewRouter(reg *Registry, rooms *Rooms, subs *Table, archive Archiver) *Router {
	return &Router{
		reg:     reg,
		rooms:   rooms,
		subs:    subs,
		archive: archive,
		order:   make(map[int64]*roomOrder),
	}
}

func (r *Router) orderFor(roomID int64) *roomOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.order[roomID]
	if !ok {
		ord = &roomOrder{}
		r.order[roomID] = ord
	}
	return ord
}

// Route handles one inbound chat message from a connection.
//
// The sender is resolved from the registry, the body rejected when blank,
// the room looked up by title (publishing never creates rooms), the
// content sanitized and the message stamped with a server-side UTC
// timestamp that never decreases within a room. Delivery is best-effort:
// a failed send to one subscriber is logged and swallowed, never surfaced
// to the sender or allowed to abort the fan-out.
func (r *Router) Route(connID, roomTitle, raw string) (*Message, error) {
	sender, ok := r.reg.UserOf(connID)
	if !ok {
		return nil, ErrUnknownSender
	}

	body := strings.TrimSpace(raw)
	if body == "" {
		return nil, ErrEmptyContent
	}

	room, ok := r.rooms.Get(roomTitle)
	if !ok {
		return nil, ErrRoomNotFound
	}

	content := sanitizeContent(body)

	ord := r.orderFor(room.ID)
	ord.mu.Lock()

	now := time.Now().UTC()
	if now.Before(ord.last) {
		now = ord.last
	}
	ord.last = now

	msg := newMessage(sender.Nickname, room.Title, content, now)
	r.rooms.Touch(room.ID)

	// Snapshot then deliver. Deliver pushes into per-connection buffers
	// and never blocks on peer I/O, so holding the order lock across the
	// fan-out only serializes same-room routing.
	delivered := 0
	for _, subID := range r.subs.SubscribersOf(room.ID) {
		if err := r.reg.Send(subID, msg); err != nil {
			log.Debug().
				Str("connID", subID).
				Str("room", room.Title).
				Err(err).
				Msg("chat: dropped delivery to dead subscriber")
			continue
		}
		delivered++
	}
	ord.mu.Unlock()

	if r.archive != nil {
		r.archive.Archive(msg)
	}

	log.Debug().
		Str("room", room.Title).
		Str("sender", msg.Sender).
		Int("delivered", delivered).
		Msg("chat: message routed")
	return msg, nil
}
