package websocket

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/entity"
)

// Gateway translates wire frames into calls on the messaging core. It is
// the only component aware of the framing format and owns the Client
// objects; all chat state lives in the core structures it wraps.
type Gateway struct {
	reg    *chat.Registry
	subs   *chat.Table
	rooms  *chat.Rooms
	router *chat.Router

	// OnRoomCreated fires when a subscribe auto-creates a durable room,
	// so the caller can persist it. Ephemeral rooms never reach it.
	OnRoomCreated func(room *chat.Room)

	// OnGuestGone fires when a guest loses its last connection, after
	// its orphaned rooms were reclaimed.
	OnGuestGone func(user *entity.User)
}

func NewGateway(reg *chat.Registry, subs *chat.Table, rooms *chat.Rooms, router *chat.Router) *Gateway {
	return &Gateway{reg: reg, subs: subs, rooms: rooms, router: router}
}

// Connect registers a session with the core and starts its pumps.
func (g *Gateway) Connect(c *Client) {
	g.reg.Register(c.ID, c.User, c)
	go c.writePump()
	go c.readPump()
}

// Disconnect deregisters a session. Idempotent; triggered by the read pump
// when the peer goes away. A guest losing its last connection has its
// orphaned ephemeral rooms reclaimed immediately.
func (g *Gateway) Disconnect(c *Client) {
	if _, ok := g.reg.Deregister(c.ID); !ok {
		return
	}

	if c.User.IsGuest() && g.reg.ConnCount(c.User.ID) == 0 {
		g.rooms.ReapOwned(c.User.ID)
		if g.OnGuestGone != nil {
			g.OnGuestGone(c.User)
		}
	}
}

func (g *Gateway) handleFrame(c *Client, frame Frame) {
	room, ok := roomFromDestination(frame.Type, frame.Destination)
	if !ok {
		log.Debug().
			Str("connID", c.ID).
			Str("type", frame.Type).
			Str("destination", frame.Destination).
			Msg("ws: dropping frame with bad destination")
		return
	}

	switch frame.Type {
	case FrameSubscribe:
		if err := g.Subscribe(c.ID, c.User, room); err != nil {
			c.sendError("subscribe_failed", err.Error())
		}
	case FrameUnsubscribe:
		g.Unsubscribe(c.ID, room)
	case FramePublish:
		if _, err := g.Publish(c.ID, room, frame.Content); err != nil {
			c.sendError(errorCode(err), err.Error())
		}
	}
}

// Subscribe resolves the room (creating it under the requester's role
// rules when absent) and records the connection's interest.
func (g *Gateway) Subscribe(connID string, user *entity.User, title string) error {
	room, created, err := g.rooms.ResolveOrCreate(title, user)
	if err != nil {
		return err
	}
	if created && room.Kind != entity.RoomEphemeral && g.OnRoomCreated != nil {
		g.OnRoomCreated(room)
	}
	g.subs.Subscribe(connID, room.ID)
	g.rooms.Touch(room.ID)
	return nil
}

// Unsubscribe drops the connection's interest in a room. Unknown rooms
// and absent subscriptions are no-ops.
func (g *Gateway) Unsubscribe(connID string, title string) {
	if room, ok := g.rooms.Get(title); ok {
		g.subs.Unsubscribe(connID, room.ID)
	}
}

// Publish routes an inbound chat message. Failures are sender-facing
// only; the caller reports them back on the originating session.
func (g *Gateway) Publish(connID, title, content string) (*chat.Message, error) {
	return g.router.Route(connID, title, content)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrUnknownSender):
		return "unknown_sender"
	case errors.Is(err, chat.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, chat.ErrEmptyContent):
		return "empty_content"
	default:
		return "publish_failed"
	}
}
