package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 32 * 1024
)

// Client is one live websocket session. The gateway owns it exclusively;
// the chat core only ever sees its connection id and its Deliver method.
type Client struct {
	ID   string
	User *entity.User

	conn *websocket.Conn
	send chan []byte
	gw   *Gateway

	closeOnce sync.Once
	closed    chan struct{}
}

func newClient(id string, user *entity.User, conn *websocket.Conn, sendBuffer int, gw *Gateway) *Client {
	return &Client{
		ID:     id,
		User:   user,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		gw:     gw,
		closed: make(chan struct{}),
	}
}

// Deliver queues a routed message for this session. It never blocks on the
// peer: a closed session fails with ErrDisconnected and a full send buffer
// drops the session as a slow consumer.
func (c *Client) Deliver(msg *chat.Message) error {
	data, err := json.Marshal(Broadcast{
		Type:      "message",
		Sender:    msg.Sender,
		Content:   msg.Content,
		Room:      msg.Room,
		Timestamp: msg.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.push(data)
}

func (c *Client) push(data []byte) error {
	select {
	case <-c.closed:
		return chat.ErrDisconnected
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.closed:
		return chat.ErrDisconnected
	default:
		log.Warn().Str("connID", c.ID).Msg("ws: slow consumer, dropping session")
		go c.Close()
		return chat.ErrDisconnected
	}
}

func (c *Client) sendError(code, reason string) {
	data, err := json.Marshal(ErrorFrame{Type: "error", Code: code, Reason: reason})
	if err != nil {
		return
	}
	_ = c.push(data)
}

// Close tears the session down once. Safe to call from any goroutine,
// including mid-delivery.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// readPump consumes inbound frames until the peer goes away, then
// disconnects the session from the gateway.
func (c *Client) readPump() {
	defer func() {
		c.gw.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Str("connID", c.ID).Err(err).Msg("ws: unexpected close")
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			// Malformed frames are dropped, never crash the session.
			log.Debug().Str("connID", c.ID).Err(err).Msg("ws: dropping malformed frame")
			continue
		}
		c.gw.handleFrame(c, frame)
	}
}

// writePump drains the send buffer to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.closed:
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
