package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler accepts websocket handshakes and hands authenticated sessions
// to the gateway.
type Handler struct {
	gw         *Gateway
	auth       AuthenticatorFunc
	sendBuffer int
	maxConns   int
}

func NewHandler(gw *Gateway, auth AuthenticatorFunc, sendBuffer, maxConns int) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Handler{gw: gw, auth: auth, sendBuffer: sendBuffer, maxConns: maxConns}
}

// HandleWS is the handshake endpoint. Auth and the capacity check run
// before the upgrade so rejected peers get a plain HTTP status.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth(r)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("ws: handshake rejected")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	if h.maxConns > 0 && h.gw.reg.Size() >= h.maxConns {
		http.Error(w, "connection limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	client := newClient(uuid.New().String(), user, conn, h.sendBuffer, h.gw)
	log.Info().
		Str("connID", client.ID).
		Str("nickname", user.Nickname).
		Str("role", string(user.Role)).
		Msg("ws: session opened")

	h.gw.Connect(client)
}
