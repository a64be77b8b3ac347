package chat

import "errors"

// Failure kinds of the messaging core. Sender-facing ones (unknown sender,
// room not found, empty content) are reported back to the originating
// connection only; ErrDisconnected is swallowed per subscriber during
// fan-out.
var (
	ErrUnknownSender = errors.New("chat: connection has no resolved identity")
	ErrRoomNotFound  = errors.New("chat: no live room for title")
	ErrEmptyContent  = errors.New("chat: empty message body")
	ErrDisconnected  = errors.New("chat: connection no longer registered")
)
