package chat

import (
	"sync"
)

// Table is the subscription table: which connections listen to which
// rooms. It keeps both directions indexed so that dropping either side is
// a single pass. Entries hold connection ids only, never the connections
// themselves; the gateway owns those.
type Table struct {
	mu    sync.RWMutex
	rooms map[int64]map[string]struct{}
	conns map[string]map[int64]struct{}
}

func NewTable() *Table {
	return &Table{
		rooms: make(map[int64]map[string]struct{}),
		conns: make(map[string]map[int64]struct{}),
	}
}

// Subscribe records interest of a connection in a room. Resubscribing is a
// no-op.
func (t *Table) Subscribe(connID string, roomID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rooms[roomID] == nil {
		t.rooms[roomID] = make(map[string]struct{})
	}
	t.rooms[roomID][connID] = struct{}{}

	if t.conns[connID] == nil {
		t.conns[connID] = make(map[int64]struct{})
	}
	t.conns[connID][roomID] = struct{}{}
}

// Unsubscribe removes interest. No-op when the pair is absent.
func (t *Table) Unsubscribe(connID string, roomID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(connID, roomID)
}

func (t *Table) removeLocked(connID string, roomID int64) {
	if subs, ok := t.rooms[roomID]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(t.rooms, roomID)
		}
	}
	if rooms, ok := t.conns[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(t.conns, connID)
		}
	}
}

// SubscribersOf returns a snapshot of the connection ids subscribed to a
// room at call time. Later subscribe or unsubscribe calls do not affect a
// fan-out already iterating the snapshot.
func (t *Table) SubscribersOf(roomID int64) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	subs, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(subs))
	for connID := range subs {
		out = append(out, connID)
	}
	return out
}

// Count returns the current number of subscribers of a room.
func (t *Table) Count(roomID int64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms[roomID])
}

// DropConnection removes every subscription held by a connection and
// returns the ids of the rooms it was in, so the room lifecycle can
// evaluate eviction. Called as part of deregistration; never leaves
// dangling entries behind.
func (t *Table) DropConnection(connID string) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	rooms, ok := t.conns[connID]
	if !ok {
		return nil
	}
	affected := make([]int64, 0, len(rooms))
	for roomID := range rooms {
		affected = append(affected, roomID)
		if subs, ok := t.rooms[roomID]; ok {
			delete(subs, connID)
			if len(subs) == 0 {
				delete(t.rooms, roomID)
			}
		}
	}
	delete(t.conns, connID)
	return affected
}

// DropRoom removes every subscription of a room, returning the connection
// ids that were subscribed. Used by eviction and by room deletion.
func (t *Table) DropRoom(roomID int64) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	subs, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	dropped := make([]string, 0, len(subs))
	for connID := range subs {
		dropped = append(dropped, connID)
		if rooms, ok := t.conns[connID]; ok {
			delete(rooms, roomID)
			if len(rooms) == 0 {
				delete(t.conns, connID)
			}
		}
	}
	delete(t.rooms, roomID)
	return dropped
}

// RoomCount returns how many rooms currently have at least one subscriber.
func (t *Table) RoomCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
