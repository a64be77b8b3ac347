package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/entity"
)

// Room is a live chat channel. The persisted entity.Room is its durable
// counterpart for SYSTEM and PERSISTENT kinds; EPHEMERAL rooms exist only
// here.
type Room struct {
	ID          int64
	UUID        string
	Title       string
	Description string
	Kind        entity.RoomKind
	Owner       *entity.User
	CreatedAt   time.Time

	lastActive time.Time // guarded by the manager mutex
}

// Rooms is the room lifecycle manager: creation with role rules, activity
// tracking and eviction of abandoned ephemeral rooms.
type Rooms struct {
	mu      sync.RWMutex
	byID    map[int64]*Room
	byTitle map[string]*Room
	nextID  int64

	subs *Table

	idleThreshold time.Duration
	sweepInterval time.Duration
}

func NewRooms(subs *Table, idleThreshold, sweepInterval time.Duration) *Rooms {
	return &Rooms{
		byID:          make(map[int64]*Room),
		byTitle:       make(map[string]*Room),
		subs:          subs,
		idleThreshold: idleThreshold,
		sweepInterval: sweepInterval,
	}
}

// ResolveOrCreate returns the live room with the given title, creating it
// when absent. The created flag reports whether a new room was made. The
// kind follows the requester's role: guests get EPHEMERAL rooms they own,
// registered users and admins get PERSISTENT ones, the system account gets
// SYSTEM rooms. A guest asking for an existing persistent title gets the
// persistent room; guests cannot shadow it.
func (m *Rooms) ResolveOrCreate(title string, requester *entity.User) (*Room, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false, ErrRoomNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.byTitle[title]; ok {
		return room, false, nil
	}

	kind := entity.RoomPersistent
	switch requester.Role {
	case entity.RoleGuest:
		kind = entity.RoomEphemeral
	case entity.RoleSystem:
		kind = entity.RoomSystem
	}

	m.nextID++
	now := time.Now().UTC()
	room := &Room{
		ID:         m.nextID,
		UUID:       uuid.New().String(),
		Title:      title,
		Kind:       kind,
		Owner:      requester,
		CreatedAt:  now,
		lastActive: now,
	}
	m.byID[room.ID] = room
	m.byTitle[room.Title] = room

	log.Info().
		Str("title", room.Title).
		Str("kind", string(room.Kind)).
		Str("owner", requester.Nickname).
		Msg("chat: room created")
	return room, true, nil
}

// Seed installs a persisted room into the live manager, keeping its
// durable uuid. Used at boot and by the REST create path.
func (m *Rooms) Seed(r *entity.Room, owner *entity.User) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.byTitle[r.Title]; ok {
		return room
	}
	m.nextID++
	now := time.Now().UTC()
	last := r.LastActivityAt
	if last.IsZero() {
		last = now
	}
	room := &Room{
		ID:          m.nextID,
		UUID:        r.UUID,
		Title:       r.Title,
		Description: r.Description,
		Kind:        r.Kind,
		Owner:       owner,
		CreatedAt:   r.CreatedAt,
		lastActive:  last,
	}
	m.byID[room.ID] = room
	m.byTitle[room.Title] = room
	return room
}

// Get returns the live room for a title.
func (m *Rooms) Get(title string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.byTitle[strings.TrimSpace(title)]
	return room, ok
}

// GetByID returns the live room for an id.
func (m *Rooms) GetByID(id int64) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.byID[id]
	return room, ok
}

// Touch updates the room's last-activity timestamp. Called on every
// inbound message and subscribe event.
func (m *Rooms) Touch(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.byID[id]; ok {
		room.lastActive = time.Now().UTC()
	}
}

// LastActive returns the room's last-activity timestamp.
func (m *Rooms) LastActive(id int64) time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if room, ok := m.byID[id]; ok {
		return room.lastActive
	}
	return time.Time{}
}

// EvictIdle removes every EPHEMERAL room whose last activity is older than
// the threshold and that has no subscribers left. SYSTEM and PERSISTENT
// rooms are never evicted here. Returns the evicted rooms.
func (m *Rooms) EvictIdle(now time.Time, threshold time.Duration) []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []*Room
	for id, room := range m.byID {
		if room.Kind != entity.RoomEphemeral {
			continue
		}
		if now.Sub(room.lastActive) <= threshold {
			continue
		}
		if m.subs.Count(id) > 0 {
			continue
		}
		delete(m.byID, id)
		delete(m.byTitle, room.Title)
		m.subs.DropRoom(id)
		evicted = append(evicted, room)
		log.Info().
			Str("title", room.Title).
			Time("lastActive", room.lastActive).
			Msg("chat: idle ephemeral room evicted")
	}
	return evicted
}

// ReapOwned evicts the subscriber-less ephemeral rooms owned by a guest
// that just lost its last connection. Ephemeral rooms that still have
// other live subscribers survive; they become sweep-eligible once idle.
func (m *Rooms) ReapOwned(ownerID int64) []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []*Room
	for id, room := range m.byID {
		if room.Kind != entity.RoomEphemeral || room.Owner == nil || room.Owner.ID != ownerID {
			continue
		}
		if m.subs.Count(id) > 0 {
			continue
		}
		delete(m.byID, id)
		delete(m.byTitle, room.Title)
		m.subs.DropRoom(id)
		evicted = append(evicted, room)
		log.Info().Str("title", room.Title).Msg("chat: orphaned guest room reclaimed")
	}
	return evicted
}

// Redescribe replaces a live room's description. Returns false for
// unknown titles.
func (m *Rooms) Redescribe(title, description string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.byTitle[strings.TrimSpace(title)]
	if !ok {
		return false
	}
	room.Description = description
	return true
}

// Drop removes a live room regardless of kind, dropping its subscriptions.
// Used by the REST delete path.
func (m *Rooms) Drop(title string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.byTitle[strings.TrimSpace(title)]
	if !ok {
		return false
	}
	delete(m.byID, room.ID)
	delete(m.byTitle, room.Title)
	m.subs.DropRoom(room.ID)
	return true
}

// List returns a snapshot of every live room.
func (m *Rooms) List() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.byID))
	for _, room := range m.byID {
		out = append(out, room)
	}
	return out
}

// Size returns the number of live rooms.
func (m *Rooms) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// Start runs the periodic idle sweep until the context is cancelled. It
// takes the same locks as the foreground paths, so a sweep never races a
// concurrent subscribe.
func (m *Rooms) Start(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	log.Info().
		Dur("idleThreshold", m.idleThreshold).
		Dur("sweepInterval", m.sweepInterval).
		Msg("chat: room sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("chat: room sweeper stopped")
			return
		case <-ticker.C:
			if evicted := m.EvictIdle(time.Now().UTC(), m.idleThreshold); len(evicted) > 0 {
				log.Debug().Int("evicted", len(evicted)).Msg("chat: sweep completed")
			}
		}
	}
}
