package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"five-a-side/server/internal/physics"
)

// Conn is the write side of a client connection. The websocket layer wraps
// gorilla conns; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type session struct {
	id   string
	conn Conn
	mu   sync.Mutex
}

func (s *session) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Clock supplies the current time; tests substitute a manual clock so the
// authority windows are deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Scheduler defers a callback. Deferred resets carry a room code, not a room
// pointer, and re-validate existence when they fire.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

type Config struct {
	// Physics runs the per-room fixed-tick simulation loop. Without it the
	// server is a pure relay and detection runs on accepted ball writes.
	Physics bool
	// PlayerProxies mirrors client-reported player positions into the
	// physics world as kinematic colliders.
	PlayerProxies bool
	Logger        zerolog.Logger
	Clock         Clock
	Scheduler     Scheduler
}

func DefaultConfig() Config {
	return Config{
		Physics: true,
		Logger:  zerolog.Nop(),
	}
}

// Hub owns the session table and the active-room table, and provides the
// broadcast primitives every component fans out through. Room state itself
// is guarded per room; the hub lock only covers the two tables.
type Hub struct {
	log   zerolog.Logger
	clock Clock
	sched Scheduler
	cfg   Config

	mu         sync.RWMutex
	rooms      map[string]*Room
	sessions   map[string]*session
	membership map[string]string // session id -> room code
}

func NewHub(cfg Config) *Hub {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = timerScheduler{}
	}
	return &Hub{
		log:        cfg.Logger,
		clock:      cfg.Clock,
		sched:      cfg.Scheduler,
		cfg:        cfg,
		rooms:      make(map[string]*Room),
		sessions:   make(map[string]*session),
		membership: make(map[string]string),
	}
}

// Register admits a new connection and mints its opaque session token.
func (h *Hub) Register(conn Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = &session{id: id, conn: conn}
	h.mu.Unlock()
	h.log.Debug().Str("session", id).Msg("connection registered")
	return id
}

// Unregister handles disconnect: leave any room, then drop and close the
// session.
func (h *Hub) Unregister(id string) {
	h.Leave(id)

	h.mu.Lock()
	sess, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		sess.conn.Close()
		h.log.Debug().Str("session", id).Msg("connection closed")
	}
}

// CreateRoom allocates a fresh room, joins the creator, starts the tick loop
// when physics is on, and acknowledges the creator only.
func (h *Hub) CreateRoom(id string) (string, error) {
	h.Leave(id) // a connection is in at most one room

	h.mu.Lock()
	sess, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return "", eris.Errorf("create room: unknown session %s", id)
	}
	code, err := generateRoomCode(func(c string) bool {
		_, exists := h.rooms[c]
		return exists
	})
	if err != nil {
		h.mu.Unlock()
		h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "could not allocate a room code"})
		return "", err
	}

	var world *physics.World
	if h.cfg.Physics {
		world = physics.NewWorld(physics.DefaultConfig())
	}
	room := newRoom(code, h.log.With().Str("room", code).Logger(), world, h.cfg.PlayerProxies)
	room.members[id] = sess
	h.rooms[code] = room
	h.membership[id] = code
	h.mu.Unlock()

	if world != nil {
		go h.runRoom(room)
	}

	room.log.Info().Str("session", id).Msg("room created")
	h.sendTo(id, roomCreatedMessage{Type: msgRoomCreated, Code: code})
	return code, nil
}

// JoinRoom adds the connection to an existing room and hands it a full
// state snapshot so a late joiner needs no replay.
func (h *Hub) JoinRoom(id, code string) error {
	h.Leave(id)

	h.mu.Lock()
	sess, sessOK := h.sessions[id]
	room, roomOK := h.rooms[code]
	if !sessOK || !roomOK {
		h.mu.Unlock()
		if sessOK {
			h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "room " + code + " does not exist"})
		}
		return ErrRoomNotFound
	}
	h.membership[id] = code
	h.mu.Unlock()

	room.mu.Lock()
	if room.done {
		// Destroyed between lookup and join; treat as never found.
		room.mu.Unlock()
		h.mu.Lock()
		delete(h.membership, id)
		h.mu.Unlock()
		h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "room " + code + " does not exist"})
		return ErrRoomNotFound
	}
	room.members[id] = sess
	snapshot := room.snapshotLocked(h.clock.Now())
	room.mu.Unlock()

	room.log.Info().Str("session", id).Msg("player joined")
	h.sendTo(id, joinSuccessMessage{Type: msgJoinSuccess, Code: code})
	h.sendTo(id, snapshot)
	return nil
}

// Leave detaches the connection from its room, releasing its slot and any
// ball authority, and destroys the room when it empties. Safe to call for
// connections that are in no room.
func (h *Hub) Leave(id string) {
	h.mu.Lock()
	code, ok := h.membership[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.membership, id)
	room := h.rooms[code]
	h.mu.Unlock()
	if room == nil {
		return
	}

	room.mu.Lock()
	delete(room.members, id)
	room.roster.Remove(id)
	room.arbiter.release(id)
	delete(room.lastMove, id)
	if room.world != nil {
		room.world.RemoveProxy(id)
	}
	empty := len(room.members) == 0
	if empty {
		room.stopLocked()
	}
	room.mu.Unlock()

	if empty {
		h.mu.Lock()
		delete(h.rooms, code)
		h.mu.Unlock()
		room.log.Info().Msg("room destroyed")
		return
	}

	room.log.Info().Str("session", id).Msg("player left")
	h.broadcast(room, playerLeftMessage{Type: msgPlayerLeft, PlayerID: id}, "")
}

// ClaimRole atomically assigns a (team, role) slot: any prior slot of the
// claimant is released, the claim is committed, and the room hears
// playerPositionChanged. The claimant additionally receives the roster and
// a full snapshot so it can self-heal from racing claims.
func (h *Hub) ClaimRole(id, code string, team Team, role Role, nickname string) error {
	if !team.Valid() || !role.Valid() {
		h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "invalid team or position"})
		return ErrRoomNotFound
	}

	room := h.memberRoom(id, code)
	if room == nil {
		h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "room " + code + " does not exist"})
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if err := room.roster.Claim(id, team, role, nickname); err != nil {
		room.mu.Unlock()
		h.sendTo(id, positionOccupiedMessage{
			Type:    msgPositionOccupied,
			Message: string(team) + " " + string(role) + " is already taken",
		})
		return err
	}
	players := room.roster.Players()
	snapshot := room.snapshotLocked(h.clock.Now())
	room.mu.Unlock()

	room.log.Info().
		Str("session", id).
		Str("team", string(team)).
		Str("position", string(role)).
		Msg("role claimed")

	h.broadcast(room, playerPositionChangedMessage{
		Type:     msgPlayerPositionChanged,
		PlayerID: id,
		Team:     team,
		Position: role,
		Nickname: nickname,
	}, "")
	h.sendTo(id, allPlayersMessage{Type: msgAllPlayers, Players: players})
	h.sendTo(id, snapshot)
	return nil
}

// RequestRoomState answers with the current full snapshot.
func (h *Hub) RequestRoomState(id, code string) error {
	h.mu.RLock()
	room, ok := h.rooms[code]
	h.mu.RUnlock()
	if !ok {
		h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "room " + code + " does not exist"})
		return ErrRoomNotFound
	}

	room.mu.Lock()
	snapshot := room.snapshotLocked(h.clock.Now())
	room.mu.Unlock()

	h.sendTo(id, snapshot)
	return nil
}

// room re-fetches a room by code. Deferred callbacks use this instead of a
// retained pointer so a destroyed room drops the work silently.
func (h *Hub) room(code string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[code]
}

// memberRoom resolves the room by code only if the session is a member.
func (h *Hub) memberRoom(id, code string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.membership[id] != code {
		return nil
	}
	return h.rooms[code]
}

// sendTo delivers one message to one connection. A write failure tears the
// connection down; the game must keep running for everyone else.
func (h *Hub) sendTo(id string, msg any) {
	h.mu.RLock()
	sess, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	data, err := encodeMessage(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode message")
		return
	}
	if err := sess.send(data); err != nil {
		h.log.Warn().Err(err).Str("session", id).Msg("write failed, dropping connection")
		go h.Unregister(id)
	}
}

// broadcast fans a message out to every member of a room, optionally
// excluding the sender.
func (h *Hub) broadcast(room *Room, msg any, exclude string) {
	data, err := encodeMessage(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode broadcast")
		return
	}

	room.mu.Lock()
	targets := room.membersLocked(exclude)
	room.mu.Unlock()

	for _, sess := range targets {
		if err := sess.send(data); err != nil {
			h.log.Warn().Err(err).Str("session", sess.id).Msg("write failed, dropping connection")
			go h.Unregister(sess.id)
		}
	}
}
