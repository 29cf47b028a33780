package server

import "github.com/rotisserie/eris"

// Sentinel errors surfaced to callers. All of them are recoverable at the
// connection level; none may corrupt another connection's or room's state.
var (
	ErrRoomNotFound      = eris.New("room not found")
	ErrPositionOccupied  = eris.New("position occupied")
	ErrKickRejected      = eris.New("kick rejected")
	ErrCapacityExhausted = eris.New("room code space exhausted")
)
