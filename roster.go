package server

import "sort"

// PlayerInfo exists only while a connection is joined to a room and holds a
// claimed slot.
type PlayerInfo struct {
	ID       string `json:"playerId"`
	Team     Team   `json:"team"`
	Role     Role   `json:"position"`
	Nickname string `json:"nickname"`
}

// Occupancy is the wire view of the 2x5 slot grid.
type Occupancy map[Team]map[Role]bool

type slotKey struct {
	team Team
	role Role
}

// Roster couples the slot occupancy ledger with the player registry so the
// two are mutated as one atomic step: a slot is taken if and only if exactly
// one registered player holds that (team, role) pair.
type Roster struct {
	slots   map[slotKey]string    // (team, role) -> session id
	players map[string]PlayerInfo // session id -> info
}

func NewRoster() *Roster {
	return &Roster{
		slots:   make(map[slotKey]string),
		players: make(map[string]PlayerInfo),
	}
}

// Claim assigns (team, role) to the given connection. A prior slot held by
// the same connection is released as part of the same step. If the target
// slot belongs to a different connection the claim fails with
// ErrPositionOccupied and nothing changes.
func (r *Roster) Claim(id string, team Team, role Role, nickname string) error {
	target := slotKey{team, role}
	if holder, ok := r.slots[target]; ok && holder != id {
		return ErrPositionOccupied
	}

	if prior, ok := r.players[id]; ok {
		delete(r.slots, slotKey{prior.Team, prior.Role})
	}
	r.slots[target] = id
	r.players[id] = PlayerInfo{ID: id, Team: team, Role: role, Nickname: nickname}
	return nil
}

// Remove releases the connection's slot and registry entry, reporting the
// removed info when the connection held one.
func (r *Roster) Remove(id string) (PlayerInfo, bool) {
	info, ok := r.players[id]
	if !ok {
		return PlayerInfo{}, false
	}
	delete(r.slots, slotKey{info.Team, info.Role})
	delete(r.players, id)
	return info, true
}

func (r *Roster) Player(id string) (PlayerInfo, bool) {
	info, ok := r.players[id]
	return info, ok
}

// Players returns the registry in a stable team-then-role order.
func (r *Roster) Players() []PlayerInfo {
	players := make([]PlayerInfo, 0, len(r.players))
	for _, info := range r.players {
		players = append(players, info)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Team != players[j].Team {
			return players[i].Team < players[j].Team
		}
		return roleIndex(players[i].Role) < roleIndex(players[j].Role)
	})
	return players
}

func (r *Roster) Len() int {
	return len(r.players)
}

func (r *Roster) Occupancy() Occupancy {
	grid := Occupancy{
		TeamBlue: make(map[Role]bool, len(allRoles)),
		TeamRed:  make(map[Role]bool, len(allRoles)),
	}
	for _, role := range allRoles {
		grid[TeamBlue][role] = false
		grid[TeamRed][role] = false
	}
	for key := range r.slots {
		grid[key.team][key.role] = true
	}
	return grid
}
