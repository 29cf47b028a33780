package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterClaimAndOccupancy(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Claim("a", TeamBlue, RoleGoalkeeper, "Ana"))

	grid := r.Occupancy()
	assert.True(t, grid[TeamBlue][RoleGoalkeeper])
	assert.False(t, grid[TeamRed][RoleGoalkeeper])
	assert.Equal(t, 1, r.Len())

	info, ok := r.Player("a")
	require.True(t, ok)
	assert.Equal(t, TeamBlue, info.Team)
	assert.Equal(t, RoleGoalkeeper, info.Role)
	assert.Equal(t, "Ana", info.Nickname)
}

func TestRosterClaimConflictLeavesStateUnchanged(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Claim("a", TeamBlue, RoleGoalkeeper, "Ana"))

	err := r.Claim("b", TeamBlue, RoleGoalkeeper, "Ben")
	require.ErrorIs(t, err, ErrPositionOccupied)

	// First claim intact, second connection absent.
	info, ok := r.Player("a")
	require.True(t, ok)
	assert.Equal(t, "Ana", info.Nickname)
	_, ok = r.Player("b")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRosterReclaimMovesSlot(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Claim("a", TeamBlue, RoleGoalkeeper, "Ana"))
	require.NoError(t, r.Claim("a", TeamRed, RoleLeftForward, "Ana"))

	grid := r.Occupancy()
	assert.False(t, grid[TeamBlue][RoleGoalkeeper], "old slot must be released")
	assert.True(t, grid[TeamRed][RoleLeftForward])
	assert.Equal(t, 1, r.Len(), "reassignment must replace, not duplicate")
}

func TestRosterConflictRollsBackTentativeRelease(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Claim("a", TeamBlue, RoleGoalkeeper, "Ana"))
	require.NoError(t, r.Claim("b", TeamBlue, RoleLeftForward, "Ben"))

	// b tries to move onto a's slot; the failed claim must not release b's
	// current slot.
	err := r.Claim("b", TeamBlue, RoleGoalkeeper, "Ben")
	require.ErrorIs(t, err, ErrPositionOccupied)

	grid := r.Occupancy()
	assert.True(t, grid[TeamBlue][RoleGoalkeeper])
	assert.True(t, grid[TeamBlue][RoleLeftForward])
	info, _ := r.Player("b")
	assert.Equal(t, RoleLeftForward, info.Role)
}

func TestRosterLedgerMatchesRegistry(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Claim("a", TeamBlue, RoleGoalkeeper, "Ana"))
	require.NoError(t, r.Claim("b", TeamBlue, RoleLeftDefender, "Ben"))
	require.NoError(t, r.Claim("c", TeamRed, RoleGoalkeeper, "Cyd"))
	r.Remove("b")

	taken := 0
	for _, roles := range r.Occupancy() {
		for _, occupied := range roles {
			if occupied {
				taken++
			}
		}
	}
	assert.Equal(t, r.Len(), taken)

	seen := make(map[string]bool)
	for _, p := range r.Players() {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestRosterRemoveUnknown(t *testing.T) {
	r := NewRoster()
	_, ok := r.Remove("ghost")
	assert.False(t, ok)
}

func TestRosterPlayersStableOrder(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Claim("c", TeamRed, RoleGoalkeeper, "Cyd"))
	require.NoError(t, r.Claim("b", TeamBlue, RoleRightForward, "Ben"))
	require.NoError(t, r.Claim("a", TeamBlue, RoleGoalkeeper, "Ana"))

	players := r.Players()
	require.Len(t, players, 3)
	assert.Equal(t, "a", players[0].ID)
	assert.Equal(t, "b", players[1].ID)
	assert.Equal(t, "c", players[2].ID)
}
