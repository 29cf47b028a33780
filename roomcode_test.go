package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCodeShape(t *testing.T) {
	code, err := generateRoomCode(func(string) bool { return false })
	require.NoError(t, err)
	assert.Len(t, code, roomCodeLength)
	for _, c := range code {
		assert.Contains(t, roomCodeAlphabet, string(c))
	}
}

func TestGenerateRoomCodeAvoidsCollisions(t *testing.T) {
	active := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code, err := generateRoomCode(func(c string) bool { return active[c] })
		require.NoError(t, err)
		require.False(t, active[code], "code %q issued twice", code)
		active[code] = true
	}
}

func TestGenerateRoomCodeCapacityExhausted(t *testing.T) {
	calls := 0
	_, err := generateRoomCode(func(string) bool {
		calls++
		return true
	})
	require.ErrorIs(t, err, ErrCapacityExhausted)
	assert.Equal(t, maxRoomCodeAttempts, calls)
}

func TestRandomRoomCodeUppercaseOnly(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := randomRoomCode()
		assert.Equal(t, code, strings.ToUpper(code))
	}
}
