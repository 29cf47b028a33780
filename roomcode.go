package server

import (
	"crypto/rand"
	"math/big"
)

const (
	roomCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	roomCodeLength      = 4
	maxRoomCodeAttempts = 64
)

// generateRoomCode draws 4-letter codes until one is free of collisions.
// Retries are bounded: with the active-room count far below 26^4 a handful
// of attempts always suffices, and exhausting the bound surfaces as a
// creation failure instead of unbounded recursion.
func generateRoomCode(taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		code := randomRoomCode()
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrCapacityExhausted
}

func randomRoomCode() string {
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	b := make([]byte, roomCodeLength)
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = roomCodeAlphabet[idx.Int64()]
	}
	return string(b)
}
