package server

import "time"

// ballArbiter models the single time-bounded write lock over ball state.
// Expiry is an explicit timestamp check on every access, never a timer: a
// holder that stops writing simply stops being the holder.
type ballArbiter struct {
	holder     string
	lastUpdate time.Time
}

// holderAt reports the effective authority holder, treating a lapsed grant
// as released.
func (a *ballArbiter) holderAt(now time.Time) string {
	if a.holder == "" || now.Sub(a.lastUpdate) > authorityExpiry {
		return ""
	}
	return a.holder
}

// allowKick gates high-priority kick writes. A different live holder blocks
// the kick only within the contest window after its last accepted write.
func (a *ballArbiter) allowKick(id string, now time.Time) bool {
	holder := a.holderAt(now)
	if holder == "" || holder == id {
		return true
	}
	return now.Sub(a.lastUpdate) >= authorityContestWindow
}

// allowUpdate gates the lower-priority continuous sync channel: the sender
// must already hold authority, or nobody may have written recently.
func (a *ballArbiter) allowUpdate(id string, now time.Time) bool {
	if holder := a.holderAt(now); holder == id {
		return true
	}
	return now.Sub(a.lastUpdate) > authorityIdleTakeover
}

func (a *ballArbiter) grant(id string, now time.Time) {
	a.holder = id
	a.lastUpdate = now
}

// release drops authority immediately if held by id, e.g. on disconnect.
func (a *ballArbiter) release(id string) {
	if a.holder == id {
		a.holder = ""
	}
}
