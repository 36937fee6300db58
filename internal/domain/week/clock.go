package week

import (
	"sort"
	"time"
)

// LockState is the roster-mutation state of a single week at a point in time.
type LockState string

const (
	// LockStateLockedFuture means the week's unlock has not arrived yet.
	LockStateLockedFuture LockState = "locked_future"
	// LockStateUnlocked means roster mutations for the week are permitted.
	LockStateUnlocked LockState = "unlocked"
	// LockStateLockedPermanent means the week's lock has passed; this is
	// irreversible for that week.
	LockStateLockedPermanent LockState = "locked_permanent"
)

// StateOf evaluates one week in isolation. Weeks without explicit window
// timestamps fall back to the simpler rule: open until the start date passes,
// permanently locked afterwards.
func StateOf(w Week, now time.Time) LockState {
	if w.UnlockAt == nil || w.LockAt == nil {
		if now.Before(w.StartsAt) {
			return LockStateUnlocked
		}
		return LockStateLockedPermanent
	}

	if now.Before(*w.UnlockAt) {
		return LockStateLockedFuture
	}
	if now.Before(*w.LockAt) {
		return LockStateUnlocked
	}
	return LockStateLockedPermanent
}

// AnyInProgress reports whether some week of the season is mid-play: its own
// lock has passed but the following week has not unlocked yet. While any week
// is in progress the whole season is treated as locked.
func AnyInProgress(weeks []Week, now time.Time) bool {
	ordered := sortedByNumber(weeks)
	for i, w := range ordered {
		if w.LockAt == nil || now.Before(*w.LockAt) {
			continue
		}
		if i+1 >= len(ordered) {
			// The season's last lock has passed; there is no next window to
			// wait for.
			continue
		}
		if now.Before(unlockBoundary(ordered[i+1])) {
			return true
		}
	}

	return false
}

// IsLocked is the engine-wide lock predicate for a target week: true when the
// target is outside its own unlock window or when any week of the season is
// in progress. Pure function of its inputs, safe to call arbitrarily often.
func IsLocked(weeks []Week, target Week, now time.Time) bool {
	if AnyInProgress(weeks, now) {
		return true
	}
	return StateOf(target, now) != LockStateUnlocked
}

// Unlocked filters the season's weeks down to the ones currently open for
// roster mutations, in ascending week order.
func Unlocked(weeks []Week, now time.Time) []Week {
	if AnyInProgress(weeks, now) {
		return nil
	}

	open := make([]Week, 0, 1)
	for _, w := range sortedByNumber(weeks) {
		if StateOf(w, now) == LockStateUnlocked {
			open = append(open, w)
		}
	}

	return open
}

func unlockBoundary(w Week) time.Time {
	if w.UnlockAt != nil {
		return *w.UnlockAt
	}
	return w.StartsAt
}

func sortedByNumber(weeks []Week) []Week {
	ordered := append([]Week(nil), weeks...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })
	return ordered
}
