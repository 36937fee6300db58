package week

import (
	"testing"
	"time"
)

func ts(day, hour int) time.Time {
	return time.Date(2026, time.January, day, hour, 0, 0, 0, time.UTC)
}

func tsp(day, hour int) *time.Time {
	t := ts(day, hour)
	return &t
}

func scheduledWeek(number, unlockDay, lockDay int) Week {
	return Week{
		Season:   2026,
		Number:   number,
		StartsAt: ts(lockDay, 19),
		UnlockAt: tsp(unlockDay, 6),
		LockAt:   tsp(lockDay, 18),
	}
}

func TestStateOf(t *testing.T) {
	w := scheduledWeek(1, 5, 7)

	tests := []struct {
		name string
		now  time.Time
		want LockState
	}{
		{name: "before unlock", now: ts(4, 12), want: LockStateLockedFuture},
		{name: "exactly at unlock", now: ts(5, 6), want: LockStateUnlocked},
		{name: "inside window", now: ts(6, 12), want: LockStateUnlocked},
		{name: "exactly at lock", now: ts(7, 18), want: LockStateLockedPermanent},
		{name: "after lock", now: ts(8, 0), want: LockStateLockedPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(w, tt.now); got != tt.want {
				t.Fatalf("unexpected state: got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestStateOf_FallbackWithoutTimestamps(t *testing.T) {
	w := Week{Season: 2026, Number: 3, StartsAt: ts(10, 19)}

	if got := StateOf(w, ts(10, 12)); got != LockStateUnlocked {
		t.Fatalf("expected unlocked before start date, got %s", got)
	}
	if got := StateOf(w, ts(10, 19)); got != LockStateLockedPermanent {
		t.Fatalf("expected locked once start date passed, got %s", got)
	}
}

func TestIsLocked_CrossWeekInProgressRule(t *testing.T) {
	weeks := []Week{
		scheduledWeek(1, 5, 7),
		scheduledWeek(2, 12, 14),
		scheduledWeek(3, 19, 21),
	}

	// Week 1 locked at day 7 18:00, week 2 unlocks day 12 06:00. In between,
	// games are in play and every week of the season reads as locked.
	inPlay := ts(9, 12)
	if !AnyInProgress(weeks, inPlay) {
		t.Fatalf("expected season in progress at %v", inPlay)
	}
	for _, w := range weeks {
		if !IsLocked(weeks, w, inPlay) {
			t.Fatalf("expected week %d locked while another week is in progress", w.Number)
		}
	}

	// Once week 2 unlocks, it is the only mutable week.
	open := ts(13, 12)
	if AnyInProgress(weeks, open) {
		t.Fatalf("did not expect season in progress at %v", open)
	}
	if IsLocked(weeks, weeks[1], open) {
		t.Fatalf("expected week 2 unlocked at %v", open)
	}
	if !IsLocked(weeks, weeks[0], open) || !IsLocked(weeks, weeks[2], open) {
		t.Fatalf("expected weeks 1 and 3 locked at %v", open)
	}
}

func TestIsLocked_LastWeekLockEndsSeason(t *testing.T) {
	weeks := []Week{
		scheduledWeek(1, 5, 7),
		scheduledWeek(2, 12, 14),
	}

	after := ts(20, 0)
	if AnyInProgress(weeks, after) {
		t.Fatalf("last week's lock must not leave the season in progress forever")
	}
	if !IsLocked(weeks, weeks[1], after) {
		t.Fatalf("expected final week permanently locked")
	}
}

func TestUnlocked(t *testing.T) {
	weeks := []Week{
		scheduledWeek(2, 12, 14),
		scheduledWeek(1, 5, 7),
	}

	open := Unlocked(weeks, ts(6, 12))
	if len(open) != 1 || open[0].Number != 1 {
		t.Fatalf("expected only week 1 unlocked, got %+v", open)
	}

	if got := Unlocked(weeks, ts(9, 12)); len(got) != 0 {
		t.Fatalf("expected no unlocked weeks while season in progress, got %+v", got)
	}
}
