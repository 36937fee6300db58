package week

import (
	"fmt"
	"time"
)

// Week identifies one scoring period of a season. UnlockAt and LockAt bound
// the window in which roster mutations for the week are permitted; timestamps
// may be nil for weeks the schedule tooling has not filled in yet.
type Week struct {
	Season   int
	Number   int
	StartsAt time.Time
	UnlockAt *time.Time
	LockAt   *time.Time
}

func (w Week) Validate() error {
	if w.Season <= 0 {
		return fmt.Errorf("week season is required")
	}
	if w.Number <= 0 {
		return fmt.Errorf("week number must be greater than zero")
	}
	if w.StartsAt.IsZero() {
		return fmt.Errorf("week start date is required")
	}
	if w.UnlockAt != nil && w.LockAt != nil && !w.UnlockAt.Before(*w.LockAt) {
		return fmt.Errorf("week unlock must precede lock")
	}

	return nil
}
