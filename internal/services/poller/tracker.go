package poller

import "github.com/BearBump/ReviewBox/internal/models"

// StatusTracker remembers the last delivered status per homework id for the
// lifetime of the process. It is owned by the poll loop goroutine and is not
// safe for concurrent use.
type StatusTracker struct {
	statuses map[string]string
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{statuses: make(map[string]string)}
}

// Changed reports whether hw carries a status different from the stored one.
// It does not modify the tracker.
func (t *StatusTracker) Changed(hw models.Homework) (previous string, changed bool) {
	prev, ok := t.statuses[hw.ID]
	return prev, !ok || prev != hw.Status
}

func (t *StatusTracker) Commit(hw models.Homework) {
	t.statuses[hw.ID] = hw.Status
}

// Diff is Changed followed by Commit when the status changed.
func (t *StatusTracker) Diff(hw models.Homework) bool {
	if _, changed := t.Changed(hw); !changed {
		return false
	}
	t.Commit(hw)
	return true
}

func (t *StatusTracker) Status(id string) (string, bool) {
	s, ok := t.statuses[id]
	return s, ok
}

func (t *StatusTracker) Len() int {
	return len(t.statuses)
}
