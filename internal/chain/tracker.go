package chain

// Tracker holds the current chain version of a wallet.
//
// Tracker is not safe for concurrent use; the owning wallet serializes
// access under its own lock.
type Tracker struct {
	current Chain
}

// NewTracker creates a tracker positioned at c.
func NewTracker(c Chain) *Tracker {
	return &Tracker{current: c}
}

// Snapshot returns the current version. Later commits do not affect the
// returned value.
func (t *Tracker) Snapshot() Chain {
	return t.current
}

// Commit replaces the current version.
func (t *Tracker) Commit(c Chain) {
	t.current = c
}

// Tip returns the tip of the current version.
func (t *Tracker) Tip() BlockID {
	return t.current.Tip()
}

// Apply attaches suffix to the current version and commits the result.
// It reports whether the chain changed.
func (t *Tracker) Apply(suffix []BlockID) (bool, error) {
	next, cs, _, err := t.current.Apply(suffix)
	if err != nil {
		return false, err
	}

	t.current = next
	return !cs.IsEmpty(), nil
}
