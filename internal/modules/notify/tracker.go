package notify

import (
	"sync"
	"time"
)

type Status string

const (
	StatusUnknown Status = "unknown"
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Outcome is visible only to the shopper that placed the order.
type Outcome struct {
	Status    Status
	Shopper   string
	Recipient string
	Err       string
	UpdatedAt time.Time
}

// Tracker remembers recent notification outcomes by order number so the
// confirmation page can poll them. Entries expire after ttl.
type Tracker struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]Outcome
}

func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Tracker{ttl: ttl, now: time.Now, entries: map[string]Outcome{}}
}

func (t *Tracker) Set(number string, o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o.UpdatedAt = t.now()
	t.entries[number] = o
	t.sweepLocked()
}

// Get returns the outcome for number if shopper placed that order and the
// entry has not expired.
func (t *Tracker) Get(number, shopper string) (Outcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.entries[number]
	if !ok || o.Shopper != shopper || t.now().Sub(o.UpdatedAt) > t.ttl {
		return Outcome{}, false
	}
	return o, true
}

func (t *Tracker) sweepLocked() {
	now := t.now()
	for k, o := range t.entries {
		if now.Sub(o.UpdatedAt) > t.ttl {
			delete(t.entries, k)
		}
	}
}
