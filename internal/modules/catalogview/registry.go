package catalogview

import (
	"sync"
	"time"
)

// Registry keeps one Controller per shopper and forgets idle ones.
type Registry struct {
	lister Lister
	opts   Options
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*Controller
}

func NewRegistry(lister Lister, opts Options, ttl time.Duration) *Registry {
	return &Registry{
		lister: lister,
		opts:   opts,
		ttl:    ttl,
		now:    time.Now,
		items:  map[string]*Controller{},
	}
}

// For returns the shopper's controller, creating it on first use.
func (r *Registry) For(shopper string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[shopper]; ok {
		return c
	}
	c := New(r.lister, r.opts)
	r.items[shopper] = c
	return c
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Prune drops controllers idle for longer than the ttl and returns how many
// were removed.
func (r *Registry) Prune() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, c := range r.items {
		if c.IdleSince().Before(cutoff) {
			delete(r.items, k)
			n++
		}
	}
	return n
}

// Run prunes every interval until stop is closed.
func (r *Registry) Run(stop <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			r.Prune()
		}
	}
}
