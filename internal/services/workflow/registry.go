package workflow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
)

// Factory builds the controller for a visitor seen for the first time. The
// origin is the one the visitor's first request arrived on.
type Factory func(visitorID string, origin config.Origin) (*Controller, error)

// Registry holds one controller per visitor and forgets idle visitors.
type Registry struct {
	factory Factory
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewRegistry creates a registry that evicts visitors idle for longer than ttl.
func NewRegistry(ttl time.Duration, factory Factory) *Registry {
	return &Registry{
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Get returns the visitor's controller, creating it on first use.
func (r *Registry) Get(visitorID string, origin config.Origin) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[visitorID]; ok {
		e.lastSeen = r.now()
		return e.ctrl, nil
	}

	ctrl, err := r.factory(visitorID, origin)
	if err != nil {
		return nil, err
	}
	r.entries[visitorID] = &registryEntry{ctrl: ctrl, lastSeen: r.now()}
	return ctrl, nil
}

// Len returns the number of live visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts expired visitors and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("🧹 Evicted %d idle viewer sessions", n)
			}
		}
	}
}
