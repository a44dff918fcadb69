package route

import "sync"

// lifecycleRegistry hands out one Lifecycle per placeholder id so
// concurrent Route calls for the same placeholder contend on the same
// state machine. Entries are evicted once the stored record durably holds
// the outcome; replay detection reads the record, not this map.
type lifecycleRegistry struct {
	mu         sync.Mutex
	lifecycles map[string]*Lifecycle
}

func (r *lifecycleRegistry) get(placeholderID string) *Lifecycle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lifecycles == nil {
		r.lifecycles = make(map[string]*Lifecycle)
	}
	lc, ok := r.lifecycles[placeholderID]
	if !ok {
		lc = NewLifecycle(placeholderID)
		r.lifecycles[placeholderID] = lc
	}
	return lc
}

// evict drops a placeholder's entry. Safe only when the stored record can
// no longer be routed (terminal or gone); a still-pending record must keep
// its entry so retries serialize on it.
func (r *lifecycleRegistry) evict(placeholderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lifecycles, placeholderID)
}
