package wakeup

import "sync"

// Registry is the process-local name→counter map published during
// bootstrap (spec §4.5, §6.2): the supervisor creates one Indicator per
// stream, a child registers the ones it inherited, and both writers and
// consumers look one up for every stream they write or join.
type Registry struct {
	mu         sync.Mutex
	indicators map[Key]*Indicator
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{indicators: make(map[Key]*Indicator)}
}

// GetOrCreate returns the Indicator for key, creating a fresh eventfd
// counter the first time it's requested. bootstrap.NewSupervisor calls
// this once for every stream it provisions.
func (r *Registry) GetOrCreate(key Key) (*Indicator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ind, ok := r.indicators[key]; ok {
		return ind, nil
	}
	ind, err := NewIndicator(key)
	if err != nil {
		return nil, err
	}
	r.indicators[key] = ind
	return ind, nil
}

// Register records an Indicator obtained some other way (inherited via
// FDS, or received over SCM_RIGHTS) under its key.
func (r *Registry) Register(ind *Indicator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indicators[ind.key] = ind
}

// Lookup returns the Indicator for key, if one has been registered.
func (r *Registry) Lookup(key Key) (*Indicator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ind, ok := r.indicators[key]
	return ind, ok
}

// All returns every registered Indicator, for handing the full set to a
// newly-constructed Observer or to SendIndicatorFDs.
func (r *Registry) All() []*Indicator {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Indicator, 0, len(r.indicators))
	for _, ind := range r.indicators {
		out = append(out, ind)
	}
	return out
}

// Close releases every registered Indicator's descriptor.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for key, ind := range r.indicators {
		if err := ind.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.indicators, key)
	}
	return firstErr
}
