package transfer

import (
	"sync"
)

// Registry maps owner ids to their single active transfer. Acquire and
// Release are the only cross-transfer shared mutable state in the engine;
// both are atomic check-and-set operations so two transfers for the same
// owner can never race into "not busy" simultaneously.
type Registry struct {
	mu     sync.Mutex
	active map[string]string // owner id -> transfer id
}

func NewRegistry() *Registry {
	return &Registry{
		active: make(map[string]string),
	}
}

// Acquire registers transferID as the owner's active transfer. It returns
// ErrOwnerBusy if the owner already has one; the caller must reject the new
// transfer synchronously, not queue it.
func (r *Registry) Acquire(owner, transferID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, busy := r.active[owner]; busy {
		// Re-acquiring with the same transfer id is a no-op, so a caller that
		// registers before handing off to the worker does not race itself.
		if cur == transferID {
			return nil
		}
		return ErrOwnerBusy
	}
	r.active[owner] = transferID
	return nil
}

// Release removes the owner's registration. It is safe to call on every exit
// path regardless of whether the transfer succeeded; releasing an absent
// owner is a no-op.
func (r *Registry) Release(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, owner)
}

// Active reports the owner's current transfer id, if any.
func (r *Registry) Active(owner string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.active[owner]
	return id, ok
}
