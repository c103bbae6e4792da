package snapshot

import "sync/atomic"

// Holder publishes the live Snapshot. Readers call Load once per request
// and keep using the returned Snapshot even if a reload swaps in a new one.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a Holder, optionally seeded with an initial snapshot.
func NewHolder(initial *Snapshot) *Holder {
	h := &Holder{}
	if initial != nil {
		h.current.Store(initial)
	}
	return h
}

// Load returns the live snapshot, or ErrNoSnapshot if none has been stored.
func (h *Holder) Load() (*Snapshot, error) {
	s := h.current.Load()
	if s == nil {
		return nil, ErrNoSnapshot
	}
	return s, nil
}

// Swap publishes next and returns the snapshot it replaced, which may be nil.
func (h *Holder) Swap(next *Snapshot) *Snapshot {
	return h.current.Swap(next)
}
