package contract

import (
	"fmt"
	"sync/atomic"
)

// Handle is a shared read/write reference to a contract's metadata.
// Every handle aliases the same mapping, so writes through one are visible
// through all others. Handles are obtained from Deployed.Registry.
type Handle struct {
	cell     *cell
	released atomic.Bool
}

func newHandle(c *cell) *Handle {
	c.retain()
	return &Handle{cell: c}
}

func (h *Handle) live(op string) *cell {
	if h.released.Load() {
		panic(fmt.Errorf("%s: %w", op, ErrReleased))
	}
	return h.cell
}

// View runs fn with shared access to the mapping. fn receives a copy, so
// writes to it are discarded; use Update to change the record.
func (h *Handle) View(fn func(m map[string]string)) {
	h.live("View").view(fn)
}

// Update runs fn with exclusive access to the mapping.
func (h *Handle) Update(fn func(m map[string]string)) {
	h.live("Update").update(fn)
}

// Get returns the value stored under key.
func (h *Handle) Get(key string) (string, bool) {
	var (
		value string
		ok    bool
	)
	h.View(func(m map[string]string) {
		value, ok = m[key]
	})
	return value, ok
}

// Set stores value under key.
func (h *Handle) Set(key, value string) {
	h.Update(func(m map[string]string) {
		m[key] = value
	})
}

// Delete removes key from the mapping.
func (h *Handle) Delete(key string) {
	h.Update(func(m map[string]string) {
		delete(m, key)
	})
}

// Len returns the number of entries.
func (h *Handle) Len() int {
	var n int
	h.View(func(m map[string]string) {
		n = len(m)
	})
	return n
}

// Snapshot returns a copy of the mapping.
func (h *Handle) Snapshot() map[string]string {
	return h.live("Snapshot").snapshot()
}

// Clone returns a new handle to the same mapping.
func (h *Handle) Clone() *Handle {
	return newHandle(h.live("Clone"))
}

// Release drops this handle's reference. Releasing twice is a no-op;
// any other call on a released handle panics with ErrReleased.
func (h *Handle) Release() {
	if h.released.CompareAndSwap(false, true) {
		h.cell.release()
	}
}
