package contract

import (
	"errors"
	"fmt"
	"maps"
	"sync/atomic"
)

// Metadata errors
var (
	ErrConsumed    = errors.New("builder handle already consumed by a stage transition")
	ErrReleased    = errors.New("metadata handle already released")
	ErrStillShared = errors.New("metadata still shared by outstanding handles")
)

// Access names the kind of access requested from or held on a cell.
type Access string

const (
	AccessView   Access = "view"
	AccessUpdate Access = "update"
)

// BorrowError reports an access that overlapped with one already in progress.
// It is the panic value raised by View and Update.
type BorrowError struct {
	Requested Access
	Held      Access
	Readers   int // active views when Held is AccessView
}

func (e *BorrowError) Error() string {
	if e.Held == AccessView {
		return fmt.Sprintf("metadata %s requested while %d view(s) active", e.Requested, e.Readers)
	}
	return fmt.Sprintf("metadata %s requested while an update is active", e.Requested)
}

// borrowExclusive marks a cell held by an Update.
const borrowExclusive = -1

// cell owns one metadata mapping. borrow is >0 while views are active and
// borrowExclusive during an update. refs counts live handles, builder included.
type cell struct {
	borrow atomic.Int32
	refs   atomic.Int32
	data   map[string]string
}

func newCell() *cell {
	c := &cell{data: make(map[string]string)}
	c.refs.Store(1)
	return c
}

func (c *cell) conflict(requested Access, state int32) *BorrowError {
	if state == borrowExclusive {
		return &BorrowError{Requested: requested, Held: AccessUpdate}
	}
	return &BorrowError{Requested: requested, Held: AccessView, Readers: int(state)}
}

// update runs fn with exclusive access to a working copy of the mapping and
// commits the copy when fn returns. A panic inside fn discards the copy.
func (c *cell) update(fn func(m map[string]string)) {
	if !c.borrow.CompareAndSwap(0, borrowExclusive) {
		panic(c.conflict(AccessUpdate, c.borrow.Load()))
	}
	defer c.borrow.Store(0)

	working := maps.Clone(c.data)
	fn(working)
	c.data = working
}

// view runs fn with shared access to a copy of the mapping. Changes fn makes
// to the copy, or references it keeps, never reach the record.
func (c *cell) view(fn func(m map[string]string)) {
	for {
		state := c.borrow.Load()
		if state == borrowExclusive {
			panic(c.conflict(AccessView, state))
		}
		if c.borrow.CompareAndSwap(state, state+1) {
			break
		}
	}
	defer c.borrow.Add(-1)

	fn(maps.Clone(c.data))
}

func (c *cell) snapshot() map[string]string {
	var out map[string]string
	c.view(func(m map[string]string) {
		out = m
	})
	return out
}

func (c *cell) retain() {
	c.refs.Add(1)
}

func (c *cell) release() {
	c.refs.Add(-1)
}

// take hands the mapping to the caller if the caller holds the only reference.
// Otherwise the caller's reference is dropped and ok is false.
func (c *cell) take() (data map[string]string, ok bool) {
	if c.borrow.Load() != 0 {
		panic(c.conflict(AccessUpdate, c.borrow.Load()))
	}
	if !c.refs.CompareAndSwap(1, 0) {
		c.release()
		return nil, false
	}
	data, c.data = c.data, nil
	return data, true
}
