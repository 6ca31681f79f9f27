package contract

import "fmt"

// Option configures a builder created with New.
type Option func(*core)

// WithID sets the correlation ID reported by ID and in observer events.
// It is never written into the metadata.
func WithID(id string) Option {
	return func(c *core) {
		c.id = id
	}
}

// WithObserver registers an observer for builder operations.
// A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(c *core) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// core is the state carried from stage to stage.
type core struct {
	id        string
	name      string
	cell      *cell
	observers []Observer
	consumed  bool
}

func (c *core) ID() string { return c.id }

func (c *core) sealed() {}

// check panics if the handle was consumed by an earlier transition.
func (c *core) check(op string) {
	if c.consumed {
		panic(fmt.Errorf("%s: %w", op, ErrConsumed))
	}
}

// handOff moves the state into a new stage value and invalidates the receiver.
func (c *core) handOff() core {
	next := *c
	c.consumed = true
	c.cell = nil
	return next
}

func (c *core) emit(op Op, from, to Stage, keys int) {
	if len(c.observers) == 0 {
		return
	}
	e := Event{ID: c.id, Name: c.name, Op: op, From: from, To: to, Keys: keys}
	for _, o := range c.observers {
		o.Observe(e)
	}
}

// Init is a builder in the first stage.
type Init struct {
	core
}

// New creates a builder in the Init stage with an empty metadata mapping.
func New(name string, opts ...Option) *Init {
	b := &Init{core: core{name: name, cell: newCell()}}
	for _, opt := range opts {
		opt(&b.core)
	}
	b.emit(OpCreate, StageInit, StageInit, 0)
	return b
}

// Stage returns StageInit.
func (b *Init) Stage() Stage { return StageInit }

// WithAuthor records the author. Repeated calls overwrite the previous value.
func (b *Init) WithAuthor(author string) *Init {
	b.check("WithAuthor")

	var keys int
	b.cell.update(func(m map[string]string) {
		m[KeyAuthor] = author
		keys = len(m)
	})
	b.emit(OpAnnotate, StageInit, StageInit, keys)
	return b
}

// Validate marks the metadata as validated and moves the builder to the
// Validated stage. The receiver is consumed.
func (b *Init) Validate() *Validated {
	b.check("Validate")

	var keys int
	b.cell.update(func(m map[string]string) {
		m[KeyValidated] = ValidatedTrue
		keys = len(m)
	})
	next := &Validated{core: b.handOff()}
	next.emit(OpValidate, StageInit, StageValidated, keys)
	return next
}

// Validated is a builder whose metadata has been validated.
type Validated struct {
	core
}

// Stage returns StageValidated.
func (b *Validated) Stage() Stage { return StageValidated }

// OnDeploy marks the contract as deployed and runs hook exactly once with
// exclusive access to the mapping, then moves the builder to the Deployed stage.
// A nil hook adds nothing. If hook panics the mapping is left as it was and the
// receiver stays usable; otherwise the receiver is consumed.
func (b *Validated) OnDeploy(hook DeployHook) *Deployed {
	b.check("OnDeploy")

	var keys int
	b.cell.update(func(m map[string]string) {
		m[KeyStatus] = StatusDeployed
		if hook != nil {
			hook(m)
		}
		keys = len(m)
	})
	next := &Deployed{core: b.handOff()}
	next.emit(OpDeploy, StageValidated, StageDeployed, keys)
	return next
}

// Deployed is a builder in the terminal stage.
type Deployed struct {
	core
}

// Stage returns StageDeployed.
func (b *Deployed) Stage() Stage { return StageDeployed }

// Name returns the name the builder was created with.
func (b *Deployed) Name() string {
	b.check("Name")
	return b.name
}

// AddObserver registers o for the operations still ahead, such as IntoInner.
// A nil observer is ignored.
func (b *Deployed) AddObserver(o Observer) {
	b.check("AddObserver")
	if o != nil {
		b.observers = append(b.observers, o)
	}
}

// Registry returns a new shared handle to the metadata. The builder stays usable.
// Callers should Release the handle when done so IntoInner can take ownership.
func (b *Deployed) Registry() *Handle {
	b.check("Registry")
	return newHandle(b.cell)
}

// View runs fn with shared access to a copy of the metadata.
func (b *Deployed) View(fn func(m map[string]string)) {
	b.check("View")
	b.cell.view(fn)
}

// Update runs fn with exclusive access to the metadata.
func (b *Deployed) Update(fn func(m map[string]string)) {
	b.check("Update")
	b.cell.update(fn)
}

// Snapshot returns a copy of the metadata.
func (b *Deployed) Snapshot() map[string]string {
	b.check("Snapshot")
	return b.cell.snapshot()
}

// IntoInner takes ownership of the metadata and consumes the builder.
//
// When registry handles obtained from this builder are still live, ownership
// cannot be transferred: IntoInner returns an empty, non-nil mapping and
// ErrStillShared. The outstanding handles keep the record.
func (b *Deployed) IntoInner() (map[string]string, error) {
	b.check("IntoInner")

	// take panics on an active borrow; the builder keeps its reference then.
	data, ok := b.cell.take()
	b.handOff()
	if !ok {
		b.emit(OpExtract, StageDeployed, StageDeployed, 0)
		return map[string]string{}, ErrStillShared
	}
	b.emit(OpExtract, StageDeployed, StageDeployed, len(data))
	return data, nil
}
