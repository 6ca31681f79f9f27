package contract

// Op names a builder operation reported to an Observer.
type Op string

const (
	OpCreate   Op = "create"
	OpAnnotate Op = "annotate"
	OpValidate Op = "validate"
	OpDeploy   Op = "deploy"
	OpExtract  Op = "extract"
)

// Event describes one completed builder operation.
type Event struct {
	ID   string
	Name string
	Op   Op
	From Stage
	To   Stage
	Keys int // entries in the mapping after the operation
}

// Observer receives an Event after every builder operation.
// Observers are called synchronously and outside any metadata access,
// so they may read the record through a registry handle.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// Builder is implemented by *Init, *Validated and *Deployed only.
type Builder interface {
	// Stage returns the stage tag of this handle.
	Stage() Stage
	// ID returns the correlation ID set with WithID.
	ID() string

	sealed()
}

// Compile-time checks that every stage implements Builder.
var (
	_ Builder = (*Init)(nil)
	_ Builder = (*Validated)(nil)
	_ Builder = (*Deployed)(nil)
)
