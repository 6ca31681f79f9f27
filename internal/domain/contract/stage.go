package contract

// Stage identifies where a builder is in the construction sequence.
type Stage int

const (
	// StageInit is the stage of a freshly created builder.
	StageInit Stage = iota
	// StageValidated is reached through Init.Validate.
	StageValidated
	// StageDeployed is reached through Validated.OnDeploy. It is terminal.
	StageDeployed
)

// String returns a human-readable representation of the Stage.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageValidated:
		return "validated"
	case StageDeployed:
		return "deployed"
	default:
		return "unknown"
	}
}

// Metadata keys written by the builder itself.
const (
	KeyAuthor    = "author"
	KeyValidated = "validated"
	KeyStatus    = "status"
	KeyTimestamp = "timestamp"
	KeySigner    = "signer"
)

// Values written by the stage transitions.
const (
	ValidatedTrue  = "true"
	StatusDeployed = "deployed"
)
