package contract

import "time"

// DateLayout is the format of the timestamp written by Timestamp.
const DateLayout = "2006-01-02"

// DeployHook receives exclusive access to the metadata during OnDeploy.
type DeployHook func(m map[string]string)

// Timestamp returns a hook that writes the deploy date under KeyTimestamp.
// A nil now defaults to time.Now.
func Timestamp(now func() time.Time) DeployHook {
	if now == nil {
		now = time.Now
	}
	return func(m map[string]string) {
		m[KeyTimestamp] = now().Format(DateLayout)
	}
}

// Signer returns a hook that writes addr under KeySigner.
func Signer(addr string) DeployHook {
	return Set(KeySigner, addr)
}

// Set returns a hook that writes a single key.
func Set(key, value string) DeployHook {
	return func(m map[string]string) {
		m[key] = value
	}
}

// Chain returns a hook that runs hooks in order. Nil hooks are skipped.
func Chain(hooks ...DeployHook) DeployHook {
	return func(m map[string]string) {
		for _, h := range hooks {
			if h != nil {
				h(m)
			}
		}
	}
}
