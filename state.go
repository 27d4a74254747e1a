package authgate

import "fmt"

// StateKind identifies one of the closed set of gate states.
type StateKind string

const (
	StateKindChecking      StateKind = "checking"
	StateKindAuthenticated StateKind = "authenticated"
	StateKindLockScreen    StateKind = "lock_screen"
	StateKindError         StateKind = "error"
	StateKindFailed        StateKind = "failed"
)

// AuthState is the gate's current state. It is an immutable value; the
// error and failed variants carry a human readable message, the rest are
// singleton by kind.
type AuthState struct {
	kind    StateKind
	message string
}

// StateChecking reports a verification attempt in flight.
func StateChecking() AuthState {
	return AuthState{kind: StateKindChecking}
}

// StateAuthenticated reports the most recent verification succeeded.
func StateAuthenticated() AuthState {
	return AuthState{kind: StateKindAuthenticated}
}

// StateLockScreen hides gated content until an explicit unlock request.
func StateLockScreen() AuthState {
	return AuthState{kind: StateKindLockScreen}
}

// StateError reports an unexpected verification error with a diagnostic.
func StateError(message string) AuthState {
	return AuthState{kind: StateKindError, message: message}
}

// StateFailed reports a completed attempt that did not authenticate
// (user declined, cancelled, or no fallback was configured).
func StateFailed(message string) AuthState {
	return AuthState{kind: StateKindFailed, message: message}
}

// Kind returns the state variant.
func (s AuthState) Kind() StateKind {
	return s.kind
}

// Message returns the diagnostic carried by error/failed states.
func (s AuthState) Message() string {
	return s.message
}

// Is reports whether the state has the given kind.
func (s AuthState) Is(kind StateKind) bool {
	return s.kind == kind
}

// Equal compares two states. Error/failed states are equal only when their
// messages match; the remaining variants compare by kind alone. The machine
// suppresses observer notifications when a transition lands on an equal state.
func (s AuthState) Equal(o AuthState) bool {
	if s.kind != o.kind {
		return false
	}
	if s.kind == StateKindError || s.kind == StateKindFailed {
		return s.message == o.message
	}
	return true
}

func (s AuthState) String() string {
	if s.message != "" {
		return fmt.Sprintf("%s(%s)", string(s.kind), s.message)
	}
	return string(s.kind)
}
