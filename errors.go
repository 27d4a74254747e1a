package authgate

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeVerifierUnavailable = "VERIFIER_UNAVAILABLE"
	textCodeLockoutPermanent    = "VERIFIER_LOCKOUT_PERMANENT"
	textCodeLockoutTemporary    = "VERIFIER_LOCKOUT_TEMPORARY"
	textCodeAuthFailed          = "AUTHENTICATION_FAILED"
	textCodeAttemptInFlight     = "VERIFICATION_IN_FLIGHT"
	textCodeMachineClosed       = "AUTH_MACHINE_CLOSED"
)

// ErrVerifierUnavailable is returned when hardware or enrollment is missing;
// it is raised before any verification attempt starts.
var ErrVerifierUnavailable = goerrors.New("device credential verification is unavailable", goerrors.CategoryOperation).
	WithTextCode(textCodeVerifierUnavailable).
	WithCode(goerrors.CodeConflict)

// ErrPermanentLockout is returned when the verifier disabled biometrics after
// repeated failures and the automatic device-credential fallback also failed.
var ErrPermanentLockout = goerrors.New("verifier is permanently locked out", goerrors.CategoryAuth).
	WithTextCode(textCodeLockoutPermanent).
	WithCode(goerrors.CodeForbidden)

// ErrTemporaryLockout is returned while a verifier cool-down is in effect.
// Temporary lockouts are not auto-retried.
var ErrTemporaryLockout = goerrors.New("verifier is temporarily locked out", goerrors.CategoryAuth).
	WithTextCode(textCodeLockoutTemporary).
	WithCode(goerrors.CodeForbidden)

// ErrAuthenticationFailed is the generic failure: user cancelled, the attempt
// soft-failed, or the lockout fallback itself failed.
var ErrAuthenticationFailed = goerrors.New("authentication failed", goerrors.CategoryAuth).
	WithTextCode(textCodeAuthFailed).
	WithCode(goerrors.CodeUnauthorized)

// ErrAttemptInFlight is returned by guarded calls issued while a verification
// attempt is already outstanding. Requests are dropped, never queued.
var ErrAttemptInFlight = goerrors.New("verification attempt already in flight", goerrors.CategoryConflict).
	WithTextCode(textCodeAttemptInFlight).
	WithCode(goerrors.CodeConflict)

// ErrMachineClosed is returned when an operation reaches a machine that was
// already torn down.
var ErrMachineClosed = goerrors.New("authentication machine is closed", goerrors.CategoryConflict).
	WithTextCode(textCodeMachineClosed).
	WithCode(goerrors.CodeConflict)

// VerifierError is the raw platform failure surfaced by a Verifier: a
// platform-specific code plus a human readable message. The classifier maps
// it into the gate's closed failure taxonomy.
type VerifierError struct {
	Code    string
	Message string
}

func (e *VerifierError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("verifier error %s", e.Code)
	}
	return fmt.Sprintf("verifier error %s: %s", e.Code, e.Message)
}
