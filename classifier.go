package authgate

import "errors"

// Platform error codes a Verifier is expected to report. Only the lockout
// codes drive classification; the availability codes are handled by the
// pre-flight capability checks and, like unknown codes, classify as
// unclassified failures.
const (
	VerifierCodeLockedOut            = "LockedOut"
	VerifierCodePermanentlyLockedOut = "PermanentlyLockedOut"
	VerifierCodeNotAvailable         = "NotAvailable"
	VerifierCodeNotEnrolled          = "NotEnrolled"
	VerifierCodePasscodeNotSet       = "PasscodeNotSet"
)

// ClassificationKind is the closed failure taxonomy every recovery branch
// dispatches on.
type ClassificationKind string

const (
	LockoutPermanent    ClassificationKind = "lockout_permanent"
	LockoutTemporary    ClassificationKind = "lockout_temporary"
	FailureUnclassified ClassificationKind = "failure_unclassified"
)

// Classification is a verifier failure normalized for the state machine.
type Classification struct {
	Kind    ClassificationKind
	Message string
}

// ClassifierFunc maps a raw verifier failure into a Classification. It is the
// single place failure policy is decided.
type ClassifierFunc func(err error) Classification

// ClassifyVerifierError is the default classifier. It recognizes the
// verifier lockout codes and defaults everything else to an unclassified
// failure carrying the original diagnostic.
func ClassifyVerifierError(err error) Classification {
	if err == nil {
		return Classification{Kind: FailureUnclassified}
	}

	var verr *VerifierError
	if !errors.As(err, &verr) {
		return Classification{Kind: FailureUnclassified, Message: err.Error()}
	}

	switch verr.Code {
	case VerifierCodePermanentlyLockedOut:
		return Classification{Kind: LockoutPermanent, Message: verr.Error()}
	case VerifierCodeLockedOut:
		return Classification{Kind: LockoutTemporary, Message: verr.Error()}
	default:
		return Classification{Kind: FailureUnclassified, Message: verr.Error()}
	}
}
