package authgate

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// FactorKind categorizes a verification method the device may offer.
type FactorKind string

const (
	FactorFace             FactorKind = "face"
	FactorFingerprint      FactorKind = "fingerprint"
	FactorIris             FactorKind = "iris"
	FactorDeviceCredential FactorKind = "device_credential"
	FactorStrongBiometric  FactorKind = "strong_biometric"
)

// VerifyOptions tune a single verification attempt.
type VerifyOptions struct {
	// BiometricOnly disallows falling back to the device PIN/pattern/password.
	BiometricOnly bool
	// StickyAuth keeps the platform verification UI alive across app switches.
	StickyAuth bool
}

// Verifier wraps the platform credential-check primitive. Verify may suspend
// for an unbounded, user-controlled duration while the platform UI is modal.
type Verifier interface {
	// IsSupported reports whether the platform can verify at all.
	IsSupported(ctx context.Context) bool
	// CanVerify reports whether hardware and enrollment are present.
	CanVerify(ctx context.Context) bool
	// Factors enumerates the verification methods currently available.
	Factors(ctx context.Context) []FactorKind
	// Verify resolves true on success, false on user cancel or soft decline,
	// and fails with a *VerifierError on platform error.
	Verify(ctx context.Context, reason string, opts VerifyOptions) (bool, error)
	// Stop is a best-effort cancellation of an in-flight verification. It is
	// not guaranteed to interrupt platform UI.
	Stop(ctx context.Context) bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHGATE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHGATE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHGATE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHGATE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
