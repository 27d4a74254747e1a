package authgate

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Config holds gate options. It is supplied once at machine construction and
// never mutated afterwards; changing behavior requires a new machine.
type Config struct {
	// Reason is shown to the user by the platform verification UI.
	Reason string

	// BiometricOnly disallows device-credential (PIN/pattern/password)
	// verification for regular attempts. The automatic permanent-lockout
	// fallback ignores this flag.
	BiometricOnly bool

	// StickyAuth keeps the platform verification UI alive when the app is
	// sent to the background mid-attempt.
	StickyAuth bool

	// LockTimeout is the idle duration after which authenticated content
	// locks again. Zero means never auto-lock.
	LockTimeout time.Duration

	// AutoCheckOnStart makes the machine attempt verification immediately on
	// creation. When false the machine starts on the lock screen and waits
	// for an explicit unlock request.
	AutoCheckOnStart bool

	// AutoRetryOnResume re-challenges (or re-shows the lock screen, per
	// AutoCheckOnStart) when the app returns to the foreground while not
	// authenticated.
	AutoRetryOnResume bool
}

// Validate checks the configuration before a machine is built.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Reason, validation.Required, validation.Length(1, 500)),
		validation.Field(&c.LockTimeout, validation.Min(time.Duration(0))),
	)
}
