package authgate

import (
	"context"
	"fmt"
)

// RenderBranches maps each gate state to a render callback. Nil branches are
// skipped. The integrating UI layer wires its activity signals (pointer,
// keyboard) on the authenticated branch to ResetLockTimer.
type RenderBranches struct {
	Checking      func()
	Authenticated func()
	LockScreen    func()
	Error         func(message string)
	Failed        func(message string)
}

// Gate is the thin composition point in front of a machine: it dispatches
// render decisions per current state and exposes the imperative controls and
// guarded-call helpers external callers use. Invoking any control without an
// active machine in scope is a programming error and panics immediately.
type Gate struct {
	machine *Machine
}

// NewGate wraps an existing machine. It panics when m is nil so misuse is
// caught during development rather than silently no-oping.
func NewGate(m *Machine) *Gate {
	if m == nil {
		panic("go-authgate: NewGate requires a Machine; build one with NewMachine first")
	}
	return &Gate{machine: m}
}

func (g *Gate) ensureActive(op string) *Machine {
	if g == nil || g.machine == nil {
		panic(fmt.Sprintf("go-authgate: %s called without an active machine in scope", op))
	}
	if g.machine.isClosed() {
		panic(fmt.Sprintf("go-authgate: %s called after the machine was closed; gates do not outlive their gated subtree", op))
	}
	return g.machine
}

// Render invokes the branch matching the current state.
func (g *Gate) Render(branches RenderBranches) {
	state := g.ensureActive("Render").State()

	switch state.Kind() {
	case StateKindChecking:
		if branches.Checking != nil {
			branches.Checking()
		}
	case StateKindAuthenticated:
		if branches.Authenticated != nil {
			branches.Authenticated()
		}
	case StateKindLockScreen:
		if branches.LockScreen != nil {
			branches.LockScreen()
		}
	case StateKindError:
		if branches.Error != nil {
			branches.Error(state.Message())
		}
	case StateKindFailed:
		if branches.Failed != nil {
			branches.Failed(state.Message())
		}
	}
}

// Lock hides the gated content and shows the lock screen.
func (g *Gate) Lock() {
	g.ensureActive("Lock").ShowLockScreen()
}

// Unlock runs a verification attempt and reports whether the resulting state
// is authenticated.
func (g *Gate) Unlock(ctx context.Context) bool {
	m := g.ensureActive("Unlock")
	if err := m.Authenticate(ctx); err != nil {
		m.logger.Debug("unlock attempt failed: %v", err)
	}
	return m.IsAuthenticated()
}

// IsLocked reports whether the gated content is hidden.
func (g *Gate) IsLocked() bool {
	return !g.ensureActive("IsLocked").IsAuthenticated()
}

// IsAuthenticated reports whether the gated content is visible.
func (g *Gate) IsAuthenticated() bool {
	return g.ensureActive("IsAuthenticated").IsAuthenticated()
}

// State returns the machine's current state.
func (g *Gate) State() AuthState {
	return g.ensureActive("State").State()
}

// ResetLockTimer postpones the idle lock. Wire UI activity signals here.
func (g *Gate) ResetLockTimer() {
	g.ensureActive("ResetLockTimer").ResetLockTimer()
}

// CanAuthenticate reports whether a verification attempt could succeed.
func (g *Gate) CanAuthenticate(ctx context.Context) bool {
	return g.ensureActive("CanAuthenticate").CanAuthenticate(ctx)
}

// IsDeviceSupported reports platform capability.
func (g *Gate) IsDeviceSupported(ctx context.Context) bool {
	return g.ensureActive("IsDeviceSupported").IsDeviceSupported(ctx)
}

// AvailableFactors enumerates the verification methods the device offers.
func (g *Gate) AvailableFactors(ctx context.Context) []FactorKind {
	return g.ensureActive("AvailableFactors").AvailableFactors(ctx)
}

type guardOptions struct {
	reason string
}

// GuardOption customizes a guarded call.
type GuardOption func(*guardOptions)

// WithGuardReason overrides the configured reason for one guarded call.
func WithGuardReason(reason string) GuardOption {
	return func(o *guardOptions) {
		o.reason = reason
	}
}

func buildGuardOptions(opts ...GuardOption) guardOptions {
	var o guardOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// guardChallenge runs the authentication challenge for a guarded call and
// verifies the machine landed in the authenticated state.
func guardChallenge(ctx context.Context, m *Machine, o guardOptions) error {
	if err := m.challenge(ctx, o.reason); err != nil {
		return err
	}
	if !m.IsAuthenticated() {
		// attempt resolved but was superseded before it could take effect
		return ErrAuthenticationFailed.WithMetadata(map[string]any{
			"cause": "verification superseded before completion",
		})
	}
	return nil
}

// Do runs an authentication challenge and, only on success, invokes fn.
// Failures come back as the classified sentinel errors (ErrVerifierUnavailable,
// ErrPermanentLockout, ErrTemporaryLockout, ErrAuthenticationFailed,
// ErrAttemptInFlight); match them with errors.Is.
func (g *Gate) Do(ctx context.Context, fn func() error, opts ...GuardOption) error {
	m := g.ensureActive("Do")
	if err := guardChallenge(ctx, m, buildGuardOptions(opts...)); err != nil {
		return err
	}
	return fn()
}

// DoAsync is Do on a fresh goroutine; done (optional) receives the outcome.
func (g *Gate) DoAsync(ctx context.Context, fn func() error, done func(error), opts ...GuardOption) {
	m := g.ensureActive("DoAsync")
	o := buildGuardOptions(opts...)
	go func() {
		err := guardChallenge(ctx, m, o)
		if err == nil {
			err = fn()
		}
		if done != nil {
			done(err)
		}
	}()
}

// DoValue runs an authentication challenge and, only on success, invokes fn
// returning its value. Declared at package level because methods cannot carry
// type parameters.
func DoValue[T any](ctx context.Context, g *Gate, fn func() (T, error), opts ...GuardOption) (T, error) {
	m := g.ensureActive("DoValue")
	if err := guardChallenge(ctx, m, buildGuardOptions(opts...)); err != nil {
		var zero T
		return zero, err
	}
	return fn()
}

// DoValueAsync is DoValue on a fresh goroutine; done receives the outcome.
func DoValueAsync[T any](ctx context.Context, g *Gate, fn func() (T, error), done func(T, error), opts ...GuardOption) {
	m := g.ensureActive("DoValueAsync")
	o := buildGuardOptions(opts...)
	go func() {
		var value T
		err := guardChallenge(ctx, m, o)
		if err == nil {
			value, err = fn()
		}
		if done != nil {
			done(value, err)
		}
	}()
}
