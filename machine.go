package authgate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const msgAuthenticationFailed = "Authentication failed"

// MachineOption customizes machine construction.
type MachineOption func(*Machine)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) MachineOption {
	return func(m *Machine) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithLogger overrides the logger used for attempt outcomes and sink failures.
func WithLogger(logger Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithActivitySink sets the ActivitySink used to publish gate events.
func WithActivitySink(sink ActivitySink) MachineOption {
	return func(m *Machine) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithClassifier overrides how raw verifier failures are classified.
func WithClassifier(classify ClassifierFunc) MachineOption {
	return func(m *Machine) {
		if classify != nil {
			m.classify = classify
		}
	}
}

// Machine is the authentication state machine. It owns the current AuthState,
// processes verification results, drives the lock timer, and reacts to
// lifecycle events. All mutations are serialized behind a single mutex so
// observers always read one coherent snapshot.
type Machine struct {
	cfg      Config
	verifier Verifier
	classify ClassifierFunc
	logger   Logger
	sink     ActivitySink
	now      func() time.Time
	timer    *LockTimer

	mu           sync.Mutex
	state        AuthState
	attemptSeq   uint64
	paused       bool
	closed       bool
	observers    map[int]func(from, to AuthState)
	nextObserver int

	// serializes observer delivery so transitions are seen in order
	notifyMu sync.Mutex
}

// NewMachine builds a machine gated by the given verifier. When
// cfg.AutoCheckOnStart is set the machine starts in the checking state and a
// verification attempt begins immediately; otherwise it starts on the lock
// screen awaiting an explicit unlock request.
func NewMachine(cfg Config, verifier Verifier, opts ...MachineOption) (*Machine, error) {
	if verifier == nil {
		return nil, goerrors.New("verifier is required", goerrors.CategoryBadInput)
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid gate configuration")
	}

	m := &Machine{
		cfg:       cfg,
		verifier:  verifier,
		classify:  ClassifyVerifierError,
		logger:    defLogger{},
		sink:      noopActivitySink{},
		now:       time.Now,
		timer:     NewLockTimer(),
		observers: map[int]func(from, to AuthState){},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if cfg.AutoCheckOnStart {
		m.state = StateChecking()
		m.attemptSeq = 1
		go func() {
			if err := m.runAttempt(context.Background(), 1, cfg.Reason); err != nil {
				m.logger.Debug("initial verification attempt failed: %v", err)
			}
		}()
	} else {
		m.state = StateLockScreen()
	}

	return m, nil
}

// State returns the current state snapshot.
func (m *Machine) State() AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the gated content is currently visible.
func (m *Machine) IsAuthenticated() bool {
	return m.State().Is(StateKindAuthenticated)
}

// IsDeviceSupported reports whether the platform can verify at all.
func (m *Machine) IsDeviceSupported(ctx context.Context) bool {
	return m.verifier.IsSupported(ctx)
}

// CanAuthenticate reports whether a verification attempt could succeed:
// platform capability plus hardware/enrollment.
func (m *Machine) CanAuthenticate(ctx context.Context) bool {
	return m.verifier.IsSupported(ctx) && m.verifier.CanVerify(ctx)
}

// AvailableFactors enumerates the verification methods the device offers.
func (m *Machine) AvailableFactors(ctx context.Context) []FactorKind {
	return m.verifier.Factors(ctx)
}

// OnTransition registers an observer invoked after every state change. Equal
// states (per AuthState.Equal) do not re-notify. The returned func removes
// the observer. A closed machine accepts no observers; the returned func is
// then a no-op.
func (m *Machine) OnTransition(fn func(from, to AuthState)) func() {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return func() {}
	}
	id := m.nextObserver
	m.nextObserver++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Authenticate triggers a verification attempt and blocks until it resolves.
// It is an idempotent trigger: while an attempt is already in flight the call
// is a no-op returning nil (requests are dropped, never queued). The returned
// error is one of the classified sentinels when the attempt fails.
func (m *Machine) Authenticate(ctx context.Context) error {
	err := m.challenge(ctx, m.cfg.Reason)
	if errors.Is(err, ErrAttemptInFlight) {
		return nil
	}
	return err
}

// challenge starts a verification attempt with the given reason and blocks
// until it resolves. Unlike Authenticate it surfaces ErrAttemptInFlight for
// dropped requests, which guarded calls report to their caller.
func (m *Machine) challenge(ctx context.Context, reason string) error {
	if reason == "" {
		reason = m.cfg.Reason
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMachineClosed
	}
	if m.state.Is(StateKindChecking) {
		m.mu.Unlock()
		return ErrAttemptInFlight
	}
	m.attemptSeq++
	seq := m.attemptSeq
	notify := m.transitionLocked(StateChecking())
	m.mu.Unlock()
	notify()

	return m.runAttempt(ctx, seq, reason)
}

// ShowLockScreen forces the lock screen, cancelling any pending timer and
// superseding any in-flight verification attempt (its late result will be
// discarded).
func (m *Machine) ShowLockScreen() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	wasChecking := m.state.Is(StateKindChecking)
	m.attemptSeq++
	notify := m.transitionLocked(StateLockScreen())
	m.mu.Unlock()

	if wasChecking {
		m.verifier.Stop(context.Background())
	}
	notify()
	m.emitGateEvent(context.Background(), ActivityEventLocked, "", nil)
}

// Lock is ShowLockScreen under the name the gate façade exposes.
func (m *Machine) Lock() {
	m.ShowLockScreen()
}

// ResetLockTimer restarts the idle countdown. It is a no-op unless the
// machine is authenticated with a lock timeout configured.
func (m *Machine) ResetLockTimer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.state.Is(StateKindAuthenticated) {
		return
	}
	m.armTimerLocked()
}

// StartLockTimer re-arms the idle countdown, typically on app resume.
func (m *Machine) StartLockTimer() {
	m.ResetLockTimer()
}

// HandleLifecycleEvent reacts to app foreground/background transitions.
// Backgrounding pauses the idle countdown; foregrounding re-arms it when
// authenticated, or re-challenges per AutoRetryOnResume otherwise. Inactive
// is a no-op.
func (m *Machine) HandleLifecycleEvent(ev LifecycleEvent) {
	switch ev {
	case LifecyclePaused:
		m.mu.Lock()
		if !m.closed {
			m.paused = true
			m.timer.Cancel()
		}
		m.mu.Unlock()
	case LifecycleResumed:
		m.handleResumed()
	case LifecycleInactive:
		// platform granularity too coarse to act on
	}
}

func (m *Machine) handleResumed() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.paused = false

	if m.state.Is(StateKindAuthenticated) {
		m.armTimerLocked()
		m.mu.Unlock()
		return
	}

	if !m.cfg.AutoRetryOnResume || m.state.Is(StateKindChecking) {
		m.mu.Unlock()
		return
	}

	if !m.cfg.AutoCheckOnStart {
		notify := m.transitionLocked(StateLockScreen())
		m.mu.Unlock()
		notify()
		return
	}

	m.attemptSeq++
	seq := m.attemptSeq
	notify := m.transitionLocked(StateChecking())
	m.mu.Unlock()
	notify()

	go func() {
		if err := m.runAttempt(context.Background(), seq, m.cfg.Reason); err != nil {
			m.logger.Debug("resume verification attempt failed: %v", err)
		}
	}()
}

// Close tears the machine down: the timer is cancelled, observers are
// dropped, and any in-flight attempt is superseded and stopped best-effort.
// Close is idempotent.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	wasChecking := m.state.Is(StateKindChecking)
	m.attemptSeq++
	m.timer.Cancel()
	m.observers = nil
	m.mu.Unlock()

	if wasChecking {
		m.verifier.Stop(context.Background())
	}
}

// runAttempt performs the verification call for the attempt identified by
// seq. Results are applied only while seq still matches the machine's current
// attempt; anything else was superseded and is discarded.
func (m *Machine) runAttempt(ctx context.Context, seq uint64, reason string) error {
	attemptID := uuid.NewString()

	if !m.CanAuthenticate(ctx) {
		m.applyOutcome(seq, StateError(ErrVerifierUnavailable.Error()), false)
		m.emitGateEvent(ctx, ActivityEventUnlockFailure, attemptID, map[string]any{
			"error": textCodeVerifierUnavailable,
		})
		return ErrVerifierUnavailable
	}

	ok, err := m.verifier.Verify(ctx, reason, VerifyOptions{
		BiometricOnly: m.cfg.BiometricOnly,
		StickyAuth:    m.cfg.StickyAuth,
	})
	if err != nil {
		return m.resolveFailure(ctx, seq, attemptID, reason, err)
	}
	return m.resolveResult(ctx, seq, attemptID, ok)
}

func (m *Machine) resolveResult(ctx context.Context, seq uint64, attemptID string, ok bool) error {
	if ok {
		if !m.applyOutcome(seq, StateAuthenticated(), true) {
			return nil
		}
		m.emitGateEvent(ctx, ActivityEventUnlockSuccess, attemptID, nil)
		return nil
	}

	next := StateLockScreen()
	if m.cfg.AutoCheckOnStart {
		next = StateFailed(msgAuthenticationFailed)
	}
	if !m.applyOutcome(seq, next, false) {
		return nil
	}
	m.emitGateEvent(ctx, ActivityEventUnlockFailure, attemptID, map[string]any{
		"error": textCodeAuthFailed,
	})
	return ErrAuthenticationFailed
}

func (m *Machine) resolveFailure(ctx context.Context, seq uint64, attemptID, reason string, verr error) error {
	c := m.classify(verr)

	switch c.Kind {
	case LockoutPermanent:
		return m.resolveLockoutFallback(ctx, seq, attemptID, reason, c)

	case LockoutTemporary:
		m.logger.Info("verification temporarily locked out: %s", c.Message)
		next := StateLockScreen()
		if m.cfg.AutoCheckOnStart {
			next = StateError(c.Message)
		}
		if !m.applyOutcome(seq, next, false) {
			return nil
		}
		m.emitGateEvent(ctx, ActivityEventUnlockFailure, attemptID, map[string]any{
			"error": textCodeLockoutTemporary,
		})
		return ErrTemporaryLockout.WithMetadata(map[string]any{"cause": c.Message})

	default:
		m.logger.Error("verification failed: %s", c.Message)
		next := StateLockScreen()
		if m.cfg.AutoCheckOnStart {
			next = StateError(c.Message)
		}
		if !m.applyOutcome(seq, next, false) {
			return nil
		}
		m.emitGateEvent(ctx, ActivityEventUnlockFailure, attemptID, map[string]any{
			"error": c.Message,
		})
		return ErrAuthenticationFailed.WithMetadata(map[string]any{"cause": c.Message})
	}
}

// resolveLockoutFallback performs the automatic device-credential retry after
// a permanent biometric lockout. The attempt keeps its sequence number, so an
// explicit state change during the fallback still supersedes it.
func (m *Machine) resolveLockoutFallback(ctx context.Context, seq uint64, attemptID, reason string, c Classification) error {
	m.logger.Info("permanent lockout reported, attempting device credential fallback")
	m.emitGateEvent(ctx, ActivityEventLockoutFallback, attemptID, map[string]any{
		"cause": c.Message,
	})

	ok, err := m.verifier.Verify(ctx, reason, VerifyOptions{
		BiometricOnly: false,
		StickyAuth:    m.cfg.StickyAuth,
	})
	if err == nil && ok {
		if !m.applyOutcome(seq, StateAuthenticated(), true) {
			return nil
		}
		m.emitGateEvent(ctx, ActivityEventUnlockSuccess, attemptID, map[string]any{
			"fallback": true,
		})
		return nil
	}

	composed := fmt.Sprintf("%s; device credential fallback failed", c.Message)
	if err != nil {
		composed = fmt.Sprintf("%s: %v", composed, err)
	}
	m.logger.Error("device credential fallback failed: %s", composed)
	if !m.applyOutcome(seq, StateError(composed), false) {
		return nil
	}
	m.emitGateEvent(ctx, ActivityEventUnlockFailure, attemptID, map[string]any{
		"error": textCodeLockoutPermanent,
	})
	return ErrPermanentLockout.WithMetadata(map[string]any{"cause": composed})
}

// applyOutcome installs the resolution of attempt seq. It reports false when
// the attempt was superseded by a newer attempt, an explicit state change, or
// teardown; superseded results are dropped without side effects.
func (m *Machine) applyOutcome(seq uint64, to AuthState, arm bool) bool {
	m.mu.Lock()
	if m.closed || seq != m.attemptSeq || !m.state.Is(StateKindChecking) {
		m.mu.Unlock()
		m.logger.Debug("discarding superseded verification result (seq=%d)", seq)
		return false
	}
	notify := m.transitionLocked(to)
	if arm {
		m.armTimerLocked()
	}
	m.mu.Unlock()
	notify()
	return true
}

// transitionLocked moves the machine to the given state. The caller must
// hold m.mu and invoke the returned func after releasing it. Any state other
// than authenticated cancels the lock timer. Equal-state transitions return
// a no-op notifier.
func (m *Machine) transitionLocked(to AuthState) func() {
	from := m.state
	if !to.Is(StateKindAuthenticated) {
		m.timer.Cancel()
	}
	m.state = to

	if to.Equal(from) || len(m.observers) == 0 {
		return func() {}
	}

	observers := make([]func(from, to AuthState), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}

	return func() {
		m.notifyMu.Lock()
		defer m.notifyMu.Unlock()
		for _, fn := range observers {
			fn(from, to)
		}
	}
}

// armTimerLocked arms the idle countdown when the machine is authenticated,
// a timeout is configured, and the app is foregrounded. Caller holds m.mu.
func (m *Machine) armTimerLocked() {
	if m.cfg.LockTimeout <= 0 || m.paused || !m.state.Is(StateKindAuthenticated) {
		return
	}
	m.timer.Arm(m.cfg.LockTimeout, m.onLockTimeout)
}

func (m *Machine) onLockTimeout() {
	m.mu.Lock()
	if m.closed || !m.state.Is(StateKindAuthenticated) {
		m.mu.Unlock()
		return
	}
	notify := m.transitionLocked(StateLockScreen())
	m.mu.Unlock()
	notify()

	m.logger.Debug("lock timeout expired after %s", m.cfg.LockTimeout)
	m.emitGateEvent(context.Background(), ActivityEventTimerExpired, "", nil)
}

func (m *Machine) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Machine) emitGateEvent(ctx context.Context, eventType ActivityEventType, attemptID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		AttemptID:  attemptID,
		State:      m.State(),
		Metadata:   metadata,
		OccurredAt: m.now(),
	}

	if err := m.sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}
