// Package authgate gates a protected UI subtree behind a device-level
// credential check (biometric or equivalent), re-challenging after inactivity
// or app backgrounding.
//
// State machine:
//   - Machine owns a single AuthState (checking, authenticated, lock screen,
//     error, failed), processes asynchronous verification results with
//     single-flight and sequence-number supersession guarantees, and drives
//     the idle LockTimer. Observers registered via OnTransition see one
//     coherent snapshot per transition; equal states do not re-notify.
//   - Failures from the Verifier are normalized by a ClassifierFunc into a
//     closed taxonomy (permanent lockout, temporary lockout, unclassified).
//     Permanent lockout triggers one automatic device-credential fallback
//     before surfacing an error state.
//
// Composition:
//   - Verifier is the narrow contract over the platform credential primitive;
//     the package never derives keys, stores secrets, or persists state
//     across restarts.
//   - LifecycleSource feeds resumed/paused/inactive events into the machine
//     so the idle countdown pauses while the app is backgrounded.
//   - Gate is the façade the rendering layer consumes: Render dispatches over
//     the five state branches, Lock/Unlock/ResetLockTimer are the imperative
//     controls, and Do/DoValue/DoAsync/DoValueAsync run an authentication
//     challenge before a sensitive action.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing unlock
//     attempts, locks, timer expiry, and lockout fallbacks. Sinks run
//     best-effort (errors are logged) so you can forward to a database or
//     queue without blocking authentication.
package authgate
