package authgate

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventUnlockSuccess   ActivityEventType = "gate.unlock.success"
	ActivityEventUnlockFailure   ActivityEventType = "gate.unlock.failure"
	ActivityEventLocked          ActivityEventType = "gate.locked"
	ActivityEventTimerExpired    ActivityEventType = "gate.timer.expired"
	ActivityEventLockoutFallback ActivityEventType = "gate.lockout.fallback"
)

// ActivityEvent captures audit-friendly information about a gate action.
type ActivityEvent struct {
	EventType  ActivityEventType
	AttemptID  string
	State      AuthState
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged and never block the gate.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
