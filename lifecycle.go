package authgate

import "sync"

// LifecycleEvent is an application foreground/background transition.
type LifecycleEvent string

const (
	LifecycleResumed  LifecycleEvent = "resumed"
	LifecyclePaused   LifecycleEvent = "paused"
	LifecycleInactive LifecycleEvent = "inactive"
)

// LifecycleSource yields lifecycle events for the process lifetime. Subscribe
// returns an unsubscribe func; the machine unsubscribes on teardown.
type LifecycleSource interface {
	Subscribe(fn func(LifecycleEvent)) (unsubscribe func())
}

// BindLifecycle forwards events from source into the machine and returns an
// unbind func. Call it when the gated subtree is destroyed, before closing
// the machine.
func BindLifecycle(m *Machine, source LifecycleSource) func() {
	if m == nil || source == nil {
		return func() {}
	}
	return source.Subscribe(m.HandleLifecycleEvent)
}

// LifecycleFeed is a minimal fan-out LifecycleSource for hosts that push
// lifecycle events imperatively (e.g. from a window manager callback).
type LifecycleFeed struct {
	mu          sync.Mutex
	subscribers map[int]func(LifecycleEvent)
	next        int
}

// NewLifecycleFeed returns an empty feed.
func NewLifecycleFeed() *LifecycleFeed {
	return &LifecycleFeed{subscribers: map[int]func(LifecycleEvent){}}
}

// Subscribe implements LifecycleSource.
func (f *LifecycleFeed) Subscribe(fn func(LifecycleEvent)) func() {
	if fn == nil {
		return func() {}
	}

	f.mu.Lock()
	id := f.next
	f.next++
	f.subscribers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

// Dispatch delivers ev to all current subscribers.
func (f *LifecycleFeed) Dispatch(ev LifecycleEvent) {
	f.mu.Lock()
	subscribers := make([]func(LifecycleEvent), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subscribers = append(subscribers, fn)
	}
	f.mu.Unlock()

	for _, fn := range subscribers {
		fn(ev)
	}
}
