package authgate_test

import (
	"context"
	"sync"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/mock"
)

// MockActivitySink implements authgate.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event authgate.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// stubVerifier is a scriptable authgate.Verifier. The verify func can block
// on a channel to simulate the modal platform UI.
type stubVerifier struct {
	supported bool
	canVerify bool
	factors   []authgate.FactorKind
	verify    func(ctx context.Context, reason string, opts authgate.VerifyOptions) (bool, error)

	mu          sync.Mutex
	verifyCalls int
	stopCalls   int
	reasons     []string
	options     []authgate.VerifyOptions
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		supported: true,
		canVerify: true,
		factors:   []authgate.FactorKind{authgate.FactorFingerprint, authgate.FactorDeviceCredential},
		verify: func(context.Context, string, authgate.VerifyOptions) (bool, error) {
			return true, nil
		},
	}
}

func (s *stubVerifier) IsSupported(context.Context) bool {
	return s.supported
}

func (s *stubVerifier) CanVerify(context.Context) bool {
	return s.canVerify
}

func (s *stubVerifier) Factors(context.Context) []authgate.FactorKind {
	return s.factors
}

func (s *stubVerifier) Verify(ctx context.Context, reason string, opts authgate.VerifyOptions) (bool, error) {
	s.mu.Lock()
	s.verifyCalls++
	s.reasons = append(s.reasons, reason)
	s.options = append(s.options, opts)
	fn := s.verify
	s.mu.Unlock()
	return fn(ctx, reason, opts)
}

func (s *stubVerifier) Stop(context.Context) bool {
	s.mu.Lock()
	s.stopCalls++
	s.mu.Unlock()
	return true
}

func (s *stubVerifier) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyCalls
}

func (s *stubVerifier) stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCalls
}

func (s *stubVerifier) lastReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reasons) == 0 {
		return ""
	}
	return s.reasons[len(s.reasons)-1]
}

func (s *stubVerifier) lastOptions() authgate.VerifyOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.options) == 0 {
		return authgate.VerifyOptions{}
	}
	return s.options[len(s.options)-1]
}

func (s *stubVerifier) setVerify(fn func(ctx context.Context, reason string, opts authgate.VerifyOptions) (bool, error)) {
	s.mu.Lock()
	s.verify = fn
	s.mu.Unlock()
}
