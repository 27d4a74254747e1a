package authgate_test

import (
	"testing"
	"time"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidateRequiresReason(t *testing.T) {
	cfg := authgate.Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reason")
}

func TestConfigValidateAcceptsTypicalSetup(t *testing.T) {
	cfg := authgate.Config{
		Reason:           "Unlock your vault",
		BiometricOnly:    true,
		StickyAuth:       true,
		LockTimeout:      5 * time.Minute,
		AutoCheckOnStart: true,
	}
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateZeroTimeoutMeansNeverLock(t *testing.T) {
	cfg := authgate.Config{Reason: "Unlock"}
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateRejectsNegativeTimeout(t *testing.T) {
	cfg := authgate.Config{Reason: "Unlock", LockTimeout: -time.Second}
	require.Error(t, cfg.Validate())
}

func TestNewMachineRejectsInvalidConfig(t *testing.T) {
	_, err := authgate.NewMachine(authgate.Config{}, newStubVerifier())
	require.Error(t, err)
}

func TestNewMachineRequiresVerifier(t *testing.T) {
	_, err := authgate.NewMachine(authgate.Config{Reason: "Unlock"}, nil)
	require.Error(t, err)
}
