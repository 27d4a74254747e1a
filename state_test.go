package authgate_test

import (
	"testing"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/assert"
)

func TestAuthStateEqualityByKind(t *testing.T) {
	assert.True(t, authgate.StateChecking().Equal(authgate.StateChecking()))
	assert.True(t, authgate.StateAuthenticated().Equal(authgate.StateAuthenticated()))
	assert.True(t, authgate.StateLockScreen().Equal(authgate.StateLockScreen()))
	assert.False(t, authgate.StateChecking().Equal(authgate.StateLockScreen()))
}

func TestAuthStateEqualityByMessage(t *testing.T) {
	assert.True(t, authgate.StateError("boom").Equal(authgate.StateError("boom")))
	assert.False(t, authgate.StateError("boom").Equal(authgate.StateError("bang")))
	assert.True(t, authgate.StateFailed("nope").Equal(authgate.StateFailed("nope")))
	assert.False(t, authgate.StateFailed("nope").Equal(authgate.StateFailed("")))
	assert.False(t, authgate.StateError("boom").Equal(authgate.StateFailed("boom")))
}

func TestAuthStateAccessors(t *testing.T) {
	s := authgate.StateError("sensor offline")
	assert.Equal(t, authgate.StateKindError, s.Kind())
	assert.Equal(t, "sensor offline", s.Message())
	assert.True(t, s.Is(authgate.StateKindError))
	assert.Equal(t, "error(sensor offline)", s.String())
	assert.Equal(t, "authenticated", authgate.StateAuthenticated().String())
}
