package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newTestGuard(t *testing.T, loggedIn bool) *Guard {
	t.Helper()

	settings, err := NewSettingsStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { settings.Close() })

	if loggedIn {
		require.NoError(t, settings.Set(keyToken, "some-token"))
	}

	session, err := NewSession(settings, slog.Default())
	require.NoError(t, err)

	return NewGuard(session)
}

func TestGuardCheck(t *testing.T) {
	tests := []struct {
		name             string
		loggedIn         bool
		path             string
		expectedDecision Decision
		expectedRedirect string
	}{
		{
			name:             "root without session redirects to login",
			path:             RouteRoot,
			expectedDecision: RedirectToLogin,
			expectedRedirect: RouteRoot,
		},
		{
			name:             "logout without session redirects to login with root target",
			path:             RouteLogout,
			expectedDecision: RedirectToLogin,
			expectedRedirect: RouteRoot,
		},
		{
			name:             "login without session is allowed",
			path:             RouteLogin,
			expectedDecision: Allowed,
		},
		{
			name:             "root with session is allowed",
			loggedIn:         true,
			path:             RouteRoot,
			expectedDecision: Allowed,
		},
		{
			name:             "login with session redirects to logout",
			loggedIn:         true,
			path:             RouteLogin,
			expectedDecision: RedirectToLogout,
			expectedRedirect: RouteLogin,
		},
		{
			name:             "logout with session is allowed",
			loggedIn:         true,
			path:             RouteLogout,
			expectedDecision: Allowed,
		},
		{
			name:             "unknown path carries no markers",
			path:             "/does-not-exist",
			expectedDecision: Allowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := newTestGuard(t, tt.loggedIn)

			decision, redirect := guard.Check(tt.path)
			assert.Equal(t, tt.expectedDecision, decision, "decision %s", decision)
			assert.Equal(t, tt.expectedRedirect, redirect)
		})
	}
}
