package daemon

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/domain"
	"github.com/mcphub-dev/mcphub/internal/errors"
	"github.com/mcphub-dev/mcphub/internal/router"
)

// fakeAdmin satisfies contracts.SessionAdministrator for wiring tests.
type fakeAdmin struct{}

func (f *fakeAdmin) AddServer(_ config.ServerEntry) error { return nil }
func (f *fakeAdmin) RemoveServer(_ string) error          { return nil }
func (f *fakeAdmin) ConnectAll(_ context.Context) []domain.ConnectResult {
	return nil
}
func (f *fakeAdmin) ConnectOne(_ context.Context, _ string) error { return nil }
func (f *fakeAdmin) DisconnectOne(_ string) error                 { return nil }
func (f *fakeAdmin) ListServers() []domain.ServerStatus           { return nil }

// fakeCatalog satisfies contracts.CapabilityCatalog.
type fakeCatalog struct{}

func (f *fakeCatalog) Resolve(_ string) (domain.Capability, error) {
	return domain.Capability{}, errors.ErrCapabilityNotFound
}
func (f *fakeCatalog) List() []domain.Capability { return nil }

// fakeRouter satisfies api.CapabilityRouter.
type fakeRouter struct{}

func (f *fakeRouter) Invoke(_ context.Context, _ string, _ map[string]any) (router.Result, error) {
	return router.Result{}, nil
}

// fakeRecorder satisfies contracts.ActivityRecorder.
type fakeRecorder struct{}

func (f *fakeRecorder) Append(_ domain.LogEntry)    {}
func (f *fakeRecorder) Snapshot() []domain.LogEntry { return nil }
func (f *fakeRecorder) Clear()                      {}

func testAPIDeps(t *testing.T) APIDependencies {
	t.Helper()

	deps, err := NewAPIDependencies(
		hclog.NewNullLogger(),
		&fakeAdmin{},
		&fakeCatalog{},
		&fakeRouter{},
		&fakeRecorder{},
		"localhost:8090",
	)
	require.NoError(t, err)

	return deps
}

func TestNewAPIServer_AppliesDefaults(t *testing.T) {
	t.Parallel()

	deps := testAPIDeps(t)

	// Test with no options - should get defaults
	server, err := NewAPIServer(deps)
	require.NoError(t, err)
	require.NotNil(t, server)
	require.Equal(t, DefaultAPIShutdownTimeout(), server.shutdownTimeout)
	require.False(t, server.cors.Enabled)

	// Test with some options - should get defaults + overrides
	server2, err := NewAPIServer(deps, WithShutdownTimeout(10*time.Second), WithCORSEnabled(true))
	require.NoError(t, err)
	require.NotNil(t, server2)
	require.Equal(t, 10*time.Second, server2.shutdownTimeout)
	require.True(t, server2.cors.Enabled)

	// Test with nil options - should still work
	server3, err := NewAPIServer(deps, nil, WithShutdownTimeout(3*time.Second), nil)
	require.NoError(t, err)
	require.NotNil(t, server3)
	require.Equal(t, 3*time.Second, server3.shutdownTimeout)
}

func TestAPIDependencies_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(d *APIDependencies)
		wantErr string
	}{
		{
			name:    "invalid address",
			mutate:  func(d *APIDependencies) { d.Addr = "not-an-address" },
			wantErr: "invalid API address",
		},
		{
			name:    "nil admin",
			mutate:  func(d *APIDependencies) { d.Admin = nil },
			wantErr: "session administrator cannot be nil",
		},
		{
			name:    "nil catalog",
			mutate:  func(d *APIDependencies) { d.Catalog = nil },
			wantErr: "capability catalog cannot be nil",
		},
		{
			name:    "nil router",
			mutate:  func(d *APIDependencies) { d.Router = nil },
			wantErr: "capability router cannot be nil",
		},
		{
			name:    "nil recorder",
			mutate:  func(d *APIDependencies) { d.Recorder = nil },
			wantErr: "activity recorder cannot be nil",
		},
		{
			name:    "nil logger",
			mutate:  func(d *APIDependencies) { d.Logger = nil },
			wantErr: "logger cannot be nil",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deps := testAPIDeps(t)
			tc.mutate(&deps)

			err := deps.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "ErrBadRequest maps to 400",
			err:            errors.ErrBadRequest,
			expectedStatus: 400,
		},
		{
			name:           "ErrArgumentsInvalid maps to 400",
			err:            errors.ErrArgumentsInvalid,
			expectedStatus: 400,
		},
		{
			name:           "ErrServerNotFound maps to 404",
			err:            errors.ErrServerNotFound,
			expectedStatus: 404,
		},
		{
			name:           "ErrCapabilityNotFound maps to 404",
			err:            errors.ErrCapabilityNotFound,
			expectedStatus: 404,
		},
		{
			name:           "ErrDuplicateServer maps to 409",
			err:            errors.ErrDuplicateServer,
			expectedStatus: 409,
		},
		{
			name:           "ErrNotConnected maps to 409",
			err:            errors.ErrNotConnected,
			expectedStatus: 409,
		},
		{
			name:           "ErrSpawnFailed maps to 502",
			err:            errors.ErrSpawnFailed,
			expectedStatus: 502,
		},
		{
			name:           "ErrHandshakeTimeout maps to 502",
			err:            errors.ErrHandshakeTimeout,
			expectedStatus: 502,
		},
		{
			name:           "ErrTransport maps to 502",
			err:            errors.ErrTransport,
			expectedStatus: 502,
		},
		{
			name:           "ErrRemoteCall maps to 502",
			err:            errors.ErrRemoteCall,
			expectedStatus: 502,
		},
		{
			name:           "unknown error maps to 500",
			err:            fmt.Errorf("something unexpected"),
			expectedStatus: 500,
		},
		{
			name:           "wrapped sentinel keeps its mapping",
			err:            fmt.Errorf("%w: weather: broken pipe", errors.ErrTransport),
			expectedStatus: 502,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			statusErr := mapError(logger, tc.err)
			require.NotNil(t, statusErr)
			assert.Equal(t, tc.expectedStatus, statusErr.GetStatus())
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()
	handler := errorHandler(logger)

	t.Run("no errors returns generic status", func(t *testing.T) {
		t.Parallel()

		statusErr := handler(nil, 422, "validation failed")
		require.NotNil(t, statusErr)
		assert.Equal(t, 422, statusErr.GetStatus())
	})

	t.Run("single error is mapped", func(t *testing.T) {
		t.Parallel()

		statusErr := handler(nil, 500, "ignored", errors.ErrServerNotFound)
		require.NotNil(t, statusErr)
		assert.Equal(t, 404, statusErr.GetStatus())
	})

	t.Run("joined errors are mapped", func(t *testing.T) {
		t.Parallel()

		combined := []error{errors.ErrBadRequest, fmt.Errorf("extra detail")}
		statusErr := handler(nil, 500, "ignored", combined...)
		require.NotNil(t, statusErr)
		assert.Equal(t, 400, statusErr.GetStatus())
	})
}

func TestValidateAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "host and port", addr: "localhost:8090"},
		{name: "all interfaces", addr: "0.0.0.0:8090"},
		{name: "empty host", addr: ":8090"},
		{name: "named port", addr: "localhost:http"},
		{name: "missing port", addr: "localhost", wantErr: true},
		{name: "empty", addr: "", wantErr: true},
		{name: "garbage port", addr: "localhost:not$aport", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validateAddr(tc.addr)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
