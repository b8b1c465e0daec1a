package api

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcphub-dev/mcphub/internal/domain"
)

// stubRecorder implements contracts.ActivityRecorder for testing.
type stubRecorder struct {
	entries []domain.LogEntry
	cleared bool
}

func (s *stubRecorder) Append(entry domain.LogEntry) { s.entries = append(s.entries, entry) }
func (s *stubRecorder) Snapshot() []domain.LogEntry  { return s.entries }
func (s *stubRecorder) Clear()                       { s.cleared = true }

func newTestHumaAPI() huma.API {
	return humachi.New(chi.NewMux(), huma.DefaultConfig("test", "0.0.0"))
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	prefix, err := RegisterRoutes(
		newTestHumaAPI(),
		&stubAdmin{},
		&stubCatalog{},
		&stubCapabilityRouter{},
		&stubRecorder{},
	)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1", prefix)
}

func TestRegisterRoutes_RejectsMissingDependencies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		runFn func() (string, error)
	}{
		{
			name: "nil router",
			runFn: func() (string, error) {
				return RegisterRoutes(nil, &stubAdmin{}, &stubCatalog{}, &stubCapabilityRouter{}, &stubRecorder{})
			},
		},
		{
			name: "nil session administrator",
			runFn: func() (string, error) {
				return RegisterRoutes(newTestHumaAPI(), nil, &stubCatalog{}, &stubCapabilityRouter{}, &stubRecorder{})
			},
		},
		{
			name: "nil capability catalog",
			runFn: func() (string, error) {
				return RegisterRoutes(newTestHumaAPI(), &stubAdmin{}, nil, &stubCapabilityRouter{}, &stubRecorder{})
			},
		},
		{
			name: "nil capability router",
			runFn: func() (string, error) {
				return RegisterRoutes(newTestHumaAPI(), &stubAdmin{}, &stubCatalog{}, nil, &stubRecorder{})
			},
		},
		{
			name: "nil activity recorder",
			runFn: func() (string, error) {
				return RegisterRoutes(newTestHumaAPI(), &stubAdmin{}, &stubCatalog{}, &stubCapabilityRouter{}, nil)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.runFn()
			require.Error(t, err)
		})
	}
}
