package daemon

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemon_NewAPIOptions(t *testing.T) {
	t.Parallel()

	t.Run("default options", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions()
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIShutdownTimeout(), opts.ShutdownTimeout)
		assert.False(t, opts.CORS.Enabled)
	})

	t.Run("with CORS option", func(t *testing.T) {
		t.Parallel()

		origins := []string{"http://localhost:3000", "https://example.com"}
		opts, err := NewAPIOptions(WithCORSAllowOrigins(origins))

		require.NoError(t, err)
		assert.False(t, opts.CORS.Enabled)
		assert.Equal(t, origins, opts.CORS.AllowOrigins)
		assert.Contains(t, opts.CORS.AllowMethods, http.MethodGet)
		assert.Contains(t, opts.CORS.AllowMethods, http.MethodPost)
	})

	t.Run("with custom shutdown timeout", func(t *testing.T) {
		t.Parallel()

		customTimeout := 10 * time.Second
		opts, err := NewAPIOptions(WithShutdownTimeout(customTimeout))

		require.NoError(t, err)
		assert.Equal(t, customTimeout, opts.ShutdownTimeout)
	})

	t.Run("options override in order", func(t *testing.T) {
		t.Parallel()

		first := 5 * time.Second
		second := 10 * time.Second

		opts, err := NewAPIOptions(
			WithShutdownTimeout(first),
			WithShutdownTimeout(second), // This should win
		)

		require.NoError(t, err)
		assert.Equal(t, second, opts.ShutdownTimeout)
	})

	t.Run("invalid shutdown timeout", func(t *testing.T) {
		t.Parallel()

		_, err := NewAPIOptions(WithShutdownTimeout(0))
		require.Error(t, err)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions(nil, WithCORSEnabled(true), nil)
		require.NoError(t, err)
		assert.True(t, opts.CORS.Enabled)
	})
}
