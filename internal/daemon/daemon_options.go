package daemon

import (
	"fmt"
	"time"

	"github.com/mcphub-dev/mcphub/internal/activity"
	"github.com/mcphub-dev/mcphub/internal/conn"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// HandshakeTimeout specifies how long to wait for MCP server initialization.
	HandshakeTimeout time.Duration

	// ActivityCapacity bounds the in-memory activity log (0 means unbounded).
	ActivityCapacity int
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithHandshakeTimeout configures how long to wait for MCP servers to initialize.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("handshake timeout must be positive, got %v", timeout)
		}
		o.HandshakeTimeout = timeout
		return nil
	}
}

// WithActivityCapacity configures the maximum number of retained activity entries.
// A capacity of 0 retains entries without bound.
func WithActivityCapacity(capacity int) Option {
	return func(o *Options) error {
		if capacity < 0 {
			return fmt.Errorf("activity capacity cannot be negative, got %d", capacity)
		}
		o.ActivityCapacity = capacity
		return nil
	}
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		HandshakeTimeout: conn.DefaultHandshakeTimeout,
		ActivityCapacity: activity.DefaultCapacity,
	}
}
