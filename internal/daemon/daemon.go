package daemon

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mcphub-dev/mcphub/internal/activity"
	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/conn"
	"github.com/mcphub-dev/mcphub/internal/registry"
	"github.com/mcphub-dev/mcphub/internal/router"
	"github.com/mcphub-dev/mcphub/internal/session"
)

// Daemon owns the session manager, the capability catalog and the HTTP API,
// and ties their lifecycles to a single context.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger    hclog.Logger
	servers   []config.ServerEntry
	manager   *session.Manager
	registry  *registry.Registry
	activity  *activity.Log
	router    *router.Router
	apiServer *APIServer
}

// NewDaemon wires the daemon subsystems from the supplied dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	catalog := registry.NewRegistry()
	activityLog := activity.NewLog(opts.ActivityCapacity)

	manager, err := session.NewManager(
		deps.Logger,
		catalog,
		conn.WithHandshakeTimeout(opts.HandshakeTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	capRouter, err := router.NewRouter(deps.Logger, catalog, manager, activityLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create capability router: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, manager, catalog, capRouter, activityLog, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create API server dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:    logger,
		servers:   deps.Servers,
		manager:   manager,
		registry:  catalog,
		activity:  activityLog,
		router:    capRouter,
		apiServer: apiServer,
	}, nil
}

// StartAndManage registers the configured servers, connects to all of them and
// serves the HTTP API until the context is canceled. Individual servers that
// fail to connect are reported and left in a failed state; they do not abort
// startup.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	for _, s := range d.servers {
		if err := d.manager.AddServer(s); err != nil {
			return fmt.Errorf("failed to register server '%s': %w", s.Name, err)
		}
	}

	d.logger.Info("Connecting to MCP servers", "count", len(d.servers))

	results := d.manager.ConnectAll(ctx)
	connected := 0
	for _, res := range results {
		if res.Err != "" {
			d.logger.Error("Failed to connect to MCP server", "server", res.Server, "error", res.Err)
			continue
		}
		connected++
		d.logger.Info("Connected to MCP server", "server", res.Server, "capabilities", res.CapabilityCount)
	}
	d.logger.Info("Startup complete", "connected", connected, "failed", len(results)-connected)

	defer d.manager.DisconnectAll()

	return d.apiServer.Start(ctx)
}
