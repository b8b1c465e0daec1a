package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	cmdopts "github.com/mcphub-dev/mcphub/internal/cmd/options"
	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/daemon"
	"github.com/mcphub-dev/mcphub/internal/flags"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev              bool
	Addr             string
	HandshakeTimeout time.Duration
	ActivityCapacity int
	CORSEnabled      bool
	CORSOrigins      []string
	cfgLoader        config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Launches an `mcphub` daemon instance",
		Long: "Launches an `mcphub` daemon instance, which connects to the configured MCP servers " +
			"and routes capability calls via an HTTP API",
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		"dev",
		false,
		"Run the daemon in development-focused mode",
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"0.0.0.0:8090",
		"Address for the daemon to bind (not applicable in --dev mode)",
	)

	cobraCommand.Flags().DurationVar(
		&c.HandshakeTimeout,
		"handshake-timeout",
		0,
		"Maximum time to wait for an MCP server to complete its handshake (0 uses the default)",
	)

	cobraCommand.Flags().IntVar(
		&c.ActivityCapacity,
		"activity-capacity",
		-1,
		"Maximum number of retained activity log entries (0 retains without bound, negative uses the default)",
	)

	cobraCommand.Flags().BoolVar(
		&c.CORSEnabled,
		"cors-enabled",
		false,
		"Enable CORS headers on API responses",
	)

	cobraCommand.Flags().StringArrayVar(
		&c.CORSOrigins,
		"cors-origin",
		nil,
		"Allowed origin for CORS requests (can be repeated)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive("dev", "addr")

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	// Validate flags.
	addr := strings.TrimSpace(c.Addr)

	// Override address for dev mode.
	if c.Dev {
		devAddr := "localhost:8090"
		logger.Info("Development-focused mode", "addr", addr, "override", devAddr)
		addr = devAddr
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	deps, err := daemon.NewDependencies(logger, addr, cfg.ListServers())
	if err != nil {
		return fmt.Errorf("error configuring mcphub daemon dependencies: %w", err)
	}

	daemonOpts := c.daemonOptions()

	d, err := daemon.NewDaemon(deps, daemonOpts...)
	if err != nil {
		return fmt.Errorf("failed to create mcphub daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	// Print --dev mode banner if required.
	if c.Dev {
		logger.Info("Launching daemon in dev mode", "addr", addr)
		banner := fmt.Sprintf("mcphub daemon running in 'dev' mode.\n\n"+
			"  Local API:\thttp://%s/api/v1\n"+
			"  OpenAPI UI:\thttp://%s/docs\n"+
			"  Config file:\t%s\n",
			addr, addr, flags.ConfigFile)

		if flags.LogPath != "" {
			banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
		}

		banner += "\nPress Ctrl+C to stop.\n\n"
		fmt.Print(banner)
	}

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down daemon")
		err := <-runErr // Wait for cleanup and deferred logging.
		return err      // Graceful Ctrl+C / SIGTERM.
	case err := <-runErr:
		logger.Error("daemon exited with error", "error", err)
		return err // Propagate daemon failure.
	}
}

// daemonOptions converts command flags into daemon options, leaving defaults
// in place for anything the user did not set.
func (c *DaemonCmd) daemonOptions() []daemon.Option {
	var opts []daemon.Option

	if c.HandshakeTimeout > 0 {
		opts = append(opts, daemon.WithHandshakeTimeout(c.HandshakeTimeout))
	}
	if c.ActivityCapacity >= 0 {
		opts = append(opts, daemon.WithActivityCapacity(c.ActivityCapacity))
	}
	if c.CORSEnabled {
		opts = append(opts, daemon.WithAPIOptions(
			daemon.WithCORSEnabled(true),
			daemon.WithCORSAllowOrigins(c.CORSOrigins),
		))
	}

	return opts
}
