package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	configcmd "github.com/mcphub-dev/mcphub/cmd/config"
	"github.com/mcphub-dev/mcphub/cmd/server"
	"github.com/mcphub-dev/mcphub/internal/cmd"
	cmdopts "github.com/mcphub-dev/mcphub/internal/cmd/options"
	"github.com/mcphub-dev/mcphub/internal/flags"
)

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() {
	rootCmd, err := NewRootCmd(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating root command: %s\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the root command and registers all subcommands.
// A nil logger defers logger construction until flags have been parsed.
func NewRootCmd(logger hclog.Logger, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	baseCmd := &cmd.BaseCmd{}
	if logger != nil {
		baseCmd.SetLogger(logger)
	}

	c := &RootCmd{
		BaseCmd: baseCmd,
	}

	rootCmd := &cobra.Command{
		Use:          "mcphub <command> [args]",
		Short:        "'mcphub' manages connections to multiple MCP servers and routes capability calls between them.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	initCmd, err := NewInitCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(initCmd)

	daemonCmd, err := NewDaemonCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(daemonCmd)

	addCmd, err := server.NewAddCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(addCmd)

	removeCmd, err := server.NewRemoveCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(removeCmd)

	listCmd, err := server.NewListCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(listCmd)

	configCmd, err := configcmd.NewConfigCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(configCmd)

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'mcphub' CLI manages a project's MCP server dependencies and runs the hub
daemon, which connects to every configured server, merges their tools and
prompts into a single collision safe catalog, and routes capability calls to
the owning server over an HTTP API.`
}
