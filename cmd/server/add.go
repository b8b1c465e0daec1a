package server

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	cmdopts "github.com/mcphub-dev/mcphub/internal/cmd/options"
	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/flags"
)

// AddCmd should be used to represent the 'add' command.
type AddCmd struct {
	*cmd.BaseCmd
	Command   string
	Args      []string
	Env       []string
	cfgLoader config.Loader
}

// NewAddCmd creates a newly configured (Cobra) command.
func NewAddCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &AddCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "add <server-name>",
		Short: "Adds an MCP server to the project.",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Command,
		"cmd",
		"",
		"Executable used to launch the server process (required)",
	)
	cobraCommand.Flags().StringArrayVar(
		&c.Args,
		"arg",
		nil,
		"Argument passed to the server command (can be repeated)",
	)
	cobraCommand.Flags().StringArrayVar(
		&c.Env,
		"env",
		nil,
		"Environment variable for the server process in KEY=VALUE form (can be repeated)",
	)

	_ = cobraCommand.MarkFlagRequired("cmd")

	return cobraCommand, nil
}

// longDescription returns the long version of the command description.
func (c *AddCmd) longDescription() string {
	return `Adds an MCP server to the project config file.
The server is launched over stdio by the daemon using the given command, arguments and environment.`
}

// run is configured (via NewAddCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *AddCmd) run(cobraCmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("server name is required and cannot be empty")
	}

	logger, err := c.Logger()
	if err != nil {
		return err
	}

	name := strings.TrimSpace(args[0])
	command := strings.TrimSpace(c.Command)
	if command == "" {
		return fmt.Errorf("server command cannot be empty")
	}

	env, err := parseEnv(c.Env)
	if err != nil {
		return err
	}

	entry := config.ServerEntry{
		Name:    name,
		Command: command,
		Args:    c.Args,
		Env:     env,
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	if err := cfg.AddServer(entry); err != nil {
		return err
	}

	logger.Debug("Server added", "name", name, "command", command, "args", c.Args)
	fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Added server '%s' (command: %s)\n", name, command)

	return nil
}

// parseEnv converts KEY=VALUE pairs into a map, rejecting malformed entries.
func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment variable '%s', expected KEY=VALUE", p)
		}
		env[key] = value
	}

	return env, nil
}
