package server

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	cmdopts "github.com/mcphub-dev/mcphub/internal/cmd/options"
	"github.com/mcphub-dev/mcphub/internal/cmd/output"
	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/flags"
	"github.com/mcphub-dev/mcphub/internal/printer"
)

const outputIndent = 2

// ListCmd should be used to represent the 'list' command.
type ListCmd struct {
	*cmd.BaseCmd
	Format    cmd.OutputFormat
	cfgLoader config.Loader
}

// NewListCmd creates a newly configured (Cobra) command.
func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:   baseCmd,
		Format:    cmd.FormatText,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "list",
		Short: "Lists the MCP servers configured for the project.",
		Long:  "Lists the MCP servers configured for the project, read from the config file.",
		RunE:  c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %s", allowed.String()),
	)

	return cobraCommand, nil
}

// run is configured (via NewListCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	handler, err := c.handler(cobraCmd)
	if err != nil {
		return err
	}

	return handler.HandleResults(cfg.ListServers()...)
}

// handler selects the output handler matching the requested format.
func (c *ListCmd) handler(cobraCmd *cobra.Command) (output.Handler[config.ServerEntry], error) {
	w := cobraCmd.OutOrStdout()

	switch c.Format {
	case cmd.FormatJSON:
		return output.NewJSONHandler[config.ServerEntry](w, outputIndent), nil
	case cmd.FormatYAML:
		return output.NewYAMLHandler[config.ServerEntry](w, outputIndent), nil
	case cmd.FormatText:
		return output.NewTextHandler[config.ServerEntry](w, &printer.ServerEntryPrinter{}), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", c.Format.String())
	}
}
