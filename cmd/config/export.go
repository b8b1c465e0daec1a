package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	cmdopts "github.com/mcphub-dev/mcphub/internal/cmd/options"
	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/flags"
)

const exportIndent = 2

// ExportCmd should be used to represent the 'config export' command.
type ExportCmd struct {
	*cmd.BaseCmd
	Output    string
	cfgLoader config.Loader
}

// exportDocument is the YAML shape written by the export command.
type exportDocument struct {
	Servers []config.ServerEntry `yaml:"servers"`
}

// NewExportCmd creates a newly configured (Cobra) command.
func NewExportCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ExportCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "export",
		Short: "Exports the project configuration as YAML.",
		Long: "Exports the project's MCP server configuration as YAML, " +
			"for consumption by tooling that does not read TOML.",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Output,
		"output",
		"",
		"Optional file path for the exported YAML (defaults to stdout)",
	)

	return cobraCommand, nil
}

// run is configured (via NewExportCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *ExportCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	doc := exportDocument{Servers: cfg.ListServers()}

	w := cobraCmd.OutOrStdout()
	outputPath := strings.TrimSpace(c.Output)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create export file (%s): %w", outputPath, err)
		}
		defer func() {
			_ = f.Close()
		}()
		w = f
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(exportIndent)
	defer func() {
		_ = enc.Close()
	}()

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config as YAML: %w", err)
	}

	if outputPath != "" {
		_, _ = fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Config exported: %s\n", outputPath)
	}

	return nil
}
