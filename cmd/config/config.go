package config

import (
	"github.com/spf13/cobra"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	cmdopts "github.com/mcphub-dev/mcphub/internal/cmd/options"
)

// NewConfigCmd creates the 'config' command group.
func NewConfigCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "config",
		Short: "Manages MCP server configuration.",
		Long:  "Manages the project's MCP server configuration file.",
	}

	exportCmd, err := NewExportCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	cobraCommand.AddCommand(exportCmd)

	return cobraCommand, nil
}
