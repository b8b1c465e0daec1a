package server

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/flags"
)

func TestAddCmd_Execute(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		expectedCommand string
		expectedArgs    []string
		expectedEnv     map[string]string
		expectedOutputs []string
		expectedError   string
		setupFn         func(t *testing.T, configPath string)
	}{
		{
			name:            "basic server add",
			args:            []string{"testserver", "--cmd", "test-bin"},
			expectedCommand: "test-bin",
			expectedOutputs: []string{
				"✓ Added server 'testserver' (command: test-bin)",
			},
		},
		{
			name:            "server add with args and env",
			args:            []string{"weather", "--cmd", "uvx", "--arg", "mcp-weather", "--arg", "--celsius", "--env", "API_KEY=abc"},
			expectedCommand: "uvx",
			expectedArgs:    []string{"mcp-weather", "--celsius"},
			expectedEnv:     map[string]string{"API_KEY": "abc"},
			expectedOutputs: []string{
				"✓ Added server 'weather' (command: uvx)",
			},
		},
		{
			name:          "missing server name",
			args:          []string{"--cmd", "test-bin"},
			expectedError: "server name is required and cannot be empty",
		},
		{
			name:          "empty server name",
			args:          []string{"  ", "--cmd", "test-bin"},
			expectedError: "server name is required and cannot be empty",
		},
		{
			name:          "blank command",
			args:          []string{"testserver", "--cmd", "  "},
			expectedError: "server command cannot be empty",
		},
		{
			name:          "malformed env var",
			args:          []string{"testserver", "--cmd", "test-bin", "--env", "NOEQUALS"},
			expectedError: "invalid environment variable",
		},
		{
			name:            "existing config file should append",
			args:            []string{"second-server", "--cmd", "second-bin"},
			expectedCommand: "second-bin",
			expectedOutputs: []string{
				"✓ Added server 'second-server'",
			},
			setupFn: func(t *testing.T, configPath string) {
				initialContent := `[[servers]]
name = "first-server"
command = "first-bin"
`
				err := os.WriteFile(configPath, []byte(initialContent), 0o644)
				require.NoError(t, err)
			},
		},
		{
			name:          "duplicate server name",
			args:          []string{"first-server", "--cmd", "other-bin"},
			expectedError: "duplicate server name",
			setupFn: func(t *testing.T, configPath string) {
				initialContent := `[[servers]]
name = "first-server"
command = "first-bin"
`
				err := os.WriteFile(configPath, []byte(initialContent), 0o644)
				require.NoError(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tempDir := t.TempDir()
			tempFile, err := os.CreateTemp(tempDir, "config.toml")
			require.NoError(t, err)

			if tc.setupFn != nil {
				tc.setupFn(t, tempFile.Name())
			}

			output := &bytes.Buffer{}
			baseCmd := &cmd.BaseCmd{}

			c, err := NewAddCmd(baseCmd)
			require.NoError(t, err)
			c.SetOut(output)
			c.SetErr(output)
			c.SetArgs(tc.args)

			// Temporarily modify the config file flag value.
			previousConfigFile := flags.ConfigFile
			defer func() { flags.ConfigFile = previousConfigFile }()
			flags.ConfigFile = tempFile.Name()

			err = c.Execute()

			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				return
			}
			require.NoError(t, err)

			outputStr := output.String()
			for _, expectedOutput := range tc.expectedOutputs {
				assert.Contains(t, outputStr, expectedOutput)
			}

			var parsed config.Config
			_, err = toml.DecodeFile(tempFile.Name(), &parsed)
			require.NoError(t, err)

			findByName := func(name string) (config.ServerEntry, bool) {
				for _, entry := range parsed.Servers {
					if entry.Name == name {
						return entry, true
					}
				}
				return config.ServerEntry{}, false
			}

			// May have >1 server (if we already had config).
			serverName := strings.TrimSpace(tc.args[0])
			if tc.setupFn != nil {
				require.Len(t, parsed.Servers, 2)
			}

			server, exists := findByName(serverName)
			require.True(t, exists)
			assert.Equal(t, tc.expectedCommand, server.Command)
			assert.Equal(t, tc.expectedArgs, server.Args)
			assert.Equal(t, tc.expectedEnv, server.Env)
		})
	}
}
