package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcphub-dev/mcphub/internal/cmd"
	internalconfig "github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/flags"
)

func TestExportCmd_Execute(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	content := `[[servers]]
name = "weather"
command = "uvx"
args = ["mcp-weather"]

[servers.env]
API_KEY = "abc"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	outBuf := &bytes.Buffer{}
	c, err := NewExportCmd(&cmd.BaseCmd{})
	require.NoError(t, err)
	c.SetOut(outBuf)
	c.SetErr(outBuf)

	// Temporarily modify the config file flag value.
	previousConfigFile := flags.ConfigFile
	defer func() { flags.ConfigFile = previousConfigFile }()
	flags.ConfigFile = configPath

	require.NoError(t, c.Execute())

	var doc struct {
		Servers []internalconfig.ServerEntry `yaml:"servers"`
	}
	require.NoError(t, yaml.Unmarshal(outBuf.Bytes(), &doc))
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "weather", doc.Servers[0].Name)
	assert.Equal(t, "uvx", doc.Servers[0].Command)
	assert.Equal(t, []string{"mcp-weather"}, doc.Servers[0].Args)
	assert.Equal(t, map[string]string{"API_KEY": "abc"}, doc.Servers[0].Env)
}

func TestExportCmd_WritesToFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`[[servers]]
name = "math"
command = "math-server"
`), 0o644))

	exportPath := filepath.Join(tempDir, "servers.yaml")

	outBuf := &bytes.Buffer{}
	c, err := NewExportCmd(&cmd.BaseCmd{})
	require.NoError(t, err)
	c.SetOut(outBuf)
	c.SetErr(outBuf)
	c.SetArgs([]string{"--output", exportPath})

	previousConfigFile := flags.ConfigFile
	defer func() { flags.ConfigFile = previousConfigFile }()
	flags.ConfigFile = configPath

	require.NoError(t, c.Execute())
	assert.Contains(t, outBuf.String(), "✓ Config exported")

	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "name: math")
}

func TestExportCmd_MissingConfig(t *testing.T) {
	c, err := NewExportCmd(&cmd.BaseCmd{})
	require.NoError(t, err)
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})

	previousConfigFile := flags.ConfigFile
	defer func() { flags.ConfigFile = previousConfigFile }()
	flags.ConfigFile = filepath.Join(t.TempDir(), "does-not-exist.toml")

	require.Error(t, c.Execute())
}
