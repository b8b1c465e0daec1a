package conn

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/client"

	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/contracts"
)

// DialFunc launches the transport for a server spec and returns a client ready
// for the Initialize handshake. Tests substitute fakes through WithDialFunc.
type DialFunc func(spec config.ServerEntry) (contracts.MCPClient, error)

// StdioDial is the production dialer: it spawns the configured command as a
// subprocess and speaks MCP over its stdin/stdout.
func StdioDial(spec config.ServerEntry) (contracts.MCPClient, error) {
	return client.NewStdioMCPClient(spec.Command, environ(spec.Env), spec.Args...)
}

// environ merges the process environment with per-server overrides,
// overrides winning on key conflict.
func environ(overrides map[string]string) []string {
	envMap := make(map[string]string)

	for _, e := range os.Environ() {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}
