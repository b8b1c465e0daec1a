package contracts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPClient is the subset of the mcp-go client surface the connection layer depends on.
// *client.Client satisfies it; tests substitute lightweight fakes.
type MCPClient interface {
	// Initialize performs the MCP protocol handshake.
	Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)

	// ListTools returns the tools the server advertises.
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)

	// ListPrompts returns the prompt templates the server advertises.
	ListPrompts(ctx context.Context, request mcp.ListPromptsRequest) (*mcp.ListPromptsResult, error)

	// CallTool executes a named tool with the given arguments.
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

	// GetPrompt renders a named prompt template with the given arguments.
	GetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

	// Close shuts down the transport and releases the process handle.
	Close() error
}

// CapabilityInvoker executes tool calls and prompt renders on a named server's
// connection. The session manager implements it; the tool router consumes it.
type CapabilityInvoker interface {
	// InvokeTool calls a tool by its bare name on the given server.
	InvokeTool(ctx context.Context, server, tool string, arguments map[string]any) (string, error)

	// RenderPrompt renders a prompt template by its bare name on the given server.
	RenderPrompt(ctx context.Context, server, prompt string, arguments map[string]string) (*mcp.GetPromptResult, error)
}
