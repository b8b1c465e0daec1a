// Package conn owns the lifecycle of one stdio channel to a single MCP server:
// startup, handshake, capability discovery, invocation and teardown.
package conn

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/contracts"
	"github.com/mcphub-dev/mcphub/internal/domain"
	internalerrors "github.com/mcphub-dev/mcphub/internal/errors"
)

// DefaultHandshakeTimeout bounds the Initialize handshake and capability
// discovery so a hung server cannot stall a batch connect indefinitely.
const DefaultHandshakeTimeout = 30 * time.Second

const (
	clientName    = "mcphub"
	clientVersion = "0.1.0"
)

// attempt tracks one in-flight connect so concurrent callers share a single
// handshake instead of racing their own.
type attempt struct {
	done chan struct{}
	err  error
}

// Connection is the live, stateful link to one MCP server process.
// NewConnection should be used to create instances of Connection.
type Connection struct {
	spec             config.ServerEntry
	logger           hclog.Logger
	dial             DialFunc
	handshakeTimeout time.Duration

	// mu guards state, client, caps, reason and pending.
	mu      sync.Mutex
	state   domain.ConnectionState
	client  contracts.MCPClient
	caps    []domain.Capability
	reason  string
	pending *attempt

	// callMu serializes in-flight invocations so request/response matching on
	// the shared transport stays unambiguous.
	callMu sync.Mutex
}

// Option configures optional Connection behavior.
type Option func(*Connection) error

// WithDialFunc replaces the production stdio dialer.
func WithDialFunc(dial DialFunc) Option {
	return func(c *Connection) error {
		if dial == nil {
			return fmt.Errorf("dial func cannot be nil")
		}
		c.dial = dial
		return nil
	}
}

// WithHandshakeTimeout bounds the connect handshake.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Connection) error {
		if timeout <= 0 {
			return fmt.Errorf("handshake timeout must be positive, got %v", timeout)
		}
		c.handshakeTimeout = timeout
		return nil
	}
}

// NewConnection creates a disconnected Connection for the given spec.
func NewConnection(spec config.ServerEntry, logger hclog.Logger, opt ...Option) (*Connection, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	c := &Connection{
		spec:             spec,
		logger:           logger.Named("conn").With("server", spec.Name),
		dial:             StdioDial,
		handshakeTimeout: DefaultHandshakeTimeout,
		state:            domain.ConnectionStateDisconnected,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Name returns the server's unique configured name.
func (c *Connection) Name() string {
	return c.spec.Name
}

// Spec returns the immutable server configuration.
func (c *Connection) Spec() config.ServerEntry {
	return c.spec
}

// State returns the current connection state.
func (c *Connection) State() domain.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FailureReason returns the stored failure description, empty unless state is Failed.
func (c *Connection) FailureReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Capabilities returns the tools and prompts advertised by this server.
// It is non-empty only while the connection is Connected.
func (c *Connection) Capabilities() []domain.Capability {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Capability, len(c.caps))
	copy(out, c.caps)
	return out
}

// Connect launches the configured process, performs the MCP handshake and
// discovers the server's tools and prompts. On any failure the state is Failed
// and a structured error is returned; the state is never left at Connecting.
// Concurrent calls share a single handshake: exactly one attempt runs and all
// callers receive its result.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()

	if c.state == domain.ConnectionStateConnected {
		c.mu.Unlock()
		return nil
	}

	if c.pending != nil {
		// Join the in-flight attempt.
		a := c.pending
		c.mu.Unlock()

		select {
		case <-a.done:
			return a.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	a := &attempt{done: make(chan struct{})}
	c.pending = a
	c.state = domain.ConnectionStateConnecting
	c.reason = ""
	c.mu.Unlock()

	client, caps, err := c.establish(ctx)

	c.mu.Lock()
	if err != nil {
		c.state = domain.ConnectionStateFailed
		c.reason = err.Error()
		c.client = nil
		c.caps = nil
	} else {
		c.state = domain.ConnectionStateConnected
		c.client = client
		c.caps = caps
	}
	a.err = err
	c.pending = nil
	c.mu.Unlock()

	close(a.done)

	return err
}

// establish performs the dial, handshake and capability discovery without
// touching connection state; Connect applies the outcome.
func (c *Connection) establish(ctx context.Context) (contracts.MCPClient, []domain.Capability, error) {
	c.logger.Info("Connecting to MCP server", "command", c.spec.Command, "args", c.spec.Args)

	client, err := c.dial(c.spec)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", internalerrors.ErrSpawnFailed, c.spec.Name, err)
	}

	handshakeCtx, cancel := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancel()

	initResult, err := client.Initialize(handshakeCtx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: clientVersion,
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		_ = client.Close()
		if stdErrors.Is(err, context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: %s", internalerrors.ErrHandshakeTimeout, c.spec.Name)
		}
		return nil, nil, fmt.Errorf("%w: %s: initialize: %w", internalerrors.ErrTransport, c.spec.Name, err)
	}

	c.logger.Info("Initialized MCP server",
		"name", initResult.ServerInfo.Name,
		"version", initResult.ServerInfo.Version,
	)

	caps, err := c.discover(handshakeCtx, client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	c.logger.Info("Capability discovery complete", "capabilities", len(caps))

	return client, caps, nil
}

// discover requests the server's tool and prompt lists and converts them into
// the domain capability shape. A server that does not implement prompts is
// tolerated; a failed tool list is not.
func (c *Connection) discover(ctx context.Context, client contracts.MCPClient) ([]domain.Capability, error) {
	toolsResult, err := client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", internalerrors.ErrHandshakeTimeout, c.spec.Name)
		}
		return nil, fmt.Errorf("%w: %s: list tools: %w", internalerrors.ErrTransport, c.spec.Name, err)
	}
	if toolsResult == nil {
		return nil, fmt.Errorf("%w: %s: list tools: no result", internalerrors.ErrTransport, c.spec.Name)
	}

	var caps []domain.Capability
	for _, tool := range toolsResult.Tools {
		caps = append(caps, domain.Capability{
			Name:        tool.Name,
			Owner:       c.spec.Name,
			Kind:        domain.CapabilityKindTool,
			Description: tool.Description,
			InputSchema: toolInputSchema(tool),
		})
	}

	promptsResult, err := client.ListPrompts(ctx, mcp.ListPromptsRequest{})
	if err != nil {
		// Prompts are optional in MCP; a server that only implements tools is fine.
		c.logger.Debug("Server does not list prompts", "error", err)
		return caps, nil
	}
	if promptsResult == nil {
		return caps, nil
	}

	for _, prompt := range promptsResult.Prompts {
		args := make([]domain.PromptArgument, 0, len(prompt.Arguments))
		for _, a := range prompt.Arguments {
			args = append(args, domain.PromptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		caps = append(caps, domain.Capability{
			Name:        prompt.Name,
			Owner:       c.spec.Name,
			Kind:        domain.CapabilityKindPrompt,
			Description: prompt.Description,
			Arguments:   args,
		})
	}

	return caps, nil
}

// toolInputSchema converts the mcp-go schema struct into the pass-through map
// handed to the orchestration model.
func toolInputSchema(tool mcp.Tool) map[string]any {
	schema := map[string]any{
		"type": tool.InputSchema.Type,
	}
	if tool.InputSchema.Properties != nil {
		schema["properties"] = tool.InputSchema.Properties
	}
	if len(tool.InputSchema.Required) > 0 {
		schema["required"] = tool.InputSchema.Required
	}
	return schema
}

// Invoke calls a tool on this server by its bare name. It requires state
// Connected. A transport break (including a caller timeout) marks the
// connection Failed, since the request/response framing may be desynchronized.
func (c *Connection) Invoke(ctx context.Context, toolName string, arguments map[string]any) (string, error) {
	client, err := c.liveClient()
	if err != nil {
		return "", err
	}

	c.callMu.Lock()
	defer c.callMu.Unlock()

	result, err := client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	})
	if err != nil {
		c.fail(err)
		return "", fmt.Errorf("%w: %s/%s: %w", internalerrors.ErrTransport, c.spec.Name, toolName, err)
	}
	if result == nil {
		c.fail(fmt.Errorf("tool call returned no result"))
		return "", fmt.Errorf("%w: %s/%s: no result", internalerrors.ErrTransport, c.spec.Name, toolName)
	}
	if result.IsError {
		return "", fmt.Errorf(
			"%w: %s/%s: %s",
			internalerrors.ErrRemoteCall, c.spec.Name, toolName, extractText(result.Content),
		)
	}

	return extractText(result.Content), nil
}

// RenderPrompt renders a prompt template on this server by its bare name.
// The same error taxonomy as Invoke applies.
func (c *Connection) RenderPrompt(
	ctx context.Context,
	promptName string,
	arguments map[string]string,
) (*mcp.GetPromptResult, error) {
	client, err := c.liveClient()
	if err != nil {
		return nil, err
	}

	c.callMu.Lock()
	defer c.callMu.Unlock()

	result, err := client.GetPrompt(ctx, mcp.GetPromptRequest{
		Params: mcp.GetPromptParams{
			Name:      promptName,
			Arguments: arguments,
		},
	})
	if err != nil {
		c.fail(err)
		return nil, fmt.Errorf("%w: %s/%s: %w", internalerrors.ErrTransport, c.spec.Name, promptName, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s/%s: no result", internalerrors.ErrRemoteCall, c.spec.Name, promptName)
	}

	return result, nil
}

// Disconnect closes the transport and resets the state to Disconnected
// regardless of prior state. It is idempotent.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.logger.Error("Error closing client connection", "error", err)
		}
		c.client = nil
	}

	c.state = domain.ConnectionStateDisconnected
	c.caps = nil
	c.reason = ""
}

// liveClient returns the transport client if and only if the state is Connected.
func (c *Connection) liveClient() (contracts.MCPClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.ConnectionStateConnected || c.client == nil {
		return nil, fmt.Errorf("%w: %s", internalerrors.ErrNotConnected, c.spec.Name)
	}

	return c.client, nil
}

// fail transitions the connection to Failed after a transport break,
// closing the now-suspect channel.
func (c *Connection) fail(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		_ = c.client.Close()
		c.client = nil
	}

	c.state = domain.ConnectionStateFailed
	c.caps = nil
	c.reason = cause.Error()

	c.logger.Error("Transport failure, connection marked failed", "error", cause)
}

// extractText returns the first text content item from a tool result.
// The mcp-go library returns a slice of content items; for most tools this
// will be a single text item.
func extractText(content []mcp.Content) string {
	for _, item := range content {
		if tc, ok := item.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
