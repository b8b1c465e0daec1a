// Package session holds the set of configured MCP servers, their desired and
// actual connection state, and orchestrates connect/disconnect/reconnect
// operations across them.
package session

import (
	"context"
	stdErrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/conn"
	"github.com/mcphub-dev/mcphub/internal/contracts"
	"github.com/mcphub-dev/mcphub/internal/domain"
	internalerrors "github.com/mcphub-dev/mcphub/internal/errors"
	"github.com/mcphub-dev/mcphub/internal/registry"
)

var _ contracts.SessionAdministrator = (*Manager)(nil)

// Manager owns the set of server connections and keeps the capability registry
// consistent with their lifecycle: a successful connect rebuilds that server's
// entries, a disconnect or transport failure removes them.
// NewManager should be used to create instances of Manager.
type Manager struct {
	logger   hclog.Logger
	registry *registry.Registry
	connOpts []conn.Option

	mu    sync.RWMutex
	conns map[string]*conn.Connection

	// lifeMu guards lifecycles. Each per-name mutex serializes connect,
	// disconnect and remove for that server together with the registry
	// update they imply, so a removal can never interleave with an
	// in-flight connect and leave stale capabilities behind.
	lifeMu     sync.Mutex
	lifecycles map[string]*sync.Mutex
}

// NewManager creates a Manager wired to the given registry.
// The connection options are forwarded to every connection the manager creates.
func NewManager(logger hclog.Logger, reg *registry.Registry, connOpts ...conn.Option) (*Manager, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	return &Manager{
		logger:     logger.Named("session"),
		registry:   reg,
		connOpts:   connOpts,
		conns:      make(map[string]*conn.Connection),
		lifecycles: make(map[string]*sync.Mutex),
	}, nil
}

// AddServer registers a new server spec. The spec is immutable once added
// unless explicitly removed and re-added.
func (m *Manager) AddServer(spec config.ServerEntry) error {
	if strings.TrimSpace(spec.Name) == "" || strings.TrimSpace(spec.Command) == "" {
		return fmt.Errorf("%w: server name and command are required", internalerrors.ErrBadRequest)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conns[spec.Name]; exists {
		return fmt.Errorf("%w: %s", internalerrors.ErrDuplicateServer, spec.Name)
	}

	connection, err := conn.NewConnection(spec, m.logger, m.connOpts...)
	if err != nil {
		return err
	}

	m.conns[spec.Name] = connection
	m.logger.Info("Registered server", "name", spec.Name, "command", spec.Command)

	return nil
}

// RemoveServer disconnects the named server if connected, then removes its spec.
func (m *Manager) RemoveServer(name string) error {
	lc := m.lifecycle(name)
	lc.Lock()
	defer lc.Unlock()

	m.mu.Lock()
	connection, exists := m.conns[name]
	if exists {
		delete(m.conns, name)
	}
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", internalerrors.ErrServerNotFound, name)
	}

	connection.Disconnect()
	m.registry.Remove(name)
	m.logger.Info("Removed server", "name", name)

	return nil
}

// ConnectAll attempts to connect every registered server concurrently.
// One bad server never prevents using the others: failures are reported
// per server in the result, and successfully connected servers stay usable.
func (m *Manager) ConnectAll(ctx context.Context) []domain.ConnectResult {
	m.mu.RLock()
	names := make([]string, 0, len(m.conns))
	for name := range m.conns {
		names = append(names, name)
	}
	m.mu.RUnlock()

	slices.Sort(names)

	results := make([]domain.ConnectResult, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			err := m.ConnectOne(ctx, name)

			result := domain.ConnectResult{Server: name}
			if connection, ok := m.connection(name); ok {
				result.State = connection.State()
			}
			if err != nil {
				result.Err = err.Error()
			} else {
				result.CapabilityCount = m.registry.CountFor(name)
			}
			results[i] = result

			// Per-server failures are contained, never escalated to the batch.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ConnectOne connects a single named server and applies its capability
// snapshot to the registry. Rebuilds are strictly ordered relative to this
// server's own connect/disconnect events.
func (m *Manager) ConnectOne(ctx context.Context, name string) error {
	lc := m.lifecycle(name)
	lc.Lock()
	defer lc.Unlock()

	connection, ok := m.connection(name)
	if !ok {
		return fmt.Errorf("%w: %s", internalerrors.ErrServerNotFound, name)
	}

	if err := connection.Connect(ctx); err != nil {
		m.registry.Remove(name)
		return err
	}

	m.registry.Rebuild(name, connection.Capabilities())

	return nil
}

// DisconnectOne disconnects a single named server and drops its capabilities.
func (m *Manager) DisconnectOne(name string) error {
	lc := m.lifecycle(name)
	lc.Lock()
	defer lc.Unlock()

	connection, ok := m.connection(name)
	if !ok {
		return fmt.Errorf("%w: %s", internalerrors.ErrServerNotFound, name)
	}

	connection.Disconnect()
	m.registry.Remove(name)

	return nil
}

// DisconnectAll disconnects every registered server, used at shutdown.
func (m *Manager) DisconnectAll() {
	m.mu.RLock()
	conns := make([]*conn.Connection, 0, len(m.conns))
	for _, c := range m.conns {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	for _, c := range conns {
		lc := m.lifecycle(c.Name())
		lc.Lock()
		c.Disconnect()
		m.registry.Remove(c.Name())
		lc.Unlock()
	}
}

// ListServers returns name, state and capability count per registered server,
// sorted by name.
func (m *Manager) ListServers() []domain.ServerStatus {
	m.mu.RLock()
	statuses := make([]domain.ServerStatus, 0, len(m.conns))
	for _, c := range m.conns {
		statuses = append(statuses, domain.ServerStatus{
			Name:            c.Name(),
			State:           c.State(),
			CapabilityCount: m.registry.CountFor(c.Name()),
			Reason:          c.FailureReason(),
		})
	}
	m.mu.RUnlock()

	slices.SortFunc(statuses, func(a, b domain.ServerStatus) int {
		return strings.Compare(a.Name, b.Name)
	})

	return statuses
}

// InvokeTool executes a tool on the named server's connection. A transport
// break marks the connection Failed and drops its registry entries so no
// capability ever references a non-Connected server.
func (m *Manager) InvokeTool(
	ctx context.Context,
	server string,
	tool string,
	arguments map[string]any,
) (string, error) {
	connection, ok := m.connection(server)
	if !ok {
		return "", fmt.Errorf("%w: %s", internalerrors.ErrServerNotFound, server)
	}

	payload, err := connection.Invoke(ctx, tool, arguments)
	if err != nil && stdErrors.Is(err, internalerrors.ErrTransport) {
		m.registry.Remove(server)
	}

	return payload, err
}

// RenderPrompt renders a prompt template on the named server's connection,
// with the same failure handling as InvokeTool.
func (m *Manager) RenderPrompt(
	ctx context.Context,
	server string,
	prompt string,
	arguments map[string]string,
) (*mcp.GetPromptResult, error) {
	connection, ok := m.connection(server)
	if !ok {
		return nil, fmt.Errorf("%w: %s", internalerrors.ErrServerNotFound, server)
	}

	result, err := connection.RenderPrompt(ctx, prompt, arguments)
	if err != nil && stdErrors.Is(err, internalerrors.ErrTransport) {
		m.registry.Remove(server)
	}

	return result, err
}

// lifecycle returns the mutex serializing lifecycle operations for the named
// server. Entries persist for the manager's lifetime so every caller for a
// given name always contends on the same mutex, even across remove and re-add.
func (m *Manager) lifecycle(name string) *sync.Mutex {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	lc, ok := m.lifecycles[name]
	if !ok {
		lc = &sync.Mutex{}
		m.lifecycles[name] = lc
	}
	return lc
}

func (m *Manager) connection(name string) (*conn.Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[name]
	return c, ok
}
