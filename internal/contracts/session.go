package contracts

import (
	"context"

	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/domain"
)

// CapabilityCatalog provides read access to the merged capability catalog.
type CapabilityCatalog interface {
	// Resolve returns the capability registered under the given qualified name.
	Resolve(qualifiedName string) (domain.Capability, error)

	// List returns a read-only snapshot of the full merged catalog.
	List() []domain.Capability
}

// SessionAdministrator exposes the server lifecycle operations consumed by the
// CLI and HTTP admin surfaces.
type SessionAdministrator interface {
	// AddServer registers a new server spec.
	AddServer(spec config.ServerEntry) error

	// RemoveServer disconnects (if needed) and deletes the named server.
	RemoveServer(name string) error

	// ConnectAll attempts to connect every registered server concurrently.
	// Per-server failures are reported in the result, never returned as an error.
	ConnectAll(ctx context.Context) []domain.ConnectResult

	// ConnectOne connects a single named server.
	ConnectOne(ctx context.Context, name string) error

	// DisconnectOne disconnects a single named server.
	DisconnectOne(name string) error

	// ListServers returns name, state and capability count per registered server.
	ListServers() []domain.ServerStatus
}

// ActivityRecorder captures request/response exchanges for the observability surface.
type ActivityRecorder interface {
	// Append records a single entry. It must be cheap and never block beyond
	// acquiring the log's own write slot.
	Append(entry domain.LogEntry)

	// Snapshot returns a read-only copy of all retained entries.
	Snapshot() []domain.LogEntry

	// Clear discards all retained entries.
	Clear()
}
