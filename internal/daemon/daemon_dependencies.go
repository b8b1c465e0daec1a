package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mcphub-dev/mcphub/internal/config"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:8090").
	APIAddr string

	// Logger for daemon and subcomponent operations.
	Logger hclog.Logger

	// Servers contains the configured MCP server entries to manage.
	Servers []config.ServerEntry
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(
	logger hclog.Logger,
	apiAddr string,
	servers []config.ServerEntry,
) (Dependencies, error) {
	if servers == nil {
		servers = []config.ServerEntry{}
	}

	deps := Dependencies{
		APIAddr: apiAddr,
		Logger:  logger,
		Servers: servers,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	for _, s := range d.Servers {
		if s.Name == "" {
			return fmt.Errorf("server entry with empty name")
		}
		if s.Command == "" {
			return fmt.Errorf("server entry '%s' has empty command", s.Name)
		}
	}

	return nil
}
