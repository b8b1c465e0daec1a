package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mcphub-dev/mcphub/internal/api"
	"github.com/mcphub-dev/mcphub/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8090").
	Addr string

	// Admin exposes server lifecycle operations.
	Admin contracts.SessionAdministrator

	// Catalog exposes the merged capability catalog.
	Catalog contracts.CapabilityCatalog

	// Router performs capability invocations.
	Router api.CapabilityRouter

	// Recorder exposes the activity log.
	Recorder contracts.ActivityRecorder

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	admin contracts.SessionAdministrator,
	catalog contracts.CapabilityCatalog,
	router api.CapabilityRouter,
	recorder contracts.ActivityRecorder,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:     addr,
		Admin:    admin,
		Catalog:  catalog,
		Router:   router,
		Recorder: recorder,
		Logger:   logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Admin == nil || reflect.ValueOf(d.Admin).IsNil() {
		return fmt.Errorf("session administrator cannot be nil")
	}
	if d.Catalog == nil || reflect.ValueOf(d.Catalog).IsNil() {
		return fmt.Errorf("capability catalog cannot be nil")
	}
	if d.Router == nil || reflect.ValueOf(d.Router).IsNil() {
		return fmt.Errorf("capability router cannot be nil")
	}
	if d.Recorder == nil || reflect.ValueOf(d.Recorder).IsNil() {
		return fmt.Errorf("activity recorder cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
