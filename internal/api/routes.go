package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcphub-dev/mcphub/internal/contracts"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(
	routerAPI huma.API,
	admin contracts.SessionAdministrator,
	catalog contracts.CapabilityCatalog,
	capRouter CapabilityRouter,
	recorder contracts.ActivityRecorder,
) (string, error) {
	if routerAPI == nil || reflect.ValueOf(routerAPI).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if admin == nil || reflect.ValueOf(admin).IsNil() {
		return "", fmt.Errorf("session administrator cannot be nil")
	}
	if catalog == nil || reflect.ValueOf(catalog).IsNil() {
		return "", fmt.Errorf("capability catalog cannot be nil")
	}
	if capRouter == nil || reflect.ValueOf(capRouter).IsNil() {
		return "", fmt.Errorf("capability router cannot be nil")
	}
	if recorder == nil || reflect.ValueOf(recorder).IsNil() {
		return "", fmt.Errorf("activity recorder cannot be nil")
	}

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(routerAPI, apiPathPrefix)
	RegisterServerRoutes(versionedGroup, admin, "/servers")
	RegisterCapabilityRoutes(versionedGroup, catalog, capRouter, "/capabilities")
	RegisterActivityRoutes(versionedGroup, recorder, "/activity")

	return apiPathPrefix, nil
}
