package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcphub-dev/mcphub/internal/contracts"
	"github.com/mcphub-dev/mcphub/internal/domain"
	"github.com/mcphub-dev/mcphub/internal/router"
)

// invokeTimeout bounds a single capability invocation triggered over the API.
const invokeTimeout = 15 * time.Second

// CapabilityRouter performs capability invocations on behalf of API consumers.
type CapabilityRouter interface {
	Invoke(ctx context.Context, qualifiedName string, arguments map[string]any) (router.Result, error)
}

// Capability describes one catalog entry for API consumers.
type Capability struct {
	// Name is the bare name advertised by the owning server.
	Name string `doc:"Bare capability name" json:"name"`

	// QualifiedName is the externally addressable name, namespaced on collision.
	QualifiedName string `doc:"Addressable capability name" json:"qualified_name"`

	// Owner is the server providing this capability.
	Owner string `doc:"Owning server name" json:"owner"`

	Kind        string `doc:"Capability kind" enum:"tool,prompt" json:"kind"`
	Description string `doc:"Description of what the capability does" json:"description,omitempty"`

	// InputSchema is the JSON schema for tool parameters.
	InputSchema map[string]any `doc:"Input parameters schema" json:"input_schema,omitempty"`

	// Arguments lists prompt argument descriptors for prompt capabilities.
	Arguments []domain.PromptArgument `doc:"Prompt arguments" json:"arguments,omitempty"`
}

// CapabilitiesResponse represents the wrapped API response for the merged catalog.
type CapabilitiesResponse struct {
	Body struct {
		Capabilities []Capability `doc:"Merged capability catalog" json:"capabilities"`
	}
}

// InvokeRequest represents the incoming API request to invoke a capability.
type InvokeRequest struct {
	Name string         `doc:"Qualified capability name" example:"weather.get_forecast" path:"name"`
	Body map[string]any `doc:"Capability arguments"`
}

// InvokeResponse represents the wrapped API response for a capability invocation.
type InvokeResponse struct {
	Body router.Result
}

// DomainCapability wraps domain.Capability for conversion to the API type.
type DomainCapability domain.Capability

// ToAPIType converts a wrapped domain type to an API-safe type.
func (d DomainCapability) ToAPIType() Capability {
	return Capability{
		Name:          d.Name,
		QualifiedName: d.QualifiedName,
		Owner:         d.Owner,
		Kind:          string(d.Kind),
		Description:   d.Description,
		InputSchema:   d.InputSchema,
		Arguments:     d.Arguments,
	}
}

// RegisterCapabilityRoutes sets up catalog and invocation API endpoints.
func RegisterCapabilityRoutes(
	routerAPI huma.API,
	catalog contracts.CapabilityCatalog,
	capRouter CapabilityRouter,
	apiPathPrefix string,
) {
	capabilitiesAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Capabilities"}

	huma.Register(
		capabilitiesAPI,
		huma.Operation{
			OperationID: "listCapabilities",
			Method:      http.MethodGet,
			Summary:     "List the merged capability catalog",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*CapabilitiesResponse, error) {
			return handleListCapabilities(catalog)
		},
	)

	huma.Register(
		capabilitiesAPI,
		huma.Operation{
			OperationID: "invokeCapability",
			Method:      http.MethodPost,
			Path:        "/{name}/call",
			Summary:     "Invoke a capability",
			Description: "Routes the call to the owning server; remote failures are reported inside the result body.",
			Tags:        tags,
		},
		func(ctx context.Context, input *InvokeRequest) (*InvokeResponse, error) {
			return handleInvoke(ctx, capRouter, input)
		},
	)
}

func handleListCapabilities(catalog contracts.CapabilityCatalog) (*CapabilitiesResponse, error) {
	merged := catalog.List()

	capabilities := make([]Capability, 0, len(merged))
	for _, c := range merged {
		capabilities = append(capabilities, DomainCapability(c).ToAPIType())
	}

	resp := &CapabilitiesResponse{}
	resp.Body.Capabilities = capabilities

	return resp, nil
}

func handleInvoke(ctx context.Context, capRouter CapabilityRouter, input *InvokeRequest) (*InvokeResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, invokeTimeout)
	defer cancel()

	result, err := capRouter.Invoke(callCtx, input.Name, input.Body)
	if err != nil {
		return nil, err
	}

	return &InvokeResponse{Body: result}, nil
}
