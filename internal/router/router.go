// Package router is the single entry point the orchestration loop uses to
// execute capabilities: it resolves the owning server through the capability
// catalog, dispatches the call, and records the exchange in the activity log.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/mcphub-dev/mcphub/internal/contracts"
	"github.com/mcphub-dev/mcphub/internal/domain"
	internalerrors "github.com/mcphub-dev/mcphub/internal/errors"
)

// Result is the normalized outcome of a capability invocation, shaped so the
// orchestration loop can serialize it straight back into the model's context.
type Result struct {
	Capability string `json:"capability"`
	Server     string `json:"server"`
	OK         bool   `json:"ok"`

	// Payload is the tool's text output or the rendered prompt on success.
	Payload any `json:"payload,omitempty"`

	// Error describes the failure when OK is false.
	Error string `json:"error,omitempty"`
}

// Router resolves qualified capability names to their owning connection and
// performs the invocation. It never talks to the transport directly and it
// never retries: remote and transport failures are returned as structured
// results so the caller can decide how to proceed.
// NewRouter should be used to create instances of Router.
type Router struct {
	logger   hclog.Logger
	catalog  contracts.CapabilityCatalog
	invoker  contracts.CapabilityInvoker
	activity contracts.ActivityRecorder
}

// NewRouter creates a Router over the given catalog, invoker and activity log.
func NewRouter(
	logger hclog.Logger,
	catalog contracts.CapabilityCatalog,
	invoker contracts.CapabilityInvoker,
	activity contracts.ActivityRecorder,
) (*Router, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if invoker == nil {
		return nil, fmt.Errorf("invoker cannot be nil")
	}
	if activity == nil {
		return nil, fmt.Errorf("activity log cannot be nil")
	}

	return &Router{
		logger:   logger.Named("router"),
		catalog:  catalog,
		invoker:  invoker,
		activity: activity,
	}, nil
}

// Invoke executes the named capability with the given arguments.
// Resolution and validation failures are returned as errors (caller-usage
// errors, not retried); remote and transport failures are reported inside the
// Result so the orchestration loop can recover.
func (r *Router) Invoke(ctx context.Context, qualifiedName string, arguments map[string]any) (Result, error) {
	capability, err := r.catalog.Resolve(qualifiedName)
	if err != nil {
		return Result{}, err
	}

	if err := validateArguments(capability, arguments); err != nil {
		return Result{}, err
	}

	r.activity.Append(domain.LogEntry{
		Server:     capability.Owner,
		Direction:  domain.DirectionRequest,
		Capability: qualifiedName,
		Payload:    arguments,
	})

	var payload any
	switch capability.Kind {
	case domain.CapabilityKindPrompt:
		payload, err = r.invoker.RenderPrompt(ctx, capability.Owner, capability.Name, stringArguments(arguments))
	default:
		payload, err = r.invoker.InvokeTool(ctx, capability.Owner, capability.Name, arguments)
	}

	result := Result{
		Capability: qualifiedName,
		Server:     capability.Owner,
	}

	entry := domain.LogEntry{
		Server:     capability.Owner,
		Direction:  domain.DirectionResponse,
		Capability: qualifiedName,
	}

	if err != nil {
		result.Error = err.Error()
		entry.Err = err.Error()
		r.logger.Error("Capability invocation failed",
			"capability", qualifiedName,
			"server", capability.Owner,
			"error", err,
		)
	} else {
		result.OK = true
		result.Payload = payload
		entry.Payload = payload
	}

	r.activity.Append(entry)

	return result, nil
}

// validateArguments checks tool arguments against the capability's declared
// input schema before any bytes hit the wire. Capabilities without a schema
// pass through untouched.
func validateArguments(capability domain.Capability, arguments map[string]any) error {
	if capability.Kind != domain.CapabilityKindTool || capability.InputSchema == nil {
		return nil
	}

	if arguments == nil {
		arguments = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(capability.InputSchema),
		gojsonschema.NewGoLoader(arguments),
	)
	if err != nil {
		// An unparseable schema is the server's fault, not the caller's; let the call proceed.
		return nil
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf(
			"%w: %s: %s",
			internalerrors.ErrArgumentsInvalid, capability.QualifiedName, strings.Join(details, "; "),
		)
	}

	return nil
}

// stringArguments converts tool-style arguments to the string map MCP prompt
// rendering expects.
func stringArguments(arguments map[string]any) map[string]string {
	if len(arguments) == 0 {
		return nil
	}

	out := make(map[string]string, len(arguments))
	for k, v := range arguments {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
