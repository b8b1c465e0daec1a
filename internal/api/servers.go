package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcphub-dev/mcphub/internal/config"
	"github.com/mcphub-dev/mcphub/internal/contracts"
	"github.com/mcphub-dev/mcphub/internal/domain"
)

// ServerStatus describes one registered server for API consumers.
type ServerStatus struct {
	// Name of the server.
	Name string `doc:"Unique server name" json:"name"`

	// State is the current connection state.
	State string `doc:"Connection state" enum:"disconnected,connecting,connected,failed" json:"state"`

	// CapabilityCount is the number of capabilities this server currently contributes.
	CapabilityCount int `doc:"Number of registered capabilities" json:"capability_count"`

	// Reason carries the failure description when state is failed.
	Reason string `doc:"Failure reason when state is failed" json:"reason,omitempty"`
}

// ServersResponse represents the wrapped API response for a list of servers.
type ServersResponse struct {
	Body struct {
		Servers []ServerStatus `doc:"Registered servers and their states" json:"servers"`
	}
}

// AddServerRequest represents the incoming API request to register a server.
type AddServerRequest struct {
	Body struct {
		Name    string            `doc:"Unique server name"                 example:"weather" json:"name"`
		Command string            `doc:"Executable used to start the server" example:"python3" json:"command"`
		Args    []string          `doc:"Ordered argument list"                                 json:"args,omitempty"`
		Env     map[string]string `doc:"Environment variable overrides"                        json:"env,omitempty"`
	}
}

// ServerNameRequest represents an incoming API request addressing one server by name.
type ServerNameRequest struct {
	Name string `doc:"Name of the server" example:"weather" path:"name"`
}

// ConnectResult describes one server's outcome within a batch connect.
type ConnectResult struct {
	Server          string `doc:"Server name"                               json:"server"`
	State           string `doc:"Connection state after the attempt"        json:"state"`
	CapabilityCount int    `doc:"Capabilities registered on success"        json:"capability_count"`
	Error           string `doc:"Failure description when the attempt failed" json:"error,omitempty"`
}

// ConnectAllResponse represents the wrapped API response for a batch connect.
type ConnectAllResponse struct {
	Body struct {
		Results []ConnectResult `doc:"Per-server connect outcomes" json:"results"`
	}
}

// StatusMessageResponse is a minimal acknowledgement body.
type StatusMessageResponse struct {
	Body struct {
		Message string `doc:"Human-readable outcome" json:"message"`
	}
}

// DomainServerStatus wraps domain.ServerStatus for conversion to the API type.
type DomainServerStatus domain.ServerStatus

// ToAPIType converts a wrapped domain type to an API-safe type.
func (d DomainServerStatus) ToAPIType() ServerStatus {
	return ServerStatus{
		Name:            d.Name,
		State:           string(d.State),
		CapabilityCount: d.CapabilityCount,
		Reason:          d.Reason,
	}
}

// RegisterServerRoutes sets up server lifecycle API endpoints.
func RegisterServerRoutes(routerAPI huma.API, admin contracts.SessionAdministrator, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List all servers",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServersResponse, error) {
			return handleListServers(admin)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID:   "addServer",
			Method:        http.MethodPost,
			Summary:       "Register a new server",
			DefaultStatus: http.StatusCreated,
			Tags:          tags,
		},
		func(ctx context.Context, input *AddServerRequest) (*StatusMessageResponse, error) {
			return handleAddServer(admin, input)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "removeServer",
			Method:      http.MethodDelete,
			Path:        "/{name}",
			Summary:     "Remove a server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerNameRequest) (*StatusMessageResponse, error) {
			return handleRemoveServer(admin, input.Name)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "connectAllServers",
			Method:      http.MethodPost,
			Path:        "/connect",
			Summary:     "Connect all registered servers",
			Description: "Attempts every registered server concurrently; per-server failures are reported in the result.",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ConnectAllResponse, error) {
			return handleConnectAll(ctx, admin)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "connectServer",
			Method:      http.MethodPost,
			Path:        "/{name}/connect",
			Summary:     "Connect a single server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerNameRequest) (*StatusMessageResponse, error) {
			return handleConnectOne(ctx, admin, input.Name)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "disconnectServer",
			Method:      http.MethodPost,
			Path:        "/{name}/disconnect",
			Summary:     "Disconnect a single server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerNameRequest) (*StatusMessageResponse, error) {
			return handleDisconnectOne(admin, input.Name)
		},
	)
}

func handleListServers(admin contracts.SessionAdministrator) (*ServersResponse, error) {
	statuses := admin.ListServers()

	servers := make([]ServerStatus, 0, len(statuses))
	for _, s := range statuses {
		servers = append(servers, DomainServerStatus(s).ToAPIType())
	}

	resp := &ServersResponse{}
	resp.Body.Servers = servers

	return resp, nil
}

func handleAddServer(admin contracts.SessionAdministrator, input *AddServerRequest) (*StatusMessageResponse, error) {
	err := admin.AddServer(config.ServerEntry{
		Name:    input.Body.Name,
		Command: input.Body.Command,
		Args:    input.Body.Args,
		Env:     input.Body.Env,
	})
	if err != nil {
		return nil, err
	}

	resp := &StatusMessageResponse{}
	resp.Body.Message = "server " + input.Body.Name + " added"

	return resp, nil
}

func handleRemoveServer(admin contracts.SessionAdministrator, name string) (*StatusMessageResponse, error) {
	if err := admin.RemoveServer(name); err != nil {
		return nil, err
	}

	resp := &StatusMessageResponse{}
	resp.Body.Message = "server " + name + " removed"

	return resp, nil
}

func handleConnectAll(ctx context.Context, admin contracts.SessionAdministrator) (*ConnectAllResponse, error) {
	results := admin.ConnectAll(ctx)

	out := make([]ConnectResult, 0, len(results))
	for _, r := range results {
		out = append(out, ConnectResult{
			Server:          r.Server,
			State:           string(r.State),
			CapabilityCount: r.CapabilityCount,
			Error:           r.Err,
		})
	}

	resp := &ConnectAllResponse{}
	resp.Body.Results = out

	return resp, nil
}

func handleConnectOne(
	ctx context.Context,
	admin contracts.SessionAdministrator,
	name string,
) (*StatusMessageResponse, error) {
	if err := admin.ConnectOne(ctx, name); err != nil {
		return nil, err
	}

	resp := &StatusMessageResponse{}
	resp.Body.Message = "server " + name + " connected"

	return resp, nil
}

func handleDisconnectOne(admin contracts.SessionAdministrator, name string) (*StatusMessageResponse, error) {
	if err := admin.DisconnectOne(name); err != nil {
		return nil, err
	}

	resp := &StatusMessageResponse{}
	resp.Body.Message = "server " + name + " disconnected"

	return resp, nil
}
