// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrDuplicateServer indicates that a server registration used a name that is already taken.
	// Recommended to map to HTTP 409 Conflict.
	ErrDuplicateServer = errors.New("server already registered")

	// ErrServerNotFound indicates that the requested server does not exist or is not registered.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrCapabilityNotFound indicates that no connected server currently offers the named capability.
	// Recommended to map to HTTP 404 Not Found.
	ErrCapabilityNotFound = errors.New("capability not found")

	// ErrNotConnected indicates that an operation required a live connection but the server
	// was Disconnected or Failed at the time of the call.
	// Recommended to map to HTTP 409 Conflict.
	ErrNotConnected = errors.New("server not connected")

	// ErrSpawnFailed indicates that the server subprocess or its stdio transport could not be started.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrSpawnFailed = errors.New("server process failed to start")

	// ErrHandshakeTimeout indicates that the MCP initialize handshake did not complete within the
	// configured deadline. Recommended to map to HTTP 502 Bad Gateway.
	ErrHandshakeTimeout = errors.New("handshake timed out")

	// ErrTransport indicates that the stdio channel broke during an otherwise valid exchange.
	// The owning connection is marked Failed when this is returned.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrTransport = errors.New("transport failure")

	// ErrRemoteCall indicates that the server responded but reported an application-level failure
	// for a tool call or prompt render. Recommended to map to HTTP 502 Bad Gateway.
	ErrRemoteCall = errors.New("remote call failed")

	// ErrArgumentsInvalid indicates that tool call arguments did not satisfy the capability's
	// declared input schema. Recommended to map to HTTP 400 Bad Request.
	ErrArgumentsInvalid = errors.New("arguments do not match capability schema")
)
