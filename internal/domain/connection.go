package domain

const (
	ConnectionStateDisconnected ConnectionState = "disconnected"
	ConnectionStateConnecting   ConnectionState = "connecting"
	ConnectionStateConnected    ConnectionState = "connected"
	ConnectionStateFailed       ConnectionState = "failed"
)

// ConnectionState represents the lifecycle state of a single MCP server connection.
//
// Valid transitions:
//
//	Disconnected -> Connecting -> {Connected, Failed}
//	Connected    -> Disconnected (disconnect) | Failed (transport break)
//	Failed       -> Connecting (explicit reconnect)
type ConnectionState string

// ServerStatus is the observable summary of one registered server,
// returned by the session manager for the admin surface.
type ServerStatus struct {
	Name            string          `json:"name"`
	State           ConnectionState `json:"state"`
	CapabilityCount int             `json:"capability_count"`

	// Reason carries the failure description when State is Failed, empty otherwise.
	Reason string `json:"reason,omitempty"`
}

// ConnectResult reports the outcome of one server's connect attempt within a batch.
// A failed server never aborts the batch; it is reported here instead.
type ConnectResult struct {
	Server          string          `json:"server"`
	State           ConnectionState `json:"state"`
	CapabilityCount int             `json:"capability_count"`
	Err             string          `json:"error,omitempty"`
}
