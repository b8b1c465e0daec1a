package config

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Modifier = (*Config)(nil)
)

type Loader interface {
	Load(path string) (Modifier, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type Modifier interface {
	AddServer(entry ServerEntry) error
	RemoveServer(name string) error
	ListServers() []ServerEntry
}

type DefaultLoader struct{}

// Config represents the .mcphub.toml file structure.
type Config struct {
	Servers        []ServerEntry `toml:"servers"`
	configFilePath string        `toml:"-"`
}

// ServerEntry represents the configuration of a single MCP server.
type ServerEntry struct {
	// Name is the unique, user-chosen identifier for this server.
	// e.g. 'weather'
	Name string `json:"name" toml:"name" yaml:"name"`

	// Command is the executable used to launch the server process.
	// e.g. 'python3'
	Command string `json:"command" toml:"command" yaml:"command"`

	// Args is the ordered argument list passed to Command.
	Args []string `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`

	// Env contains environment variable overrides applied to the server process.
	Env map[string]string `json:"env,omitempty" toml:"env,omitempty" yaml:"env,omitempty"`
}
