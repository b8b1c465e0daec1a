package domain

const (
	CapabilityKindTool   CapabilityKind = "tool"
	CapabilityKindPrompt CapabilityKind = "prompt"
)

// CapabilityKind distinguishes tools from prompt templates within the shared catalog.
type CapabilityKind string

// Capability describes one tool or prompt advertised by a connected server.
// The schema is passed through untouched to the orchestration model.
type Capability struct {
	// Name is the bare name the owning server advertised.
	Name string `json:"name"`

	// QualifiedName is the externally addressable name. It equals Name while
	// exactly one connected server offers it, and "<server>.<name>" otherwise.
	QualifiedName string `json:"qualified_name"`

	// Owner is the name of the server providing this capability.
	Owner string `json:"owner"`

	Kind        CapabilityKind `json:"kind"`
	Description string         `json:"description,omitempty"`

	// InputSchema is the JSON schema for tool parameters, nil for prompts.
	InputSchema map[string]any `json:"input_schema,omitempty"`

	// Arguments lists prompt argument names for prompt capabilities.
	Arguments []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes a single named argument of a prompt template.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}
