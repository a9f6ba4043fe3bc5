// Package commands provides the declarative command schema and the
// dispatcher that parses and validates shell input against it. The
// schema is the single source of truth for argument validation, help
// text, and tab-completion wiring.
package commands

// CompleteFunc produces completion candidates for the word typed so far.
// Completion runs inside the line editor's callback, so implementations
// must be read-only and fast.
type CompleteFunc func(prefix string) []string

// Meta defines the argument schema for one command verb.
type Meta struct {
	Name        string     // Verb (e.g., "repo_ls")
	Description string     // Short description
	LongDesc    string     // Long description (for help)
	Args        []ArgMeta  // Positional arguments, in order
	Flags       []FlagMeta // Command flags
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string       // Argument name (e.g., "PATH")
	Description string       // Description
	Required    bool         // Whether the argument must be supplied
	Default     string       // Value used when absent (optional args only)
	Choices     []string     // Allowed values (empty means open)
	Complete    CompleteFunc // Completion strategy (optional)
}

// FlagType represents the value type of a flag.
type FlagType string

const (
	FlagTypeString FlagType = "string"
	FlagTypeBool   FlagType = "bool"
)

// FlagMeta defines a flag.
type FlagMeta struct {
	Name        string       // Long name (e.g., "link-type")
	Short       string       // Short form (e.g., "t"), optional
	Description string       // Description
	Type        FlagType     // Value type; bool flags take no value
	Default     string       // Default value for string flags
	Choices     []string     // Allowed values (empty means open)
	Complete    CompleteFunc // Completion strategy (optional)
}

func (m Meta) findFlag(name string) (FlagMeta, bool) {
	for _, f := range m.Flags {
		if f.Name == name {
			return f, true
		}
	}
	return FlagMeta{}, false
}

func (m Meta) findShort(short string) (FlagMeta, bool) {
	for _, f := range m.Flags {
		if f.Short != "" && f.Short == short {
			return f, true
		}
	}
	return FlagMeta{}, false
}
