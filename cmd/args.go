package cmd

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// String returns a string flag or an empty string.
func (a *CommandArgs) String(name string) string {
	v, _ := a.Flags[name].(string)
	return v
}

// Bool returns a bool flag or false.
func (a *CommandArgs) Bool(name string) bool {
	v, _ := a.Flags[name].(bool)
	return v
}

// Int returns an int flag. Defaults declared as int are accepted as well.
func (a *CommandArgs) Int(name string) int64 {
	switch v := a.Flags[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

// Arg returns the positional argument at index i or fallback.
func (a *CommandArgs) Arg(i int, fallback string) string {
	if i < len(a.Args) {
		return a.Args[i]
	}
	return fallback
}

// Flag types understood by the parser.
const (
	FlagString = "string"
	FlagBool   = "bool"
	FlagInt    = "int"
)

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "depth"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "d")
	Type        string `json:"type"`              // "string", "bool", "int"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}
