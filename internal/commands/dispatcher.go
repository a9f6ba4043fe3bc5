package commands

import (
	"errors"
	"fmt"
	"strings"

	"magpie/internal/shellquote"
)

// Sentinel errors a handler returns to terminate the shell. They cross the
// dispatcher untouched; every other error is reported at the loop boundary
// and the session continues.
var (
	ErrExit          = errors.New("exit")
	ErrExitWithError = errors.New("exit with error")
)

// ParseError reports a schema violation in one command's arguments.
type ParseError struct {
	Command string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Msg)
}

// UnknownCommandError reports an unrecognized verb.
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %q (type `help` for a list)", e.Verb)
}

// Handler executes one command with a validated argument bundle.
type Handler func(inv Invocation) error

// Command pairs a schema with its handler.
type Command struct {
	Meta Meta
	Run  Handler
}

// Dispatcher owns the verb registry and turns raw input lines into
// handler invocations. Dispatch itself never touches session state.
type Dispatcher struct {
	byName map[string]*Command
	order  []*Command // registration order, for help listings
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{byName: make(map[string]*Command)}
}

// Register adds a command. Registering a duplicate verb panics; the
// registry is assembled once at startup and a collision is a programming
// error.
func (d *Dispatcher) Register(meta Meta, run Handler) {
	if _, ok := d.byName[meta.Name]; ok {
		panic(fmt.Sprintf("command %q registered twice", meta.Name))
	}
	cmd := &Command{Meta: meta, Run: run}
	d.byName[meta.Name] = cmd
	d.order = append(d.order, cmd)
}

// Commands returns all commands in registration order.
func (d *Dispatcher) Commands() []*Command { return d.order }

// Lookup finds a command by verb.
func (d *Dispatcher) Lookup(verb string) (*Command, bool) {
	cmd, ok := d.byName[verb]
	return cmd, ok
}

// Dispatch tokenizes line, validates it against the matching schema, and
// invokes the handler with a typed argument bundle.
func (d *Dispatcher) Dispatch(line string) error {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return &ParseError{Command: "", Msg: err.Error()}
	}
	if len(tokens) == 0 {
		return nil
	}
	verb := tokens[0]
	cmd, ok := d.byName[verb]
	if !ok {
		return &UnknownCommandError{Verb: verb}
	}
	inv, err := parse(cmd.Meta, tokens[1:])
	if err != nil {
		return err
	}
	return cmd.Run(inv)
}

// Invocation is the typed argument bundle a handler receives. Positional
// arguments and string flags are addressed by name; bool flags by Bool.
type Invocation struct {
	Meta    Meta
	strings map[string]string
	bools   map[string]bool
}

// String returns the value of a positional argument or string flag,
// falling back to its schema default.
func (inv Invocation) String(name string) string { return inv.strings[name] }

// Bool reports whether a bool flag was set.
func (inv Invocation) Bool(name string) bool { return inv.bools[name] }

func parse(meta Meta, tokens []string) (Invocation, error) {
	inv := Invocation{
		Meta:    meta,
		strings: make(map[string]string),
		bools:   make(map[string]bool),
	}
	for _, f := range meta.Flags {
		if f.Type == FlagTypeString && f.Default != "" {
			inv.strings[f.Name] = f.Default
		}
	}

	var positionals []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") || tok == "-" || tok == "--" {
			positionals = append(positionals, tok)
			continue
		}

		name := strings.TrimLeft(tok, "-")
		var value string
		hasValue := false
		if j := strings.IndexByte(name, '='); j >= 0 {
			name, value = name[:j], name[j+1:]
			hasValue = true
		}

		flag, ok := meta.findFlag(name)
		if !ok {
			flag, ok = meta.findShort(name)
		}
		if !ok {
			return inv, &ParseError{Command: meta.Name, Msg: fmt.Sprintf("unknown flag %q", tok)}
		}

		if flag.Type == FlagTypeBool {
			if hasValue {
				return inv, &ParseError{Command: meta.Name, Msg: fmt.Sprintf("flag --%s takes no value", flag.Name)}
			}
			inv.bools[flag.Name] = true
			continue
		}

		if !hasValue {
			i++
			if i >= len(tokens) {
				return inv, &ParseError{Command: meta.Name, Msg: fmt.Sprintf("flag --%s requires a value", flag.Name)}
			}
			value = tokens[i]
		}
		if len(flag.Choices) > 0 && !contains(flag.Choices, value) {
			return inv, &ParseError{
				Command: meta.Name,
				Msg:     fmt.Sprintf("invalid value %q for --%s (choose from %s)", value, flag.Name, strings.Join(flag.Choices, ", ")),
			}
		}
		inv.strings[flag.Name] = value
	}

	if len(positionals) > len(meta.Args) {
		return inv, &ParseError{
			Command: meta.Name,
			Msg:     fmt.Sprintf("too many arguments (expected at most %d)", len(meta.Args)),
		}
	}
	for i, arg := range meta.Args {
		if i < len(positionals) {
			value := positionals[i]
			if len(arg.Choices) > 0 && !contains(arg.Choices, value) {
				return inv, &ParseError{
					Command: meta.Name,
					Msg:     fmt.Sprintf("invalid value %q for %s (choose from %s)", value, arg.Name, strings.Join(arg.Choices, ", ")),
				}
			}
			inv.strings[arg.Name] = value
			continue
		}
		if arg.Required {
			return inv, &ParseError{Command: meta.Name, Msg: fmt.Sprintf("missing required argument %s", arg.Name)}
		}
		inv.strings[arg.Name] = arg.Default
	}

	return inv, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
