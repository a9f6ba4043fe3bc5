package commands

import (
	"fmt"
	"strings"
)

// Help text generation from the schema, in the style of the Use/Long
// strings the registry metadata produces.

// Synopsis builds a one-line usage string, e.g. "repo_ls [-l] [-s] [PATH]".
func Synopsis(m Meta) string {
	var b strings.Builder
	b.WriteString(m.Name)
	for _, f := range m.Flags {
		b.WriteString(" [")
		if f.Short != "" {
			b.WriteString("-" + f.Short)
		} else {
			b.WriteString("--" + f.Name)
		}
		if f.Type != FlagTypeBool {
			b.WriteString(" " + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")))
		}
		b.WriteString("]")
	}
	for _, a := range m.Args {
		if a.Required {
			b.WriteString(" " + a.Name)
		} else {
			b.WriteString(" [" + a.Name + "]")
		}
	}
	return b.String()
}

// HelpAll lists every command with its short description, in
// registration order.
func (d *Dispatcher) HelpAll() string {
	width := 0
	for _, cmd := range d.order {
		if len(cmd.Meta.Name) > width {
			width = len(cmd.Meta.Name)
		}
	}
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range d.order {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, cmd.Meta.Name, cmd.Meta.Description)
	}
	return b.String()
}

// HelpCommand builds the full help text for one verb.
func (d *Dispatcher) HelpCommand(verb string) (string, error) {
	cmd, ok := d.byName[verb]
	if !ok {
		return "", &UnknownCommandError{Verb: verb}
	}
	m := cmd.Meta

	var b strings.Builder
	fmt.Fprintf(&b, "usage: %s\n\n", Synopsis(m))
	if m.LongDesc != "" {
		b.WriteString(m.LongDesc)
	} else {
		b.WriteString(m.Description)
	}
	b.WriteString("\n")

	if len(m.Args) > 0 {
		b.WriteString("\narguments:\n")
		for _, a := range m.Args {
			desc := a.Description
			if len(a.Choices) > 0 {
				desc += fmt.Sprintf(" (one of: %s)", strings.Join(a.Choices, ", "))
			}
			fmt.Fprintf(&b, "  %-14s %s\n", a.Name, desc)
		}
	}
	if len(m.Flags) > 0 {
		b.WriteString("\nflags:\n")
		for _, f := range m.Flags {
			name := "--" + f.Name
			if f.Short != "" {
				name = "-" + f.Short + ", " + name
			}
			desc := f.Description
			if len(f.Choices) > 0 {
				desc += fmt.Sprintf(" (one of: %s)", strings.Join(f.Choices, ", "))
			}
			fmt.Fprintf(&b, "  %-14s %s\n", name, desc)
		}
	}
	return b.String(), nil
}
