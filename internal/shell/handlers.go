package shell

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"magpie/internal/commands"
	"magpie/internal/complete"
	"magpie/internal/store"
	"magpie/internal/ui"
)

// register assembles the command registry. Schemas carry the validation
// rules and completion strategies; handlers only read through the
// session and format output.
func (s *Shell) register() {
	d := s.disp

	d.Register(commands.Meta{
		Name:        "load",
		Description: "Resolve a node by identifier and make it the current node",
		LongDesc: `Load a node in the shell, making it the current node.

The identifier can be a numeric ID, a UUID or unique UUID prefix,
or an exact label.`,
		Args: []commands.ArgMeta{
			{Name: "IDENTIFIER", Description: "Node ID, UUID (or unique prefix), or label", Required: true},
		},
	}, s.cmdLoad)

	d.Register(commands.Meta{
		Name:        "unload",
		Description: "Clear the current node",
	}, s.cmdUnload)

	d.Register(commands.Meta{
		Name:        "uuid",
		Description: "Show the UUID of the current node",
	}, s.scalar(func(n *store.Node) string { return n.UUID }))

	d.Register(commands.Meta{
		Name:        "label",
		Description: "Show the label of the current node",
	}, s.scalar(func(n *store.Node) string { return n.Label }))

	d.Register(commands.Meta{
		Name:        "description",
		Description: "Show the description of the current node",
	}, s.scalar(func(n *store.Node) string { return n.Description }))

	d.Register(commands.Meta{
		Name:        "ctime",
		Description: "Show the creation time of the current node",
	}, s.cmdCtime)

	d.Register(commands.Meta{
		Name:        "mtime",
		Description: "Show the last modification time of the current node",
	}, s.cmdMtime)

	d.Register(commands.Meta{
		Name:        "attrs",
		Description: "Show all attributes of the current node (keys and values)",
	}, s.mappingAll(attrsPick, "attributes"))

	d.Register(commands.Meta{
		Name:        "attr",
		Description: "Show one attribute of the current node",
		Args: []commands.ArgMeta{
			{Name: "KEY", Description: "The attribute key", Required: true, Complete: complete.AttrKeys(s.sess)},
		},
	}, s.mappingOne(attrsPick, "attribute"))

	d.Register(commands.Meta{
		Name:        "attrkeys",
		Description: "Show the keys of all attributes of the current node",
	}, s.mappingKeys(attrsPick, "attributes"))

	d.Register(commands.Meta{
		Name:        "extras",
		Description: "Show all extras of the current node (keys and values)",
	}, s.mappingAll(extrasPick, "extras"))

	d.Register(commands.Meta{
		Name:        "extra",
		Description: "Show one extra of the current node",
		Args: []commands.ArgMeta{
			{Name: "KEY", Description: "The extra key", Required: true, Complete: complete.ExtraKeys(s.sess)},
		},
	}, s.mappingOne(extrasPick, "extra"))

	d.Register(commands.Meta{
		Name:        "extrakeys",
		Description: "Show the keys of all extras of the current node",
	}, s.mappingKeys(extrasPick, "extras"))

	linkTypeFlag := commands.FlagMeta{
		Name:        "link-type",
		Short:       "t",
		Description: "Filter by link type",
		Type:        commands.FlagTypeString,
		Choices:     store.LinkTypeNames(),
	}

	d.Register(commands.Meta{
		Name:        "in",
		Description: "List nodes connected by incoming links to the current node",
		Flags:       []commands.FlagMeta{linkTypeFlag},
	}, func(inv commands.Invocation) error {
		return s.links(inv, store.Incoming, "incoming")
	})

	d.Register(commands.Meta{
		Name:        "out",
		Description: "List nodes connected by outgoing links from the current node",
		Flags:       []commands.FlagMeta{linkTypeFlag},
	}, func(inv commands.Invocation) error {
		return s.links(inv, store.Outgoing, "outgoing")
	})

	d.Register(commands.Meta{
		Name:        "show",
		Description: "Show a textual summary of the current node",
	}, s.cmdShow)

	d.Register(commands.Meta{
		Name:        "repo_ls",
		Description: "List files and folders in the repository of the current node",
		Args: []commands.ArgMeta{
			{Name: "PATH", Description: "The path to list", Default: ".", Complete: func(prefix string) []string {
				return complete.Dirs(s.sess, prefix)
			}},
		},
		Flags: []commands.FlagMeta{
			{Name: "long", Short: "l", Description: "Show a kind tag before each object", Type: commands.FlagTypeBool},
			{Name: "no-trailing-slashes", Short: "s", Description: "Do not show trailing slashes for folders", Type: commands.FlagTypeBool},
		},
	}, s.cmdRepoLs)

	d.Register(commands.Meta{
		Name:        "repo_cat",
		Description: "Print the content of a file in the repository of the current node",
		Args: []commands.ArgMeta{
			{Name: "PATH", Description: "The path to the file to output", Default: ".", Complete: func(prefix string) []string {
				return complete.Entries(s.sess, prefix)
			}},
		},
	}, s.cmdRepoCat)

	d.Register(commands.Meta{
		Name:        "help",
		Description: "Show help for all commands, or one command",
		Args: []commands.ArgMeta{
			{Name: "COMMAND", Description: "Command to describe", Complete: func(prefix string) []string {
				var out []string
				for _, cmd := range d.Commands() {
					if strings.HasPrefix(cmd.Meta.Name, prefix) {
						out = append(out, cmd.Meta.Name)
					}
				}
				return out
			}},
		},
	}, s.cmdHelp)

	d.Register(commands.Meta{
		Name:        "exit",
		Description: "Exit the shell",
	}, func(commands.Invocation) error { return commands.ErrExit })

	d.Register(commands.Meta{
		Name:        "exit_with_error",
		Description: "Exit the shell with a non-zero exit code",
	}, func(commands.Invocation) error { return commands.ErrExitWithError })
}

func attrsPick(n *store.Node) map[string]interface{}  { return n.Attributes }
func extrasPick(n *store.Node) map[string]interface{} { return n.Extras }

func (s *Shell) cmdLoad(inv commands.Invocation) error {
	_, err := s.sess.Load(inv.String("IDENTIFIER"))
	return err
}

func (s *Shell) cmdUnload(commands.Invocation) error {
	s.sess.Unload()
	return nil
}

// scalar builds a handler that prints one scalar field of the current node.
func (s *Shell) scalar(pick func(*store.Node) string) commands.Handler {
	return func(commands.Invocation) error {
		n, err := s.sess.Require()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, pick(n))
		return nil
	}
}

func (s *Shell) cmdCtime(commands.Invocation) error {
	n, err := s.sess.Require()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created %s (%s)\n", humanize.Time(n.CTime), n.CTime.Format(time.RFC3339))
	return nil
}

func (s *Shell) cmdMtime(commands.Invocation) error {
	n, err := s.sess.Require()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Last modified %s (%s)\n", humanize.Time(n.MTime), n.MTime.Format(time.RFC3339))
	return nil
}

// mappingAll prints every entry of one of the node's mappings. Go maps
// have no stable iteration order, so entries print in sorted key order.
func (s *Shell) mappingAll(pick func(*store.Node) map[string]interface{}, what string) commands.Handler {
	return func(commands.Invocation) error {
		n, err := s.sess.Require()
		if err != nil {
			return err
		}
		m := pick(n)
		if len(m) == 0 {
			fmt.Fprintf(s.out, "No %s\n", what)
			return nil
		}
		for _, key := range sortedKeys(m) {
			fmt.Fprint(s.out, renderEntry(key, m[key]))
		}
		return nil
	}
}

// mappingOne prints a single entry by exact, case-sensitive key.
func (s *Shell) mappingOne(pick func(*store.Node) map[string]interface{}, what string) commands.Handler {
	return func(inv commands.Invocation) error {
		n, err := s.sess.Require()
		if err != nil {
			return err
		}
		key := inv.String("KEY")
		val, ok := pick(n)[key]
		if !ok {
			fmt.Fprintf(s.out, "No %s with key '%s'\n", what, key)
			return nil
		}
		fmt.Fprint(s.out, renderEntry(key, val))
		return nil
	}
}

// mappingKeys prints the mapping's keys, lexicographically sorted.
func (s *Shell) mappingKeys(pick func(*store.Node) map[string]interface{}, what string) commands.Handler {
	return func(commands.Invocation) error {
		n, err := s.sess.Require()
		if err != nil {
			return err
		}
		m := pick(n)
		if len(m) == 0 {
			fmt.Fprintf(s.out, "No %s\n", what)
			return nil
		}
		for _, key := range sortedKeys(m) {
			fmt.Fprintf(s.out, "- %s\n", key)
		}
		return nil
	}
}

func (s *Shell) cmdShow(commands.Invocation) error {
	n, err := s.sess.Require()
	if err != nil {
		return err
	}
	st := s.sess.Store()
	incoming, err := st.Links(n.ID, store.Incoming, nil)
	if err != nil {
		return err
	}
	outgoing, err := st.Links(n.ID, store.Outgoing, nil)
	if err != nil {
		return err
	}

	f := ui.NewFields(s.width)
	f.Add("kind", n.Kind)
	f.Add("id", fmt.Sprintf("%d", n.ID))
	f.Add("uuid", n.UUID)
	f.Add("label", n.Label)
	f.Add("description", n.Description)
	f.Add("ctime", fmt.Sprintf("%s (%s)", humanize.Time(n.CTime), n.CTime.Format(time.RFC3339)))
	f.Add("mtime", fmt.Sprintf("%s (%s)", humanize.Time(n.MTime), n.MTime.Format(time.RFC3339)))
	f.Add("attributes", fmt.Sprintf("%d", len(n.Attributes)))
	f.Add("extras", fmt.Sprintf("%d", len(n.Extras)))
	f.Add("links", fmt.Sprintf("%d incoming, %d outgoing", len(incoming), len(outgoing)))
	fmt.Fprint(s.out, f.String())
	return nil
}

func (s *Shell) cmdRepoLs(inv commands.Invocation) error {
	n, err := s.sess.Require()
	if err != nil {
		return err
	}
	objs, err := s.sess.Store().ListRepo(n.ID, inv.String("PATH"))
	if err != nil {
		return err
	}
	for _, obj := range objs {
		var line strings.Builder
		if inv.Bool("long") {
			line.WriteString(ui.KindTag(obj.Kind.Tag()))
		}
		if obj.Kind == store.FileKindDirectory {
			line.WriteString(ui.DirName(obj.Name))
			if !inv.Bool("no-trailing-slashes") {
				line.WriteString("/")
			}
		} else {
			line.WriteString(obj.Name)
		}
		fmt.Fprintln(s.out, line.String())
	}
	return nil
}

func (s *Shell) cmdRepoCat(inv commands.Invocation) error {
	n, err := s.sess.Require()
	if err != nil {
		return err
	}
	content, err := s.sess.Store().ReadRepoFile(n.ID, inv.String("PATH"))
	if err != nil {
		return err
	}
	s.out.Write(content)
	return nil
}

func (s *Shell) cmdHelp(inv commands.Invocation) error {
	verb := inv.String("COMMAND")
	if verb == "" {
		fmt.Fprint(s.out, s.disp.HelpAll())
		return nil
	}
	text, err := s.disp.HelpCommand(verb)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, text)
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
