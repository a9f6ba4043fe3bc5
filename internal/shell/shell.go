// Package shell runs the interactive command loop on top of a readline
// substrate, wiring the dispatcher, the session, and the completers
// together. Handlers write to injected writers so the whole surface is
// testable without a terminal attached.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"magpie/internal/commands"
	"magpie/internal/session"
	"magpie/internal/shellquote"
	"magpie/internal/store"
	"magpie/internal/ui"
)

const intro = "magpie node shell. Type help or ? to list commands."

// Options configures a Shell.
type Options struct {
	HistoryFile string
	Out         io.Writer
	Err         io.Writer

	// Width caps rendered summary lines; zero disables the cap.
	Width int
}

// Shell owns one interactive session: the dispatcher, the session state,
// and the output streams.
type Shell struct {
	sess        *session.Session
	disp        *commands.Dispatcher
	out         io.Writer
	errw        io.Writer
	historyFile string
	width       int
	exitCode    int
}

// New creates a shell with every command verb registered.
func New(sess *session.Session, opts Options) *Shell {
	s := &Shell{
		sess:        sess,
		disp:        commands.NewDispatcher(),
		out:         opts.Out,
		errw:        opts.Err,
		historyFile: opts.HistoryFile,
		width:       opts.Width,
	}
	s.register()
	return s
}

// ExitCode returns the code the process should exit with.
func (s *Shell) ExitCode() int { return s.exitCode }

// Run executes the interactive read/dispatch loop until exit or EOF.
func (s *Shell) Run() (int, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.sess.Prompt(),
		HistoryFile:     s.historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return 1, fmt.Errorf("failed to initialize line editor: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(s.out, intro)
	fmt.Fprintln(s.out)

	for {
		rl.SetPrompt(s.sess.Prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			// Ctrl-C returns to a fresh prompt without touching session state.
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 1, err
		}
		if s.RunLine(line) {
			break
		}
	}
	return s.exitCode, nil
}

// RunLine dispatches one input line, reporting any recoverable error to
// the error stream. It returns true when the shell should terminate.
func (s *Shell) RunLine(line string) (done bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if line == "?" {
		line = "help"
	}

	err := s.disp.Dispatch(line)
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrExit):
		return true
	case errors.Is(err, commands.ErrExitWithError):
		s.exitCode = 1
		return true
	case errors.Is(err, session.ErrNoNode):
		fmt.Fprintln(s.errw, ui.ErrorLine("No node loaded - load a node with `load NODE_IDENTIFIER` first"))
	default:
		fmt.Fprintln(s.errw, ui.ErrorLine(err.Error()))
	}
	return false
}

// RunScript feeds each line of a startup script through the dispatcher.
// A missing or unreadable script is skipped silently. It returns true if
// the script terminated the shell.
func (s *Shell) RunScript(path string) (done bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if s.RunLine(line) {
			return true
		}
	}
	return false
}

// completer builds the readline completion tree from the registered
// command schemas: verbs complete statically, flags by name (with their
// allowed values or completion strategy), and positionals through their
// schema-declared completion strategy.
func (s *Shell) completer() readline.AutoCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.disp.Commands() {
		var subs []readline.PrefixCompleterInterface
		for _, f := range cmd.Meta.Flags {
			var values []readline.PrefixCompleterInterface
			if len(f.Choices) > 0 {
				for _, c := range f.Choices {
					values = append(values, readline.PcItem(c))
				}
			} else if f.Complete != nil {
				values = append(values, readline.PcItemDynamic(lastWord(f.Complete)))
			}
			subs = append(subs, readline.PcItem("--"+f.Name, values...))
			if f.Short != "" {
				subs = append(subs, readline.PcItem("-"+f.Short, values...))
			}
		}
		for _, a := range cmd.Meta.Args {
			if len(a.Choices) > 0 {
				for _, c := range a.Choices {
					subs = append(subs, readline.PcItem(c))
				}
			} else if a.Complete != nil {
				subs = append(subs, readline.PcItemDynamic(lastWord(a.Complete)))
			}
		}
		items = append(items, readline.PcItem(cmd.Meta.Name, subs...))
	}
	return readline.NewPrefixCompleter(items...)
}

// lastWord adapts a prefix completer to readline's dynamic callback,
// which receives the whole line typed so far. The in-progress word is
// extracted with shell quoting rules so quoted paths containing spaces
// complete against the full token, not its last space-separated piece.
func lastWord(fn commands.CompleteFunc) readline.DynamicCompleteFunc {
	return func(line string) []string {
		return fn(shellquote.CurrentToken(line))
	}
}

// links fetches the current node's links in one direction, honoring an
// optional type filter, and prints them in store order.
func (s *Shell) links(inv commands.Invocation, dir store.Direction, word string) error {
	n, err := s.sess.Require()
	if err != nil {
		return err
	}

	var filter *store.LinkType
	filterDesc := ""
	if raw := inv.String("link-type"); raw != "" {
		lt, err := store.ParseLinkType(raw)
		if err != nil {
			return err
		}
		filter = &lt
		filterDesc = fmt.Sprintf(" of type %s", lt)
	}

	links, err := s.sess.Store().Links(n.ID, dir, filter)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Fprintf(s.out, "No %s links%s\n", word, filterDesc)
		return nil
	}
	for _, l := range links {
		fmt.Fprintf(s.out, "- %s (%s) -> %d\n", l.Type, l.Label, l.Neighbor(dir))
	}
	return nil
}
