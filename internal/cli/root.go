// Package cli implements the command-line entry point that configures
// and launches the interactive shell.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"magpie/internal/config"
	"magpie/internal/memstore"
	"magpie/internal/session"
	"magpie/internal/shell"
	"magpie/internal/sqlstore"
	"magpie/internal/store"
	"magpie/internal/ui"
)

var (
	profileFlag     string
	configPathFlag  string
	noStartupScript bool

	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "mgp [IDENTIFIER]",
	Short: "Magpie - an interactive shell for browsing graph-store nodes",
	Long: `Magpie is an interactive shell for quick, read-only browsing of the
nodes of a graph-structured entity store: their attributes, extras,
links, and repository files.

If IDENTIFIER is given, that node is loaded before the prompt appears;
failure to resolve it is fatal.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorLine(err.Error()))
		return 1
	}
	return exitCode
}

func runShell(cmd *cobra.Command, args []string) error {
	cfgPath := configPathFlag
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sess := session.New(st)
	if len(args) == 1 {
		if _, err := sess.Load(args[0]); err != nil {
			return fmt.Errorf("failed to load startup node: %w", err)
		}
	}

	disp := ui.DetectDisplay()
	ui.ConfigureColor(disp.IsTTY)

	sh := shell.New(sess, shell.Options{
		HistoryFile: config.ExpandHome(cfg.HistoryFile),
		Out:         os.Stdout,
		Err:         os.Stderr,
		Width:       disp.Width,
	})
	if !noStartupScript {
		if sh.RunScript(config.ExpandHome(cfg.StartupScript)) {
			exitCode = sh.ExitCode()
			return nil
		}
	}

	code, err := sh.Run()
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}

// openStore constructs the store for the selected profile.
func openStore(cfg *config.Config) (store.Store, error) {
	name, prof, err := cfg.Profile(profileFlag)
	if err != nil {
		return nil, err
	}
	path := config.ExpandHome(prof.Path)
	switch prof.Backend {
	case "sqlite":
		return sqlstore.Open(path, name)
	case "fixture":
		return memstore.LoadFile(path)
	default:
		return nil, fmt.Errorf("profile %q: unknown backend %q", name, prof.Backend)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Profile to connect to (defaults to default_profile)")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file")
	rootCmd.Flags().BoolVar(&noStartupScript, "no-startup-script", false, "Skip the startup script")
}
