// Package commands is the coursedesk command line: the presentation shells,
// the navigation console and a few inspection commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coursedesk/modules"
	"coursedesk/modules/platform/header"
	"coursedesk/modules/ui/shell"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "coursedesk",
		Short: modules.AppName + " - " + modules.AppDescription,
		Long: `coursedesk runs the course client's navigation shell.

The compact shell is a full-screen terminal UI with stacked screens and a tab
bar. The wide shell serves a sidebar page to the browser and keeps it in sync
over a WebSocket. Run without a command to pick the shell from the config
(auto chooses compact on a terminal).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitContext(flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), "")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose logging")
	pf.StringVar(&flags.role, "role", "", "Signed-in role: learner, instructor, admin")
	pf.StringVar(&flags.locale, "locale", "", "Locale for route titles (en, es)")
	pf.StringVar(&flags.shell, "shell", "", "Shell: auto, compact, wide")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the configured shell",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShell(cmd.Context(), "")
			},
		},
		&cobra.Command{
			Use:     "tui",
			Aliases: []string{"compact"},
			Short:   "Start the compact (terminal) shell",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShell(cmd.Context(), "compact")
			},
		},
		&cobra.Command{
			Use:     "web",
			Aliases: []string{"wide", "server"},
			Short:   "Start the wide (browser) shell",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShell(cmd.Context(), "wide")
			},
		},
		&cobra.Command{
			Use:     "console",
			Aliases: []string{"sh"},
			Short:   "Drive the wide shell's navigation from a line console",
			Args:    cobra.NoArgs,
			RunE:    runConsole,
		},
		&cobra.Command{
			Use:   "routes",
			Short: "Print the route table for the configured locale",
			Args:  cobra.NoArgs,
			RunE:  runRoutes,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Args:  cobra.NoArgs,
			// No config needed
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", modules.AppName, modules.AppVersion)
				fmt.Fprintf(cmd.OutOrStdout(), "Build: %s\n", modules.BuildHash())
			},
		},
	)

	return root
}

// Execute runs the command line until it finishes or the process is
// interrupted, and returns the exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runShell resolves the shell (target overrides the config) and runs it
func runShell(ctx context.Context, target string) error {
	app := GetContext()
	if target == "" {
		target = app.Config.Settings.Shell
	}

	platform, err := shell.NewSelector(target, nil).Platform()
	if err != nil {
		return err
	}

	// The compact shell owns the terminal; logs go to the file only
	log, closeLog, err := app.setupLogger(platform == header.Wide)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting %s shell as %s", platform, app.Config.Settings.Role)

	s, err := shell.Build(app.Config, platform, shell.Options{Logger: log.Zap("")})
	if err != nil {
		return fmt.Errorf("failed to build %s shell: %w", platform, err)
	}

	if platform == header.Wide {
		fmt.Printf("Wide shell on http://%s\n", app.Config.Settings.GetWebConfig().Addr())
		fmt.Println("Press Ctrl+C to stop")
	}

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s shell: %w", platform, err)
	}
	return nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	app := GetContext()

	log, closeLog, err := app.setupLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := shell.Build(app.Config, header.Wide, shell.Options{Logger: log.Zap(""), Headless: true})
	if err != nil {
		return fmt.Errorf("failed to build console shell: %w", err)
	}

	return NewConsole(s, cmd.OutOrStdout()).Run(cmd.Context(), cmd.InOrStdin())
}

func runRoutes(cmd *cobra.Command, args []string) error {
	s, err := shell.Build(GetContext().Config, header.Compact, shell.Options{Headless: true})
	if err != nil {
		return err
	}
	defer s.Close()

	PrintRoutes(cmd.OutOrStdout(), s.Table)
	return nil
}
