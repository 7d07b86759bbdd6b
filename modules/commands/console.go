package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/ui/core"
	"coursedesk/modules/ui/shell"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

const (
	historyFile     = "console_history"
	maxHistoryLines = 1000
)

// errExit stops the console loop
var errExit = errors.New("exit")

// Console is the navigation console: a line-oriented REPL that drives a
// headless shell and prints the derived header after every command.
type Console struct {
	shell    *shell.Shell
	registry *Registry
	out      io.Writer
	rl       *readline.Instance
	isTTY    bool
}

// NewConsole creates a console over a built (not yet started) shell
func NewConsole(s *shell.Shell, out io.Writer) *Console {
	c := &Console{
		shell:    s,
		registry: NewRegistry(),
		out:      out,
	}
	c.registerCommands()

	s.Presenter.SubscribeNotifications(func(n *core.Notification) {
		fmt.Fprintf(c.out, "! %s: %s\n", n.Title, n.Message)
	})
	return c
}

// Registry returns the console's command registry
func (c *Console) Registry() *Registry {
	return c.registry
}

// Run starts the shell and reads commands from in until exit or EOF
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	if err := c.shell.Start(ctx); err != nil {
		return fmt.Errorf("start presenter: %w", err)
	}
	defer c.shell.Close()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.isTTY = true
		return c.runInteractive(ctx)
	}
	return c.runNonInteractive(ctx, in)
}

// runInteractive runs the console with readline support
func (c *Console) runInteractive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.prompt(),
		HistoryFile:     historyPath(),
		HistoryLimit:    maxHistoryLines,
		AutoComplete:    c.buildCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()
	c.rl = rl
	c.out = rl.Stdout()

	c.printWelcome()

	for ctx.Err() == nil {
		rl.SetPrompt(c.prompt())

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					fmt.Fprintln(c.out, "Use 'exit' or 'quit' to leave the console.")
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}

		if errors.Is(c.Execute(line), errExit) {
			return nil
		}
	}
	return nil
}

// runNonInteractive runs the console without readline (for pipes and scripts)
func (c *Console) runNonInteractive(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for ctx.Err() == nil && scanner.Scan() {
		if errors.Is(c.Execute(scanner.Text()), errExit) {
			return nil
		}
	}

	return scanner.Err()
}

// Execute runs one console line and prints its result. Errors are printed
// and returned; errExit means the user asked to leave.
func (c *Console) Execute(line string) error {
	parts := parseCommandLine(strings.TrimSpace(line))
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(parts[0])
	args := parts[1:]

	switch name {
	case "exit", "quit", "q":
		fmt.Fprintln(c.out, "Goodbye!")
		return errExit
	case "help", "?":
		if len(args) > 0 {
			c.registry.PrintCommandHelp(c.out, args[0])
		} else {
			c.registry.PrintCommands(c.out)
		}
		return nil
	}

	cmd := c.registry.Get(name)
	if cmd == nil {
		err := fmt.Errorf("unknown command: %s", name)
		fmt.Fprintf(c.out, "%v\nType 'help' for available commands.\n", err)
		return err
	}

	if err := cmd.Handler(args); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return err
	}
	return nil
}

// prompt shows the active location
func (c *Console) prompt() string {
	frame := c.shell.Presenter.Frame()
	where := string(frame.Screen.Name)
	if where == "" {
		where = "-"
	}

	if c.isTTY {
		return fmt.Sprintf("\033[36m%s\033[0m \033[33m%s\033[0m \033[32mcoursedesk>\033[0m ", frame.Role, where)
	}
	return fmt.Sprintf("%s %s coursedesk> ", frame.Role, where)
}

// printWelcome prints the welcome message
func (c *Console) printWelcome() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "\033[36m  ╔═══════════════════════════════════════════╗\033[0m")
	fmt.Fprintln(c.out, "\033[36m  ║\033[0m    \033[1m\033[33mcoursedesk\033[0m - navigation console      \033[36m║\033[0m")
	fmt.Fprintln(c.out, "\033[36m  ╚═══════════════════════════════════════════╝\033[0m")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "  Type 'help' for available commands, 'exit' to quit.")
	fmt.Fprintln(c.out)
	c.printHeader()
}

// historyPath returns the path to the history file
func historyPath() string {
	dir, err := config.GetUserConfigDir()
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, historyFile)
}

// buildCompleter builds the readline completer
func (c *Console) buildCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help",
			readline.PcItemDynamic(func(string) []string {
				return c.registry.Names()
			}),
		),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	}

	for _, cmd := range c.registry.All() {
		if cmd.Complete != nil {
			complete := cmd.Complete
			items = append(items, readline.PcItem(cmd.Name,
				readline.PcItemDynamic(func(string) []string { return complete() })))
			continue
		}
		items = append(items, readline.PcItem(cmd.Name))
	}

	return readline.NewPrefixCompleter(items...)
}

// parseCommandLine splits a line on whitespace, honoring quotes
func parseCommandLine(line string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuote {
				if ch == quoteChar {
					inQuote = false
				} else {
					current.WriteRune(ch)
				}
			} else {
				inQuote = true
				quoteChar = ch
			}
		case ch == ' ' || ch == '\t':
			if inQuote {
				current.WriteRune(ch)
			} else if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// filterInput drops ctrl+z, which would suspend the console mid-line
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
