package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// CommandHandler is the function signature for console command handlers
type CommandHandler func(args []string) error

// Command is one navigation console command
type Command struct {
	Name        string
	Aliases     []string
	Category    string
	Description string
	Usage       string
	Examples    []string
	Handler     CommandHandler
	// Complete lists candidate first arguments for tab completion
	Complete func() []string
	Order    int
}

// Registry holds the console's commands
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
}

// categoryOrder is the order PrintCommands lists categories in
var categoryOrder = []string{
	"Navigation",
	"Session",
	"Inspect",
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd

	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd.Name
	}
}

// Get returns a command by name or alias
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmdName, ok := r.aliases[name]; ok {
		return r.commands[cmdName]
	}
	return nil
}

// All returns every command sorted by order then name
func (r *Registry) All() []*Command {
	commands := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		commands = append(commands, cmd)
	}

	sort.Slice(commands, func(i, j int) bool {
		if commands[i].Order != commands[j].Order {
			return commands[i].Order < commands[j].Order
		}
		return commands[i].Name < commands[j].Name
	})

	return commands
}

// ByCategory returns commands grouped by category
func (r *Registry) ByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.All() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}

// Names returns all command names and aliases (for completion)
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands)+len(r.aliases))
	for name := range r.commands {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}

	sort.Strings(names)
	return names
}

// PrintCommands prints all commands grouped by category
func (r *Registry) PrintCommands(w io.Writer) {
	categories := r.ByCategory()

	for _, category := range categoryOrder {
		cmds, ok := categories[category]
		if !ok || len(cmds) == 0 {
			continue
		}

		fmt.Fprintf(w, "  %s:\n", category)
		for _, cmd := range cmds {
			aliases := ""
			if len(cmd.Aliases) > 0 {
				aliases = fmt.Sprintf(" (%s)", strings.Join(cmd.Aliases, ", "))
			}
			fmt.Fprintf(w, "    %-20s %s%s\n", cmd.Name, cmd.Description, aliases)
		}
		fmt.Fprintln(w)
	}
}

// PrintCommandHelp prints help for one command
func (r *Registry) PrintCommandHelp(w io.Writer, name string) {
	cmd := r.Get(name)
	if cmd == nil {
		fmt.Fprintf(w, "Unknown command: %s\n", name)
		return
	}

	fmt.Fprintf(w, "Command: %s\n", cmd.Name)
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(w, "Aliases: %s\n", strings.Join(cmd.Aliases, ", "))
	}
	fmt.Fprintf(w, "Category: %s\n\n", cmd.Category)
	fmt.Fprintf(w, "Description:\n  %s\n\n", cmd.Description)

	if cmd.Usage != "" {
		fmt.Fprintf(w, "Usage:\n  %s\n\n", cmd.Usage)
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintln(w, "Examples:")
		for _, example := range cmd.Examples {
			fmt.Fprintf(w, "  %s\n", example)
		}
	}
}
