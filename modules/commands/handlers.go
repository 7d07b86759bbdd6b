package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"
	"coursedesk/modules/ui/core"
)

// registerCommands fills the console registry
func (c *Console) registerCommands() {
	r := c.registry

	// Navigation
	r.Register(&Command{
		Name:        "tab",
		Category:    "Navigation",
		Description: "Switch to a top-level section",
		Usage:       "tab <name>",
		Examples:    []string{"tab Reports", "tab MyCourses"},
		Handler:     c.navigate(func(args []string) (*core.Event, error) { return oneArg(args, core.TabEvent) }),
		Complete:    c.tabNames,
		Order:       10,
	})
	r.Register(&Command{
		Name:        "open",
		Aliases:     []string{"go"},
		Category:    "Navigation",
		Description: "Drill into a route, with optional key=value params",
		Usage:       "open <route> [key=value ...]",
		Examples:    []string{"open CourseDetail id=go-101 title='Intro to Go'", "open Search"},
		Handler:     c.navigate(openEvent),
		Complete:    routeNames,
		Order:       11,
	})
	r.Register(&Command{
		Name:        "link",
		Aliases:     []string{"l"},
		Category:    "Navigation",
		Description: "Follow a link on the current screen",
		Usage:       "link <key>",
		Examples:    []string{"link 1"},
		Handler:     c.navigate(func(args []string) (*core.Event, error) { return oneArg(args, core.LinkEvent) }),
		Order:       12,
	})
	r.Register(&Command{
		Name:        "back",
		Aliases:     []string{"b"},
		Category:    "Navigation",
		Description: "Press the header's back button",
		Usage:       "back",
		Handler:     c.navigate(fixed(core.BackEvent())),
		Order:       13,
	})
	r.Register(&Command{
		Name:        "home",
		Category:    "Navigation",
		Description: "Return to the current tab's root screen",
		Usage:       "home",
		Handler:     c.navigate(fixed(core.NewEvent(core.EventClearRoute))),
		Order:       14,
	})
	r.Register(&Command{
		Name:        "title",
		Category:    "Navigation",
		Description: "Resolve the current screen's title, as if its data loaded",
		Usage:       "title <text>",
		Examples:    []string{"title 'Databases 101'"},
		Handler: c.navigate(func(args []string) (*core.Event, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("usage: title <text>")
			}
			return core.NewEvent(core.EventSetTitle).WithValue(strings.Join(args, " ")), nil
		}),
		Order: 15,
	})

	// Session
	r.Register(&Command{
		Name:        "signin",
		Category:    "Session",
		Description: "Sign in and land on the role's default tab",
		Usage:       "signin",
		Handler:     c.navigate(fixed(core.NewEvent(core.EventSignIn))),
		Order:       20,
	})
	r.Register(&Command{
		Name:        "signout",
		Category:    "Session",
		Description: "Sign out to the login screen",
		Usage:       "signout",
		Handler:     c.navigate(fixed(core.NewEvent(core.EventSignOut))),
		Order:       21,
	})
	r.Register(&Command{
		Name:        "role",
		Category:    "Session",
		Description: "Switch role (learner, instructor, admin)",
		Usage:       "role <role>",
		Examples:    []string{"role admin"},
		Handler: c.navigate(func(args []string) (*core.Event, error) {
			return oneArg(args, func(s string) *core.Event { return core.NewEvent(core.EventSwitchRole).WithTarget(s) })
		}),
		Complete: func() []string { return []string{"learner", "instructor", "admin"} },
		Order:    22,
	})

	// Inspect
	r.Register(&Command{
		Name:        "header",
		Aliases:     []string{"h"},
		Category:    "Inspect",
		Description: "Show the derived header and location",
		Usage:       "header",
		Handler:     func([]string) error { c.printHeader(); return nil },
		Order:       30,
	})
	r.Register(&Command{
		Name:        "frame",
		Category:    "Inspect",
		Description: "Dump the current frame as JSON",
		Usage:       "frame",
		Handler:     c.dumpFrame,
		Order:       31,
	})
	r.Register(&Command{
		Name:        "routes",
		Category:    "Inspect",
		Description: "List the route table",
		Usage:       "routes",
		Handler: func([]string) error {
			PrintRoutes(c.out, c.shell.Table)
			return nil
		},
		Order: 32,
	})
	r.Register(&Command{
		Name:        "bus",
		Category:    "Inspect",
		Description: "Show the route bus history (wide shell)",
		Usage:       "bus",
		Handler:     c.showBus,
		Order:       33,
	})
}

// navigate wraps an event builder into a handler that sends the event and
// prints the resulting header
func (c *Console) navigate(build func(args []string) (*core.Event, error)) CommandHandler {
	return func(args []string) error {
		event, err := build(args)
		if err != nil {
			return err
		}
		if err := c.shell.Presenter.HandleEvent(event); err != nil {
			return err
		}
		c.printHeader()
		return nil
	}
}

func fixed(event *core.Event) func([]string) (*core.Event, error) {
	return func([]string) (*core.Event, error) { return event, nil }
}

func oneArg(args []string, build func(string) *core.Event) (*core.Event, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one argument")
	}
	return build(args[0]), nil
}

// openEvent parses "open <route> [key=value ...]"
func openEvent(args []string) (*core.Event, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: open <route> [key=value ...]")
	}
	var params routebus.Params
	for _, kv := range args[1:] {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("bad param %q (want key=value)", kv)
		}
		if params == nil {
			params = routebus.Params{}
		}
		params[key] = value
	}
	return core.OpenEvent(args[0], params), nil
}

func (c *Console) tabNames() []string {
	var names []string
	for _, tab := range c.shell.Presenter.Frame().Tabs {
		names = append(names, string(tab.Name))
	}
	return names
}

func routeNames() []string {
	var names []string
	for _, r := range routes.Catalog() {
		names = append(names, string(r.Name))
	}
	return names
}

// printHeader prints the header line and the location under it
func (c *Console) printHeader() {
	frame := c.shell.Presenter.Frame()
	fmt.Fprintln(c.out, FormatHeader(frame.Header))

	where := string(frame.Tab)
	if frame.Screen.Name != "" && frame.Screen.Name != frame.Tab {
		where += " > " + string(frame.Screen.Name)
	}
	fmt.Fprintf(c.out, "  at %s (depth %d", where, frame.Depth)
	if frame.LastWrite != "" {
		fmt.Fprintf(c.out, ", last write %s", frame.LastWrite)
	}
	fmt.Fprintln(c.out, ")")

	for _, l := range frame.Screen.Links {
		fmt.Fprintf(c.out, "  [%s] %s\n", l.Key, l.Label)
	}
}

// FormatHeader renders a header as one plain line
func FormatHeader(h header.Rendered) string {
	if !h.Visible {
		return "(no header)"
	}

	var b strings.Builder
	if h.ShowBack {
		b.WriteString("< Back | ")
	}
	b.WriteString(h.Title)
	if h.Subtitle != "" {
		b.WriteString(" / ")
		b.WriteString(h.Subtitle)
	}

	source := "auto"
	if h.Manual {
		source = "manual"
	}
	align := "centered"
	if h.AlignLeft {
		align = "left"
	}
	fmt.Fprintf(&b, "  [%s, %s]", source, align)
	return b.String()
}

func (c *Console) dumpFrame([]string) error {
	data, err := json.MarshalIndent(c.shell.Presenter.Frame(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	fmt.Fprintln(c.out, string(data))
	return nil
}

func (c *Console) showBus([]string) error {
	bus := c.shell.RouteBus()
	if bus == nil {
		return fmt.Errorf("the %s shell has no route bus", c.shell.Platform)
	}

	fmt.Fprintf(c.out, "history  %d\n", bus.Depth())
	if cur := bus.CurrentRoute(); cur != nil {
		fmt.Fprintf(c.out, "current  %s%s\n", cur.Name, formatParams(cur.Params))
	} else {
		fmt.Fprintln(c.out, "current  (tab root)")
	}
	if prev := bus.Previous(); prev != nil {
		fmt.Fprintf(c.out, "previous %s%s\n", prev.Name, formatParams(prev.Params))
	}
	return nil
}

func formatParams(p routebus.Params) string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p))
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Quote(fmt.Sprint(p[k])))
	}
	return " " + strings.Join(parts, " ")
}

// PrintRoutes prints the route table
func PrintRoutes(w io.Writer, table *routes.Table) {
	vm := core.BuildRoutesVM(table)
	fmt.Fprintf(w, "Routes (%s):\n", vm.Locale)
	fmt.Fprintf(w, "  %-18s %-9s %-7s %s\n", "NAME", "CLASS", "BACK", "TITLE")
	for _, r := range vm.Routes {
		title := r.Title
		if r.Subtitle != "" {
			title += " / " + r.Subtitle
		}
		fmt.Fprintf(w, "  %-18s %-9s %-7s %s\n", r.Name, r.Class, r.Back, title)
	}
}
