package core

import (
	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routes"
)

// Screen is a mounted screen. It holds a header owner for as long as it is
// mounted and follows the header contract: claim the slot on focus, release
// it on blur. Screens are driven by the presenter, one event at a time.
type Screen struct {
	def   ScreenDef
	frame Frame
	owner header.Owner
	store *header.Store
	table *routes.Table
	back  func()

	focused bool
	// title resolved after mount (data arriving), overrides the claim's title
	resolved *string
}

// MountScreen mounts the screen for frame and mints its header owner
func MountScreen(store *header.Store, table *routes.Table, frame Frame, back func()) *Screen {
	return &Screen{
		def:   LookupScreen(frame.Route.Name),
		frame: frame,
		owner: store.Mount(frame.Route.Name),
		store: store,
		table: table,
		back:  back,
	}
}

func (s *Screen) Name() routes.Name     { return s.def.Name }
func (s *Screen) Frame() Frame          { return s.frame }
func (s *Screen) Owner() header.Owner   { return s.owner }
func (s *Screen) Definition() ScreenDef { return s.def }
func (s *Screen) Focused() bool         { return s.focused }

// Focus writes the screen's manual descriptor, if it has one
func (s *Screen) Focus() header.Result {
	s.focused = true
	d := s.descriptor()
	if d == nil {
		return header.Result{Slot: s.store.Current(), Outcome: header.OutcomeNoop}
	}
	return s.store.Set(d)
}

// Blur releases the slot if this screen still owns it
func (s *Screen) Blur() header.Result {
	s.focused = false
	return s.store.Release(s.owner)
}

// Resolve records the loaded record title and, while focused, rewrites the
// header with it. It replaces a provisional placeholder.
func (s *Screen) Resolve(title string) header.Result {
	s.resolved = &title
	if !s.focused {
		return header.Result{Slot: s.store.Current(), Outcome: header.OutcomeNoop}
	}
	return s.store.Set(s.descriptor())
}

func (s *Screen) descriptor() *header.Descriptor {
	var d *header.Descriptor
	if s.def.Claim != nil {
		d = s.def.Claim(ClaimContext{
			Table:  s.table,
			Params: s.frame.Route.Params,
			Back:   s.back,
		})
	}
	if s.resolved != nil {
		if d == nil {
			d = &header.Descriptor{}
		}
		d.Title = header.Text(*s.resolved)
		d.Provisional = false
	}
	if d == nil {
		return nil
	}
	d.Manual = true
	d.Owner = s.owner
	return d
}

// Links returns the screen's links rendered for display
func (s *Screen) Links() []LinkVM {
	out := make([]LinkVM, 0, len(s.def.Links))
	for i, l := range s.def.Links {
		out = append(out, LinkVM{
			Key:    string(rune('1' + i)),
			Label:  LinkLabel(s.table, l),
			Target: l.Target,
			Params: l.Params,
		})
	}
	return out
}
