package header

import "coursedesk/modules/platform/routes"

// Platform is the presentation target the header is rendered for.
type Platform int

const (
	// Compact is the stacked-screen shell
	Compact Platform = iota
	// Wide is the sidebar shell
	Wide
)

func (p Platform) String() string {
	if p == Wide {
		return "wide"
	}
	return "compact"
}

// Rendered is the top bar as shown to the user. A zero Rendered (Visible
// false) means "no top bar".
type Rendered struct {
	Visible   bool        `json:"visible"`
	Title     string      `json:"title,omitempty"`
	Subtitle  string      `json:"subtitle,omitempty"`
	ShowBack  bool        `json:"show_back"`
	AlignLeft bool        `json:"align_left"`
	Manual    bool        `json:"manual"`
	Route     routes.Name `json:"route,omitempty"`
	OnBack    func()      `json:"-"`
}

// Deriver computes the rendered header from the slot and the active route.
// It holds no state besides its static tables.
type Deriver struct {
	table    *routes.Table
	platform Platform
}

// NewDeriver creates a deriver for one platform
func NewDeriver(table *routes.Table, platform Platform) *Deriver {
	return &Deriver{table: table, platform: platform}
}

// Platform returns the platform the deriver renders for
func (d *Deriver) Platform() Platform {
	return d.platform
}

// Derive applies, in order: hidden slot, sign-in route, title and subtitle
// fallbacks, back-button policy and alignment. canGoBack is only called when
// neither the slot nor the route tables decide back visibility; it may be nil.
func (d *Deriver) Derive(slot *Descriptor, active routes.Name, canGoBack func() bool) Rendered {
	if slot != nil && slot.Hidden {
		return Rendered{Route: active}
	}
	if d.table.IsAuth(active) {
		return Rendered{Route: active}
	}

	out := Rendered{Visible: true, Route: active}

	switch {
	case slot != nil && slot.Title != nil && *slot.Title != "":
		out.Title = *slot.Title
	default:
		if t, ok := d.table.Title(active); ok {
			out.Title = t
		} else {
			out.Title = string(active)
		}
	}

	if slot != nil && slot.Subtitle != nil {
		out.Subtitle = *slot.Subtitle
	} else if s, ok := d.table.Subtitle(active); ok {
		out.Subtitle = s
	}

	switch {
	case slot != nil && slot.ShowBack != nil:
		out.ShowBack = *slot.ShowBack
	case d.table.ForcesBack(active):
		out.ShowBack = true
	case d.table.NeverBack(active):
		out.ShowBack = false
	case canGoBack != nil:
		out.ShowBack = canGoBack()
	}

	out.AlignLeft = d.defaultAlignLeft(active)
	if d.platform == Compact && slot != nil && slot.AlignLeftOnMobile != nil {
		out.AlignLeft = *slot.AlignLeftOnMobile
	}

	if slot != nil {
		out.Manual = slot.Manual
		out.OnBack = slot.OnBack
	}
	return out
}

// Compact shells left-align tab roots (large-title style) and center
// everything else; the wide shell always left-aligns next to the sidebar.
func (d *Deriver) defaultAlignLeft(active routes.Name) bool {
	if d.platform == Wide {
		return true
	}
	return d.table.IsTopLevel(active)
}
