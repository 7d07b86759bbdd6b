package core

import (
	"time"

	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"
)

// ViewModelType identifies the type of view model
type ViewModelType string

const (
	VMFrame  ViewModelType = "frame"
	VMRoutes ViewModelType = "routes"
)

// ViewModel is the base interface for all view models
type ViewModel interface {
	Type() ViewModelType
	LastUpdated() time.Time
}

// BaseViewModel provides common fields for all view models
type BaseViewModel struct {
	VMType    ViewModelType `json:"type"`
	UpdatedAt time.Time     `json:"updated_at"`
	Error     string        `json:"error,omitempty"`
}

func (vm *BaseViewModel) Type() ViewModelType    { return vm.VMType }
func (vm *BaseViewModel) LastUpdated() time.Time { return vm.UpdatedAt }

// TabVM is one entry of the tab bar / sidebar
type TabVM struct {
	Name   routes.Name `json:"name"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
}

// LinkVM is a navigation link offered by the focused screen
type LinkVM struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Target routes.Name     `json:"target"`
	Params routebus.Params `json:"params,omitempty"`
}

// ScreenVM describes the focused screen's placeholder content
type ScreenVM struct {
	Name  routes.Name     `json:"name"`
	Label string          `json:"label"`
	Body  []string        `json:"body,omitempty"`
	Links []LinkVM        `json:"links,omitempty"`
	Owner string          `json:"owner"`
	Route *routebus.Route `json:"route,omitempty"`
}

// FrameVM is everything a shell needs to draw one frame: the derived header,
// the tab set and the focused screen.
type FrameVM struct {
	BaseViewModel
	Platform  string          `json:"platform"`
	Role      routes.Role     `json:"role"`
	SignedIn  bool            `json:"signed_in"`
	Header    header.Rendered `json:"header"`
	Tabs      []TabVM         `json:"tabs"`
	Tab       routes.Name     `json:"tab"`
	Route     *routebus.Route `json:"route,omitempty"`
	Depth     int             `json:"depth"`
	CanGoBack bool            `json:"can_go_back"`
	Screen    ScreenVM        `json:"screen"`
	// LastWrite is the outcome of the most recent header write
	LastWrite string `json:"last_write,omitempty"`
}

// RouteVM is one row of the route table
type RouteVM struct {
	Name     routes.Name `json:"name"`
	Class    string      `json:"class"`
	Back     string      `json:"back"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
}

// RoutesVM lists the route catalog for the configured locale
type RoutesVM struct {
	BaseViewModel
	Locale string    `json:"locale"`
	Routes []RouteVM `json:"routes"`
}

// BuildRoutesVM renders the catalog through table
func BuildRoutesVM(table *routes.Table) *RoutesVM {
	vm := &RoutesVM{
		BaseViewModel: BaseViewModel{VMType: VMRoutes, UpdatedAt: time.Now()},
		Locale:        table.Locale(),
	}
	for _, r := range routes.Catalog() {
		title, _ := table.Title(r.Name)
		subtitle, _ := table.Subtitle(r.Name)
		vm.Routes = append(vm.Routes, RouteVM{
			Name:     r.Name,
			Class:    r.Class.String(),
			Back:     r.Back.String(),
			Title:    title,
			Subtitle: subtitle,
		})
	}
	return vm
}
