// Package routes holds the route catalog shared by both presentation shells:
// route names, their classes, per-role tab sets and the localized fallback
// titles used when no screen has claimed the header.
package routes

import (
	"sort"
	"strings"
)

// Name identifies a navigable screen. Both the pseudo-router and the
// screen-stack router address screens by Name.
type Name string

// Authentication routes
const (
	Login          Name = "Login"
	Register       Name = "Register"
	ForgotPassword Name = "ForgotPassword"
)

// Top-level routes (tab roots)
const (
	Dashboard    Name = "Dashboard"
	MyCourses    Name = "MyCourses"
	Courses      Name = "Courses"
	Categories   Name = "Categories"
	Users        Name = "Users"
	Reports      Name = "Reports"
	Certificates Name = "Certificates"
	Profile      Name = "Profile"
)

// Drill-in routes
const (
	CourseDetail      Name = "CourseDetail"
	LessonDetail      Name = "LessonDetail"
	QuizDetail        Name = "QuizDetail"
	QuizResult        Name = "QuizResult"
	CertificateDetail Name = "CertificateDetail"
	CourseEditor      Name = "CourseEditor"
	CategoryEditor    Name = "CategoryEditor"
	UserDetail        Name = "UserDetail"
	Settings          Name = "Settings"
)

// Routes reachable both from a tab and by drilling in
const (
	Notifications Name = "Notifications"
	Search        Name = "Search"
)

// Class groups routes by how they are reached.
type Class int

const (
	ClassOther Class = iota
	ClassAuth
	ClassTopLevel
	ClassDetail
)

func (c Class) String() string {
	switch c {
	case ClassAuth:
		return "auth"
	case ClassTopLevel:
		return "top-level"
	case ClassDetail:
		return "detail"
	default:
		return "other"
	}
}

// BackPolicy decides back-button visibility when the header descriptor does
// not say so explicitly.
type BackPolicy int

const (
	// BackNative defers to the screen-stack router's own canGoBack.
	BackNative BackPolicy = iota
	// BackForced always shows the back button (drill-in only screens).
	BackForced
	// BackNever never shows it (top-level navigation is not back-able).
	BackNever
)

func (b BackPolicy) String() string {
	switch b {
	case BackForced:
		return "forced"
	case BackNever:
		return "never"
	default:
		return "native"
	}
}

// Route is one catalog entry.
type Route struct {
	Name  Name
	Class Class
	Back  BackPolicy
}

var catalog = []Route{
	{Name: Login, Class: ClassAuth, Back: BackNever},
	{Name: Register, Class: ClassAuth, Back: BackNever},
	{Name: ForgotPassword, Class: ClassAuth, Back: BackNever},

	{Name: Dashboard, Class: ClassTopLevel, Back: BackNever},
	{Name: MyCourses, Class: ClassTopLevel, Back: BackNever},
	{Name: Courses, Class: ClassTopLevel, Back: BackNever},
	{Name: Categories, Class: ClassTopLevel, Back: BackNever},
	{Name: Users, Class: ClassTopLevel, Back: BackNever},
	{Name: Reports, Class: ClassTopLevel, Back: BackNever},
	{Name: Certificates, Class: ClassTopLevel, Back: BackNever},
	{Name: Profile, Class: ClassTopLevel, Back: BackNever},

	{Name: CourseDetail, Class: ClassDetail, Back: BackForced},
	{Name: LessonDetail, Class: ClassDetail, Back: BackForced},
	{Name: QuizDetail, Class: ClassDetail, Back: BackForced},
	{Name: QuizResult, Class: ClassDetail, Back: BackForced},
	{Name: CertificateDetail, Class: ClassDetail, Back: BackForced},
	{Name: CourseEditor, Class: ClassDetail, Back: BackForced},
	{Name: CategoryEditor, Class: ClassDetail, Back: BackForced},
	{Name: UserDetail, Class: ClassDetail, Back: BackForced},
	{Name: Settings, Class: ClassDetail, Back: BackForced},

	{Name: Notifications, Class: ClassOther, Back: BackNative},
	{Name: Search, Class: ClassOther, Back: BackNative},
}

// Role is the signed-in user's role. Each role sees its own tab set.
type Role string

const (
	RoleLearner    Role = "learner"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ParseRole parses a role string, defaulting to learner
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instructor", "trainer":
		return RoleInstructor
	case "admin", "administrator":
		return RoleAdmin
	default:
		return RoleLearner
	}
}

var tabsByRole = map[Role][]Name{
	RoleLearner:    {Dashboard, MyCourses, Certificates, Profile},
	RoleInstructor: {Dashboard, Courses, Reports, Profile},
	RoleAdmin:      {Dashboard, Users, Categories, Courses, Reports, Profile},
}

// Tabs returns the top-level sections shown to a role, in display order.
func Tabs(role Role) []Name {
	tabs, ok := tabsByRole[role]
	if !ok {
		tabs = tabsByRole[RoleLearner]
	}
	out := make([]Name, len(tabs))
	copy(out, tabs)
	return out
}

// DefaultTab is the section a role lands on after sign-in.
func DefaultTab(role Role) Name {
	return Tabs(role)[0]
}

// Catalog returns every known route sorted by name.
func Catalog() []Route {
	out := make([]Route, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
