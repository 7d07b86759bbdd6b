package core

import (
	"fmt"

	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"
)

// Link is a navigation target offered by a screen
type Link struct {
	Target routes.Name
	Params routebus.Params
}

// ClaimContext is what a screen sees when it claims the header on focus
type ClaimContext struct {
	Table  *routes.Table
	Params routebus.Params
	// Back performs the shell's default back navigation
	Back func()
}

// ClaimFunc builds the descriptor a screen writes when it gains focus.
// The owner and manual flag are filled in by the screen handle.
type ClaimFunc func(c ClaimContext) *header.Descriptor

// ScreenDef is a screen's static definition. Screen content is a
// placeholder: the course data service is an external collaborator.
type ScreenDef struct {
	Name  routes.Name
	Body  []string
	Links []Link
	Claim ClaimFunc
}

func course(id, title string) Link {
	return Link{Target: routes.CourseDetail, Params: routebus.Params{"id": id, "title": title}}
}

var screenDefs = map[routes.Name]ScreenDef{
	routes.Login: {
		Body:  []string{"Sign in to continue."},
		Links: []Link{{Target: routes.Register}, {Target: routes.ForgotPassword}},
		Claim: claimHidden,
	},
	routes.Register: {
		Body:  []string{"Create a learner account."},
		Claim: claimHidden,
	},
	routes.ForgotPassword: {
		Body:  []string{"We will email you a reset link."},
		Claim: claimHidden,
	},

	routes.Dashboard: {
		Body: []string{"Your activity at a glance."},
		Links: []Link{
			course("go-101", "Intro to Go"),
			{Target: routes.Notifications},
			{Target: routes.Search},
			{Target: routes.Settings},
		},
	},
	routes.MyCourses: {
		Body: []string{"Courses you are enrolled in."},
		Links: []Link{
			course("go-101", "Intro to Go"),
			course("sql-110", ""),
		},
	},
	routes.Courses: {
		Body: []string{"The course catalog."},
		Links: []Link{
			course("go-101", "Intro to Go"),
			{Target: routes.CourseEditor, Params: routebus.Params{"id": "go-101", "title": "Intro to Go"}},
		},
	},
	routes.Categories: {
		Body:  []string{"Course categories."},
		Links: []Link{{Target: routes.CategoryEditor, Params: routebus.Params{"id": "backend", "title": "Backend"}}},
	},
	routes.Users: {
		Body:  []string{"Everyone with access to the platform."},
		Links: []Link{{Target: routes.UserDetail, Params: routebus.Params{"id": "u-42", "title": "Ada Lovelace"}}},
	},
	routes.Reports: {
		Body:  []string{"Completion and progress."},
		Links: []Link{course("go-101", "Intro to Go")},
		Claim: claimReports,
	},
	routes.Certificates: {
		Body:  []string{"Certificates you have earned."},
		Links: []Link{{Target: routes.CertificateDetail, Params: routebus.Params{"id": "c-7", "title": "Intro to Go"}}},
	},
	routes.Profile: {
		Body:  []string{"Your account."},
		Links: []Link{{Target: routes.Settings}, {Target: routes.Notifications}},
	},

	routes.CourseDetail: {
		Body: []string{"Course overview and lessons."},
		Links: []Link{
			{Target: routes.LessonDetail, Params: routebus.Params{"id": "l-1", "title": "Lesson 1"}},
			{Target: routes.QuizDetail, Params: routebus.Params{"id": "q-1", "title": "Checkpoint quiz"}},
			course("go-201", "Concurrency in Go"),
		},
		Claim: claimFromParams,
	},
	routes.LessonDetail: {
		Body:  []string{"Lesson content."},
		Links: []Link{{Target: routes.QuizDetail, Params: routebus.Params{"id": "q-1", "title": "Checkpoint quiz"}}},
		Claim: claimFromParams,
	},
	routes.QuizDetail: {
		Body:  []string{"Answer every question, then submit."},
		Links: []Link{{Target: routes.QuizResult, Params: routebus.Params{"id": "q-1"}}},
		Claim: claimFromParams,
	},
	routes.QuizResult: {
		Body:  []string{"Score: 9/10"},
		Links: []Link{{Target: routes.CertificateDetail, Params: routebus.Params{"id": "c-7", "title": "Intro to Go"}}},
	},
	routes.CertificateDetail: {
		Body:  []string{"Certificate of completion."},
		Claim: claimFromParams,
	},
	routes.CourseEditor: {
		Body:  []string{"Draft changes are discarded on back."},
		Claim: claimEditor,
	},
	routes.CategoryEditor: {
		Body:  []string{"Rename or archive the category."},
		Claim: claimFromParams,
	},
	routes.UserDetail: {
		Body:  []string{"Enrollments and role."},
		Claim: claimFromParams,
	},
	routes.Settings: {
		Body: []string{"Language, notifications, sign out."},
	},

	routes.Notifications: {
		Body:  []string{"Nothing new."},
		Links: []Link{course("go-101", "Intro to Go")},
	},
	routes.Search: {
		Body: []string{"Search courses and people."},
		Links: []Link{
			course("go-101", "Intro to Go"),
			{Target: routes.UserDetail, Params: routebus.Params{"id": "u-42", "title": "Ada Lovelace"}},
		},
		Claim: claimSearch,
	},
}

// LookupScreen returns the definition for name. Unknown routes get an empty
// placeholder screen that does not claim the header.
func LookupScreen(name routes.Name) ScreenDef {
	def, ok := screenDefs[name]
	if !ok {
		def = ScreenDef{Body: []string{fmt.Sprintf("No screen registered for %s.", name)}}
	}
	def.Name = name
	return def
}

// LinkLabel is the text shown for a link
func LinkLabel(table *routes.Table, l Link) string {
	if t := paramString(l.Params, "title"); t != "" {
		return fmt.Sprintf("%s: %s", table.Label(l.Target), t)
	}
	return table.Label(l.Target)
}

func paramString(p routebus.Params, key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// ============================================
// Header claims
// ============================================

// Sign-in screens hide the top bar entirely.
func claimHidden(ClaimContext) *header.Descriptor {
	return &header.Descriptor{Hidden: true}
}

// Detail screens title themselves after the record they show. Without a
// title param the record is still loading and the claim is a placeholder.
func claimFromParams(c ClaimContext) *header.Descriptor {
	return &header.Descriptor{
		Title:       header.Text(paramString(c.Params, "title")),
		Provisional: paramString(c.Params, "title") == "",
	}
}

func claimReports(c ClaimContext) *header.Descriptor {
	title, _ := c.Table.Title(routes.Reports)
	return &header.Descriptor{
		Title:    header.Text(title),
		Subtitle: header.Text("Last 30 days"),
	}
}

func claimSearch(ClaimContext) *header.Descriptor {
	return &header.Descriptor{AlignLeftOnMobile: header.Flag(true)}
}

func claimEditor(c ClaimContext) *header.Descriptor {
	d := claimFromParams(c)
	if t := paramString(c.Params, "title"); t != "" {
		d.Title = header.Text("Edit: " + t)
	}
	d.ShowBack = header.Flag(true)
	d.OnBack = c.Back
	return d
}
