package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	p     *AppPresenter
	store *header.Store
	clock *header.ManualClock
	bus   *routebus.Bus
}

func newHarness(t *testing.T, platform header.Platform, role, locale string) *harness {
	t.Helper()

	table := routes.MustTable(locale)
	h := &harness{clock: header.NewManualClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))}
	h.store = header.NewStore(header.WithClock(h.clock), header.WithRouteTable(table))

	var nav Navigator
	if platform == header.Wide {
		h.bus = routebus.New()
		bn := NewBusNavigator(h.bus)
		t.Cleanup(bn.Close)
		nav = bn
	} else {
		nav = NewStackNavigator()
	}

	cfg := config.DefaultConfig()
	cfg.Settings.Role = role
	h.p = NewAppPresenter(cfg, Deps{
		Table:     table,
		Store:     h.store,
		Navigator: nav,
		Platform:  platform,
	})
	require.NoError(t, h.p.Initialize(context.Background()))
	t.Cleanup(func() { h.p.Shutdown() })
	return h
}

func (h *harness) do(t *testing.T, e *Event) {
	t.Helper()
	require.NoError(t, h.p.HandleEvent(e))
}

func TestPresenter_LandsOnDefaultTab(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")
	f := h.p.Frame()

	assert.True(t, f.Header.Visible)
	assert.Equal(t, "Dashboard", f.Header.Title)
	assert.Equal(t, "Overview of your activity", f.Header.Subtitle)
	assert.False(t, f.Header.ShowBack)
	assert.True(t, f.Header.AlignLeft)
	assert.False(t, f.Header.Manual)
	assert.Equal(t, "compact", f.Platform)

	require.Len(t, f.Tabs, 4)
	assert.True(t, f.Tabs[0].Active)
	assert.Equal(t, routes.Dashboard, f.Screen.Name)
	require.NotNil(t, h.p.GetState().GetFrame(), "initial frame is broadcast")
}

func TestPresenter_CompactDrillInAndBack(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")

	h.do(t, LinkEvent("1"))
	f := h.p.Frame()
	assert.Equal(t, routes.CourseDetail, f.Screen.Name)
	assert.Equal(t, "Intro to Go", f.Header.Title)
	assert.True(t, f.Header.Manual)
	assert.True(t, f.Header.ShowBack)
	assert.False(t, f.Header.AlignLeft)
	assert.True(t, f.CanGoBack)
	assert.Equal(t, 1, f.Depth)
	require.NotNil(t, f.Route)
	assert.Equal(t, "go-101", f.Route.Params["id"])

	h.do(t, BackEvent())
	f = h.p.Frame()
	assert.Equal(t, routes.Dashboard, f.Screen.Name)
	assert.Equal(t, "Dashboard", f.Header.Title)
	assert.False(t, h.store.Current().Manual, "the detail screen released its header")
}

func TestPresenter_CompactParentKeepsOwnerAcrossPushPop(t *testing.T) {
	h := newHarness(t, header.Compact, "instructor", "en")
	h.do(t, TabEvent("Reports"))

	owner := h.p.FocusedScreen().Owner()
	f := h.p.Frame()
	assert.Equal(t, "Reports", f.Header.Title)
	assert.Equal(t, "Last 30 days", f.Header.Subtitle)

	h.do(t, LinkEvent("1"))
	assert.Equal(t, "Intro to Go", h.p.Frame().Header.Title)

	h.do(t, BackEvent())
	assert.Equal(t, owner, h.p.FocusedScreen().Owner())
	f = h.p.Frame()
	assert.Equal(t, "Last 30 days", f.Header.Subtitle)
	assert.Equal(t, owner, h.store.Current().Owner)
}

func TestPresenter_WideRemountsOnBack(t *testing.T) {
	h := newHarness(t, header.Wide, "instructor", "en")
	var notes []*Notification
	h.p.SubscribeNotifications(func(n *Notification) { notes = append(notes, n) })

	h.do(t, TabEvent("Reports"))
	first := h.p.FocusedScreen().Owner()

	h.do(t, OpenEvent("CourseDetail", routebus.Params{"id": "go-101", "title": "Intro to Go"}))
	f := h.p.Frame()
	require.NotNil(t, f.Route)
	assert.Equal(t, routes.CourseDetail, f.Route.Name)
	assert.True(t, f.Header.ShowBack)
	assert.True(t, f.Header.AlignLeft, "the wide shell always aligns left")
	assert.Equal(t, "wide", f.Platform)

	h.do(t, BackEvent())
	f = h.p.Frame()
	assert.Equal(t, routes.Reports, f.Screen.Name)
	assert.Nil(t, f.Route)
	assert.NotEqual(t, first, h.p.FocusedScreen().Owner())
	assert.Equal(t, "Last 30 days", f.Header.Subtitle)

	h.do(t, BackEvent())
	require.Len(t, notes, 1)
	assert.Equal(t, "Nothing to go back to", notes[0].Message)
}

func TestPresenter_WideFollowsDirectBusNavigation(t *testing.T) {
	h := newHarness(t, header.Wide, "learner", "en")

	h.bus.GoToRoute(routes.Notifications, nil)
	f := h.p.Frame()
	assert.Equal(t, routes.Notifications, f.Screen.Name)
	assert.True(t, f.Header.ShowBack, "native back policy asks the route bus")

	h.do(t, NewEvent(EventClearRoute))
	f = h.p.Frame()
	assert.Equal(t, routes.Dashboard, f.Screen.Name)
	assert.False(t, f.Header.ShowBack)
}

func TestPresenter_CompactNativeBack(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")
	h.do(t, LinkEvent("2"))

	f := h.p.Frame()
	assert.Equal(t, routes.Notifications, f.Screen.Name)
	assert.True(t, f.Header.ShowBack)
	assert.False(t, f.Header.AlignLeft)

	h.do(t, NewEvent(EventClearRoute))
	assert.Equal(t, routes.Dashboard, h.p.Frame().Screen.Name)
}

func TestPresenter_SignOutHidesHeader(t *testing.T) {
	h := newHarness(t, header.Wide, "learner", "en")

	h.do(t, NewEvent(EventSignOut))
	f := h.p.Frame()
	assert.False(t, f.Header.Visible)
	assert.Empty(t, f.Tabs)
	assert.Equal(t, routes.Login, f.Screen.Name)
	assert.True(t, h.store.Current().Hidden)

	// Background inference cannot leak onto the sign-in flow.
	res := h.store.Set(&header.Descriptor{Title: header.Text("Dashboard")})
	assert.Equal(t, header.OutcomeManualHeld, res.Outcome)

	assert.Error(t, h.p.HandleEvent(TabEvent("Dashboard")))

	h.do(t, LinkEvent("1"))
	assert.False(t, h.p.Frame().Header.Visible, "register is an auth screen too")

	h.do(t, NewEvent(EventSignIn))
	f = h.p.Frame()
	assert.True(t, f.Header.Visible)
	assert.Equal(t, "Dashboard", f.Header.Title)
}

func TestPresenter_ProvisionalThenResolved(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")
	h.do(t, TabEvent("MyCourses"))
	h.do(t, LinkEvent("2"))

	// The placeholder claim cannot downgrade the inferred header.
	f := h.p.Frame()
	assert.Equal(t, "Course", f.Header.Title)
	assert.Equal(t, "provisional", f.LastWrite)
	assert.False(t, h.store.Current().Manual)

	h.do(t, NewEvent(EventSetTitle).WithValue("Databases 101"))
	f = h.p.Frame()
	assert.Equal(t, "Databases 101", f.Header.Title)
	assert.True(t, f.Header.Manual)
	assert.Equal(t, "accepted", f.LastWrite)
}

func TestPresenter_EditorOnBack(t *testing.T) {
	h := newHarness(t, header.Compact, "instructor", "en")
	h.do(t, TabEvent("Courses"))
	h.do(t, LinkEvent("2"))

	f := h.p.Frame()
	assert.Equal(t, "Edit: Intro to Go", f.Header.Title)
	require.NotNil(t, f.Header.OnBack)

	h.do(t, BackEvent())
	assert.Equal(t, routes.Courses, h.p.Frame().Screen.Name)
}

func TestPresenter_ManualHeaderHoldsAgainstInference(t *testing.T) {
	h := newHarness(t, header.Wide, "instructor", "es")
	h.do(t, TabEvent("Reports"))
	assert.Equal(t, "Reportes", h.p.Frame().Header.Title)

	res := h.store.Set(&header.Descriptor{Title: header.Text("Inicio")})
	assert.Equal(t, header.OutcomeManualHeld, res.Outcome)
	assert.Equal(t, "Reportes", h.p.Frame().Header.Title)

	h.do(t, TabEvent("Dashboard"))
	f := h.p.Frame()
	assert.Equal(t, "Inicio", f.Header.Title)
	assert.Equal(t, "Resumen de tu actividad", f.Header.Subtitle)
	assert.False(t, f.Header.Manual)
}

func TestPresenter_SwitchRole(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")
	h.do(t, NewEvent(EventSwitchRole).WithTarget("admin"))

	f := h.p.Frame()
	assert.Equal(t, routes.RoleAdmin, f.Role)
	assert.Len(t, f.Tabs, 6)
	assert.Equal(t, routes.Dashboard, f.Tab)
	h.do(t, TabEvent("Users"))
}

func TestPresenter_RejectsBadEvents(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")

	assert.Error(t, h.p.HandleEvent(NewEvent("bogus")))
	assert.Error(t, h.p.HandleEvent(OpenEvent("Nowhere", nil)))
	assert.Error(t, h.p.HandleEvent(TabEvent("Users")), "learners have no Users tab")
	assert.Error(t, h.p.HandleEvent(LinkEvent("9")))

	_, err := h.p.GetViewModel("nope")
	assert.Error(t, err)
	vm, err := h.p.GetViewModel(VMRoutes)
	require.NoError(t, err)
	assert.Len(t, vm.(*RoutesVM).Routes, len(routes.Catalog()))
}

func TestPresenter_BroadcastsFrames(t *testing.T) {
	h := newHarness(t, header.Compact, "learner", "en")

	var mu sync.Mutex
	var frames []*FrameVM
	h.p.Subscribe(func(u StateUpdate) {
		mu.Lock()
		defer mu.Unlock()
		frames = append(frames, u.ViewModel.(*FrameVM))
	})

	h.do(t, LinkEvent("1"))
	mu.Lock()
	require.NotEmpty(t, frames)
	assert.Equal(t, routes.CourseDetail, frames[len(frames)-1].Screen.Name)
	n := len(frames)
	mu.Unlock()

	require.NoError(t, h.p.Refresh())
	mu.Lock()
	assert.Greater(t, len(frames), n, "refresh always sends")
	mu.Unlock()
}

func TestPresenter_ShutdownReleasesHeader(t *testing.T) {
	h := newHarness(t, header.Compact, "instructor", "en")
	h.do(t, TabEvent("Reports"))
	require.True(t, h.store.Current().Manual)

	require.NoError(t, h.p.Shutdown())
	assert.Nil(t, h.store.Current())
	require.NoError(t, h.p.Shutdown())
}
