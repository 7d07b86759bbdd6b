package core

import (
	"testing"

	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackNavigator(t *testing.T) {
	n := NewStackNavigator()
	var seen []Location
	unsub := n.Subscribe(func(l Location) { seen = append(seen, l) })

	n.SelectTab(routes.Dashboard, nil)
	root, _ := n.Location().Top()
	assert.False(t, n.CanGoBack())
	assert.Nil(t, n.Location().Current)

	n.Open(routes.CourseDetail, routebus.Params{"id": "go-101"})
	n.Open(routes.LessonDetail, nil)
	loc := n.Location()
	assert.Equal(t, 2, loc.Depth)
	assert.Equal(t, routes.LessonDetail, loc.Active())
	assert.Equal(t, routes.LessonDetail, loc.Current.Name)
	assert.True(t, n.CanGoBack())

	require.True(t, n.Back())
	assert.Equal(t, routes.CourseDetail, n.Location().Active())

	n.Reset()
	top, _ := n.Location().Top()
	assert.Equal(t, root.ID, top.ID, "the tab root keeps its frame")
	assert.False(t, n.Back())

	n.SelectTab(routes.Profile, nil)
	top, _ = n.Location().Top()
	assert.NotEqual(t, root.ID, top.ID)
	assert.Equal(t, routes.Profile, n.Location().Tab)

	assert.Len(t, seen, 6)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i].Seq, seen[i-1].Seq)
	}

	unsub()
	unsub()
	n.Open(routes.Settings, nil)
	assert.Len(t, seen, 6)
}

func TestStackNavigator_LocationIsASnapshot(t *testing.T) {
	n := NewStackNavigator()
	n.SelectTab(routes.Dashboard, routebus.Params{"k": "v"})

	loc := n.Location()
	loc.Frames[0].Route.Params["k"] = "changed"
	assert.Equal(t, "v", n.Location().Frames[0].Route.Params["k"])
}

func TestBusNavigator(t *testing.T) {
	bus := routebus.New()
	n := NewBusNavigator(bus)
	defer n.Close()

	n.SelectTab(routes.Reports, nil)
	first, _ := n.Location().Top()
	assert.Equal(t, routes.Reports, first.Route.Name)
	assert.False(t, n.CanGoBack())

	n.Open(routes.CourseDetail, routebus.Params{"id": "go-101"})
	n.Open(routes.LessonDetail, nil)
	loc := n.Location()
	assert.Equal(t, routes.LessonDetail, loc.Active())
	assert.Equal(t, 2, loc.Depth)
	require.Len(t, loc.Frames, 1, "the wide shell shows one screen")

	require.True(t, n.Back())
	assert.Equal(t, routes.CourseDetail, n.Location().Active())

	// Empty history: the bus clears the route, landing on the tab root.
	require.True(t, n.Back())
	loc = n.Location()
	assert.Nil(t, loc.Current)
	assert.Equal(t, routes.Reports, loc.Active())
	top, _ := loc.Top()
	assert.NotEqual(t, first.ID, top.ID, "the tab root is remounted")

	seq := loc.Seq
	assert.False(t, n.Back())
	assert.Equal(t, seq, n.Location().Seq, "nothing changed")
}

func TestBusNavigator_FollowsDirectBusCalls(t *testing.T) {
	bus := routebus.New()
	n := NewBusNavigator(bus)

	bus.GoToTab(routes.Dashboard, nil)
	bus.GoToRoute(routes.Notifications, nil)
	assert.Equal(t, routes.Notifications, n.Location().Active())
	assert.True(t, n.CanGoBack())

	bus.ClearRoute()
	assert.Equal(t, routes.Dashboard, n.Location().Active())

	n.Close()
	bus.GoToRoute(routes.Search, nil)
	assert.Equal(t, routes.Dashboard, n.Location().Active(), "closed navigators stop following")
}

func TestBusNavigator_RepeatedRouteGetsNewFrames(t *testing.T) {
	bus := routebus.New()
	n := NewBusNavigator(bus)
	defer n.Close()

	n.SelectTab(routes.Courses, nil)
	n.Open(routes.CourseDetail, routebus.Params{"id": "a"})
	a, _ := n.Location().Top()
	n.Open(routes.CourseDetail, routebus.Params{"id": "a"})
	b, _ := n.Location().Top()

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, n.Location().Depth)
}
