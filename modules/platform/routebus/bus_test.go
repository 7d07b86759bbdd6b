package routebus

import (
	"errors"
	"testing"

	"coursedesk/modules/platform/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_BackIsLIFO(t *testing.T) {
	b := New()

	b.GoToRoute("A", nil)
	b.GoToRoute("B", nil)

	r, ok := b.GoBack()
	require.True(t, ok)
	assert.Equal(t, routes.Name("A"), r.Name)
	assert.Equal(t, routes.Name("A"), b.CurrentRoute().Name)

	r, ok = b.GoBack()
	assert.False(t, ok)
	assert.Nil(t, r)
	assert.Nil(t, b.CurrentRoute())
}

func TestBus_TabSwitchResetsHistory(t *testing.T) {
	b := New()
	b.GoToRoute("A", nil)
	b.GoToRoute("B", nil)

	b.GoToTab(routes.Dashboard, nil)

	assert.False(t, b.HasHistory())
	assert.Nil(t, b.CurrentRoute())
	assert.Zero(t, b.Depth())
}

func TestBus_SameRouteIsNotDeduplicated(t *testing.T) {
	b := New()
	params := Params{"id": 7}

	b.GoToRoute(routes.CourseDetail, params)
	b.GoToRoute(routes.CourseDetail, params)
	b.GoToRoute(routes.CourseDetail, params)

	assert.Equal(t, 2, b.Depth())
	_, ok := b.GoBack()
	assert.True(t, ok)
	_, ok = b.GoBack()
	assert.True(t, ok)
	_, ok = b.GoBack()
	assert.False(t, ok)
}

func TestBus_ClearRouteKeepsHistory(t *testing.T) {
	b := New()
	b.GoToRoute("A", nil)
	b.GoToRoute("B", nil)

	b.ClearRoute()
	assert.Nil(t, b.CurrentRoute())
	assert.True(t, b.HasHistory())

	// No current route to push, so back restores A directly.
	r, ok := b.GoBack()
	require.True(t, ok)
	assert.Equal(t, routes.Name("A"), r.Name)
	assert.Nil(t, b.Previous())
}

func TestBus_RoutesAreImmutable(t *testing.T) {
	b := New()
	params := Params{"id": 1}
	b.GoToRoute(routes.CourseDetail, params)

	params["id"] = 2
	assert.Equal(t, 1, b.CurrentRoute().Params["id"])

	got := b.CurrentRoute()
	got.Params["id"] = 3
	assert.Equal(t, 1, b.CurrentRoute().Params["id"])
}

func TestBus_ListenerOrderAndPayload(t *testing.T) {
	b := New()
	var calls []string

	b.OnRouteChange(func(r *Route) error {
		if r == nil {
			calls = append(calls, "first:nil")
		} else {
			calls = append(calls, "first:"+string(r.Name))
		}
		return nil
	})
	b.OnRouteChange(func(r *Route) error {
		if r == nil {
			calls = append(calls, "second:nil")
		} else {
			calls = append(calls, "second:"+string(r.Name))
		}
		return nil
	})
	b.OnTabChange(func(tab routes.Name, params Params) error {
		calls = append(calls, "tab:"+string(tab)+":"+params["from"].(string))
		return nil
	})

	b.GoToRoute("A", nil)
	b.ClearRoute()
	b.GoToTab(routes.Courses, Params{"from": "sidebar"})

	assert.Equal(t, []string{
		"first:A", "second:A",
		"first:nil", "second:nil",
		"tab:Courses:sidebar",
	}, calls)
}

func TestBus_GoBackOnEmptyNotifiesNil(t *testing.T) {
	b := New()
	var got []*Route
	b.OnRouteChange(func(r *Route) error {
		got = append(got, r)
		return nil
	})

	_, ok := b.GoBack()
	assert.False(t, ok)
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	b := New()
	hits := 0
	unsub := b.OnRouteChange(func(*Route) error { hits++; return nil })
	other := 0
	b.OnRouteChange(func(*Route) error { other++; return nil })

	unsub()
	unsub()

	b.GoToRoute("A", nil)
	assert.Zero(t, hits)
	assert.Equal(t, 1, other)
}

func TestBus_FailingListenersAreIsolated(t *testing.T) {
	b := New()
	reached := 0

	b.OnRouteChange(func(*Route) error { panic("boom") })
	b.OnRouteChange(func(*Route) error { return errors.New("nope") })
	b.OnRouteChange(func(*Route) error { reached++; return nil })
	b.OnTabChange(func(routes.Name, Params) error { panic("tab boom") })
	b.OnTabChange(func(routes.Name, Params) error { reached++; return nil })

	assert.NotPanics(t, func() {
		b.GoToRoute("A", nil)
		b.GoToTab(routes.Dashboard, nil)
	})
	assert.Equal(t, 2, reached)
}

func TestBus_ListenerMayReenter(t *testing.T) {
	b := New()
	b.OnTabChange(func(tab routes.Name, _ Params) error {
		if tab == routes.Reports {
			b.GoToRoute(routes.Settings, nil)
		}
		return nil
	})

	b.GoToTab(routes.Reports, nil)
	require.NotNil(t, b.CurrentRoute())
	assert.Equal(t, routes.Settings, b.CurrentRoute().Name)
}
