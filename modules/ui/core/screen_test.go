package core

import (
	"testing"
	"time"

	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/platform/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreenStore() (*header.Store, *routes.Table) {
	table := routes.MustTable("en")
	store := header.NewStore(
		header.WithClock(header.NewManualClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))),
		header.WithRouteTable(table),
	)
	return store, table
}

func frameFor(id uint64, name routes.Name, params routebus.Params) Frame {
	return Frame{ID: id, Route: routebus.Route{Name: name, Params: params}}
}

func TestScreen_FocusClaimsBlurReleases(t *testing.T) {
	store, table := newScreenStore()
	s := MountScreen(store, table, frameFor(1, routes.CourseDetail, routebus.Params{"title": "Intro to Go"}), nil)

	res := s.Focus()
	require.Equal(t, header.OutcomeAccepted, res.Outcome)
	cur := store.Current()
	assert.Equal(t, "Intro to Go", cur.TitleText())
	assert.True(t, cur.Manual)
	assert.Equal(t, s.Owner(), cur.Owner)
	assert.True(t, s.Focused())

	assert.Equal(t, header.OutcomeCleared, s.Blur().Outcome)
	assert.Nil(t, store.Current())
	assert.False(t, s.Focused())
}

func TestScreen_BlurDoesNotClearOthers(t *testing.T) {
	store, table := newScreenStore()
	a := MountScreen(store, table, frameFor(1, routes.Reports, nil), nil)
	b := MountScreen(store, table, frameFor(2, routes.CourseDetail, routebus.Params{"title": "Go"}), nil)

	a.Focus()
	b.Focus()
	assert.Equal(t, header.OutcomeNotOwner, a.Blur().Outcome, "a late blur must not clear b's header")
	assert.Equal(t, b.Owner(), store.Current().Owner)
}

func TestScreen_WithoutClaimWritesNothing(t *testing.T) {
	store, table := newScreenStore()
	s := MountScreen(store, table, frameFor(1, routes.Dashboard, nil), nil)

	assert.Equal(t, header.OutcomeNoop, s.Focus().Outcome)
	assert.Nil(t, store.Current())
}

func TestScreen_ResolveReplacesPlaceholder(t *testing.T) {
	store, table := newScreenStore()
	s := MountScreen(store, table, frameFor(1, routes.CourseDetail, routebus.Params{"id": "sql-110"}), nil)

	s.Focus()
	require.True(t, store.Current().Provisional)

	res := s.Resolve("Databases 101")
	assert.Equal(t, header.OutcomeAccepted, res.Outcome)
	assert.Equal(t, "Databases 101", store.Current().TitleText())
	assert.False(t, store.Current().Provisional)

	// Refocus after a blur keeps the resolved title.
	s.Blur()
	assert.Equal(t, header.OutcomeNoop, s.Resolve("ignored while blurred").Outcome)
}

func TestScreen_EditorBackRunsCallback(t *testing.T) {
	store, table := newScreenStore()
	backs := 0
	s := MountScreen(store, table,
		frameFor(1, routes.CourseEditor, routebus.Params{"title": "Intro to Go"}),
		func() { backs++ })

	s.Focus()
	cur := store.Current()
	assert.Equal(t, "Edit: Intro to Go", cur.TitleText())
	require.NotNil(t, cur.OnBack)
	cur.OnBack()
	assert.Equal(t, 1, backs)
}

func TestScreen_Links(t *testing.T) {
	store, table := newScreenStore()
	s := MountScreen(store, table, frameFor(1, routes.Dashboard, nil), nil)

	links := s.Links()
	require.NotEmpty(t, links)
	assert.Equal(t, "1", links[0].Key)
	assert.Equal(t, "Course: Intro to Go", links[0].Label)
	assert.Equal(t, routes.CourseDetail, links[0].Target)
	assert.Equal(t, "Notifications", links[1].Label)
}

func TestLookupScreen(t *testing.T) {
	for _, r := range routes.Catalog() {
		def := LookupScreen(r.Name)
		assert.Equal(t, r.Name, def.Name)
		assert.NotEmpty(t, def.Body, r.Name)
		for _, l := range def.Links {
			_, ok := enTable().Lookup(l.Target)
			assert.True(t, ok, "%s links to unknown %s", r.Name, l.Target)
		}
	}

	def := LookupScreen("Mystery")
	assert.Nil(t, def.Claim)
	assert.Contains(t, def.Body[0], "Mystery")
}

func enTable() *routes.Table { return routes.MustTable("en") }
