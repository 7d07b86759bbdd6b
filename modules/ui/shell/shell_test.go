package shell

import (
	"context"
	"net/http"
	"testing"
	"time"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/header"
	"coursedesk/modules/platform/routes"
	"coursedesk/modules/ui/core"
	"coursedesk/modules/ui/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestResolve(t *testing.T) {
	yes := func() bool { return true }
	no := func() bool { return false }

	tests := []struct {
		target string
		tty    func() bool
		want   header.Platform
		err    bool
	}{
		{"compact", no, header.Compact, false},
		{"wide", yes, header.Wide, false},
		{"WIDE", yes, header.Wide, false},
		{"auto", yes, header.Compact, false},
		{"auto", no, header.Wide, false},
		{"", yes, header.Compact, false},
		{"tablet", yes, header.Compact, true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := Resolve(tt.target, tt.tty)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_ResolvesOnce(t *testing.T) {
	calls := 0
	tty := true
	s := NewSelector("auto", func() bool { calls++; return tty })

	p, err := s.Platform()
	require.NoError(t, err)
	assert.Equal(t, header.Compact, p)

	tty = false
	p, _ = s.Platform()
	assert.Equal(t, header.Compact, p, "the shell is fixed for the process lifetime")
	assert.Equal(t, 1, calls)
}

func TestBuild_HeadlessShells(t *testing.T) {
	for _, platform := range []header.Platform{header.Compact, header.Wide} {
		t.Run(platform.String(), func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Settings.Role = "admin"
			s, err := Build(cfg, platform, Options{Headless: true})
			require.NoError(t, err)
			defer s.Close()

			assert.Nil(t, s.View)
			assert.Equal(t, platform == header.Wide, s.RouteBus() != nil)
			require.NoError(t, s.Start(context.Background()))

			f := s.Presenter.Frame()
			assert.Equal(t, platform.String(), f.Platform)
			assert.Equal(t, routes.Dashboard, f.Screen.Name)
			assert.Len(t, f.Tabs, 6)

			require.NoError(t, s.Presenter.HandleEvent(core.TabEvent(string(routes.Users))))
			assert.Equal(t, "Users", s.Presenter.Frame().Header.Title)
		})
	}
}

func TestBuild_LocaleAndDebounceFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Settings.Locale = "es"
	cfg.Settings.Header.DebounceMS = 50
	clock := header.NewManualClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	s, err := Build(cfg, header.Compact, Options{Headless: true, Clock: clock})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, "es", s.Table.Locale())
	assert.Equal(t, "Inicio", s.Presenter.Frame().Header.Title)
}

func TestRun_HeadlessRefuses(t *testing.T) {
	s, err := Build(nil, header.Compact, Options{Headless: true})
	require.NoError(t, err)
	assert.Error(t, s.Run(context.Background()))
}

func TestRun_WideServesUntilCancelled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Settings.Web = &config.WebConfig{Host: "127.0.0.1", Port: 0, PingSeconds: 1}

	s, err := Build(cfg, header.Wide, Options{})
	require.NoError(t, err)
	view, ok := s.View.(*web.WebView)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return view.Server().Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	resp, err := http.Get("http://" + view.Server().Addr() + "/api/frame")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	http.DefaultClient.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("wide shell did not stop")
	}
}
