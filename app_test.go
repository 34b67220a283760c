package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"splashgate/internal/startup"
)

type stubMain struct {
	shown   int
	showErr error
}

func (w *stubMain) Show() error {
	if w.showErr != nil {
		return w.showErr
	}
	w.shown++
	return nil
}

func (w *stubMain) Close() error { return nil }

type emitted struct {
	name string
	data []interface{}
}

type appHarness struct {
	app      *DesktopApp
	main     *stubMain
	reg      *startup.MapRegistry
	events   []emitted
	trays    int
	alerts   []string
	exitCode int
}

func newAppHarness(t *testing.T, withHistory bool) *appHarness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SplashMinDuration = 0

	var history *LaunchHistory
	if withHistory {
		var err error
		history, err = OpenLaunchHistory(filepath.Join(t.TempDir(), "launches.db"), 10)
		require.NoError(t, err)
		t.Cleanup(func() { history.Close() })
	}

	h := &appHarness{main: &stubMain{}, exitCode: -1}
	h.app = NewDesktopApp(cfg, NewSplashWindow("test"), history)
	h.app.emit = func(name string, data ...interface{}) {
		h.events = append(h.events, emitted{name: name, data: data})
	}
	h.app.afterShow = func() { h.trays++ }
	h.app.alert = func(title, msg string) error {
		h.alerts = append(h.alerts, msg)
		return nil
	}
	h.app.exit = func(code int) { h.exitCode = code }

	h.reg = startup.NewMapRegistry()
	h.reg.Register(startup.SplashLabel, h.app.splash)
	h.reg.Register(startup.MainLabel, h.main)
	return h
}

func TestAppHandoffSideEffects(t *testing.T) {
	h := newAppHarness(t, true)
	require.NoError(t, h.app.initCoordinator(h.reg))
	require.Nil(t, h.app.GetStartupTiming())

	h.app.coordinator.OnFrontendReady()

	require.True(t, h.app.splash.IsClosed())
	require.Equal(t, 1, h.main.shown)
	require.Equal(t, 1, h.trays)
	require.Len(t, h.events, 1)
	require.Equal(t, EventStartupComplete, h.events[0].name)
	require.IsType(t, HandoffPayload{}, h.events[0].data[0])

	timing := h.app.GetStartupTiming()
	require.NotNil(t, timing)
	require.Zero(t, timing.WaitedMs)

	records, err := h.app.GetLaunchHistory(5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, -1, h.exitCode)
}

func TestAppHoldsSplashForConfiguredFloor(t *testing.T) {
	h := newAppHarness(t, false)
	h.app.cfg.SplashMinDuration = 2 * time.Second

	now := time.Unix(1_700_000_000, 0)
	var slept time.Duration
	clock := startup.WithClock(
		func() time.Time { return now },
		func(d time.Duration) { slept += d; now = now.Add(d) },
	)
	require.NoError(t, h.app.initCoordinator(h.reg, clock))

	now = now.Add(500 * time.Millisecond)
	h.app.coordinator.OnFrontendReady()

	require.Equal(t, 1500*time.Millisecond, slept)
	require.Equal(t, int64(2000), h.app.GetStartupTiming().TotalMs)
}

func TestAppMissingMainWindow(t *testing.T) {
	h := newAppHarness(t, false)
	reg := startup.NewMapRegistry()
	reg.Register(startup.SplashLabel, h.app.splash)

	err := h.app.initCoordinator(reg)
	require.ErrorIs(t, err, startup.ErrWindowNotFound)

	h.app.abort(err)
	require.Equal(t, 1, h.exitCode)
	require.Len(t, h.alerts, 1)
	require.True(t, h.app.splash.IsClosed())
}

func TestAppShowFailureAborts(t *testing.T) {
	h := newAppHarness(t, true)
	h.main.showErr = errors.New("webview gone")
	require.NoError(t, h.app.initCoordinator(h.reg))

	h.app.coordinator.OnFrontendReady()

	require.Equal(t, 1, h.exitCode)
	require.Len(t, h.alerts, 1)
	require.Contains(t, h.alerts[0], "webview gone")
	require.Zero(t, h.trays)
	require.Empty(t, h.events)

	records, err := h.app.GetLaunchHistory(5)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAppSplashAlreadyClosedAborts(t *testing.T) {
	h := newAppHarness(t, false)
	require.NoError(t, h.app.splash.Close())
	require.NoError(t, h.app.initCoordinator(h.reg))

	h.app.coordinator.OnFrontendReady()

	require.Equal(t, 1, h.exitCode)
	require.Zero(t, h.main.shown)
}

func TestAppHistoryDisabled(t *testing.T) {
	h := newAppHarness(t, true)
	h.app.cfg.HistoryEnabled = false
	require.NoError(t, h.app.initCoordinator(h.reg))

	h.app.coordinator.OnFrontendReady()

	records, err := h.app.GetLaunchHistory(5)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestGetLaunchHistoryWithoutStore(t *testing.T) {
	h := newAppHarness(t, false)
	records, err := h.app.GetLaunchHistory(5)
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestGetAppInfo(t *testing.T) {
	h := newAppHarness(t, false)
	info := h.app.GetAppInfo()
	require.Equal(t, AppTitle, info["name"])
	require.Equal(t, EventFrontendReady, info["readyEvent"])
	require.Equal(t, int64(0), info["minDurationMs"])
	require.Equal(t, int64(0), info["avgTotalMs"])
}

func TestGetAppInfoAverageFromHistory(t *testing.T) {
	h := newAppHarness(t, true)
	started := time.Unix(1_700_000_000, 0)
	require.NoError(t, h.app.history.Record(startup.Handoff{Started: started, Total: 3 * time.Second}))
	require.NoError(t, h.app.history.Record(startup.Handoff{Started: started, Total: 4 * time.Second}))

	info := h.app.GetAppInfo()
	require.Equal(t, int64(3500), info["avgTotalMs"])
}

func TestAppReadyListener(t *testing.T) {
	h := newAppHarness(t, false)
	h.app.cfg.ReadyEvent = "ui-mounted"

	var subscribed []string
	var fire func(optionalData ...interface{})
	cancelled := 0
	h.app.on = func(event string, cb func(optionalData ...interface{})) func() {
		subscribed = append(subscribed, event)
		fire = cb
		return func() { cancelled++ }
	}
	done := make(chan struct{}, 2)
	h.app.afterShow = func() { done <- struct{}{} }

	require.NoError(t, h.app.initCoordinator(h.reg))
	h.app.listenReady()
	require.Equal(t, []string{"ui-mounted"}, subscribed)
	require.NotNil(t, fire)

	fire()
	fire("again")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main window never shown")
	}
	require.Never(t, func() bool { return len(done) > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	require.Equal(t, 1, h.main.shown)
	require.Equal(t, 1, cancelled)
	require.True(t, h.app.coordinator.Handled())
}
