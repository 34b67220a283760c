package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"splashgate/internal/startup"
)

// DesktopApp is the Wails application binding struct.
// Methods on this struct are exposed to the frontend via window.go.main.DesktopApp.
type DesktopApp struct {
	ctx     context.Context
	cfg     *AppConfig
	splash  *SplashWindow
	main    *mainWindow
	history *LaunchHistory

	coordinator *startup.Coordinator
	cancelReady func()

	// Side-effect hooks. startup points on and emit at the Wails event bus
	// and afterShow at the window icon and system tray.
	on        func(event string, cb func(optionalData ...interface{})) func()
	emit      func(event string, data ...interface{})
	afterShow func()
	alert     func(title, message string) error
	exit      func(code int)

	mu          sync.Mutex
	lastHandoff *startup.Handoff
}

// NewDesktopApp creates a new DesktopApp instance. history may be nil.
func NewDesktopApp(cfg *AppConfig, splash *SplashWindow, history *LaunchHistory) *DesktopApp {
	return &DesktopApp{
		cfg:     cfg,
		splash:  splash,
		main:    &mainWindow{},
		history: history,
		on:      func(string, func(...interface{})) func() { return func() {} },
		emit:    func(string, ...interface{}) {},
		alert:   nativeAlert,
		exit:    os.Exit,
	}
}

// startup is called when the Wails app starts.
func (a *DesktopApp) startup(ctx context.Context) {
	tStartup := time.Now()
	Log.Debug("Wails OnStartup 回调开始")
	a.ctx = ctx
	a.main.ctx = ctx
	a.on = func(event string, cb func(optionalData ...interface{})) func() {
		return wailsRuntime.EventsOn(a.ctx, event, cb)
	}
	a.emit = func(event string, data ...interface{}) {
		wailsRuntime.EventsEmit(a.ctx, event, data...)
	}
	a.afterShow = func() {
		applyWindowIcon()
		a.initSystray()
	}

	reg := startup.NewMapRegistry()
	reg.Register(startup.SplashLabel, a.splash)
	reg.Register(startup.MainLabel, a.main)

	if err := a.initCoordinator(reg); err != nil {
		a.abort(err)
		return
	}

	a.listenReady()
	Log.Debug("Wails OnStartup 回调结束", "readyEvent", a.cfg.ReadyEvent, "耗时", time.Since(tStartup))
}

// listenReady subscribes the coordinator to the configured ready event. The
// subscription is dropped in handoffDone.
func (a *DesktopApp) listenReady() {
	cancel := a.on(a.cfg.ReadyEvent, func(optionalData ...interface{}) {
		// The hold sleeps; keep it off the Wails event dispatcher.
		go a.coordinator.OnFrontendReady()
	})
	a.mu.Lock()
	a.cancelReady = cancel
	a.mu.Unlock()
}

// initCoordinator resolves both windows and captures the start time.
func (a *DesktopApp) initCoordinator(reg startup.Registry, opts ...startup.Option) error {
	base := []startup.Option{
		startup.WithMinDuration(a.cfg.SplashMinDuration),
		startup.WithLogger(Log),
		startup.WithFatal(a.abort),
		startup.WithOnHandoff(a.handoffDone),
	}
	c, err := startup.New(reg, append(base, opts...)...)
	if err != nil {
		return err
	}
	a.coordinator = c
	return nil
}

// handoffDone runs once the main window is visible.
func (a *DesktopApp) handoffDone(h startup.Handoff) {
	a.mu.Lock()
	a.lastHandoff = &h
	cancel := a.cancelReady
	a.cancelReady = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	a.emit(EventStartupComplete, newHandoffPayload(h))

	if a.history != nil && a.cfg.HistoryEnabled {
		if err := a.history.Record(h); err != nil {
			Log.Error("保存启动记录失败", "error", err)
		}
	}

	if a.afterShow != nil {
		a.afterShow()
	}
}

// onDomReady is called when the WebView DOM is loaded. The frontend still has
// to mount before it emits the ready event.
func (a *DesktopApp) onDomReady(ctx context.Context) {
	Log.Debug("Wails OnDomReady 回调触发")
	a.splash.SetText("正在加载界面...")
}

// shutdown is called when the Wails app is closing.
func (a *DesktopApp) shutdown(ctx context.Context) {
	w, h := wailsRuntime.WindowGetSize(ctx)
	if w > 0 && h > 0 {
		a.cfg.WindowWidth = w
		a.cfg.WindowHeight = h
	}
	Log.Info("shutdown: saving config", "windowWidth", a.cfg.WindowWidth, "windowHeight", a.cfg.WindowHeight)
	if err := SaveConfig(a.cfg); err != nil {
		Log.Error("保存配置失败", "error", err)
	}

	if a.history != nil {
		if !a.cfg.HistoryEnabled {
			a.history.Clear()
		}
		a.history.Close()
	}

	quitSystray()
}

// FrontendReady lets the frontend report readiness through a bound call
// instead of the event bus.
func (a *DesktopApp) FrontendReady() {
	if a.coordinator == nil {
		return
	}
	go a.coordinator.OnFrontendReady()
}

// GetStartupTiming returns the last handoff, or nil while the splash is up.
func (a *DesktopApp) GetStartupTiming() *HandoffPayload {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastHandoff == nil {
		return nil
	}
	p := newHandoffPayload(*a.lastHandoff)
	return &p
}

// GetLaunchHistory returns up to limit recent launches, newest first.
func (a *DesktopApp) GetLaunchHistory(limit int) ([]LaunchRecord, error) {
	if a.history == nil {
		return []LaunchRecord{}, nil
	}
	return a.history.Recent(limit)
}

// SaveWindowSize saves the current window dimensions to config.
func (a *DesktopApp) SaveWindowSize() {
	w, h := wailsRuntime.WindowGetSize(a.ctx)
	if w > 0 && h > 0 {
		a.cfg.WindowWidth = w
		a.cfg.WindowHeight = h
		SaveConfig(a.cfg)
	}
}

// SetWindowTheme switches the window title bar between dark and light.
func (a *DesktopApp) SetWindowTheme(theme string) {
	if theme == "light" {
		wailsRuntime.WindowSetLightTheme(a.ctx)
	} else {
		wailsRuntime.WindowSetDarkTheme(a.ctx)
	}
}

// SetLogLevel changes the log level and persists it.
func (a *DesktopApp) SetLogLevel(level string) {
	SetLogLevel(level)
	a.cfg.LogLevel = GetLogLevel()
	SaveConfig(a.cfg)
}

// OpenLogDir opens the log directory in the system file explorer.
func (a *DesktopApp) OpenLogDir() error {
	dir := LogDir()
	switch goruntime.GOOS {
	case "windows":
		return exec.Command("explorer", dir).Start()
	case "darwin":
		return exec.Command("open", dir).Start()
	case "linux":
		return exec.Command("xdg-open", dir).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", goruntime.GOOS)
	}
}

// GetAppInfo returns application info for the frontend. avgTotalMs is the
// mean time-to-main-window over stored launches, 0 without history.
func (a *DesktopApp) GetAppInfo() map[string]interface{} {
	var avgTotalMs int64
	if a.history != nil {
		avg, err := a.history.AverageTotal()
		if err != nil {
			Log.Error("读取启动记录失败", "error", err)
		}
		avgTotalMs = avg.Milliseconds()
	}
	return map[string]interface{}{
		"name":          AppTitle,
		"version":       AppVersion,
		"readyEvent":    a.cfg.ReadyEvent,
		"minDurationMs": a.cfg.SplashMinDuration.Milliseconds(),
		"avgTotalMs":    avgTotalMs,
		"logLevel":      GetLogLevel(),
	}
}
