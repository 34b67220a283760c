package main

import (
	"fmt"
	"sync"

	"github.com/ra1phdd/systray-on-wails"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	trayOnce    sync.Once
	trayStarted bool
	trayMu      sync.Mutex
)

// initSystray sets up the tray icon once the main window is visible.
// Left click toggles the window; the menu offers show and quit.
func (a *DesktopApp) initSystray() {
	trayOnce.Do(func() {
		systray.Register(func() {
			trayMu.Lock()
			trayStarted = true
			trayMu.Unlock()

			systray.SetIcon(trayIcon())
			systray.SetTooltip(fmt.Sprintf("%s v%s", AppTitle, AppVersion))

			mShow := systray.AddMenuItem("打开界面", "打开主窗口")
			mQuit := systray.AddMenuItem("退出", "退出 "+AppTitle)

			subclassSystray(a.toggleWindow)

			go func() {
				for {
					select {
					case <-mShow.ClickedCh:
						a.showWindow()
					case <-mQuit.ClickedCh:
						wailsRuntime.Quit(a.ctx)
						return
					}
				}
			}()
		}, nil)
	})
}

func quitSystray() {
	trayMu.Lock()
	started := trayStarted
	trayMu.Unlock()
	if started {
		systray.Quit()
	}
}

// showWindow brings the main window to the foreground.
func (a *DesktopApp) showWindow() {
	if err := a.main.Show(); err != nil {
		Log.Error("显示主窗口失败", "error", err)
	}
}

// toggleWindow shows the window if hidden/minimized, hides it if visible.
func (a *DesktopApp) toggleWindow() {
	visible, minimized := isAppWindowVisible()
	if visible && !minimized {
		a.main.Hide()
	} else {
		a.showWindow()
	}
}
