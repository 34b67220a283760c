package main

import (
	"context"
	"errors"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var errNoRuntime = errors.New("wails runtime not started")

// mainWindow is the Wails window, created hidden (StartHidden) and revealed by
// the startup coordinator.
type mainWindow struct {
	ctx context.Context
}

// Show implements startup.Window.
func (w *mainWindow) Show() error {
	if w.ctx == nil {
		return errNoRuntime
	}
	wailsRuntime.WindowShow(w.ctx)
	wailsRuntime.WindowUnminimise(w.ctx)
	return nil
}

// Close implements startup.Window. Closing the main window quits the app.
func (w *mainWindow) Close() error {
	if w.ctx == nil {
		return errNoRuntime
	}
	wailsRuntime.Quit(w.ctx)
	return nil
}

// Hide hides the window without quitting; used by the tray toggle.
func (w *mainWindow) Hide() {
	if w.ctx != nil {
		wailsRuntime.WindowHide(w.ctx)
	}
}
