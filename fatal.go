package main

import (
	"errors"

	"github.com/gen2brain/beeep"
)

// abort handles an unrecoverable startup failure: a missing window handle or
// a failed close/show. It never returns unless exit is stubbed.
func (a *DesktopApp) abort(err error) {
	Log.Error("启动失败", "error", err)

	msg := "启动失败: " + err.Error()
	if a.splash != nil {
		// The splash may be what failed; it may already be closed.
		if cerr := a.splash.Close(); cerr != nil && !errors.Is(cerr, ErrSplashClosed) {
			Log.Error("关闭启动画面失败", "error", cerr)
		}
	}
	if aerr := a.alert(AppTitle, msg); aerr != nil && a.splash != nil {
		a.splash.ShowError(msg)
	}
	a.exit(1)
}

// nativeAlert shows a desktop notification with the platform alert sound.
func nativeAlert(title, message string) error {
	return beeep.Alert(title, message, "")
}
