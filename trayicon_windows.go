//go:build windows

package main

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// trayIcon returns the ICO-format icon bytes for Windows systray.
func trayIcon() []byte {
	png := appIconPNG()
	return pngToICO(png, decodeIconSize(png))
}

var (
	trUser32           = windows.NewLazySystemDLL("User32.dll")
	trFindWindowW      = trUser32.NewProc("FindWindowW")
	trIsWindowVisible  = trUser32.NewProc("IsWindowVisible")
	trIsIconic         = trUser32.NewProc("IsIconic")
	trCallWindowProcW  = trUser32.NewProc("CallWindowProcW")
	trSetWindowLongPtr = trUser32.NewProc("SetWindowLongPtrW")
	trSetWindowLong    = trUser32.NewProc("SetWindowLongW")
)

const (
	trWmSystray  = 0x0400 + 1 // systray-on-wails notifies with WM_USER+1
	trLButtonUp  = 0x0202
	trGwlWndProc = ^uintptr(3) // GWLP_WNDPROC (-4)
)

var (
	trOrigWndProc uintptr
	trOnClick     func()
)

// trayWndProc toggles the main window on left click and passes everything
// else (right-click menu included) to the library's window procedure.
func trayWndProc(hWnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	if msg == trWmSystray && lParam == trLButtonUp && trOnClick != nil {
		go trOnClick()
		return 0
	}
	ret, _, _ := trCallWindowProcW.Call(trOrigWndProc, hWnd, uintptr(msg), wParam, lParam)
	return ret
}

// subclassSystray hooks the hidden "SystrayClass" window created by
// systray-on-wails. Must run inside the systray onReady callback.
func subclassSystray(onClick func()) {
	trOnClick = onClick

	className, _ := windows.UTF16PtrFromString("SystrayClass")
	hwnd, _, _ := trFindWindowW.Call(uintptr(unsafe.Pointer(className)), 0)
	if hwnd == 0 {
		Log.Debug("systray window not found, click toggle disabled")
		return
	}

	cb := windows.NewCallback(trayWndProc)
	// SetWindowLongPtrW is missing from 32-bit user32.dll.
	if trSetWindowLongPtr.Find() == nil {
		trOrigWndProc, _, _ = trSetWindowLongPtr.Call(hwnd, trGwlWndProc, cb)
		return
	}
	trOrigWndProc, _, _ = trSetWindowLong.Call(hwnd, trGwlWndProc, cb)
}

// isAppWindowVisible reports the main window state from the OS, which is the
// only source that sees hides done outside the app.
func isAppWindowVisible() (visible bool, minimized bool) {
	title, _ := windows.UTF16PtrFromString(AppTitle)
	hwnd, _, _ := trFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if hwnd == 0 {
		return false, false
	}
	v, _, _ := trIsWindowVisible.Call(hwnd)
	m, _, _ := trIsIconic.Call(hwnd)
	return v != 0, m != 0
}
