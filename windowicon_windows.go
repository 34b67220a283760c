//go:build windows

package main

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	wiSendMessageW             = trUser32.NewProc("SendMessageW")
	wiCreateIconFromResourceEx = trUser32.NewProc("CreateIconFromResourceEx")
	wiIsWindow                 = trUser32.NewProc("IsWindow")
	wiGetWindowThreadProcessId = trUser32.NewProc("GetWindowThreadProcessId")
	wiDestroyIcon              = trUser32.NewProc("DestroyIcon")
)

const (
	wiWmSetIcon      = 0x0080
	wiIconVersion    = 0x00030000
	wiLrDefaultColor = 0
)

var (
	wiCachedHwnd uintptr
	wiIcons      [2]uintptr // small, big
)

// findMainHwnd locates the Wails window by title, restricted to this process.
func findMainHwnd() uintptr {
	if wiCachedHwnd != 0 {
		if ret, _, _ := wiIsWindow.Call(wiCachedHwnd); ret != 0 {
			return wiCachedHwnd
		}
		wiCachedHwnd = 0
	}
	title, _ := windows.UTF16PtrFromString(AppTitle)
	hwnd, _, _ := trFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if hwnd == 0 {
		return 0
	}
	var pid uint32
	wiGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid != uint32(os.Getpid()) {
		return 0
	}
	wiCachedHwnd = hwnd
	return hwnd
}

// applyWindowIcon sets the generated app icon on the main window's title bar
// and taskbar entry.
func applyWindowIcon() {
	hwnd := findMainHwnd()
	if hwnd == 0 {
		Log.Debug("main window not found, icon unchanged")
		return
	}

	data := appIconPNG()
	if len(data) == 0 {
		return
	}
	for which, size := range [2]int{16, 32} { // ICON_SMALL, ICON_BIG
		hIcon, _, _ := wiCreateIconFromResourceEx.Call(
			uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)), 1, wiIconVersion,
			uintptr(size), uintptr(size), wiLrDefaultColor,
		)
		if hIcon == 0 {
			continue
		}
		wiSendMessageW.Call(hwnd, wiWmSetIcon, uintptr(which), hIcon)
		if wiIcons[which] != 0 {
			wiDestroyIcon.Call(wiIcons[which])
		}
		wiIcons[which] = hIcon
	}
}
