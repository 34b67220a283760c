//go:build windows

package main

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Win32 API references for the splash window
var (
	spUser32   = windows.NewLazySystemDLL("user32.dll")
	spKernel32 = windows.NewLazySystemDLL("kernel32.dll")
	spGdi32    = windows.NewLazySystemDLL("gdi32.dll")

	spRegisterClassExW = spUser32.NewProc("RegisterClassExW")
	spCreateWindowExW  = spUser32.NewProc("CreateWindowExW")
	spDefWindowProcW   = spUser32.NewProc("DefWindowProcW")
	spShowWindow       = spUser32.NewProc("ShowWindow")
	spUpdateWindow     = spUser32.NewProc("UpdateWindow")
	spGetMessageW      = spUser32.NewProc("GetMessageW")
	spTranslateMessage = spUser32.NewProc("TranslateMessage")
	spDispatchMessageW = spUser32.NewProc("DispatchMessageW")
	spPostMessageW     = spUser32.NewProc("PostMessageW")
	spSetWindowTextW   = spUser32.NewProc("SetWindowTextW")
	spGetSystemMetrics = spUser32.NewProc("GetSystemMetrics")
	spSendMessageW     = spUser32.NewProc("SendMessageW")
	spPostQuitMessage  = spUser32.NewProc("PostQuitMessage")
	spGetModuleHandleW = spKernel32.NewProc("GetModuleHandleW")
	spGetStockObject   = spGdi32.NewProc("GetStockObject")
)

// Win32 constants
const (
	spWsPopup     = 0x80000000
	spWsBorder    = 0x00800000
	spWsVisible   = 0x10000000
	spWsChild     = 0x40000000
	spWsExTopmost = 0x00000008
	spWsExToolWin = 0x00000080
	spSsCenter    = 0x00000001
	spSmCxscreen  = 0
	spSmCyscreen  = 1
	spSwShow      = 5
	spWmDestroy   = 0x0002
	spWmClose     = 0x0010
	spWmSetfont   = 0x0030
	spWmUser      = 0x0400
	spDefGuiFont  = 17
	spColorWindow = 5

	spWmUpdateText = spWmUser + 100
)

type spWndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

type spPoint struct{ x, y int32 }
type spMsg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      spPoint
}

// Shared state for the splash window (single instance)
var (
	spMu    sync.Mutex
	spText  string
	spLabel uintptr
)

func spWndProc(hwnd, umsg, wParam, lParam uintptr) uintptr {
	switch umsg {
	case spWmDestroy:
		spPostQuitMessage.Call(0)
		return 0
	case spWmUpdateText:
		spMu.Lock()
		t := spText
		label := spLabel
		spMu.Unlock()
		if label != 0 {
			ptr, _ := windows.UTF16PtrFromString(t)
			spSetWindowTextW.Call(label, uintptr(unsafe.Pointer(ptr)))
		}
		return 0
	}
	ret, _, _ := spDefWindowProcW.Call(hwnd, umsg, wParam, lParam)
	return ret
}

// SplashWindow is a borderless native window with a single centered label,
// shown before the WebView is created.
type SplashWindow struct {
	splashState
	title string

	showOnce sync.Once
	showErr  error
	hwnd     uintptr
	ready    chan struct{}
}

func NewSplashWindow(title string) *SplashWindow {
	return &SplashWindow{title: title, ready: make(chan struct{})}
}

// Show creates the window on a dedicated OS thread that runs its message
// pump, and returns once the window is visible.
func (s *SplashWindow) Show() error {
	s.showOnce.Do(func() {
		go s.run()
		<-s.ready
		if s.hwnd == 0 {
			s.showErr = errors.New("create splash window failed")
		}
	})
	return s.showErr
}

func (s *SplashWindow) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hInst, _, _ := spGetModuleHandleW.Call(0)
	className, _ := windows.UTF16PtrFromString("SplashgateSplash")

	wc := spWndClassEx{
		lpfnWndProc:   windows.NewCallback(spWndProc),
		hInstance:     hInst,
		hbrBackground: spColorWindow + 1,
		lpszClassName: className,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	spRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))

	const w, h = 420, 140
	sw, _, _ := spGetSystemMetrics.Call(spSmCxscreen)
	sh, _, _ := spGetSystemMetrics.Call(spSmCyscreen)
	x := (int(sw) - w) / 2
	y := (int(sh) - h) / 2

	title, _ := windows.UTF16PtrFromString(s.title)
	hwnd, _, _ := spCreateWindowExW.Call(
		spWsExTopmost|spWsExToolWin,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		spWsPopup|spWsBorder,
		uintptr(x), uintptr(y), w, h,
		0, 0, hInst, 0,
	)
	if hwnd == 0 {
		close(s.ready)
		return
	}
	s.hwnd = hwnd

	staticClass, _ := windows.UTF16PtrFromString("STATIC")
	spMu.Lock()
	initial := spText
	spMu.Unlock()
	if initial == "" {
		initial = s.title
	}
	initText, _ := windows.UTF16PtrFromString(initial)
	label, _, _ := spCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(staticClass)),
		uintptr(unsafe.Pointer(initText)),
		spWsChild|spWsVisible|spSsCenter,
		10, 50, w-20, 40,
		hwnd, 0, hInst, 0,
	)
	spMu.Lock()
	spLabel = label
	spMu.Unlock()

	hFont, _, _ := spGetStockObject.Call(spDefGuiFont)
	spSendMessageW.Call(label, spWmSetfont, hFont, 1)

	spShowWindow.Call(hwnd, spSwShow)
	spUpdateWindow.Call(hwnd)

	close(s.ready)

	// Message pump
	var m spMsg
	for {
		ret, _, _ := spGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if ret == 0 || int32(ret) == -1 {
			break
		}
		spTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		spDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}

	spMu.Lock()
	spLabel = 0
	spMu.Unlock()
}

func (s *SplashWindow) SetText(text string) {
	spMu.Lock()
	spText = text
	spMu.Unlock()
	if s.hwnd != 0 && !s.IsClosed() {
		spPostMessageW.Call(s.hwnd, spWmUpdateText, 0, 0)
	}
}

// Close implements startup.Window.
func (s *SplashWindow) Close() error {
	if err := s.markClosed(); err != nil {
		return err
	}
	if s.hwnd == 0 {
		return nil
	}
	if r, _, err := spPostMessageW.Call(s.hwnd, spWmClose, 0, 0); r == 0 {
		return fmt.Errorf("post WM_CLOSE: %w", err)
	}
	return nil
}

func (s *SplashWindow) ShowError(message string) {
	text, _ := windows.UTF16PtrFromString(message)
	title, _ := windows.UTF16PtrFromString(s.title)
	windows.MessageBox(0, text, title, windows.MB_OK|windows.MB_ICONERROR)
}
