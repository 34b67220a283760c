//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

const siSwRestore = 9

var (
	siFindWindowW         = trUser32.NewProc("FindWindowW")
	siSetForegroundWindow = trUser32.NewProc("SetForegroundWindow")
	siShowWindow          = trUser32.NewProc("ShowWindow")
)

// ensureSingleInstance holds a named mutex for the life of the process. A
// second launch focuses the running window and exits.
func ensureSingleInstance() func() {
	name, _ := windows.UTF16PtrFromString(`Global\Splashgate_SingleInstance`)

	handle, err := windows.CreateMutex(nil, false, name)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if handle != 0 {
			windows.CloseHandle(handle)
		}
		fmt.Println(AppTitle + " 已在运行中")
		bringExistingWindowToFront()
		os.Exit(0)
	}
	if err != nil {
		fmt.Println("创建互斥锁失败:", err)
		os.Exit(1)
	}

	// Also create a lock file as a secondary indicator
	lockPath := filepath.Join(AppDataDir(), "splashgate.lock")
	lockFile, _ := os.Create(lockPath)
	if lockFile != nil {
		fmt.Fprintf(lockFile, "%d", os.Getpid())
	}

	return func() {
		windows.CloseHandle(handle)
		if lockFile != nil {
			lockFile.Close()
		}
		os.Remove(lockPath)
	}
}

func bringExistingWindowToFront() {
	title, _ := windows.UTF16PtrFromString(AppTitle)
	hwnd, _, _ := siFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if hwnd != 0 {
		siShowWindow.Call(hwnd, siSwRestore)
		siSetForegroundWindow.Call(hwnd)
	}
}
