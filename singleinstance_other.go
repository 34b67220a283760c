//go:build !windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ensureSingleInstance exits the process if another instance holds the PID
// lock file. Returns a cleanup function to call on exit.
func ensureSingleInstance() func() {
	return acquireLockFile(filepath.Join(AppDataDir(), "splashgate.lock"))
}

func acquireLockFile(lockPath string) func() {
	if lockHeldByLiveProcess(lockPath) {
		fmt.Println(AppTitle + " 已在运行中")
		os.Exit(0)
	}

	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		Log.Error("写入锁文件失败", "path", lockPath, "error", err)
	}

	return func() {
		os.Remove(lockPath)
	}
}

// lockHeldByLiveProcess reports whether lockPath names a running process
// other than this one.
func lockHeldByLiveProcess(lockPath string) bool {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || pid == os.Getpid() {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds; signal 0 checks liveness.
	return process.Signal(syscall.Signal(0)) == nil
}
