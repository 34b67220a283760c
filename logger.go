package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Each launch gets its own log file; older ones are removed at startup.
const keepLogFiles = 10

var logLevelVar slog.LevelVar

// Log is shared by every component, the coordinator included. Lines logged
// before InitLogger (flag parsing, config load) go to stderr.
var Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevelVar}))

// InitLogger sets the level from the config value and redirects Log into a
// fresh file under LogDir. The level stays "error" unless the config or
// -log-level asks for more, so a normal launch writes almost nothing.
func InitLogger(level string) (*os.File, error) {
	logLevelVar.Set(parseLogLevel(level))

	f, err := openLaunchLog(LogDir(), time.Now())
	if err != nil {
		return nil, err
	}
	pruneLaunchLogs(LogDir(), keepLogFiles)

	Log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: &logLevelVar}))
	return f, nil
}

// openLaunchLog creates dir/splashgate_<timestamp>.log.
func openLaunchLog(dir string, at time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := filepath.Join(dir, "splashgate_"+at.Format("20060102_150405")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// pruneLaunchLogs removes all but the newest keep launch logs in dir. The
// timestamp in the name sorts chronologically.
func pruneLaunchLogs(dir string, keep int) {
	names, err := filepath.Glob(filepath.Join(dir, "splashgate_*.log"))
	if err != nil || len(names) <= keep {
		return
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(name); err != nil {
			Log.Debug("删除旧日志失败", "file", name, "error", err)
		}
	}
}

// SetLogLevel is used by the settings page; no restart needed.
func SetLogLevel(level string) {
	logLevelVar.Set(parseLogLevel(level))
}

// GetLogLevel returns the config spelling of the active level.
func GetLogLevel() string {
	switch logLevelVar.Level() {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	}
	return "error"
}

// LogDir is <data dir>/logs.
func LogDir() string {
	return DataPath("logs")
}

// parseLogLevel maps the config value to a level. Anything unknown means
// "error".
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	}
	return slog.LevelError
}
