//go:build !windows

package main

import (
	"fmt"
	"io"
	"os"
)

// SplashWindow stands in for the native splash on non-Windows platforms by
// writing its text to the console.
type SplashWindow struct {
	splashState
	title string
	out   io.Writer
}

func NewSplashWindow(title string) *SplashWindow {
	return &SplashWindow{title: title, out: os.Stdout}
}

// Show prints the splash title. It is a no-op once closed.
func (s *SplashWindow) Show() error {
	if s.IsClosed() {
		return nil
	}
	fmt.Fprintln(s.out, s.title)
	return nil
}

func (s *SplashWindow) SetText(t string) { fmt.Fprintln(s.out, t) }

// Close implements startup.Window.
func (s *SplashWindow) Close() error {
	return s.markClosed()
}

func (s *SplashWindow) ShowError(msg string) {
	fmt.Fprintln(os.Stderr, "错误:", msg)
}
