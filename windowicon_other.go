//go:build !windows

package main

// applyWindowIcon is a no-op; Wails sets the icon from the bundle elsewhere.
func applyWindowIcon() {}
