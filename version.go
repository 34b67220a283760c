package main

// AppTitle is the main window title. The single-instance check and the tray
// look the window up by this title.
const AppTitle = "Splashgate"

// AppVersion is overridden at build time with -ldflags "-X main.AppVersion=...".
var AppVersion = "0.3.0"
