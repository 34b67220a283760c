package main

import "splashgate/internal/startup"

// Event name constants for Wails runtime events
const (
	// EventFrontendReady is the default ready signal; config key events.ready
	// overrides it.
	EventFrontendReady   = "frontend-ready"
	EventStartupComplete = "startup-complete"
)

// HandoffPayload is the JSON body of EventStartupComplete.
type HandoffPayload struct {
	StartedAt int64 `json:"startedAt"`
	ElapsedMs int64 `json:"elapsedMs"`
	WaitedMs  int64 `json:"waitedMs"`
	TotalMs   int64 `json:"totalMs"`
}

func newHandoffPayload(h startup.Handoff) HandoffPayload {
	return HandoffPayload{
		StartedAt: h.Started.UnixMilli(),
		ElapsedMs: h.Elapsed.Milliseconds(),
		WaitedMs:  h.Waited.Milliseconds(),
		TotalMs:   h.Total.Milliseconds(),
	}
}
