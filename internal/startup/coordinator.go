// Package startup sequences the handoff from the splash window to the main
// window once the frontend reports it is ready.
package startup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Well-known window labels.
const (
	SplashLabel = "splashscreen"
	MainLabel   = "main"
)

// DefaultMinDuration is the shortest time the splash stays on screen.
const DefaultMinDuration = 3 * time.Second

// ErrWindowNotFound is returned by a Registry for an unknown label.
var ErrWindowNotFound = errors.New("window not found")

// Window is a handle to a host window.
type Window interface {
	Close() error
	Show() error
}

// Registry resolves window handles by label.
type Registry interface {
	Window(label string) (Window, error)
}

// Handoff describes one completed splash-to-main transition.
type Handoff struct {
	Started time.Time
	Elapsed time.Duration // start to ready signal
	Waited  time.Duration // artificial hold
	Total   time.Duration // start to main window shown
}

// Coordinator closes the splash window and shows the main window when
// OnFrontendReady is called, holding the splash for at least minDuration.
type Coordinator struct {
	start  time.Time
	splash Window
	main   Window

	minDuration time.Duration
	now         func() time.Time
	sleep       func(time.Duration)
	fatal       func(error)
	onHandoff   func(Handoff)
	log         *slog.Logger

	splashLabel string
	mainLabel   string

	once    sync.Once
	mu      sync.Mutex
	handled bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMinDuration sets the minimum splash display time. Negative values are
// treated as zero.
func WithMinDuration(d time.Duration) Option {
	return func(c *Coordinator) {
		if d < 0 {
			d = 0
		}
		c.minDuration = d
	}
}

// WithClock replaces time.Now and time.Sleep. Used by tests.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithFatal sets the handler for unrecoverable transition failures.
// The default handler panics.
func WithFatal(fn func(error)) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.fatal = fn
		}
	}
}

// WithOnHandoff registers a hook that runs after the main window is shown.
func WithOnHandoff(fn func(Handoff)) Option {
	return func(c *Coordinator) {
		c.onHandoff = fn
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLabels overrides the splash and main window labels.
func WithLabels(splash, main string) Option {
	return func(c *Coordinator) {
		if splash != "" {
			c.splashLabel = splash
		}
		if main != "" {
			c.mainLabel = main
		}
	}
}

// New records the start time and resolves both window handles. A missing
// handle means a broken application bundle; callers should treat the
// returned error as fatal.
func New(reg Registry, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		minDuration: DefaultMinDuration,
		now:         time.Now,
		sleep:       time.Sleep,
		fatal:       func(err error) { panic(err) },
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		splashLabel: SplashLabel,
		mainLabel:   MainLabel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()

	splash, err := reg.Window(c.splashLabel)
	if err != nil {
		return nil, fmt.Errorf("resolve %q window: %w", c.splashLabel, err)
	}
	main, err := reg.Window(c.mainLabel)
	if err != nil {
		return nil, fmt.Errorf("resolve %q window: %w", c.mainLabel, err)
	}
	c.splash = splash
	c.main = main

	c.log.Debug("startup coordinator ready", "splash", c.splashLabel, "main", c.mainLabel, "minDuration", c.minDuration)
	return c, nil
}

// Start returns the time captured by New.
func (c *Coordinator) Start() time.Time {
	return c.start
}

// MinDuration returns the configured splash floor.
func (c *Coordinator) MinDuration() time.Duration {
	return c.minDuration
}

// Handled reports whether the main window has been shown. It stays false
// while the splash is held and after a fatal close or show.
func (c *Coordinator) Handled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handled
}

// OnFrontendReady is the ready-signal callback. It blocks the calling
// goroutine for the rest of the splash floor, then closes the splash and
// shows the main window. Only the first call does anything.
func (c *Coordinator) OnFrontendReady() {
	ran := false
	c.once.Do(func() {
		ran = true
		c.handoff()
	})
	if !ran {
		c.log.Debug("ready signal ignored, handoff already done")
	}
}

func (c *Coordinator) handoff() {
	elapsed := c.now().Sub(c.start)
	wait := RemainingHold(elapsed, c.minDuration)
	c.log.Info("frontend ready", "elapsed", elapsed, "hold", wait)

	// Blocks the ready callback's goroutine for at most minDuration.
	if wait > 0 {
		c.sleep(wait)
	}

	if err := c.splash.Close(); err != nil {
		c.fatal(fmt.Errorf("close %q window: %w", c.splashLabel, err))
		return
	}
	if err := c.main.Show(); err != nil {
		c.fatal(fmt.Errorf("show %q window: %w", c.mainLabel, err))
		return
	}
	c.mu.Lock()
	c.handled = true
	c.mu.Unlock()

	h := Handoff{
		Started: c.start,
		Elapsed: elapsed,
		Waited:  wait,
		Total:   c.now().Sub(c.start),
	}
	c.log.Info("main window shown", "total", h.Total)
	if c.onHandoff != nil {
		c.onHandoff(h)
	}
}

// RemainingHold returns how long the splash still has to stay up once the
// frontend is ready after elapsed.
func RemainingHold(elapsed, minDuration time.Duration) time.Duration {
	if elapsed >= minDuration {
		return 0
	}
	return minDuration - elapsed
}
