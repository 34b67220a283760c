package startup

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// opLog records window operations across both fake windows in call order.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

type fakeWindow struct {
	name     string
	log      *opLog
	closeErr error
	showErr  error
	closed   bool
	shownAt  time.Time
	clock    *fakeClock
}

func (w *fakeWindow) Close() error {
	if w.log != nil {
		w.log.add(w.name + ".close")
	}
	if w.closeErr != nil {
		return w.closeErr
	}
	if w.closed {
		return errors.New("already closed")
	}
	w.closed = true
	return nil
}

func (w *fakeWindow) Show() error {
	if w.log != nil {
		w.log.add(w.name + ".show")
	}
	if w.showErr != nil {
		return w.showErr
	}
	if w.clock != nil {
		w.shownAt = w.clock.Now()
	}
	return nil
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

type fixture struct {
	clock  *fakeClock
	log    *opLog
	splash *fakeWindow
	main   *fakeWindow
	reg    *MapRegistry
}

func newFixture() *fixture {
	f := &fixture{clock: newFakeClock(), log: &opLog{}}
	f.splash = &fakeWindow{name: "splash", log: f.log, clock: f.clock}
	f.main = &fakeWindow{name: "main", log: f.log, clock: f.clock}
	f.reg = NewMapRegistry()
	f.reg.Register(SplashLabel, f.splash)
	f.reg.Register(MainLabel, f.main)
	return f
}

func (f *fixture) coordinator(t *testing.T, opts ...Option) *Coordinator {
	t.Helper()
	opts = append([]Option{WithClock(f.clock.Now, f.clock.Sleep)}, opts...)
	c, err := New(f.reg, opts...)
	require.NoError(t, err)
	return c
}

func TestRemainingHold(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		min     time.Duration
		want    time.Duration
	}{
		{"ready immediately", 0, 3 * time.Second, 3 * time.Second},
		{"ready early", 500 * time.Millisecond, 3 * time.Second, 2500 * time.Millisecond},
		{"ready exactly at floor", 3 * time.Second, 3 * time.Second, 0},
		{"ready late", 5 * time.Second, 3 * time.Second, 0},
		{"no floor", time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RemainingHold(tt.elapsed, tt.min))
		})
	}
}

func TestReadyEarlyHoldsSplash(t *testing.T) {
	f := newFixture()
	var got Handoff
	c := f.coordinator(t, WithOnHandoff(func(h Handoff) { got = h }))

	f.clock.Advance(500 * time.Millisecond)
	c.OnFrontendReady()

	require.Equal(t, []time.Duration{2500 * time.Millisecond}, f.clock.Sleeps())
	require.Equal(t, 3*time.Second, f.main.shownAt.Sub(c.Start()))
	require.Equal(t, 500*time.Millisecond, got.Elapsed)
	require.Equal(t, 2500*time.Millisecond, got.Waited)
	require.Equal(t, 3*time.Second, got.Total)
	require.Equal(t, c.Start(), got.Started)
}

func TestReadyLateDoesNotWait(t *testing.T) {
	f := newFixture()
	var got Handoff
	c := f.coordinator(t, WithOnHandoff(func(h Handoff) { got = h }))

	f.clock.Advance(5 * time.Second)
	c.OnFrontendReady()

	require.Empty(t, f.clock.Sleeps())
	require.Equal(t, 5*time.Second, f.main.shownAt.Sub(c.Start()))
	require.Zero(t, got.Waited)
	require.Equal(t, 5*time.Second, got.Total)
}

func TestTimeToMainNeverBelowFloor(t *testing.T) {
	floor := 3 * time.Second
	for _, elapsed := range []time.Duration{0, time.Millisecond, time.Second, 2999 * time.Millisecond, floor, 4 * time.Second} {
		f := newFixture()
		c := f.coordinator(t, WithMinDuration(floor))

		f.clock.Advance(elapsed)
		c.OnFrontendReady()

		shown := f.main.shownAt.Sub(c.Start())
		require.GreaterOrEqual(t, shown, floor, "elapsed=%s", elapsed)
		if elapsed >= floor {
			require.Empty(t, f.clock.Sleeps(), "elapsed=%s", elapsed)
		}
	}
}

func TestSplashClosedBeforeMainShown(t *testing.T) {
	f := newFixture()
	c := f.coordinator(t)

	c.OnFrontendReady()

	require.Equal(t, []string{"splash.close", "main.show"}, f.log.list())
	require.True(t, f.splash.closed)
	require.True(t, c.Handled())
}

func TestSecondReadySignalIgnored(t *testing.T) {
	f := newFixture()
	handoffs := 0
	fatal := 0
	c := f.coordinator(t,
		WithOnHandoff(func(Handoff) { handoffs++ }),
		WithFatal(func(error) { fatal++ }),
	)

	c.OnFrontendReady()
	c.OnFrontendReady()

	require.Equal(t, []string{"splash.close", "main.show"}, f.log.list())
	require.Equal(t, 1, handoffs)
	require.Zero(t, fatal)
}

func TestConcurrentReadySignalsHandOffOnce(t *testing.T) {
	f := newFixture()
	var mu sync.Mutex
	handoffs := 0
	c := f.coordinator(t, WithOnHandoff(func(Handoff) {
		mu.Lock()
		handoffs++
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.OnFrontendReady()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, handoffs)
	require.Len(t, f.log.list(), 2)
}

func TestReadyNeverFiresLeavesWindowsAlone(t *testing.T) {
	f := newFixture()
	c := f.coordinator(t)

	f.clock.Advance(time.Hour)

	require.Empty(t, f.log.list())
	require.False(t, c.Handled())
	require.False(t, f.splash.closed)
}

func TestMissingWindowFailsInitialize(t *testing.T) {
	tests := []struct {
		name    string
		present string
		missing string
	}{
		{"no splash", MainLabel, SplashLabel},
		{"no main", SplashLabel, MainLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewMapRegistry()
			reg.Register(tt.present, &fakeWindow{name: tt.present})

			_, err := New(reg)
			require.ErrorIs(t, err, ErrWindowNotFound)
			require.ErrorContains(t, err, tt.missing)
		})
	}
}

func TestCloseFailureIsFatal(t *testing.T) {
	f := newFixture()
	boom := errors.New("handle invalid")
	f.splash.closeErr = boom
	var fatalErr error
	handoffs := 0
	c := f.coordinator(t,
		WithFatal(func(err error) { fatalErr = err }),
		WithOnHandoff(func(Handoff) { handoffs++ }),
	)

	c.OnFrontendReady()

	require.ErrorIs(t, fatalErr, boom)
	require.Equal(t, []string{"splash.close"}, f.log.list())
	require.Zero(t, handoffs)
	require.False(t, c.Handled())
}

func TestShowFailureIsFatal(t *testing.T) {
	f := newFixture()
	boom := errors.New("show failed")
	f.main.showErr = boom
	var fatalErr error
	c := f.coordinator(t, WithFatal(func(err error) { fatalErr = err }))

	c.OnFrontendReady()

	require.ErrorIs(t, fatalErr, boom)
	require.ErrorContains(t, fatalErr, MainLabel)
	require.False(t, c.Handled())
}

func TestDefaultFatalPanics(t *testing.T) {
	f := newFixture()
	f.splash.closeErr = errors.New("gone")
	c := f.coordinator(t)

	require.Panics(t, c.OnFrontendReady)
}

func TestCustomLabelsAndNegativeFloor(t *testing.T) {
	f := newFixture()
	f.reg.Register("boot", f.splash)
	f.reg.Register("app", f.main)
	c := f.coordinator(t, WithLabels("boot", "app"), WithMinDuration(-time.Second))

	require.Zero(t, c.MinDuration())
	c.OnFrontendReady()

	require.Empty(t, f.clock.Sleeps())
	require.Equal(t, []string{"splash.close", "main.show"}, f.log.list())
}

func TestRealClockHoldsForFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	f := newFixture()
	c, err := New(f.reg, WithMinDuration(50*time.Millisecond))
	require.NoError(t, err)

	c.OnFrontendReady()

	require.GreaterOrEqual(t, time.Since(c.Start()), 50*time.Millisecond)
}
