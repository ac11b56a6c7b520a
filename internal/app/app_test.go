package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"tabula/internal/config"
	"tabula/internal/geom"
	"tabula/internal/input"
	"tabula/internal/logging"
	"tabula/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDisplay replays one batch of events per Poll call
type fakeDisplay struct {
	batches   [][]input.Event
	polls     int
	frames    []scene.Frame
	titles    []string
	loads     []string
	loadErr   error
	renderErr error
	onPoll    func(n int)
	size      geom.Point
}

func (d *fakeDisplay) Poll(handle func(input.Event)) {
	if d.onPoll != nil {
		d.onPoll(d.polls)
	}
	if d.polls < len(d.batches) {
		for _, ev := range d.batches[d.polls] {
			handle(ev)
		}
	}
	d.polls++
}

func (d *fakeDisplay) Render(f scene.Frame) error {
	if d.renderErr != nil {
		return d.renderErr
	}
	d.frames = append(d.frames, f)
	return nil
}

func (d *fakeDisplay) SetTitle(title string) { d.titles = append(d.titles, title) }

func (d *fakeDisplay) LoadImage(path string) error {
	d.loads = append(d.loads, path)
	return d.loadErr
}

func (d *fakeDisplay) ImageSize() (w, h int32) { return d.size.X, d.size.Y }

func (d *fakeDisplay) Close() error { return nil }

type countingLimiter struct{ waits int }

func (l *countingLimiter) Wait() { l.waits++ }

// stepClock advances by step on every read
type stepClock struct{ now, step uint32 }

func (c *stepClock) Ticks() uint32 {
	c.now += c.step
	return c.now
}

type fakeReloader struct {
	changed chan struct{}
	errs    chan error
}

func newFakeReloader() *fakeReloader {
	return &fakeReloader{changed: make(chan struct{}, 1), errs: make(chan error, 1)}
}

func (r *fakeReloader) Changed() <-chan struct{} { return r.changed }
func (r *fakeReloader) Errors() <-chan error     { return r.errs }

func newScene(t *testing.T, variant string) *scene.Scene {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = variant
	opts, err := scene.OptionsFromConfig(cfg)
	require.NoError(t, err)
	return scene.New(opts)
}

func TestNewRequiresDisplayAndScene(t *testing.T) {
	_, err := New(Options{Scene: newScene(t, config.VariantPan)})
	assert.ErrorIs(t, err, ErrNoDisplay)

	_, err = New(Options{Display: &fakeDisplay{}})
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestQuitOnFirstPollStillRendersOneFrame(t *testing.T) {
	d := &fakeDisplay{batches: [][]input.Event{{input.Quit{}}}}
	lim := &countingLimiter{}

	err := Run(context.Background(), Options{
		Display: d,
		Scene:   newScene(t, config.VariantPan),
		Clock:   &stepClock{step: 10},
		Limiter: lim,
	})
	require.NoError(t, err)
	assert.Len(t, d.frames, 1)
	assert.Equal(t, 1, lim.waits)
}

func TestRunsUntilQuit(t *testing.T) {
	d := &fakeDisplay{batches: [][]input.Event{
		nil,
		{input.MouseButton{Button: input.ButtonRight, Pressed: true, Pos: geom.Point{X: 10, Y: 10}}},
		{input.MouseMotion{Pos: geom.Point{X: 20, Y: 30}}},
		{input.KeyPress{Key: input.KeyEscape, Pressed: true}},
	}}

	err := Run(context.Background(), Options{
		Display: d,
		Scene:   newScene(t, config.VariantPan),
		Clock:   &stepClock{step: 4},
		Limiter: &countingLimiter{},
	})
	require.NoError(t, err)
	require.Len(t, d.frames, 4)

	last := d.frames[3]
	assert.Equal(t, int32(10), last.Canvas.X)
	assert.Equal(t, int32(20), last.Canvas.Y)
	require.Len(t, last.Texts, 2)
	assert.Equal(t, "FPS: 250", last.Texts[0].Value)
	assert.Equal(t, "(20, 30)", last.Texts[1].Value)
	assert.Empty(t, d.titles, "pan variant keeps the initial title")
}

func TestTimingVariantSetsTitleEveryFrame(t *testing.T) {
	d := &fakeDisplay{batches: [][]input.Event{nil, nil, {input.Quit{}}}}

	err := Run(context.Background(), Options{
		Display: d,
		Scene:   newScene(t, config.VariantTiming),
		Clock:   &stepClock{step: 16},
		Limiter: &countingLimiter{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"test - 16ms", "test - 16ms", "test - 16ms"}, d.titles)
}

func TestContextCancelIsQuit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &fakeDisplay{onPoll: func(n int) {
		if n == 2 {
			cancel()
		}
	}}

	err := Run(ctx, Options{
		Display: d,
		Scene:   newScene(t, config.VariantStatic),
		Limiter: &countingLimiter{},
	})
	require.NoError(t, err)
	assert.Len(t, d.frames, 3)
}

func TestRenderErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	d := &fakeDisplay{renderErr: boom}

	err := Run(context.Background(), Options{
		Display: d,
		Scene:   newScene(t, config.VariantPan),
		Limiter: &countingLimiter{},
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "render frame 1")
}

func TestHotReload(t *testing.T) {
	var buf bytes.Buffer
	lg := logging.New()
	lg.Enable(&buf, logging.Info, logging.Warn)

	r := newFakeReloader()
	d := &fakeDisplay{
		batches: [][]input.Event{nil, nil, {input.Quit{}}},
		onPoll: func(n int) {
			if n == 1 {
				r.changed <- struct{}{}
			}
		},
	}

	err := Run(context.Background(), Options{
		Display:   d,
		Scene:     newScene(t, config.VariantPan),
		Limiter:   &countingLimiter{},
		Logger:    lg,
		Reloader:  r,
		ImagePath: "monkaW.png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"monkaW.png"}, d.loads)
	assert.Contains(t, buf.String(), "reloaded monkaW.png")
}

func TestHotReloadFailureKeepsRunning(t *testing.T) {
	var buf bytes.Buffer
	lg := logging.New()
	lg.Enable(&buf, logging.Warn)

	r := newFakeReloader()
	r.changed <- struct{}{}
	r.errs <- errors.New("watcher overflow")
	d := &fakeDisplay{
		batches: [][]input.Event{nil, nil, {input.Quit{}}},
		loadErr: errors.New("not an image"),
	}

	err := Run(context.Background(), Options{
		Display:   d,
		Scene:     newScene(t, config.VariantPan),
		Limiter:   &countingLimiter{},
		Logger:    lg,
		Reloader:  r,
		ImagePath: "broken.png",
	})
	require.NoError(t, err)
	assert.Len(t, d.frames, 3)
	assert.Contains(t, buf.String(), `reload "broken.png": not an image`)
	assert.Contains(t, buf.String(), "watcher overflow")
}

func TestSlowFrameIsReported(t *testing.T) {
	var buf bytes.Buffer
	lg := logging.New()
	lg.Enable(&buf, logging.Perf)

	d := &fakeDisplay{
		batches: [][]input.Event{{input.Quit{}}},
		onPoll:  func(int) { time.Sleep(5 * time.Millisecond) },
	}
	err := Run(context.Background(), Options{
		Display:     d,
		Scene:       newScene(t, config.VariantPan),
		Limiter:     &countingLimiter{},
		Logger:      lg,
		FrameBudget: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Slow frame")
	assert.Contains(t, buf.String(), ", display ")
	assert.Contains(t, buf.String(), "display.Poll")
}

func TestImageSizeFollowsReload(t *testing.T) {
	r := newFakeReloader()
	pointer := input.MouseMotion{Pos: geom.Point{X: 320, Y: 225}}
	d := &fakeDisplay{
		size:    geom.Point{X: 64, Y: 45},
		batches: [][]input.Event{{pointer}, nil, {pointer, input.Quit{}}},
	}
	d.onPoll = func(n int) {
		if n == 1 {
			d.size = geom.Point{X: 1280, Y: 900}
			r.changed <- struct{}{}
		}
	}

	err := Run(context.Background(), Options{
		Display:   d,
		Scene:     newScene(t, config.VariantViewer),
		Limiter:   &countingLimiter{},
		Reloader:  r,
		ImagePath: "monkaW.png",
	})
	require.NoError(t, err)
	require.Len(t, d.frames, 3)
	assert.Equal(t, "(32, 22)", d.frames[0].Texts[2].Value)
	assert.Equal(t, "(640, 450)", d.frames[2].Texts[2].Value)
}
