// Package app drives a scene against a display: poll, render, limit, repeat.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tabula/internal/config"
	"tabula/internal/input"
	"tabula/internal/logging"
	"tabula/internal/profiling"
	"tabula/internal/scene"
	"tabula/internal/timing"
)

// Display is a window that can draw scene frames
type Display interface {
	// Poll delivers every pending event without blocking
	Poll(handle func(input.Event))
	Render(f scene.Frame) error
	SetTitle(title string)
	// LoadImage replaces the canvas image
	LoadImage(path string) error
	// ImageSize is the size in pixels of the current image
	ImageSize() (w, h int32)
	Close() error
}

// Ticker reports milliseconds since start
type Ticker interface {
	Ticks() uint32
}

// Reloader signals that the canvas image changed on disk
type Reloader interface {
	Changed() <-chan struct{}
	Errors() <-chan error
}

// Options configures an App. Display and Scene are required.
type Options struct {
	Display Display
	Scene   *scene.Scene
	Clock   Ticker
	Limiter timing.Limiter
	Logger  *logging.Logger

	// Reloader and ImagePath enable hot reload of the canvas image
	Reloader  Reloader
	ImagePath string

	// FrameBudget is the processing time above which a frame is reported as slow.
	// Zero derives it from the configured frame limit.
	FrameBudget time.Duration
}

// ErrNoDisplay is returned by New without a display
const ErrNoDisplay = logging.ConstErr("app: no display")

// ErrNoScene is returned by New without a scene
const ErrNoScene = logging.ConstErr("app: no scene")

// App is the main loop state
type App struct {
	display Display
	scene   *scene.Scene
	clock   Ticker
	limiter timing.Limiter
	log     *logging.Logger

	reloader  Reloader
	imagePath string
	budget    time.Duration
}

// New creates an App, filling in a clock, limiter and silent logger when absent
func New(opts Options) (*App, error) {
	if opts.Display == nil {
		return nil, ErrNoDisplay
	}
	if opts.Scene == nil {
		return nil, ErrNoScene
	}
	a := &App{
		display:   opts.Display,
		scene:     opts.Scene,
		clock:     opts.Clock,
		limiter:   opts.Limiter,
		log:       opts.Logger,
		reloader:  opts.Reloader,
		imagePath: opts.ImagePath,
		budget:    opts.FrameBudget,
	}
	if a.clock == nil {
		a.clock = timing.NewClock()
	}
	if a.limiter == nil {
		a.limiter = timing.NewFPSLimiter()
	}
	if a.log == nil {
		a.log = logging.New()
	}
	a.scene.SetImageSize(a.display.ImageSize())
	return a, nil
}

// Run builds an App from opts and runs it
func Run(ctx context.Context, opts Options) error {
	a, err := New(opts)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// Run loops until the scene stops or ctx is cancelled. At least one frame is
// rendered before a quit is acted on. It returns nil after a quit and a
// wrapped error when rendering fails.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := a.tick(ctx); err != nil {
			return err
		}
		if !a.scene.Running() {
			a.log.Debugf("quit observed")
			return nil
		}
	}
}

func (a *App) tick(ctx context.Context) error {
	profiling.ResetFrame()
	start := time.Now()

	func() { defer profiling.Track("display.Poll")(); a.display.Poll(a.scene.HandleEvent) }()
	if ctx.Err() != nil {
		a.scene.Stop()
	}
	a.reload()

	var f scene.Frame
	func() { defer profiling.Track("scene.Frame")(); f = a.scene.Frame(a.clock.Ticks()) }()
	if f.Title != "" {
		a.display.SetTitle(f.Title)
	}

	var err error
	func() { defer profiling.Track("display.Render")(); err = a.display.Render(f) }()
	if err != nil {
		return fmt.Errorf("render frame %d: %w", f.Number, err)
	}

	if d := time.Since(start); a.slow(d) {
		a.log.Perff("Slow frame: %v, display %v. Top tasks: %s", d, profiling.SumWithPrefix("display."), profiling.TopN(3))
	}

	func() { defer profiling.Track("limiter.Wait")(); a.limiter.Wait() }()
	return nil
}

func (a *App) slow(d time.Duration) bool {
	budget := a.budget
	if budget <= 0 {
		fps := config.GetFPSLimit()
		if fps <= 0 {
			return false
		}
		budget = time.Second / time.Duration(fps)
	}
	return d > budget
}

// reload applies at most one pending image change
func (a *App) reload() {
	if a.reloader == nil {
		return
	}
	select {
	case <-a.reloader.Changed():
		defer profiling.Track("display.LoadImage")()
		if err := a.display.LoadImage(a.imagePath); err != nil {
			// the previous image stays on screen
			a.log.Error(fmt.Errorf("reload %q: %w", a.imagePath, err))
			return
		}
		a.scene.SetImageSize(a.display.ImageSize())
		a.log.Infof("reloaded %s", a.imagePath)
	case err := <-a.reloader.Errors():
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error(fmt.Errorf("watch %q: %w", a.imagePath, err))
		}
	default:
	}
}
