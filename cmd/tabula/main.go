package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"tabula/internal/app"
	"tabula/internal/config"
	"tabula/internal/logging"
	"tabula/internal/profiling"
	"tabula/internal/scene"
	"tabula/internal/watch"

	"github.com/spf13/pflag"
)

// GL and SDL calls must stay on the main thread
func init() {
	runtime.LockOSThread()
}

func main() {
	lg := logging.New()

	cfg, lo, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	levels := setupLogging(lg, lo, os.Stderr)
	if err != nil {
		lg.Fatalf("invalid arguments: %v", err)
	}
	if lo.printConfig {
		data, err := config.Encode(cfg)
		if err != nil {
			lg.Fatal(err)
		}
		if _, err := os.Stdout.Write(data); err != nil {
			lg.Fatal(err)
		}
		return
	}

	lg.Debugf("enabled loggers: %v", levels)
	lg.Debugf("output colorized: %v", lo.color)
	lg.Debugf("backend %s, variant %s, image %q", cfg.Backend, cfg.Variant, cfg.Image)

	if err := run(cfg, lo, lg); err != nil {
		lg.Fatal(err)
	}
	lg.Info("exiting")
}

func run(cfg config.Config, lo logOptions, lg *logging.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if lo.perf {
		profiling.SetAveragesEnabled(true)
		defer logAverages(lg)
	}
	config.SetFPSLimit(cfg.FPS)

	sceneOpts, err := scene.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	barColor, err := config.ParseColor(cfg.BarColor)
	if err != nil {
		return err
	}

	display, limiter, err := openDisplay(cfg, barColor, lg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := display.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close display: %w", cerr))
		}
	}()

	var reloader app.Reloader
	if cfg.Watch {
		w, err := watch.New(ctx, cfg.Image)
		if err != nil {
			return fmt.Errorf("watch image: %w", err)
		}
		defer w.Close()
		reloader = w
		lg.Infof("watching %s", cfg.Image)
	}

	return app.Run(ctx, app.Options{
		Display:   display,
		Scene:     scene.New(sceneOpts),
		Limiter:   limiter,
		Logger:    lg,
		Reloader:  reloader,
		ImagePath: cfg.Image,
	})
}

func logAverages(lg *logging.Logger) {
	for _, m := range profiling.Averages() {
		lg.Perff("%s: average %v over %d samples", m.Name, m.Average, m.Samples)
	}
}
