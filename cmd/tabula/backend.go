package main

import (
	"fmt"
	"image/color"

	"tabula/internal/app"
	"tabula/internal/config"
	"tabula/internal/logging"
	"tabula/internal/platform/glfwgl"
	"tabula/internal/platform/sdl2"
	"tabula/internal/timing"
)

// openDisplay opens the configured backend and picks the limiter that paces it
func openDisplay(cfg config.Config, barColor color.RGBA, lg *logging.Logger) (app.Display, timing.Limiter, error) {
	switch cfg.Backend {
	case config.BackendGL:
		d, err := glfwgl.Open(glfwgl.Options{
			Title:     cfg.Window.Title,
			Width:     cfg.Window.Width,
			Height:    cfg.Window.Height,
			ImagePath: cfg.Image,
			FontPath:  cfg.Font.Path,
			FontSize:  cfg.Font.Size,
			BarColor:  barColor,
			Logger:    lg,
		})
		if err != nil {
			return nil, nil, err
		}
		return d, timing.NewFPSLimiter(), nil

	case config.BackendSDL:
		d, err := sdl2.Open(sdl2.Options{
			Title:     cfg.Window.Title,
			Width:     cfg.Window.Width,
			Height:    cfg.Window.Height,
			ImagePath: cfg.Image,
			FontPath:  cfg.Font.Path,
			FontSize:  cfg.Font.Size,
			BarColor:  barColor,
			Logger:    lg,
		})
		if err != nil {
			return nil, nil, err
		}
		if low, high, err := d.RefreshRateRange(); err != nil {
			lg.Error(err)
		} else if cfg.FPS > int(high) || cfg.FPS < int(low) {
			lg.Warnf("framerate %d not within refresh rate range %d-%d", cfg.FPS, low, high)
		}
		fm, err := sdl2.NewFrameManager(uint32(cfg.FPS))
		if err != nil {
			lg.Warnf("%v, pacing with the built-in limiter", err)
			return d, timing.NewFPSLimiter(), nil
		}
		return d, fm, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
