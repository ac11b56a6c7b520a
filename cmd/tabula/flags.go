package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tabula/internal/config"
	"tabula/internal/logging"

	"github.com/spf13/pflag"
)

// logOptions are the flags that only affect output
type logOptions struct {
	color, debug, info, warn, perf, quiet bool
	// printConfig writes the effective configuration as TOML and exits
	printConfig bool
}

// parseArgs reads the command line. Settings come from the defaults, then the
// -config file, then any flag given explicitly.
func parseArgs(args []string, output io.Writer) (config.Config, logOptions, error) {
	def := config.Default()
	fs := pflag.NewFlagSet("tabula", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage:")
		fmt.Fprintf(output, "  %v [OPTIONS]\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(output, "  Shows an image in a pannable canvas above a status bar.")
		fmt.Fprintln(output, "\nOptions:")
		fs.PrintDefaults()
	}

	var lo logOptions
	configPath := fs.StringP("config", "c", "", "TOML file to read settings from")
	backend := fs.String("backend", def.Backend, "display backend: gl or sdl")
	variant := fs.String("variant", def.Variant, "demo variant: static, timing, pan or viewer")
	image := fs.String("image", def.Image, "image shown in the canvas")
	fontPath := fs.String("font", def.Font.Path, "TrueType font for the status bar")
	fontSize := fs.Int("font-size", def.Font.Size, "font size in pixels")
	width := fs.Int32("width", def.Window.Width, "the initial width of the window")
	height := fs.Int32("height", def.Window.Height, "the initial height of the window")
	barHeight := fs.Int32("bar-height", def.Window.BarHeight, "height of the bottom bar")
	fps := fs.Int("fps", def.FPS, "the frames per second to render at")
	watch := fs.Bool("watch", def.Watch, "reload the image when it changes on disk")
	fs.BoolVar(&lo.color, "color", true, "colorize the output logs")
	fs.BoolVar(&lo.debug, "debug", false, "show debug logging")
	fs.BoolVar(&lo.info, "info", true, "show info logging")
	fs.BoolVar(&lo.warn, "warn", true, "show warning logging")
	fs.BoolVar(&lo.perf, "perf", false, "show performance logging")
	fs.BoolVar(&lo.quiet, "quiet", false, "hide all output, overrides other logging options")
	fs.BoolVar(&lo.printConfig, "print-config", false, "print the effective configuration as TOML and exit")

	if err := fs.Parse(args); err != nil {
		return def, lo, err
	}
	if fs.NArg() > 0 {
		return def, lo, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return def, lo, err
		}
	}

	if fs.Changed("backend") {
		cfg.Backend = *backend
	}
	if fs.Changed("variant") {
		cfg.Variant = *variant
	}
	if fs.Changed("image") {
		cfg.Image = *image
	}
	if fs.Changed("font") {
		cfg.Font.Path = *fontPath
	}
	if fs.Changed("font-size") {
		cfg.Font.Size = *fontSize
	}
	if fs.Changed("width") {
		cfg.Window.Width = *width
	}
	if fs.Changed("height") {
		cfg.Window.Height = *height
	}
	if fs.Changed("bar-height") {
		cfg.Window.BarHeight = *barHeight
	}
	if fs.Changed("fps") {
		cfg.FPS = *fps
	}
	if fs.Changed("watch") {
		cfg.Watch = *watch
	}
	return cfg, lo, cfg.Validate()
}

// setupLogging enables the chosen levels on w. Loggers are discarded by default.
func setupLogging(lg *logging.Logger, lo logOptions, w io.Writer) []logging.Level {
	if lo.quiet {
		return nil
	}
	var levels []logging.Level
	if lo.info {
		levels = append(levels, logging.Info)
	}
	if lo.warn {
		levels = append(levels, logging.Warn)
	}
	if lo.debug {
		levels = append(levels, logging.Debug)
	}
	if lo.perf {
		levels = append(levels, logging.Perf)
	}
	levels = append(levels, logging.Fatal)
	lg.Enable(w, levels...)
	lg.SetColorized(lo.color, w)
	return levels
}
