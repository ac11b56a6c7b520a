package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"tabula/internal/label"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// Defaults for the demo window and assets
const (
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultBarHeight = 30
	DefaultFPS       = 144
	DefaultImage     = "monkaW.png"
	DefaultFont      = "NotoMono-Regular.ttf"
	DefaultFontSize  = 24
	DefaultTitle     = "test"
	DefaultBarColor  = "#808080"

	MaxFPS = 1000
)

// Backends
const (
	BackendGL  = "gl"
	BackendSDL = "sdl"
)

// Variants select which of the demo behaviours are enabled
const (
	VariantStatic = "static"
	VariantTiming = "timing"
	VariantPan    = "pan"
	VariantViewer = "viewer"
)

// WindowConfig describes the single demo window
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int32  `toml:"width"`
	Height    int32  `toml:"height"`
	BarHeight int32  `toml:"bar_height"`
}

// FontConfig selects the overlay font
type FontConfig struct {
	Path string `toml:"path"`
	Size int    `toml:"size"`
}

// LabelsConfig holds the prefixes and suffixes of every status string
type LabelsConfig struct {
	FPS       label.Label `toml:"fps"`
	FrameTime label.Label `toml:"frame_time"`
}

// Config is the complete demo configuration
type Config struct {
	Backend  string       `toml:"backend"`
	Variant  string       `toml:"variant"`
	FPS      int          `toml:"fps"`
	Image    string       `toml:"image"`
	Watch    bool         `toml:"watch"`
	BarColor string       `toml:"bar_color"`
	Window   WindowConfig `toml:"window"`
	Font     FontConfig   `toml:"font"`
	Labels   LabelsConfig `toml:"labels"`
}

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Backend:  BackendGL,
		Variant:  VariantPan,
		FPS:      DefaultFPS,
		Image:    DefaultImage,
		BarColor: DefaultBarColor,
		Window: WindowConfig{
			Title:     DefaultTitle,
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			BarHeight: DefaultBarHeight,
		},
		Font: FontConfig{
			Path: DefaultFont,
			Size: DefaultFontSize,
		},
		Labels: LabelsConfig{
			FPS:       label.Label{Prefix: "FPS: "},
			FrameTime: label.Label{Prefix: DefaultTitle + " - ", Suffix: "ms"},
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals TOML into cfg, rejecting unknown keys
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Encode renders cfg as TOML
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0:
		return fmt.Errorf("%w: width must be > 0, got %d", ErrInvalid, c.Window.Width)
	case c.Window.Height <= 0:
		return fmt.Errorf("%w: height must be > 0, got %d", ErrInvalid, c.Window.Height)
	case c.Window.BarHeight < 0 || c.Window.BarHeight > c.Window.Height:
		return fmt.Errorf("%w: bar height must be within [0, %d], got %d", ErrInvalid, c.Window.Height, c.Window.BarHeight)
	case c.FPS <= 0 || c.FPS > MaxFPS:
		return fmt.Errorf("%w: fps must be within [1, %d], got %d", ErrInvalid, MaxFPS, c.FPS)
	case c.Font.Size <= 0:
		return fmt.Errorf("%w: font size must be > 0, got %d", ErrInvalid, c.Font.Size)
	case c.Image == "":
		return fmt.Errorf("%w: no image path", ErrInvalid)
	}
	switch c.Backend {
	case BackendGL, BackendSDL:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	switch c.Variant {
	case VariantStatic, VariantTiming, VariantPan, VariantViewer:
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalid, c.Variant)
	}
	if _, err := ParseColor(c.BarColor); err != nil {
		return fmt.Errorf("%w: bar color: %v", ErrInvalid, err)
	}
	return nil
}

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	alpha := uint64(0xff)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: alpha: %w", s, err)
		}
		alpha, hex = a, hex[:6]
	}
	if len(hex) != 3 && len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #RGB, #RRGGBB or #RRGGBBAA", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}
