// Package scene holds the backend-independent state of the demo: the canvas and bar
// rectangles, drag panning, zoom, and the status strings for each frame.
package scene

import (
	"fmt"

	"tabula/internal/config"
	"tabula/internal/geom"
	"tabula/internal/input"
	"tabula/internal/label"
)

// MaxZoom bounds the zoom level in both directions. Level n draws the image at 2^n.
const MaxZoom = 8

// Features toggles the behaviours that distinguish the demo variants
type Features struct {
	Pan         bool // right-drag moves the canvas
	Overlay     bool // FPS and drag point drawn in the bar
	TitleTiming bool // frame time written to the window title every frame
	// Zoom enables wheel zoom and middle-drag panning. Panning then moves the
	// image inside a fixed canvas instead of moving the canvas.
	Zoom bool
	Info bool // file name, zoom and pointer pixel drawn in the bar
}

// FeaturesFor maps a variant name to its features
func FeaturesFor(variant string) (Features, error) {
	switch variant {
	case config.VariantStatic:
		return Features{}, nil
	case config.VariantTiming:
		return Features{TitleTiming: true}, nil
	case config.VariantPan:
		return Features{Pan: true, Overlay: true}, nil
	case config.VariantViewer:
		return Features{Pan: true, Zoom: true, Info: true}, nil
	default:
		return Features{}, fmt.Errorf("unknown variant %q", variant)
	}
}

// Align is the horizontal anchoring of a text
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Text is a string anchored at a window position. Pos.X is the left edge,
// the middle or the right edge of the text depending on Align. Pos.Y is the
// top of the text.
type Text struct {
	Value string
	Pos   geom.Point
	Align Align
}

// Frame is everything a backend needs to draw one frame
type Frame struct {
	Number uint64
	// Canvas is the viewport the image is clipped to
	Canvas geom.Rect
	// Image is where the whole image is drawn. It equals Canvas until zoomed.
	Image geom.Rect
	Bar   geom.Rect
	Texts []Text
	// Title is applied to the window when non-empty
	Title string
	// DeltaMillis is the time since the previous frame
	DeltaMillis uint32
}

// Options configures a Scene
type Options struct {
	Features       Features
	Width, Height  int32
	BarHeight      int32
	FPSLabel       label.Label
	FrameTimeLabel label.Label
	// FileName is shown in the bar by the Info feature
	FileName string
}

// OptionsFromConfig builds scene options from the demo configuration
func OptionsFromConfig(cfg config.Config) (Options, error) {
	features, err := FeaturesFor(cfg.Variant)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Features:       features,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		BarHeight:      cfg.Window.BarHeight,
		FPSLabel:       cfg.Labels.FPS,
		FrameTimeLabel: cfg.Labels.FrameTime,
		FileName:       label.FileName(cfg.Image),
	}, nil
}

// Scene is the demo state driven by input events and frame ticks
type Scene struct {
	opts   Options
	input  *input.InputManager
	drag   *input.Drag // right button
	middle *input.Drag // middle button, nil without Zoom

	area   geom.Rect // canvas as laid out, before panning
	canvas geom.Rect
	image  geom.Rect
	bar    geom.Rect
	pan    geom.Point
	zoom   int

	imageSize geom.Point
	mousePix  geom.Point

	overlay   bool
	running   bool
	lastTicks uint32
	frames    uint64
}

// New creates a running scene laid out for the configured window size
func New(opts Options) *Scene {
	f := opts.Features
	s := &Scene{
		opts:    opts,
		input:   input.NewInputManager(),
		drag:    input.NewDrag(input.ButtonRight),
		overlay: f.Overlay || f.Info,
		running: true,
	}
	if f.Zoom {
		s.middle = input.NewDrag(input.ButtonMiddle)
	}
	if !f.Overlay && !f.Info {
		s.input.UnbindKey(input.KeyO)
	}
	if !f.Pan {
		s.input.UnbindKey(input.KeyR)
	}
	s.resize(opts.Width, opts.Height)
	return s
}

// SetImageSize records the image dimensions used to map the pointer to image pixels
func (s *Scene) SetImageSize(w, h int32) {
	s.imageSize = geom.Point{X: w, Y: h}
}

// Running reports whether no quit has been observed
func (s *Scene) Running() bool {
	return s.running
}

// Stop ends the scene as if a quit event had arrived
func (s *Scene) Stop() {
	s.running = false
}

func (s *Scene) drags() []*input.Drag {
	if s.middle == nil {
		return []*input.Drag{s.drag}
	}
	return []*input.Drag{s.drag, s.middle}
}

func (s *Scene) dragging() bool {
	for _, d := range s.drags() {
		if d.State() == input.DragDragging {
			return true
		}
	}
	return false
}

// HandleEvent applies one input event
func (s *Scene) HandleEvent(ev input.Event) {
	switch e := ev.(type) {
	case input.Quit:
		s.running = false
	case input.MouseButton:
		s.trackPointer(e.Pos)
		if !s.opts.Features.Pan {
			return
		}
		for _, d := range s.drags() {
			if e.Pressed {
				d.Press(e.Button, e.Pos, s.bar.Y)
			} else {
				d.Release(e.Button)
			}
		}
	case input.MouseMotion:
		s.trackPointer(e.Pos)
		moved := false
		for _, d := range s.drags() {
			// both anchors advance, the delta applies once
			if dx, dy, ok := d.Move(e.Pos); ok && !moved {
				s.pan.X += dx
				s.pan.Y += dy
				moved = true
			}
		}
		if moved {
			s.place()
		}
	case input.MouseWheel:
		if !s.opts.Features.Zoom || s.dragging() {
			return
		}
		switch {
		case e.DY > 0:
			s.zoomTo(s.zoom + 1)
		case e.DY < 0:
			s.zoomTo(s.zoom - 1)
		}
		s.trackPointer(e.Pos)
	case input.Leave:
		for _, d := range s.drags() {
			d.Cancel()
		}
	case input.KeyPress:
		s.input.HandleKeyEvent(e.Key, e.Pressed)
	case input.Resize:
		s.resize(e.W, e.H)
	}
}

func (s *Scene) resize(w, h int32) {
	s.area, s.bar = geom.Layout(w, h, s.opts.BarHeight)
	s.place()
}

// place derives the canvas and image rects from the layout, pan and zoom
func (s *Scene) place() {
	canvas, off := s.area, s.pan
	if !s.opts.Features.Zoom {
		canvas, off = s.area.Offset(s.pan.X, s.pan.Y), geom.Point{}
	}
	w, h := scaleLen(s.area.W, s.zoom), scaleLen(s.area.H, s.zoom)
	s.canvas = canvas
	s.image = geom.Rect{
		X: canvas.X + (s.area.W-w)/2 + off.X,
		Y: canvas.Y + (s.area.H-h)/2 + off.Y,
		W: w,
		H: h,
	}
}

// zoomTo changes the zoom level keeping the image point under the canvas centre fixed
func (s *Scene) zoomTo(level int) {
	level = max(-MaxZoom, min(MaxZoom, level))
	switch {
	case level > s.zoom:
		s.pan.X <<= level - s.zoom
		s.pan.Y <<= level - s.zoom
	case level < s.zoom:
		s.pan.X >>= s.zoom - level
		s.pan.Y >>= s.zoom - level
	default:
		return
	}
	s.zoom = level
	s.place()
}

// centerCanvas drops the pan offset. The zoom level is kept.
func (s *Scene) centerCanvas() {
	s.pan = geom.Point{}
	s.place()
}

// trackPointer updates the image pixel under the pointer while it is over the canvas
func (s *Scene) trackPointer(pos geom.Point) {
	if s.canvas.Contains(pos) {
		s.mousePix = s.pixelAt(pos)
	}
}

// pixelAt maps a window position to image pixel coordinates. Before the
// image size is known the unzoomed canvas size stands in for it.
func (s *Scene) pixelAt(pos geom.Point) geom.Point {
	if s.image.Empty() {
		return geom.Point{}
	}
	size := s.imageSize
	if size.X <= 0 || size.Y <= 0 {
		size = geom.Point{X: s.area.W, Y: s.area.H}
	}
	return geom.Point{
		X: floorDiv(int64(pos.X-s.image.X)*int64(size.X), int64(s.image.W)),
		Y: floorDiv(int64(pos.Y-s.image.Y)*int64(size.Y), int64(s.image.H)),
	}
}

func (s *Scene) handleActions() {
	if s.input.JustPressed(input.ActionQuit) {
		s.running = false
	}
	if s.input.JustPressed(input.ActionResetView) {
		s.centerCanvas()
	}
	if s.input.JustPressed(input.ActionToggleOverlay) {
		s.overlay = !s.overlay
	}
}

// Frame advances to the frame at the given millisecond tick count and returns
// what to draw. Key actions collected since the previous frame take effect here.
func (s *Scene) Frame(ticks uint32) Frame {
	s.handleActions()
	s.input.PostUpdate()

	delta := label.TicksDelta(ticks, s.lastTicks)
	s.lastTicks = ticks
	s.frames++

	f := Frame{
		Number:      s.frames,
		Canvas:      s.canvas,
		Image:       s.image,
		Bar:         s.bar,
		DeltaMillis: delta,
	}
	if s.overlay {
		f.Texts = s.barTexts(delta)
	}
	if s.opts.Features.TitleTiming {
		f.Title = s.opts.FrameTimeLabel.Format(delta)
	}
	return f
}

func (s *Scene) barTexts(delta uint32) []Text {
	left := geom.Point{X: s.bar.X, Y: s.bar.Y}
	center := geom.Point{X: s.bar.X + s.bar.W/2, Y: s.bar.Y}
	right := geom.Point{X: s.bar.Right(), Y: s.bar.Y}

	if s.opts.Features.Info {
		return []Text{
			{Value: s.opts.FileName, Pos: left, Align: AlignLeft},
			{Value: label.Zoom(s.zoom), Pos: center, Align: AlignCenter},
			{Value: label.Pair(s.mousePix.X, s.mousePix.Y), Pos: right, Align: AlignRight},
		}
	}
	pt := s.drag.Last()
	return []Text{
		{Value: s.opts.FPSLabel.Format(label.FPS(delta)), Pos: left, Align: AlignLeft},
		{Value: label.Pair(pt.X, pt.Y), Pos: right, Align: AlignRight},
	}
}

// scaleLen scales n by 2^level
func scaleLen(n int32, level int) int32 {
	if level >= 0 {
		return n << level
	}
	return n >> -level
}

// floorDiv divides rounding towards negative infinity
func floorDiv(a, b int64) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return int32(q)
}
