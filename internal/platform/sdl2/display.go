// Package sdl2 is the SDL2 display backend: sdl for the window, renderer and
// events, img for the image, ttf for text and gfx for frame pacing.
package sdl2

import (
	"fmt"
	"image/color"

	"tabula/internal/geom"
	"tabula/internal/input"
	"tabula/internal/logging"
	"tabula/internal/resource"
	"tabula/internal/scene"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
	"golang.org/x/image/font/gofont/goregular"
)

// Options describes the window and its assets
type Options struct {
	Title         string
	Width, Height int32
	ImagePath     string
	FontPath      string
	FontSize      int
	BarColor      color.RGBA
	Logger        *logging.Logger
}

var textColor = sdl.Color{R: 255, G: 255, B: 255, A: 255}

// Display owns every SDL resource of the demo
type Display struct {
	stack *resource.Stack
	log   *logging.Logger

	window    *sdl.Window
	renderer  *sdl.Renderer
	font      *ttf.Font
	image     *sdl.Texture
	imageSize geom.Point
	bar       *sdl.Texture

	// events queued by the display itself, delivered before SDL's
	pending []input.Event
}

// Open initializes SDL and its satellite libraries, then creates the window,
// renderer, image texture, bar texture and font. On failure everything
// acquired so far is released.
func Open(opts Options) (_ *Display, err error) {
	lg := opts.Logger
	if lg == nil {
		lg = logging.New()
	}
	d := &Display{stack: resource.NewStack(), log: lg}
	d.stack.OnRelease = func(name string, err error) {
		if err != nil {
			lg.Error(err)
			return
		}
		lg.Debugf("released %s", name)
	}
	defer func() {
		if err != nil {
			_ = d.stack.Close()
		}
	}()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("init sdl: %w", err)
	}
	d.stack.PushFunc("sdl", sdl.Quit)

	if err := img.Init(img.INIT_PNG); err != nil {
		return nil, fmt.Errorf("init sdl_image: %w", err)
	}
	d.stack.PushFunc("sdl_image", img.Quit)

	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("init sdl_ttf: %w", err)
	}
	d.stack.PushFunc("sdl_ttf", ttf.Quit)

	d.window, err = resource.Acquire(d.stack, "create window",
		func() (*sdl.Window, error) {
			return sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
				opts.Width, opts.Height, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
		},
		(*sdl.Window).Destroy)
	if err != nil {
		return nil, err
	}

	d.renderer, err = resource.Acquire(d.stack, "create renderer",
		func() (*sdl.Renderer, error) {
			return sdl.CreateRenderer(d.window, -1, sdl.RENDERER_ACCELERATED)
		},
		(*sdl.Renderer).Destroy)
	if err != nil {
		return nil, err
	}

	d.image, d.imageSize, err = d.loadTexture(opts.ImagePath)
	if err != nil {
		return nil, err
	}
	d.stack.Push("image texture", func() error { return d.image.Destroy() })

	d.bar, err = d.solidTexture(opts.BarColor)
	if err != nil {
		return nil, fmt.Errorf("create bar: %w", err)
	}
	d.stack.Push("bar texture", func() error { return d.bar.Destroy() })

	d.font, err = resource.Acquire(d.stack, fmt.Sprintf("open font %q", opts.FontPath),
		func() (*ttf.Font, error) { return d.openFont(opts.FontPath, opts.FontSize) },
		func(f *ttf.Font) error { f.Close(); return nil })
	if err != nil {
		return nil, err
	}

	// the window manager may not have honoured the requested size
	w, h := d.window.GetSize()
	d.pending = append(d.pending, input.Resize{W: w, H: h})

	lg.Debugf("display ready, %d resources held", d.stack.Len())
	return d, nil
}

// openFont opens path, falling back to the embedded Go Regular when it is unreadable
func (d *Display) openFont(path string, size int) (*ttf.Font, error) {
	f, err := ttf.OpenFont(path, size)
	if err == nil {
		return f, nil
	}
	d.log.Warnf("font %q: %v, using Go Regular", path, err)
	rw, err := sdl.RWFromMem(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return ttf.OpenFontRW(rw, 1, size)
}

func (d *Display) loadTexture(path string) (*sdl.Texture, geom.Point, error) {
	surface, err := img.Load(path)
	if err != nil {
		return nil, geom.Point{}, fmt.Errorf("load image %q: %w", path, err)
	}
	defer surface.Free()
	tex, err := d.renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, geom.Point{}, fmt.Errorf("create texture for %q: %w", path, err)
	}
	return tex, geom.Point{X: surface.W, Y: surface.H}, nil
}

func (d *Display) solidTexture(c color.RGBA) (*sdl.Texture, error) {
	surface, err := sdl.CreateRGBSurfaceWithFormat(0, 1, 1, 32, uint32(sdl.PIXELFORMAT_RGBA32))
	if err != nil {
		return nil, err
	}
	defer surface.Free()
	if err := surface.FillRect(nil, sdl.MapRGBA(surface.Format, c.R, c.G, c.B, c.A)); err != nil {
		return nil, err
	}
	return d.renderer.CreateTextureFromSurface(surface)
}

// Poll delivers the display's own events, then drains the SDL event queue
func (d *Display) Poll(handle func(input.Event)) {
	d.deliverPending(handle)
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		e, ok := translate(ev)
		if !ok {
			continue
		}
		if w, isWheel := e.(input.MouseWheel); isWheel {
			x, y, _ := sdl.GetMouseState()
			w.Pos = geom.Point{X: x, Y: y}
			e = w
		}
		handle(e)
	}
}

func (d *Display) deliverPending(handle func(input.Event)) {
	pending := d.pending
	d.pending = nil
	for _, ev := range pending {
		handle(ev)
	}
}

// Render draws the canvas, the bar and the texts, then presents
func (d *Display) Render(f scene.Frame) error {
	if err := d.renderer.SetViewport(nil); err != nil {
		return fmt.Errorf("reset viewport: %w", err)
	}
	if err := d.renderer.SetDrawColor(0xff, 0xff, 0xff, 0xff); err != nil {
		return fmt.Errorf("set draw color: %w", err)
	}
	if err := d.renderer.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	if visible := f.Image.Intersect(f.Canvas); !visible.Empty() {
		src := sourceRect(f.Image, visible, d.imageSize)
		if err := d.renderer.Copy(d.image, &src, toSDLRect(visible)); err != nil {
			return fmt.Errorf("draw canvas: %w", err)
		}
	}

	if err := d.copyInto(d.bar, f.Bar); err != nil {
		return fmt.Errorf("draw bar: %w", err)
	}

	if err := d.renderer.SetViewport(nil); err != nil {
		return fmt.Errorf("reset viewport: %w", err)
	}
	if err := d.drawTexts(f.Texts); err != nil {
		return err
	}

	d.renderer.Present()
	return nil
}

// copyInto stretches tex over r by making r the viewport
func (d *Display) copyInto(tex *sdl.Texture, r geom.Rect) error {
	if r.Empty() {
		return nil
	}
	if err := d.renderer.SetViewport(toSDLRect(r)); err != nil {
		return err
	}
	return d.renderer.Copy(tex, nil, nil)
}

// drawTexts renders each text to a texture that lives only for this frame
func (d *Display) drawTexts(texts []scene.Text) (err error) {
	frame := resource.NewStack()
	defer func() {
		if cerr := frame.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, t := range texts {
		if t.Value == "" {
			continue
		}
		w, h, err := d.font.SizeUTF8(t.Value)
		if err != nil {
			return fmt.Errorf("size text %q: %w", t.Value, err)
		}
		surface, err := resource.Acquire(frame, "text surface",
			func() (*sdl.Surface, error) { return d.font.RenderUTF8Blended(t.Value, textColor) },
			func(s *sdl.Surface) error { s.Free(); return nil })
		if err != nil {
			return fmt.Errorf("render text %q: %w", t.Value, err)
		}
		tex, err := resource.Acquire(frame, "text texture",
			func() (*sdl.Texture, error) { return d.renderer.CreateTextureFromSurface(surface) },
			(*sdl.Texture).Destroy)
		if err != nil {
			return fmt.Errorf("text texture %q: %w", t.Value, err)
		}
		dst := textRect(t, int32(w), int32(h))
		if err := d.renderer.Copy(tex, nil, &dst); err != nil {
			return fmt.Errorf("draw text %q: %w", t.Value, err)
		}
	}
	return nil
}

// SetTitle sets the window title
func (d *Display) SetTitle(title string) {
	d.window.SetTitle(title)
}

// LoadImage replaces the canvas texture. On failure the current one stays.
func (d *Display) LoadImage(path string) error {
	tex, size, err := d.loadTexture(path)
	if err != nil {
		return err
	}
	_ = d.image.Destroy()
	d.image, d.imageSize = tex, size
	return nil
}

// ImageSize returns the size of the current canvas image
func (d *Display) ImageSize() (w, h int32) {
	return d.imageSize.X, d.imageSize.Y
}

// RefreshRateRange returns the lowest and highest refresh rate over all displays
func (d *Display) RefreshRateRange() (low, high int32, _ error) {
	n, err := sdl.GetNumVideoDisplays()
	if err != nil {
		return 0, 0, fmt.Errorf("get number of video displays: %w", err)
	}
	for i := 0; i < n; i++ {
		mode, err := sdl.GetCurrentDisplayMode(i)
		if err != nil {
			return 0, 0, fmt.Errorf("get display mode for display %d: %w", i, err)
		}
		if i == 0 || mode.RefreshRate < low {
			low = mode.RefreshRate
		}
		if i == 0 || mode.RefreshRate > high {
			high = mode.RefreshRate
		}
	}
	return low, high, nil
}

// Close releases everything in reverse acquisition order. Safe to call twice.
func (d *Display) Close() error {
	return d.stack.Close()
}

func toSDLRect(r geom.Rect) *sdl.Rect {
	return &sdl.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// textRect places a w×h text according to its anchor
func textRect(t scene.Text, w, h int32) sdl.Rect {
	x := t.Pos.X
	switch t.Align {
	case scene.AlignCenter:
		x -= w / 2
	case scene.AlignRight:
		x -= w
	}
	return sdl.Rect{X: x, Y: t.Pos.Y, W: w, H: h}
}

// sourceRect is the part of a size-pixel image drawn at img that lands inside visible
func sourceRect(img, visible geom.Rect, size geom.Point) sdl.Rect {
	scale := func(n, of, by int32) int32 { return int32(int64(n) * int64(by) / int64(of)) }
	return sdl.Rect{
		X: scale(visible.X-img.X, img.W, size.X),
		Y: scale(visible.Y-img.Y, img.H, size.Y),
		W: scale(visible.W, img.W, size.X),
		H: scale(visible.H, img.H, size.Y),
	}
}
