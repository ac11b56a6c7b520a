// Package glfwgl is the glfw + OpenGL 4.1 core display backend.
// All calls must happen on the main OS thread.
package glfwgl

import (
	"fmt"
	"image/color"

	"tabula/internal/geom"
	"tabula/internal/imagefile"
	"tabula/internal/input"
	"tabula/internal/logging"
	"tabula/internal/resource"
	"tabula/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
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

// Display owns the window, the GL context and every GL object
type Display struct {
	stack  *resource.Stack
	log    *logging.Logger
	window *glfw.Window

	renderer *Renderer
	canvas   *canvasLayer

	events []input.Event
}

// Open creates the window and uploads the image, bar and font. On failure
// everything acquired so far is released.
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

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}
	d.stack.PushFunc("glfw", glfw.Terminate)

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	d.window, err = resource.Acquire(d.stack, "create window",
		func() (*glfw.Window, error) {
			return glfw.CreateWindow(int(opts.Width), int(opts.Height), opts.Title, nil, nil)
		},
		func(w *glfw.Window) error { w.Destroy(); return nil })
	if err != nil {
		return nil, err
	}
	d.window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	lg.Debugf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	// Our own limiter paces frames
	glfw.SwapInterval(0)

	img, err := imagefile.Load(opts.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", opts.ImagePath, err)
	}

	fontData, fallback, err := loadFontData(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("open font %q: %w", opts.FontPath, err)
	}
	if fallback {
		lg.Warnf("font %q not found, using Go Regular", opts.FontPath)
	}
	atlas, err := bakeAtlas(fontData, opts.FontSize)
	if err != nil {
		return nil, fmt.Errorf("open font %q: %w", opts.FontPath, err)
	}

	d.canvas = newCanvasLayer(img)
	d.renderer, err = resource.Acquire(d.stack, "renderer",
		func() (*Renderer, error) {
			return NewRenderer(d.canvas, newBarLayer(opts.BarColor), newTextLayer(atlas, mgl32.Vec3{1, 1, 1}))
		},
		func(r *Renderer) error { r.Dispose(); return nil })
	if err != nil {
		return nil, err
	}

	d.installCallbacks()
	// the window manager may not have honoured the requested size
	w, h := d.window.GetSize()
	d.onSize(w, h)

	lg.Debugf("display ready, %d resources held", d.stack.Len())
	return d, nil
}

func (d *Display) installCallbacks() {
	d.window.SetCloseCallback(func(w *glfw.Window) {
		// the loop decides when to close
		w.SetShouldClose(false)
		d.events = append(d.events, input.Quit{})
	})
	d.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		d.events = append(d.events, input.MouseMotion{Pos: cursorPoint(xpos, ypos)})
	})
	d.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		// a press can arrive before any cursor motion has been reported
		x, y := w.GetCursorPos()
		d.onMouseButton(button, action, x, y)
	})
	d.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		x, y := w.GetCursorPos()
		d.onScroll(yoff, x, y)
	})
	d.window.SetCursorEnterCallback(func(w *glfw.Window, entered bool) {
		if !entered {
			d.events = append(d.events, input.Leave{})
		}
	})
	d.window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			d.events = append(d.events, input.Leave{})
		}
	})
	d.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		k := translateKey(key)
		if k == input.KeyUnknown {
			return
		}
		d.events = append(d.events, input.KeyPress{Key: k, Pressed: action == glfw.Press})
	})
	d.window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		d.onSize(width, height)
	})
}

func (d *Display) onMouseButton(button glfw.MouseButton, action glfw.Action, x, y float64) {
	b := translateButton(button)
	if b == input.ButtonNone || action == glfw.Repeat {
		return
	}
	d.events = append(d.events, input.MouseButton{Button: b, Pressed: action == glfw.Press, Pos: cursorPoint(x, y)})
}

func (d *Display) onScroll(yoff, x, y float64) {
	var dy int32
	switch {
	case yoff > 0:
		dy = 1
	case yoff < 0:
		dy = -1
	default:
		return
	}
	d.events = append(d.events, input.MouseWheel{DY: dy, Pos: cursorPoint(x, y)})
}

func (d *Display) onSize(width, height int) {
	d.events = append(d.events, input.Resize{W: int32(width), H: int32(height)})
}

func cursorPoint(x, y float64) geom.Point {
	return geom.Point{X: int32(x), Y: int32(y)}
}

// Poll pumps glfw and delivers the queued events in arrival order
func (d *Display) Poll(handle func(input.Event)) {
	glfw.PollEvents()
	d.deliver(handle)
}

func (d *Display) deliver(handle func(input.Event)) {
	events := d.events
	d.events = d.events[:0]
	for _, ev := range events {
		handle(ev)
	}
}

// Render draws one frame and presents it
func (d *Display) Render(f scene.Frame) error {
	winW, winH := d.window.GetSize()
	fbW, fbH := d.window.GetFramebufferSize()
	ctx := RenderContext{
		Frame:  f,
		WinW:   int32(winW),
		WinH:   int32(winH),
		ScaleX: scale(fbW, winW),
		ScaleY: scale(fbH, winH),
		Proj:   windowProjection(int32(winW), int32(winH)),
	}
	d.renderer.Render(ctx)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	d.window.SwapBuffers()
	return nil
}

// SetTitle sets the window title
func (d *Display) SetTitle(title string) {
	d.window.SetTitle(title)
}

// ImageSize returns the size of the current canvas image
func (d *Display) ImageSize() (w, h int32) {
	return int32(d.canvas.tex.W), int32(d.canvas.tex.H)
}

// LoadImage replaces the canvas image. On failure the current image stays.
func (d *Display) LoadImage(path string) error {
	img, err := imagefile.Load(path)
	if err != nil {
		return fmt.Errorf("load image %q: %w", path, err)
	}
	d.canvas.SetImage(img)
	return nil
}

// Close releases everything in reverse acquisition order. Safe to call twice.
func (d *Display) Close() error {
	return d.stack.Close()
}

func scale(fb, win int) float32 {
	if win <= 0 {
		return 1
	}
	return float32(fb) / float32(win)
}

func translateButton(b glfw.MouseButton) input.Button {
	switch b {
	case glfw.MouseButtonLeft:
		return input.ButtonLeft
	case glfw.MouseButtonMiddle:
		return input.ButtonMiddle
	case glfw.MouseButtonRight:
		return input.ButtonRight
	default:
		return input.ButtonNone
	}
}

func translateKey(k glfw.Key) input.Key {
	switch k {
	case glfw.KeyEscape:
		return input.KeyEscape
	case glfw.KeyQ:
		return input.KeyQ
	case glfw.KeyR:
		return input.KeyR
	case glfw.KeyO:
		return input.KeyO
	default:
		return input.KeyUnknown
	}
}
