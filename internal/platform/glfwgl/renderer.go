package glfwgl

import (
	"fmt"

	"tabula/internal/geom"
	"tabula/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Frame scene.Frame
	// Window size in screen coordinates
	WinW, WinH int32
	// Framebuffer pixels per screen coordinate
	ScaleX, ScaleY float32
	// Proj maps window coordinates (top-left origin) to clip space
	Proj mgl32.Mat4
}

// Renderable defines the lifecycle of one drawn layer
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
}

// Renderer draws its renderables in order, back to front
type Renderer struct {
	renderables []Renderable
}

// NewRenderer initializes every renderable. If one fails, those already
// initialized are disposed.
func NewRenderer(rs ...Renderable) (*Renderer, error) {
	for i, r := range rs {
		if err := r.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, fmt.Errorf("init renderable %d: %w", i, err)
		}
	}
	return &Renderer{renderables: rs}, nil
}

// Render clears the window and draws every renderable
func (r *Renderer) Render(ctx RenderContext) {
	gl.Viewport(0, 0, int32(float32(ctx.WinW)*ctx.ScaleX), int32(float32(ctx.WinH)*ctx.ScaleY))
	gl.ClearColor(1, 1, 1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

// windowProjection maps window coordinates with a top-left origin to clip space
func windowProjection(w, h int32) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(w), float32(h), 0, -1, 1)
}

// viewportFor converts a window rect (top-left origin) into glViewport arguments
// (bottom-left origin, framebuffer pixels)
func viewportFor(r geom.Rect, winH int32, scaleX, scaleY float32) (x, y, w, h int32) {
	x = int32(float32(r.X) * scaleX)
	y = int32(float32(winH-r.Bottom()) * scaleY)
	w = int32(float32(r.W) * scaleX)
	h = int32(float32(r.H) * scaleY)
	return x, y, w, h
}
