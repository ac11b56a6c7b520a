package glfwgl

import (
	"image"
	"image/color"

	"tabula/internal/geom"
	"tabula/internal/imagefile"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// unitQuad covers [0,1]x[0,1] as two triangles
var unitQuad = []float32{
	0, 0, 1, 0, 1, 1,
	0, 0, 1, 1, 0, 1,
}

// fullRegion samples the whole texture
var fullRegion = mgl32.Vec4{0, 0, 1, 1}

// quad stretches a region of a texture over the current viewport
type quad struct {
	shader *Shader
	vao    uint32
	vbo    uint32
}

func (q *quad) init() error {
	var err error
	q.shader, err = loadShader("quad")
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(unitQuad)*4, gl.Ptr(unitQuad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

func (q *quad) draw(tex *Texture, region mgl32.Vec4) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	q.shader.Use()
	// top-left of the viewport is texture origin
	q.shader.SetMatrix4("projection", mgl32.Ortho2D(0, 1, 1, 0))
	q.shader.SetVector4("region", region)
	q.shader.SetInt("image", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
}

func (q *quad) dispose() {
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
	}
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
	}
	if q.shader != nil {
		q.shader.Delete()
	}
}

// canvasLayer draws the image over its frame rect, clipped to the canvas
type canvasLayer struct {
	quad
	pending *image.RGBA
	tex     *Texture
}

func newCanvasLayer(img *image.RGBA) *canvasLayer {
	return &canvasLayer{pending: img}
}

func (c *canvasLayer) Init() error {
	if err := c.quad.init(); err != nil {
		return err
	}
	c.tex = NewTexture(c.pending, gl.LINEAR)
	c.pending = nil
	return nil
}

// SetImage swaps the canvas texture
func (c *canvasLayer) SetImage(img *image.RGBA) {
	old := c.tex
	c.tex = NewTexture(img, gl.LINEAR)
	old.Delete()
}

func (c *canvasLayer) Render(ctx RenderContext) {
	img := ctx.Frame.Image
	visible := img.Intersect(ctx.Frame.Canvas)
	if visible.Empty() {
		return
	}
	gl.Viewport(viewportFor(visible, ctx.WinH, ctx.ScaleX, ctx.ScaleY))
	c.draw(c.tex, textureRegion(img, visible))
}

// textureRegion is the part of an image drawn at img that falls inside visible,
// as texture offset and extent
func textureRegion(img, visible geom.Rect) mgl32.Vec4 {
	w, h := float32(img.W), float32(img.H)
	return mgl32.Vec4{
		float32(visible.X-img.X) / w,
		float32(visible.Y-img.Y) / h,
		float32(visible.W) / w,
		float32(visible.H) / h,
	}
}

func (c *canvasLayer) Dispose() {
	c.tex.Delete()
	c.quad.dispose()
}

// barLayer fills the bar rect with a solid color
type barLayer struct {
	quad
	color color.RGBA
	tex   *Texture
}

func newBarLayer(c color.RGBA) *barLayer {
	return &barLayer{color: c}
}

func (b *barLayer) Init() error {
	if err := b.quad.init(); err != nil {
		return err
	}
	b.tex = NewTexture(imagefile.Solid(1, 1, b.color), gl.NEAREST)
	return nil
}

func (b *barLayer) Render(ctx RenderContext) {
	r := ctx.Frame.Bar
	if r.Empty() {
		return
	}
	gl.Viewport(viewportFor(r, ctx.WinH, ctx.ScaleX, ctx.ScaleY))
	b.draw(b.tex, fullRegion)
}

func (b *barLayer) Dispose() {
	b.tex.Delete()
	b.quad.dispose()
}

// textLayer draws the frame's texts from a glyph atlas
type textLayer struct {
	atlas  *fontAtlas
	color  mgl32.Vec3
	shader *Shader

	texture uint32
	vao     uint32
	vbo     uint32
	verts   []float32
}

func newTextLayer(a *fontAtlas, c mgl32.Vec3) *textLayer {
	return &textLayer{atlas: a, color: c}
}

func (t *textLayer) Init() error {
	var err error
	t.shader, err = loadShader("text")
	if err != nil {
		return err
	}

	// Upload atlas as GL_RED
	size := t.atlas.img.Bounds().Size()
	gl.GenTextures(1, &t.texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(size.X), int32(size.Y), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(t.atlas.img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &t.vao)
	gl.GenBuffers(1, &t.vbo)
	gl.BindVertexArray(t.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

func (t *textLayer) Render(ctx RenderContext) {
	t.verts = t.verts[:0]
	for _, txt := range ctx.Frame.Texts {
		x, baseline := t.atlas.origin(txt)
		t.verts = t.atlas.vertices(t.verts, txt.Value, x, baseline)
	}
	if len(t.verts) == 0 {
		return
	}

	gl.Viewport(0, 0, int32(float32(ctx.WinW)*ctx.ScaleX), int32(float32(ctx.WinH)*ctx.ScaleY))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	t.shader.Use()
	t.shader.SetVector3("textColor", t.color)
	t.shader.SetMatrix4("projection", ctx.Proj)
	t.shader.SetInt("text", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.BindVertexArray(t.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.vbo)

	// Orphan then fill to avoid stalling on the previous frame's draw
	size := len(t.verts) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(t.verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(t.verts)/4))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

func (t *textLayer) Dispose() {
	if t.texture != 0 {
		gl.DeleteTextures(1, &t.texture)
	}
	if t.vao != 0 {
		gl.DeleteVertexArrays(1, &t.vao)
	}
	if t.vbo != 0 {
		gl.DeleteBuffers(1, &t.vbo)
	}
	if t.shader != nil {
		t.shader.Delete()
	}
}
