package glfwgl

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture is an uploaded RGBA image
type Texture struct {
	ID   uint32
	W, H int
}

// NewTexture uploads img. img must have a (0,0) origin and a tight stride.
func NewTexture(img *image.RGBA, filter int32) *Texture {
	size := img.Rect.Size()

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	var pix unsafe.Pointer
	if len(img.Pix) > 0 {
		pix = gl.Ptr(img.Pix)
	}
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		pix,
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{ID: texture, W: size.X, H: size.Y}
}

// Delete frees the texture; later calls do nothing
func (t *Texture) Delete() {
	if t == nil || t.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
}
