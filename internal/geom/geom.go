package geom

// Point is a window-space position in pixels (top-left origin)
type Point struct {
	X, Y int32
}

// Rect is a window-space rectangle in pixels (top-left origin)
type Rect struct {
	X, Y int32
	W, H int32
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Offset returns r moved by (dx, dy)
func (r Rect) Offset(dx, dy int32) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Bottom returns the y coordinate just below the rectangle
func (r Rect) Bottom() int32 {
	return r.Y + r.H
}

// Right returns the x coordinate just right of the rectangle
func (r Rect) Right() int32 {
	return r.X + r.W
}

// Intersect returns the overlap of r and o. Disjoint rectangles give a zero-size rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty reports whether r covers no pixels
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Layout splits a window into the canvas area and a bottom bar of barH pixels.
// The bar height is clamped to the window height so that canvas.H + bar.H == winH always holds.
func Layout(winW, winH, barH int32) (canvas, bar Rect) {
	if winW < 0 {
		winW = 0
	}
	if winH < 0 {
		winH = 0
	}
	if barH < 0 {
		barH = 0
	}
	if barH > winH {
		barH = winH
	}

	bar = Rect{X: 0, Y: winH - barH, W: winW, H: barH}
	canvas = Rect{X: 0, Y: 0, W: winW, H: winH - barH}
	return canvas, bar
}
