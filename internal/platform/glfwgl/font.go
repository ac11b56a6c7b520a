package glfwgl

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"math"
	"os"

	"tabula/internal/scene"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII is all the status bar ever shows
const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasWidth   = 512
	glyphPadding = 1
)

// glyph describes a single character's placement and metrics within the atlas
type glyph struct {
	// Pixel coordinates of the glyph in the atlas (top-left origin)
	atlasX, atlasY float32
	// Glyph bitmap size in pixels
	width, height float32
	// Offset from the pen position on the baseline
	bearingX, bearingY float32
	advance            int
}

// fontAtlas is a baked glyph sheet, not yet uploaded
type fontAtlas struct {
	img    *image.Alpha
	glyphs map[rune]glyph
	// ascent is the distance from the top of a line to its baseline
	ascent int
}

// loadFontData reads the font at path. A missing file falls back to Go Regular,
// reported by fallback.
func loadFontData(path string) (data []byte, fallback bool, err error) {
	data, err = os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return goregular.TTF, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read font: %w", err)
	}
	return data, false, nil
}

// bakeAtlas rasterizes the glyph set of a TrueType/OpenType font at px pixels
func bakeAtlas(data []byte, px int) (*fontAtlas, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(px), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	// First pass: pack rows to find the sheet height
	offsetX, rowH, sheetH := 0, 0, 0
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		dr, mask, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil || dr.Empty() {
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			sheetH += rowH + glyphPadding
			offsetX, rowH = 0, 0
		}
		offsetX += dr.Dx() + glyphPadding
		rowH = max(rowH, dr.Dy())
	}
	sheetH = max(sheetH+rowH, 1)

	a := &fontAtlas{
		img:    image.NewAlpha(image.Rect(0, 0, atlasWidth, sheetH)),
		glyphs: make(map[rune]glyph, lastGlyph-firstGlyph+1),
		ascent: face.Metrics().Ascent.Ceil(),
	}

	// Second pass: draw each glyph and record its metrics
	offsetX, offsetY, rowH := 0, 0, 0
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := glyph{
			bearingX: float32(dr.Min.X),
			bearingY: float32(-dr.Min.Y),
			advance:  int(math.Round(float64(advance) / 64.0)),
		}
		if mask == nil || dr.Empty() {
			// space still advances the pen
			a.glyphs[r] = g
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			offsetY += rowH + glyphPadding
			rowH = 0
		}
		dst := image.Rect(offsetX, offsetY, offsetX+dr.Dx(), offsetY+dr.Dy())
		draw.Draw(a.img, dst, mask, maskp, draw.Src)

		g.atlasX, g.atlasY = float32(offsetX), float32(offsetY)
		g.width, g.height = float32(dr.Dx()), float32(dr.Dy())
		a.glyphs[r] = g

		offsetX += dr.Dx() + glyphPadding
		rowH = max(rowH, dr.Dy())
	}
	return a, nil
}

func (a *fontAtlas) lookup(r rune) glyph {
	if g, ok := a.glyphs[r]; ok {
		return g
	}
	// missing glyphs advance like a space
	return glyph{advance: a.glyphs[' '].advance}
}

// measure returns the advance width of text in pixels
func (a *fontAtlas) measure(text string) int {
	w := 0
	for _, r := range text {
		w += a.lookup(r).advance
	}
	return w
}

// origin returns the pen start and baseline for a positioned text
func (a *fontAtlas) origin(t scene.Text) (x, baseline float32) {
	x = float32(t.Pos.X)
	switch t.Align {
	case scene.AlignCenter:
		x -= float32(a.measure(t.Value) / 2)
	case scene.AlignRight:
		x -= float32(a.measure(t.Value))
	}
	return x, float32(t.Pos.Y) + float32(a.ascent)
}

// vertices appends two triangles per visible glyph: x, y, u, v per vertex
func (a *fontAtlas) vertices(dst []float32, text string, x, baseline float32) []float32 {
	sheet := a.img.Bounds().Size()
	sw, sh := float32(sheet.X), float32(sheet.Y)
	for _, r := range text {
		g := a.lookup(r)
		if g.width > 0 && g.height > 0 {
			x0 := x + g.bearingX
			y0 := baseline - g.bearingY
			x1, y1 := x0+g.width, y0+g.height
			u0, v0 := g.atlasX/sw, g.atlasY/sh
			u1, v1 := (g.atlasX+g.width)/sw, (g.atlasY+g.height)/sh
			dst = append(dst,
				// triangle 1
				x0, y1, u0, v1,
				x0, y0, u0, v0,
				x1, y0, u1, v0,
				// triangle 2
				x0, y1, u0, v1,
				x1, y0, u1, v0,
				x1, y1, u1, v1,
			)
		}
		x += float32(g.advance)
	}
	return dst
}
