package scene

import (
	"testing"

	"tabula/internal/config"
	"tabula/internal/geom"
	"tabula/internal/input"
	"tabula/internal/label"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanScene(t *testing.T) *Scene {
	t.Helper()
	opts, err := OptionsFromConfig(config.Default())
	require.NoError(t, err)
	return New(opts)
}

func press(s *Scene, b input.Button, x, y int32) {
	s.HandleEvent(input.MouseButton{Button: b, Pressed: true, Pos: geom.Point{X: x, Y: y}})
}

func release(s *Scene, b input.Button) {
	s.HandleEvent(input.MouseButton{Button: b, Pressed: false})
}

func move(s *Scene, x, y int32) {
	s.HandleEvent(input.MouseMotion{Pos: geom.Point{X: x, Y: y}})
}

func TestFeaturesFor(t *testing.T) {
	f, err := FeaturesFor(config.VariantPan)
	require.NoError(t, err)
	assert.Equal(t, Features{Pan: true, Overlay: true}, f)

	f, err = FeaturesFor(config.VariantViewer)
	require.NoError(t, err)
	assert.Equal(t, Features{Pan: true, Zoom: true, Info: true}, f)

	f, err = FeaturesFor(config.VariantTiming)
	require.NoError(t, err)
	assert.True(t, f.TitleTiming)

	_, err = FeaturesFor("nope")
	assert.Error(t, err)
}

func TestInitialLayout(t *testing.T) {
	s := newPanScene(t)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 450}, s.canvas)
	assert.Equal(t, geom.Rect{X: 0, Y: 450, W: 640, H: 30}, s.bar)
	assert.True(t, s.Running())
}

func TestPanFollowsRightDrag(t *testing.T) {
	s := newPanScene(t)

	move(s, 100, 100) // not dragging
	press(s, input.ButtonRight, 100, 100)
	move(s, 110, 95)
	move(s, 130, 120)
	release(s, input.ButtonRight)
	move(s, 400, 400) // released

	assert.Equal(t, geom.Rect{X: 30, Y: 20, W: 640, H: 450}, s.canvas)
	assert.Equal(t, geom.Point{X: 130, Y: 120}, s.drag.Last())
	assert.Equal(t, geom.Rect{X: 0, Y: 450, W: 640, H: 30}, s.bar, "bar never moves")
}

func TestPanIgnoresPressOnBar(t *testing.T) {
	s := newPanScene(t)
	press(s, input.ButtonRight, 100, 460)
	move(s, 150, 300)
	assert.Equal(t, int32(0), s.canvas.X)
	assert.Equal(t, int32(0), s.canvas.Y)
}

func TestPanDisabledInStaticVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = config.VariantStatic
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	s := New(opts)

	press(s, input.ButtonRight, 10, 10)
	move(s, 50, 50)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 450}, s.canvas)

	f := s.Frame(10)
	assert.Empty(t, f.Texts)
	assert.Empty(t, f.Title)
}

func TestResizeKeepsPanAndFillsWindow(t *testing.T) {
	s := newPanScene(t)
	press(s, input.ButtonRight, 10, 10)
	move(s, 15, 5)
	release(s, input.ButtonRight)

	s.HandleEvent(input.Resize{W: 960, H: 720})
	assert.Equal(t, geom.Rect{X: 5, Y: -5, W: 960, H: 690}, s.canvas)
	assert.Equal(t, geom.Rect{X: 0, Y: 690, W: 960, H: 30}, s.bar)
	assert.Equal(t, int32(720), s.canvas.H+s.bar.H)
}

func TestResetViewKey(t *testing.T) {
	s := newPanScene(t)
	press(s, input.ButtonRight, 10, 10)
	move(s, 60, 80)
	release(s, input.ButtonRight)
	require.Equal(t, int32(50), s.canvas.X)

	s.HandleEvent(input.KeyPress{Key: input.KeyR, Pressed: true})
	s.Frame(1)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 450}, s.canvas)
}

func TestQuitEvent(t *testing.T) {
	s := newPanScene(t)
	s.HandleEvent(input.Quit{})
	assert.False(t, s.Running())
}

func TestQuitKeyTakesEffectOnFrame(t *testing.T) {
	s := newPanScene(t)
	s.HandleEvent(input.KeyPress{Key: input.KeyEscape, Pressed: true})
	assert.True(t, s.Running(), "key actions apply when the frame is built")
	s.Frame(1)
	assert.False(t, s.Running())
}

func TestOverlayTexts(t *testing.T) {
	s := newPanScene(t)
	press(s, input.ButtonRight, 12, 34)

	f := s.Frame(7)
	require.Len(t, f.Texts, 2)
	assert.Equal(t, Text{Value: "FPS: 142", Pos: geom.Point{X: 0, Y: 450}, Align: AlignLeft}, f.Texts[0])
	assert.Equal(t, Text{Value: "(12, 34)", Pos: geom.Point{X: 640, Y: 450}, Align: AlignRight}, f.Texts[1])
	assert.Equal(t, uint32(7), f.DeltaMillis)
	assert.Equal(t, uint64(1), f.Number)
	assert.Equal(t, f.Canvas, f.Image, "unzoomed image fills the canvas")

	f = s.Frame(7)
	assert.Equal(t, "FPS: 0", f.Texts[0].Value, "zero delta")

	s.HandleEvent(input.KeyPress{Key: input.KeyO, Pressed: true})
	f = s.Frame(14)
	assert.Empty(t, f.Texts)
}

func TestTimingTitle(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = config.VariantTiming
	cfg.Labels.FrameTime = label.Label{Prefix: "frame: ", Suffix: " ms"}
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	s := New(opts)

	assert.Equal(t, "frame: 16 ms", s.Frame(16).Title)
	assert.Equal(t, "frame: 17 ms", s.Frame(33).Title)
}

func newViewerScene(t *testing.T) *Scene {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = config.VariantViewer
	cfg.Image = "assets/monkaW.png"
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	s := New(opts)
	s.SetImageSize(320, 225)
	return s
}

func wheel(s *Scene, dy int32) {
	s.HandleEvent(input.MouseWheel{DY: dy, Pos: geom.Point{X: 320, Y: 225}})
}

func TestZoomIsClamped(t *testing.T) {
	s := newViewerScene(t)
	for i := 0; i < 2*MaxZoom; i++ {
		wheel(s, 1)
	}
	assert.Equal(t, MaxZoom, s.zoom)
	assert.Equal(t, int32(640<<MaxZoom), s.image.W)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 450}, s.canvas, "canvas stays put while zooming")

	for i := 0; i < 4*MaxZoom; i++ {
		wheel(s, -1)
	}
	assert.Equal(t, -MaxZoom, s.zoom)
	assert.Equal(t, int32(640>>MaxZoom), s.image.W)
}

func TestZoomKeepsCentre(t *testing.T) {
	s := newViewerScene(t)
	wheel(s, 1)
	assert.Equal(t, geom.Rect{X: -320, Y: -225, W: 1280, H: 900}, s.image)

	// pan right by 10, then zoom in: the offset doubles with the image
	press(s, input.ButtonMiddle, 100, 100)
	move(s, 110, 100)
	release(s, input.ButtonMiddle)
	wheel(s, 1)
	assert.Equal(t, geom.Point{X: 20, Y: 0}, s.pan)
	assert.Equal(t, int32(-960+20), s.image.X)
}

func TestWheelIgnoredWhileDragging(t *testing.T) {
	s := newViewerScene(t)
	press(s, input.ButtonRight, 100, 100)
	wheel(s, 1)
	assert.Equal(t, 0, s.zoom)

	s.HandleEvent(input.Leave{})
	wheel(s, 1)
	assert.Equal(t, 1, s.zoom)
}

func TestWheelIgnoredWithoutZoom(t *testing.T) {
	s := newPanScene(t)
	wheel(s, 1)
	assert.Equal(t, 0, s.zoom)
	assert.Equal(t, s.canvas, s.image)
}

func TestMousePixel(t *testing.T) {
	s := newViewerScene(t)

	move(s, 100, 50)
	assert.Equal(t, geom.Point{X: 50, Y: 25}, s.mousePix, "canvas is twice the image size")

	wheel(s, 1)
	move(s, 320, 225)
	assert.Equal(t, geom.Point{X: 160, Y: 112}, s.mousePix)

	move(s, 0, 0)
	assert.Equal(t, geom.Point{X: 80, Y: 56}, s.mousePix)

	move(s, 320, 470)
	assert.Equal(t, geom.Point{X: 80, Y: 56}, s.mousePix, "pointer over the bar keeps the last pixel")
}

func TestMousePixelLeftOfImage(t *testing.T) {
	s := newViewerScene(t)
	wheel(s, -1) // image 320x225 at (160, 112)
	move(s, 159, 111)
	assert.Equal(t, geom.Point{X: -1, Y: -1}, s.mousePix)
}

func TestMiddleDragPansImage(t *testing.T) {
	s := newViewerScene(t)
	press(s, input.ButtonMiddle, 200, 200)
	move(s, 230, 180)
	assert.Equal(t, geom.Rect{X: 30, Y: -20, W: 640, H: 450}, s.image)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 450}, s.canvas)

	s.HandleEvent(input.KeyPress{Key: input.KeyR, Pressed: true})
	s.Frame(1)
	assert.Equal(t, s.canvas, s.image, "reset centres the image again")
}

func TestMiddleDragNeedsZoomFeature(t *testing.T) {
	s := newPanScene(t)
	press(s, input.ButtonMiddle, 200, 200)
	move(s, 230, 180)
	assert.Equal(t, geom.Point{}, s.pan)
}

func TestLeaveCancelsDrag(t *testing.T) {
	s := newPanScene(t)
	press(s, input.ButtonRight, 10, 10)
	s.HandleEvent(input.Leave{})
	move(s, 300, 200)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 450}, s.canvas)
}

func TestInfoTexts(t *testing.T) {
	s := newViewerScene(t)
	wheel(s, 1)
	wheel(s, 1)
	move(s, 320, 225)

	f := s.Frame(16)
	require.Len(t, f.Texts, 3)
	assert.Equal(t, Text{Value: "monkaW.png", Pos: geom.Point{X: 0, Y: 450}, Align: AlignLeft}, f.Texts[0])
	assert.Equal(t, Text{Value: "4x", Pos: geom.Point{X: 320, Y: 450}, Align: AlignCenter}, f.Texts[1])
	assert.Equal(t, Text{Value: "(160, 112)", Pos: geom.Point{X: 640, Y: 450}, Align: AlignRight}, f.Texts[2])
	assert.Equal(t, geom.Rect{X: -960, Y: -675, W: 2560, H: 1800}, f.Image)
}

func TestStaticVariantUnbindsViewKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = config.VariantStatic
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	s := New(opts)

	s.HandleEvent(input.KeyPress{Key: input.KeyO, Pressed: true})
	s.HandleEvent(input.KeyPress{Key: input.KeyR, Pressed: true})
	assert.False(t, s.input.JustPressed(input.ActionToggleOverlay))
	assert.False(t, s.input.JustPressed(input.ActionResetView))
	assert.Empty(t, s.Frame(1).Texts)
}
