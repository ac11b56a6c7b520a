package sdl2

import (
	"testing"

	"tabula/internal/geom"
	"tabula/internal/input"
	"tabula/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   sdl.Event
		want input.Event
		ok   bool
	}{
		{"quit", &sdl.QuitEvent{}, input.Quit{}, true},
		{
			"right press",
			&sdl.MouseButtonEvent{Button: sdl.BUTTON_RIGHT, State: sdl.PRESSED, X: 12, Y: 34},
			input.MouseButton{Button: input.ButtonRight, Pressed: true, Pos: geom.Point{X: 12, Y: 34}},
			true,
		},
		{
			"right release",
			&sdl.MouseButtonEvent{Button: sdl.BUTTON_RIGHT, State: sdl.RELEASED, X: 1, Y: 2},
			input.MouseButton{Button: input.ButtonRight, Pos: geom.Point{X: 1, Y: 2}},
			true,
		},
		{"x1 button", &sdl.MouseButtonEvent{Button: sdl.BUTTON_X1, State: sdl.PRESSED}, nil, false},
		{"motion", &sdl.MouseMotionEvent{X: -5, Y: 7}, input.MouseMotion{Pos: geom.Point{X: -5, Y: 7}}, true},
		{
			"escape",
			&sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}},
			input.KeyPress{Key: input.KeyEscape, Pressed: true},
			true,
		},
		{"key repeat", &sdl.KeyboardEvent{State: sdl.PRESSED, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_r}}, nil, false},
		{"unbound key", &sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}}, nil, false},
		{
			"resize",
			&sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			input.Resize{W: 800, H: 600},
			true,
		},
		{"window moved", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MOVED}, nil, false},
		{"pointer left", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_LEAVE}, input.Leave{}, true},
		{"focus lost", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_LOST}, input.Leave{}, true},
		{"wheel up", &sdl.MouseWheelEvent{Y: 3}, input.MouseWheel{DY: 1}, true},
		{"wheel down", &sdl.MouseWheelEvent{Y: -1}, input.MouseWheel{DY: -1}, true},
		{"wheel flipped", &sdl.MouseWheelEvent{Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED}, input.MouseWheel{DY: -1}, true},
		{"horizontal wheel", &sdl.MouseWheelEvent{X: 1}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextRect(t *testing.T) {
	left := textRect(scene.Text{Value: "FPS: 60", Pos: geom.Point{X: 0, Y: 450}}, 90, 28)
	assert.Equal(t, sdl.Rect{X: 0, Y: 450, W: 90, H: 28}, left)

	right := textRect(scene.Text{Value: "(1, 2)", Pos: geom.Point{X: 640, Y: 450}, Align: scene.AlignRight}, 70, 28)
	assert.Equal(t, sdl.Rect{X: 570, Y: 450, W: 70, H: 28}, right)

	center := textRect(scene.Text{Value: "4x", Pos: geom.Point{X: 320, Y: 450}, Align: scene.AlignCenter}, 31, 28)
	assert.Equal(t, sdl.Rect{X: 305, Y: 450, W: 31, H: 28}, center)
}

func TestSourceRect(t *testing.T) {
	canvas := geom.Rect{X: 0, Y: 0, W: 640, H: 450}
	size := geom.Point{X: 320, Y: 225}
	assert.Equal(t, sdl.Rect{X: 0, Y: 0, W: 320, H: 225}, sourceRect(canvas, canvas, size))

	zoomed := geom.Rect{X: -320, Y: -225, W: 1280, H: 900}
	assert.Equal(t, sdl.Rect{X: 80, Y: 56, W: 160, H: 112}, sourceRect(zoomed, zoomed.Intersect(canvas), size))
}

func TestPendingEventsComeFirstOnce(t *testing.T) {
	d := &Display{pending: []input.Event{input.Resize{W: 1280, H: 720}}}

	var got []input.Event
	d.deliverPending(func(ev input.Event) { got = append(got, ev) })
	d.deliverPending(func(ev input.Event) { got = append(got, ev) })
	assert.Equal(t, []input.Event{input.Resize{W: 1280, H: 720}}, got)
}

func TestToSDLRect(t *testing.T) {
	assert.Equal(t, &sdl.Rect{X: -3, Y: 4, W: 640, H: 450}, toSDLRect(geom.Rect{X: -3, Y: 4, W: 640, H: 450}))
}

func TestFrameManagerRejectsOutOfRange(t *testing.T) {
	_, err := NewFrameManager(0)
	assert.Error(t, err)

	fm, err := NewFrameManager(60)
	assert.NoError(t, err)
	assert.NotNil(t, fm)
}
