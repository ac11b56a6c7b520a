package sdl2

import (
	"tabula/internal/geom"
	"tabula/internal/input"

	"github.com/veandco/go-sdl2/sdl"
)

// translate maps an SDL event to a neutral one. Events the demo ignores report false.
// Wheel events carry no position; Poll fills it in.
func translate(ev sdl.Event) (input.Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return input.Quit{}, true
	case *sdl.MouseButtonEvent:
		b := translateButton(e.Button)
		if b == input.ButtonNone {
			return nil, false
		}
		return input.MouseButton{
			Button:  b,
			Pressed: e.State == sdl.PRESSED,
			Pos:     geom.Point{X: e.X, Y: e.Y},
		}, true
	case *sdl.MouseMotionEvent:
		return input.MouseMotion{Pos: geom.Point{X: e.X, Y: e.Y}}, true
	case *sdl.MouseWheelEvent:
		dy := e.Y
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		switch {
		case dy > 0:
			return input.MouseWheel{DY: 1}, true
		case dy < 0:
			return input.MouseWheel{DY: -1}, true
		}
		return nil, false
	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return nil, false
		}
		k := translateKey(e.Keysym.Sym)
		if k == input.KeyUnknown {
			return nil, false
		}
		return input.KeyPress{Key: k, Pressed: e.State == sdl.PRESSED}, true
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return input.Resize{W: e.Data1, H: e.Data2}, true
		case sdl.WINDOWEVENT_LEAVE, sdl.WINDOWEVENT_FOCUS_LOST:
			return input.Leave{}, true
		}
	}
	return nil, false
}

func translateButton(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return input.ButtonRight
	default:
		return input.ButtonNone
	}
}

func translateKey(k sdl.Keycode) input.Key {
	switch k {
	case sdl.K_ESCAPE:
		return input.KeyEscape
	case sdl.K_q:
		return input.KeyQ
	case sdl.K_r:
		return input.KeyR
	case sdl.K_o:
		return input.KeyO
	default:
		return input.KeyUnknown
	}
}
