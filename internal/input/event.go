package input

import "tabula/internal/geom"

// Key identifies a keyboard key independently of the windowing backend
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyQ
	KeyR
	KeyO
)

// Button identifies a mouse button independently of the windowing backend
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event is any input event a backend delivers to the scene
type Event interface {
	isEvent()
}

// Quit is delivered when the window is asked to close
type Quit struct{}

// MouseButton is a press or release of a mouse button at a window position
type MouseButton struct {
	Button  Button
	Pressed bool
	Pos     geom.Point
}

// MouseMotion is a pointer move to a new window position
type MouseMotion struct {
	Pos geom.Point
}

// MouseWheel is a scroll step at a window position. Positive DY scrolls away from the user.
type MouseWheel struct {
	DY  int32
	Pos geom.Point
}

// Leave is delivered when the pointer leaves the window or the window loses focus.
// A drag in progress cannot see its release after this.
type Leave struct{}

// KeyPress is a press or release of a keyboard key
type KeyPress struct {
	Key     Key
	Pressed bool
}

// Resize reports the new window size in pixels
type Resize struct {
	W, H int32
}

func (Quit) isEvent()        {}
func (MouseButton) isEvent() {}
func (MouseMotion) isEvent() {}
func (MouseWheel) isEvent()  {}
func (Leave) isEvent()       {}
func (KeyPress) isEvent()    {}
func (Resize) isEvent()      {}
