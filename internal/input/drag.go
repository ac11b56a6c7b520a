package input

import "tabula/internal/geom"

// DragState is the state of a Drag
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Drag tracks a mouse drag with one button as a two-state machine.
// Deltas are only emitted while in the dragging state.
type Drag struct {
	button Button
	state  DragState
	last   geom.Point
}

// NewDrag creates an idle drag tracker for the given button
func NewDrag(button Button) *Drag {
	return &Drag{button: button}
}

// State returns the current state
func (d *Drag) State() DragState {
	return d.state
}

// Last returns the most recent anchor point of the drag
func (d *Drag) Last() geom.Point {
	return d.last
}

// Press starts a drag if button is the tracked one and pos lies above limitY.
// Presses at or below limitY (the bottom bar) are ignored. Returns true if a drag started.
func (d *Drag) Press(button Button, pos geom.Point, limitY int32) bool {
	if button != d.button || pos.Y >= limitY {
		return false
	}
	d.state = DragDragging
	d.last = pos
	return true
}

// Release ends the drag when the tracked button is released
func (d *Drag) Release(button Button) {
	if button == d.button {
		d.state = DragIdle
	}
}

// Move returns the motion delta since the last point while dragging and advances the anchor.
// While idle it reports ok=false and leaves the anchor untouched.
func (d *Drag) Move(pos geom.Point) (dx, dy int32, ok bool) {
	if d.state != DragDragging {
		return 0, 0, false
	}
	dx = pos.X - d.last.X
	dy = pos.Y - d.last.Y
	d.last = pos
	return dx, dy, true
}

// Cancel drops back to idle without a release, for when the pointer leaves the window
func (d *Drag) Cancel() {
	d.state = DragIdle
}
