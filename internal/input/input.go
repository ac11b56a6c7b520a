package input

import "sync"

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionQuit Action = iota
	ActionResetView
	ActionToggleOverlay
	ActionCount // Sentinel value for array sizing
)

// InputManager maps physical keys to logical actions and tracks their state.
// Mouse buttons drive Drag trackers instead.
type InputManager struct {
	mu sync.RWMutex

	// One key can map to multiple actions
	keyToActions map[Key][]Action

	currentState [ActionCount]bool

	// Just pressed flags (reset each frame)
	justPressed [ActionCount]bool
}

// NewInputManager creates a new InputManager with default bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions: make(map[Key][]Action),
	}

	im.BindKey(KeyEscape, ActionQuit)
	im.BindKey(KeyQ, ActionQuit)
	im.BindKey(KeyR, ActionResetView)
	im.BindKey(KeyO, ActionToggleOverlay)

	return im
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// HandleKeyEvent updates action state for a key event
func (im *InputManager) HandleKeyEvent(key Key, pressed bool) {
	im.mu.RLock()
	actions, exists := im.keyToActions[key]
	im.mu.RUnlock()

	if !exists {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	for _, act := range actions {
		// Detect edges immediately when event arrives
		if pressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		im.currentState[act] = pressed
	}
}

// PostUpdate must be called at the end of each frame to clear edge flags
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
	}
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}
