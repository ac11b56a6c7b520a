package sdl2

import (
	"fmt"

	"github.com/veandco/go-sdl2/gfx"
)

// FrameManager paces the loop with SDL2_gfx's framerate manager
type FrameManager struct {
	m gfx.FPSmanager
}

// NewFrameManager fixes the rate at fps, which gfx accepts within
// [gfx.FPS_LOWER_LIMIT, gfx.FPS_UPPER_LIMIT]
func NewFrameManager(fps uint32) (*FrameManager, error) {
	fm := &FrameManager{}
	gfx.InitFramerate(&fm.m)
	if !gfx.SetFramerate(&fm.m, fps) {
		return nil, fmt.Errorf("framerate %d outside [%d, %d]", fps, gfx.FPS_LOWER_LIMIT, gfx.FPS_UPPER_LIMIT)
	}
	return fm, nil
}

// Wait delays until the next frame is due
func (f *FrameManager) Wait() {
	gfx.FramerateDelay(&f.m)
}
