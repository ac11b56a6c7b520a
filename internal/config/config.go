package config

import "sync"

// FrameSettings holds runtime frame pacing configuration
type FrameSettings struct {
	mu       sync.RWMutex
	fpsLimit int // frames per second, 0 = unlimited
}

var globalFrameSettings = &FrameSettings{
	fpsLimit: DefaultFPS,
}

// GetFPSLimit returns the current frame rate cap (0 = unlimited)
func GetFPSLimit() int {
	globalFrameSettings.mu.RLock()
	defer globalFrameSettings.mu.RUnlock()
	return globalFrameSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(fps int) {
	globalFrameSettings.mu.Lock()
	defer globalFrameSettings.mu.Unlock()

	// Clamp to reasonable values
	if fps < 0 {
		fps = 0
	}
	if fps > MaxFPS {
		fps = MaxFPS
	}

	globalFrameSettings.fpsLimit = fps
}
