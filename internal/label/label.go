// Package label builds the status strings drawn in the bottom bar and the window title.
package label

import (
	"math"
	"path/filepath"
	"strconv"
)

// Label is a fixed prefix and suffix around a number
type Label struct {
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
}

// Format returns prefix + decimal(n) + suffix
func (l Label) Format(n uint32) string {
	return l.build(strconv.FormatUint(uint64(n), 10))
}

// FormatInt is Format for signed values such as window coordinates
func (l Label) FormatInt(n int64) string {
	return l.build(strconv.FormatInt(n, 10))
}

func (l Label) build(digits string) string {
	buf := make([]byte, 0, len(l.Prefix)+len(digits)+len(l.Suffix))
	buf = append(buf, l.Prefix...)
	buf = append(buf, digits...)
	buf = append(buf, l.Suffix...)
	return string(buf)
}

// Pair formats two coordinates as "(x, y)" by nesting an inner label
// as the prefix of the outer one.
func Pair(x, y int32) string {
	inner := Label{Prefix: "(", Suffix: ", "}.FormatInt(int64(x))
	return Label{Prefix: inner, Suffix: ")"}.FormatInt(int64(y))
}

// FPS derives whole frames per second from a frame delta in milliseconds.
// A zero delta cannot be measured and yields 0.
func FPS(deltaMillis uint32) uint32 {
	if deltaMillis == 0 {
		return 0
	}
	return 1000 / deltaMillis
}

// TicksDelta returns now-last for millisecond tick counters, tolerating wraparound
func TicksDelta(now, last uint32) uint32 {
	return now - last
}

// Zoom formats a zoom level of steps powers of two as a magnification, e.g. "4x" or "0.5x"
func Zoom(steps int) string {
	return strconv.FormatFloat(math.Ldexp(1, steps), 'f', -1, 64) + "x"
}

// FileName is the last path element shown for an image
func FileName(path string) string {
	return filepath.Base(path)
}
