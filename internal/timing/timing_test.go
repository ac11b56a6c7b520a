package timing

import (
	"testing"
	"time"

	"tabula/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestClockTicks(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	c := NewClockFunc(func() time.Time { return now })

	assert.Equal(t, uint32(0), c.Ticks())
	now = base.Add(16*time.Millisecond + 900*time.Microsecond)
	assert.Equal(t, uint32(16), c.Ticks())
	now = base.Add(3 * time.Second)
	assert.Equal(t, uint32(3000), c.Ticks())
}

func TestLimiterPacesFrames(t *testing.T) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(200) // 5ms per frame

	l := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 10; i++ {
		l.Wait()
	}
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
}

func TestUnlimitedDoesNotBlock(t *testing.T) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(0)

	l := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.Wait()
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func BenchmarkLimiterMaxRate(b *testing.B) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(config.MaxFPS)

	l := NewFPSLimiter()
	for i := 0; i < b.N; i++ {
		l.Wait()
	}
}
