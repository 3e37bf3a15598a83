package mind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaveBounds(t *testing.T) {
	waves := []struct {
		name      string
		fn        func(float64) float64
		amplitude float64
		offset    float64
	}{
		{"alpha", Alpha, 0.5, 0.5},
		{"beta", Beta, 0.3, 0.7},
		{"theta", Theta, 0.4, 0.6},
		{"delta", Delta, 0.6, 0.4},
	}

	for _, w := range waves {
		t.Run(w.name, func(t *testing.T) {
			for ti := 0; ti < 500; ti++ {
				v := w.fn(float64(ti) * 0.731)
				assert.GreaterOrEqual(t, v, w.offset-w.amplitude)
				assert.LessOrEqual(t, v, w.offset+w.amplitude)
			}
		})
	}
}

func TestWaveValues(t *testing.T) {
	// At t=0 every sinusoid sits on its DC offset.
	assert.InDelta(t, 0.5, Alpha(0), 1e-9)
	assert.InDelta(t, 0.7, Beta(0), 1e-9)
	assert.InDelta(t, 0.6, Theta(0), 1e-9)
	assert.InDelta(t, 0.4, Delta(0), 1e-9)

	w := SampleWaves(42)
	assert.Equal(t, Alpha(42), w.Alpha)
	assert.Equal(t, Beta(42), w.Beta)
	assert.Equal(t, Theta(42), w.Theta)
	assert.Equal(t, Delta(42), w.Delta)
}

func TestSleepState(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		now := time.Date(2024, 6, 1, hour, 30, 0, 0, time.UTC)
		want := StateWake
		if hour >= 23 || hour < 7 {
			want = StateSleep
		}
		assert.Equal(t, want, SleepState(now), "hour %d", hour)
	}
}
