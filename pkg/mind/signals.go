package mind

import (
	"math"
	"time"
)

// Sleep/wake states reported by SleepState.
const (
	StateSleep = "sleep"
	StateWake  = "wake"
)

// Waves holds one sample of each simulated brain wave signal.
// Each signal is a fixed sinusoid of the time value, bounded to a
// sub-range of [0,1] by its amplitude/offset pair.
type Waves struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Theta float64 `json:"theta"`
	Delta float64 `json:"delta"`
}

// Alpha is the attention signal. Its instantaneous value doubles as the
// attention threshold for memory recall.
func Alpha(t float64) float64 { return math.Sin(t/10)*0.5 + 0.5 }

func Beta(t float64) float64 { return math.Sin(t/5)*0.3 + 0.7 }

func Theta(t float64) float64 { return math.Sin(t/15)*0.4 + 0.6 }

func Delta(t float64) float64 { return math.Sin(t/20)*0.6 + 0.4 }

// SampleWaves returns all four signals at time t (seconds).
func SampleWaves(t float64) Waves {
	return Waves{
		Alpha: Alpha(t),
		Beta:  Beta(t),
		Theta: Theta(t),
		Delta: Delta(t),
	}
}

// SleepState classifies the given wall-clock time into the sleep/wake
// cycle: hours [7,23) are wake, the rest are sleep.
func SleepState(now time.Time) string {
	hour := now.Hour()
	if hour >= 23 || hour < 7 {
		return StateSleep
	}
	return StateWake
}
