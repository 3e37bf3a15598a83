package mind

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantAction string
		wantOK     bool
	}{
		{
			name:       "well formed reply",
			text:       "Thoughts: The glade hums with promise.\nAction: I will find the lantern now",
			wantAction: "I will find the lantern now",
			wantOK:     true,
		},
		{
			name:   "missing action line",
			text:   "Thoughts: I drift, unsure of everything.",
			wantOK: false,
		},
		{
			name:   "lowercase marker is not the convention",
			text:   "action: sneak past the guards",
			wantOK: false,
		},
		{
			name:       "action only",
			text:       "Action: explore the cave",
			wantAction: "explore the cave",
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := ParseAction(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

func TestActionAdvancesGoal(t *testing.T) {
	goal := Goal{Description: "find the lantern"}

	assert.True(t, ActionAdvancesGoal("I will find the lantern now", goal))
	assert.True(t, ActionAdvancesGoal("I WILL FIND THE LANTERN NOW", goal))
	assert.False(t, ActionAdvancesGoal("explore the cave", goal))
}

func TestGoalFromAction(t *testing.T) {
	assert.Equal(t,
		"Explore the implications of: light the beacon",
		GoalFromAction("light the beacon"))
}

func TestSampleEmotion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		e := SampleEmotion(rng)
		assert.Contains(t, emotions, e)
		seen[e] = true
	}
	// With 200 draws from a ten-word vocabulary every label should appear.
	assert.Len(t, seen, len(emotions))
}
