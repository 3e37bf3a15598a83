// Package world holds the shared mutable world model and the best-effort
// extraction of world facts from narrative text.
package world

import (
	"regexp"
	"strings"
	"sync"
)

const (
	// MaxEvents caps the event history. Oldest entries are evicted first.
	MaxEvents = 10

	activityStep  = 0.1
	activityDecay = 0.2
)

// Snapshot is the serializable view of the world state. It is what gets
// upserted into storage and returned from the API.
type Snapshot struct {
	Location       string   `json:"location"`
	Time           string   `json:"time"`
	Weather        string   `json:"weather"`
	Events         []string `json:"events"`
	Characters     []string `json:"characters"`
	Items          []string `json:"items"`
	NeuralActivity float64  `json:"neuralActivity"`
}

// State is the single process-wide world model. All mutation goes through
// its methods; the internal mutex makes each method safe against the
// consolidation worker running alongside game turns.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewState returns a world initialized with the opening scene.
func NewState() *State {
	return &State{
		snap: Snapshot{
			Location:       "Mystical Glade",
			Time:           "Golden Hour",
			Weather:        "Gentle breeze with shimmering motes of magic",
			Events:         make([]string, 0),
			Characters:     make([]string, 0),
			Items:          make([]string, 0),
			NeuralActivity: 0.5,
		},
	}
}

// Narrative field extraction. Case-insensitive, first match wins, value
// runs to the end of the sentence. A miss is never an error; the field is
// simply left unchanged.
var (
	locationRe   = regexp.MustCompile(`(?i)Location: ([^.\n]+)`)
	timeRe       = regexp.MustCompile(`(?i)Time: ([^.\n]+)`)
	weatherRe    = regexp.MustCompile(`(?i)Weather: ([^.\n]+)`)
	charactersRe = regexp.MustCompile(`(?i)Characters?: ([^.\n]+)`)
	itemsRe      = regexp.MustCompile(`(?i)Items?: ([^.\n]+)`)
)

// ApplyNarrative merges whatever world facts can be extracted from the
// narrator's text, appends the text's first sentence to the event history
// and nudges neural activity up one step.
func (s *State) ApplyNarrative(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m := locationRe.FindStringSubmatch(text); m != nil {
		s.snap.Location = m[1]
	}
	if m := timeRe.FindStringSubmatch(text); m != nil {
		s.snap.Time = m[1]
	}
	if m := weatherRe.FindStringSubmatch(text); m != nil {
		s.snap.Weather = m[1]
	}
	if m := charactersRe.FindStringSubmatch(text); m != nil {
		s.snap.Characters = splitList(m[1])
	}
	if m := itemsRe.FindStringSubmatch(text); m != nil {
		s.snap.Items = splitList(m[1])
	}

	// Without a sentence-terminating period the whole text is the event.
	s.snap.Events = append(s.snap.Events, firstSentence(text))
	if len(s.snap.Events) > MaxEvents {
		s.snap.Events = s.snap.Events[len(s.snap.Events)-MaxEvents:]
	}

	s.snap.NeuralActivity = clamp(s.snap.NeuralActivity + activityStep)
}

// DecayActivity lowers neural activity by the consolidation decay step.
func (s *State) DecayActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.NeuralActivity = clamp(s.snap.NeuralActivity - activityDecay)
}

// Snapshot returns a deep copy of the current state. Empty collections
// stay empty, never nil, so they serialize as [] on the wire.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap
	snap.Events = copySlice(s.snap.Events)
	snap.Characters = copySlice(s.snap.Characters)
	snap.Items = copySlice(s.snap.Items)
	return snap
}

func copySlice(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Restore replaces the state with a previously persisted snapshot.
func (s *State) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	if s.snap.Events == nil {
		s.snap.Events = make([]string, 0)
	}
	if s.snap.Characters == nil {
		s.snap.Characters = make([]string, 0)
	}
	if s.snap.Items == nil {
		s.snap.Items = make([]string, 0)
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func firstSentence(text string) string {
	if i := strings.Index(text, "."); i >= 0 {
		return text[:i]
	}
	return text
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
