package mind

import "math/rand"

// emotions is the fixed vocabulary the agent samples from.
var emotions = []string{
	"awe-struck", "curious", "excited", "cautious", "determined",
	"whimsical", "melancholic", "hopeful", "conflicted", "inspired",
}

// SampleEmotion picks a random emotion label from the fixed vocabulary.
func SampleEmotion(rng *rand.Rand) string {
	return emotions[rng.Intn(len(emotions))]
}
