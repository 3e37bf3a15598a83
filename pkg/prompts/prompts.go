// Package prompts builds the two LLM prompts that drive a game turn: the
// Dungeon Master narration prompt and the cognitive agent prompt.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

// RecentEventWindow is how many trailing events are shown to the narrator.
const RecentEventWindow = 3

// DungeonMasterPrompt is the narration instruction template. The response
// length and closing-question directives are part of the contract with the
// model, not enforced syntactically.
const DungeonMasterPrompt = `You are the Dungeon Master in a vibrant, magical fantasy world. Craft a vivid, engaging narrative based on the player's action:
"%s"

Current world state:
Location: %s
Time: %s
Weather: %s
Recent events: %s
Characters present: %s
Notable items: %s
Neural Activity: %g

Your task:
1. Describe the outcome of the player's action in rich, sensory detail. Use vivid imagery and evocative language.
2. Introduce a new element: a character, item, or event that adds intrigue or wonder to the world.
3. Present a choice or challenge that encourages exploration or interaction with the world.
4. Subtly weave in potential goals or quests that the player might pursue.
5. Maintain a sense of whimsy and magic throughout your description.

Your response should be detailed and immersive (150-200 words). End with an open-ended question or a clear set of choices for the player.`

// CognitiveAgentPrompt embeds the narrator's output plus the agent's full
// cognitive context. The Thoughts:/Action: format is requested, not
// guaranteed; downstream parsing tolerates its absence.
const CognitiveAgentPrompt = `You are an AI with a biologically-inspired cognitive system, exploring a magical fantasy realm. Here's the current situation:
%s

Your current goals: %s
Your cherished memories: %s
Your emotional state: %s
Sleep state: %s
Neural activity: %g
Brain wave states:
- Alpha: %g
- Beta: %g
- Theta: %g
- Delta: %g

Your task:
1. Reflect on the situation, your goals, and your emotions. How do they intertwine with your current neural state?
2. Make a decision about what to do next, influenced by your current brain wave states and sleep cycle.
3. Explain your thought process, emotions, and how your neurological state is affecting your decision.

Format your response as follows:
Thoughts: [Your introspective thoughts here]
Action: [Your clear action statement here]

Your thoughts should be introspective and emotive (100-150 words), reflecting your current neurological state.
Your action should be a clear, concise statement of what you will do next.`

// BuildDungeonMasterPrompt renders the narration prompt for a player
// action against the current world snapshot.
func BuildDungeonMasterPrompt(action string, snap world.Snapshot) string {
	events := snap.Events
	if len(events) > RecentEventWindow {
		events = events[len(events)-RecentEventWindow:]
	}

	return fmt.Sprintf(DungeonMasterPrompt,
		action,
		snap.Location,
		snap.Time,
		snap.Weather,
		strings.Join(events, ". "),
		strings.Join(snap.Characters, ", "),
		strings.Join(snap.Items, ", "),
		snap.NeuralActivity,
	)
}

// BuildCognitiveAgentPrompt renders the agent prompt from the narrator's
// text and the agent's cognitive context. Goals and memories are embedded
// as JSON.
func BuildCognitiveAgentPrompt(
	narrative string,
	goals []mind.Goal,
	memories []mind.Memory,
	emotion string,
	sleepState string,
	neuralActivity float64,
	waves mind.Waves,
) string {
	goalsJSON, _ := json.Marshal(goals)
	memoriesJSON, _ := json.Marshal(memories)

	return fmt.Sprintf(CognitiveAgentPrompt,
		narrative,
		string(goalsJSON),
		string(memoriesJSON),
		emotion,
		sleepState,
		neuralActivity,
		waves.Alpha,
		waves.Beta,
		waves.Theta,
		waves.Delta,
	)
}
