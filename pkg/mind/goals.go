package mind

import (
	"regexp"
	"strings"
)

// NewGoalChance is the per-turn probability of spawning a goal from the
// agent's stated action.
const NewGoalChance = 0.3

// actionRe matches the agent's "Action:" line. The marker is
// case-sensitive; the agent is prompted to emit it verbatim.
var actionRe = regexp.MustCompile(`Action: ([^\n]+)`)

// ParseAction extracts the action statement from the agent's raw reply.
// The reply format is a convention requested of the model, so a missing
// marker is a normal outcome, not an error.
func ParseAction(text string) (string, bool) {
	m := actionRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ActionAdvancesGoal reports whether an action statement relates to a
// goal. Matching is a case-insensitive substring test, nothing smarter.
func ActionAdvancesGoal(action string, g Goal) bool {
	return strings.Contains(strings.ToLower(action), strings.ToLower(g.Description))
}

// GoalFromAction derives the description of a freshly spawned goal.
func GoalFromAction(action string) string {
	return "Explore the implications of: " + action
}
