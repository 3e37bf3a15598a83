// Package chat defines the wire types exchanged with LLM providers and
// the speaker-tagged responses returned to players.
package chat

import "fmt"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is a single message sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the text returned by an LLM provider.
type ChatResponse struct {
	Message string `json:"message"`
}

// Speaker names used in player-facing responses.
const (
	SpeakerDungeonMaster = "Dungeon Master"
	SpeakerAICharacter   = "AI Character"
)

// SpeakerResponse is one turn of dialogue, tagged by who produced it.
type SpeakerResponse struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// ActionRequest is the body of POST /game-action.
type ActionRequest struct {
	Action string `json:"action"`
}

func (r *ActionRequest) Validate() error {
	if r.Action == "" {
		return fmt.Errorf("action is required")
	}
	return nil
}
