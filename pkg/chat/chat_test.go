package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRequestValidate(t *testing.T) {
	req := &ActionRequest{Action: "I open the door"}
	assert.NoError(t, req.Validate())

	empty := &ActionRequest{}
	err := empty.Validate()
	require.Error(t, err)
	assert.Equal(t, "action is required", err.Error())
}

func TestSpeakerResponseJSON(t *testing.T) {
	data, err := json.Marshal(SpeakerResponse{
		Speaker: SpeakerDungeonMaster,
		Text:    "You enter the glade.",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"speaker": "Dungeon Master", "text": "You enter the glade."}`, string(data))
}
