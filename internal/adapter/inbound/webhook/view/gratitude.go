package view

import (
	"encoding/json"

	slackapi "github.com/slack-go/slack"
)

const (
	GratitudeCallbackID = "gratitude-modal"
	GratitudeBlockID    = "my_block"
	GratitudeActionID   = "my_action"
)

// BuildGratitudeModal constructs the "Gratitude Box" modal opened in reply to
// the slash command.
func BuildGratitudeModal() slackapi.ModalViewRequest {
	input := slackapi.NewInputBlock(
		GratitudeBlockID,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Say something nice!", true, false),
		nil,
		slackapi.NewPlainTextInputBlockElement(nil, GratitudeActionID),
	)

	return slackapi.ModalViewRequest{
		Type:       slackapi.VTModal,
		CallbackID: GratitudeCallbackID,
		Title:      slackapi.NewTextBlockObject(slackapi.PlainTextType, "Gratitude Box", true, false),
		Submit:     slackapi.NewTextBlockObject(slackapi.PlainTextType, "Submit", true, false),
		Close:      slackapi.NewTextBlockObject(slackapi.PlainTextType, "Cancel", true, false),
		Blocks: slackapi.Blocks{
			BlockSet: []slackapi.Block{input},
		},
	}
}

// GratitudeModal returns the serialized modal. The definition is static, so
// encoding cannot fail.
func GratitudeModal() []byte {
	raw, err := json.Marshal(BuildGratitudeModal())
	if err != nil {
		panic("view: encoding gratitude modal: " + err.Error())
	}
	return raw
}
