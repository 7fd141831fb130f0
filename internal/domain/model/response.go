package model

const (
	ResponseTypeEphemeral = "ephemeral"
	ResponseTypeInChannel = "in_channel"
)

// Acknowledgement texts returned to the platform.
const (
	TextThankYou           = "Thank you!"
	TextSomethingWentWrong = "Something went wrong!"
)

// CommandResponse is the synchronous acknowledgement returned to the
// platform for a slash command or event delivery.
type CommandResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// NewCommandResponse returns an ephemeral acknowledgement.
func NewCommandResponse(text string) CommandResponse {
	return CommandResponse{ResponseType: ResponseTypeEphemeral, Text: text}
}
