package dto

// Chat event envelope types accepted by the webhook ingress and carried on
// the watermill topic. Exactly one of Message/Reaction is set, matching Type.
const (
	ChatEventMessageCreated = "message_created"
	ChatEventReactionAdded  = "reaction_added"
)

type ChatEvent struct {
	Type     string         `json:"type" validate:"required,oneof=message_created reaction_added"`
	Message  *MessageEvent  `json:"message,omitempty"`
	Reaction *ReactionEvent `json:"reaction,omitempty"`
}

type MessageEvent struct {
	MessageID  string `json:"message_id"`
	GuildID    string `json:"guild_id,omitempty"` // empty for DMs
	ChannelID  string `json:"channel_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

type ReactionEvent struct {
	MessageID string `json:"message_id"`
	GuildID   string `json:"guild_id,omitempty"` // empty for DMs
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}
