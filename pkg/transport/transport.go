package transport

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a message or channel was deleted or never existed.
	ErrNotFound = errors.New("transport: not found")
	// ErrForbidden is returned when the bot lacks permission to read the target.
	ErrForbidden = errors.New("transport: forbidden")
)

// User is an actor on the chat platform.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Message is a message owned by the chat platform. The engine only ever holds
// references; the platform remains the source of truth for content.
type Message struct {
	ID        string `json:"id"`
	GuildID   string `json:"guild_id"` // empty for direct messages
	ChannelID string `json:"channel_id"`
	Author    User   `json:"author"`
	Content   string `json:"content"`
}

// IsDM reports whether the message was sent over a direct message channel.
func (m *Message) IsDM() bool {
	return m.GuildID == ""
}

// EmbedField is a single name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Embed is a structured rich message.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields"`
}

func (e *Embed) AddField(name, value string, inline bool) {
	e.Fields = append(e.Fields, EmbedField{Name: name, Value: value, Inline: inline})
}

// Chat is the consumed chat platform capability: send, react, fetch and
// channel discovery. Implementations: rest (platform gateway API) and
// memory (tests, local simulation).
type Chat interface {
	// Send posts plain text to a channel and returns the created message.
	Send(ctx context.Context, channelID, content string) (*Message, error)
	// SendEmbed posts a structured embed to a channel.
	SendEmbed(ctx context.Context, channelID string, embed *Embed) (*Message, error)
	// AddReaction adds an emoji reaction to an existing message.
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	// FetchMessage reads a message back from the platform. Returns ErrNotFound
	// or ErrForbidden when the message is gone or unreadable.
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	// ResolveChannel finds a channel ID by its name within a guild.
	ResolveChannel(ctx context.Context, guildID, name string) (string, error)
	// BotUser returns the identity the engine is running as.
	BotUser() User
}
