package memory

import (
	"context"
	"fmt"
	"sync"

	"chat-moderation-be/pkg/transport"
)

// Chat is an in-process chat platform used by tests and cmd/simulate.
// Channels, messages and reactions live in plain maps; nothing ever expires,
// matching the platform's role as the durable owner of messages.
type Chat struct {
	mu       sync.Mutex
	bot      transport.User
	seq      int
	channels map[string]string // guildID/name -> channelID
	messages map[string]*transport.Message
	// messages the bot may not read, for exercising the Forbidden path
	forbidden map[string]bool
	// Sent records every outbound message in order, for assertions.
	Sent []*transport.Message
	// Embeds records outbound embeds keyed by message ID.
	Embeds map[string]*transport.Embed
}

func NewChat(bot transport.User) *Chat {
	return &Chat{
		bot:       bot,
		channels:  make(map[string]string),
		messages:  make(map[string]*transport.Message),
		forbidden: make(map[string]bool),
		Embeds:    make(map[string]*transport.Embed),
	}
}

func (c *Chat) nextID() string {
	c.seq++
	return fmt.Sprintf("msg-%d", c.seq)
}

// AddChannel registers a named channel and returns its ID.
func (c *Chat) AddChannel(guildID, name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := fmt.Sprintf("chan-%s-%s", guildID, name)
	c.channels[guildID+"/"+name] = id
	return id
}

// Seed stores an inbound message as if a user had sent it.
func (c *Chat) Seed(msg *transport.Message) *transport.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.ID == "" {
		msg.ID = c.nextID()
	}
	c.messages[msg.ID] = msg
	return msg
}

// Forbid marks a message unreadable by the bot.
func (c *Chat) Forbid(messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forbidden[messageID] = true
}

// Delete removes a message entirely.
func (c *Chat) Delete(messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.messages, messageID)
}

// LastSent returns the most recent outbound message, or nil.
func (c *Chat) LastSent() *transport.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return nil
	}
	return c.Sent[len(c.Sent)-1]
}

// SentTo returns all outbound messages posted to a channel.
func (c *Chat) SentTo(channelID string) []*transport.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*transport.Message
	for _, m := range c.Sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

func (c *Chat) Send(_ context.Context, channelID, content string) (*transport.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := &transport.Message{
		ID:        c.nextID(),
		ChannelID: channelID,
		Author:    c.bot,
		Content:   content,
	}
	c.messages[msg.ID] = msg
	c.Sent = append(c.Sent, msg)
	return msg, nil
}

func (c *Chat) SendEmbed(_ context.Context, channelID string, embed *transport.Embed) (*transport.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := &transport.Message{
		ID:        c.nextID(),
		ChannelID: channelID,
		Author:    c.bot,
		Content:   embed.Title,
	}
	c.messages[msg.ID] = msg
	c.Sent = append(c.Sent, msg)
	c.Embeds[msg.ID] = embed
	return msg, nil
}

func (c *Chat) AddReaction(_ context.Context, channelID, messageID, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.messages[messageID]; !ok {
		return transport.ErrNotFound
	}
	return nil
}

func (c *Chat) FetchMessage(_ context.Context, channelID, messageID string) (*transport.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.forbidden[messageID] {
		return nil, transport.ErrForbidden
	}
	msg, ok := c.messages[messageID]
	if !ok {
		return nil, transport.ErrNotFound
	}
	return msg, nil
}

func (c *Chat) ResolveChannel(_ context.Context, guildID, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.channels[guildID+"/"+name]; ok {
		return id, nil
	}
	return "", transport.ErrNotFound
}

func (c *Chat) BotUser() transport.User {
	return c.bot
}
