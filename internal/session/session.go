package session

import (
	"context"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/pkg/transport"
)

// Session is one actor's live instance of a workflow's finite-state machine.
// A session is mutated only by its own transition logic, one event at a time;
// the dispatcher owns its lifecycle and removes it once a terminal predicate
// holds. Terminal states are absorbing.
type Session interface {
	HandleMessage(ctx context.Context, msg *transport.Message) error
	// HandleReaction receives the reaction event plus the already-fetched
	// target message. Reactions against anything but the live prompt get a
	// corrective reply and change no state.
	HandleReaction(ctx context.Context, reaction *dto.ReactionEvent, target *transport.Message) error
	Complete() bool
	Cancelled() bool
}

// PendingPrompt tracks the most recently sent multiple-choice message a
// session is waiting on. Setting a new prompt invalidates the previous one;
// at most one prompt is live per session.
type PendingPrompt struct {
	MessageID string
	Choices   []string
}

// IsLive reports whether messageID is the prompt currently awaiting a reaction.
func (p PendingPrompt) IsLive(messageID string) bool {
	return p.MessageID != "" && p.MessageID == messageID
}

// Allows reports whether the emoji is part of this prompt's alphabet.
func (p PendingPrompt) Allows(emoji string) bool {
	for _, choice := range p.Choices {
		if choice == emoji {
			return true
		}
	}
	return false
}

// Corrective replies shared by every workflow.
const (
	stalePromptReply  = "Please react to the message that contains emoji options to choose from."
	unknownEmojiReply = "Sorry, I don't understand what you mean by this emoji. Please react to the previous message with either 1⃣, 2⃣, 3⃣, or 4⃣"
)

// KeywordStore is the slice of the block-list service a keyword session needs.
type KeywordStore interface {
	List(ctx context.Context) ([]string, error)
	// Add returns false when the keyword was already present.
	Add(ctx context.Context, keyword string) (bool, error)
	// Remove returns false when the keyword was absent.
	Remove(ctx context.Context, keyword string) (bool, error)
}

// FlagCounter exposes how many times a user's messages have completed a report.
type FlagCounter interface {
	FlagCount(ctx context.Context, userID string) (int64, error)
}

func emojiIndex(emoji string) int {
	for i, e := range constant.MenuEmoji {
		if e == emoji {
			return i
		}
	}
	return -1
}
