package session

import (
	"context"
	"errors"
	"fmt"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/pkg/transport"
)

type modReviewState int

const (
	modReviewStateStart modReviewState = iota
	modReviewStateAwaitingTarget
	modReviewStateAwaitingDecision
	modReviewStateComplete
	modReviewStateEscalated
	modReviewStateCancelled
)

// ModReviewResult is handed to the dispatcher when the moderator resolves or
// escalates a case.
type ModReviewResult struct {
	Reviewed   *transport.Message
	Moderator  transport.User
	Resolution string
}

// ModReviewSession lets a moderator adjudicate a reported case: resolve it in
// place or forward it to the three-person review committee. Escalation is a
// distinct terminal outcome from completion; both retire the session but only
// escalation creates downstream work.
type ModReviewSession struct {
	chat      transport.Chat
	flags     FlagCounter
	moderator transport.User

	state      modReviewState
	prompt     PendingPrompt
	reviewed   *transport.Message
	resolution string
}

func NewModReviewSession(chat transport.Chat, flags FlagCounter, moderator transport.User) *ModReviewSession {
	return &ModReviewSession{
		chat:      chat,
		flags:     flags,
		moderator: moderator,
		state:     modReviewStateStart,
	}
}

func (s *ModReviewSession) Complete() bool { return s.state == modReviewStateComplete }

func (s *ModReviewSession) Cancelled() bool { return s.state == modReviewStateCancelled }

// ForwardedToCommittee distinguishes escalation from plain completion.
func (s *ModReviewSession) ForwardedToCommittee() bool { return s.state == modReviewStateEscalated }

func (s *ModReviewSession) Result() *ModReviewResult {
	if s.state != modReviewStateComplete && s.state != modReviewStateEscalated {
		return nil
	}
	return &ModReviewResult{
		Reviewed:   s.reviewed,
		Moderator:  s.moderator,
		Resolution: s.resolution,
	}
}

func (s *ModReviewSession) HandleMessage(ctx context.Context, msg *transport.Message) error {
	if msg.Content == constant.CancelKeyword {
		s.state = modReviewStateCancelled
		_, err := s.chat.Send(ctx, msg.ChannelID, "Review cancelled.")
		return err
	}

	switch s.state {
	case modReviewStateStart:
		reply := "Starting a moderator review. "
		reply += "Please copy paste the link to the flagged message you are reviewing, or say `cancel`."
		if _, err := s.chat.Send(ctx, msg.ChannelID, reply); err != nil {
			return err
		}
		s.state = modReviewStateAwaitingTarget
		return nil

	case modReviewStateAwaitingTarget:
		m := messageLinkPattern.FindStringSubmatch(msg.Content)
		if m == nil {
			_, err := s.chat.Send(ctx, msg.ChannelID, "I'm sorry, I couldn't read that link. Please try again or say `cancel` to cancel.")
			return err
		}
		reviewed, err := s.chat.FetchMessage(ctx, m[2], m[3])
		if errors.Is(err, transport.ErrNotFound) || errors.Is(err, transport.ErrForbidden) {
			_, err := s.chat.Send(ctx, msg.ChannelID, "It seems this message was deleted or never existed. Please try again or say `cancel` to cancel.")
			return err
		}
		if err != nil {
			return err
		}
		s.reviewed = reviewed
		return s.showDecisionMenu(ctx, msg.ChannelID)
	}

	return nil
}

func (s *ModReviewSession) HandleReaction(ctx context.Context, reaction *dto.ReactionEvent, target *transport.Message) error {
	if s.state != modReviewStateAwaitingDecision {
		return nil
	}
	if !s.prompt.IsLive(target.ID) {
		_, err := s.chat.Send(ctx, reaction.ChannelID, stalePromptReply)
		return err
	}
	if !s.prompt.Allows(reaction.Emoji) {
		_, err := s.chat.Send(ctx, reaction.ChannelID, unknownEmojiReply)
		return err
	}

	switch reaction.Emoji {
	case constant.EmojiOne:
		s.resolution = "No action taken"
		s.state = modReviewStateComplete
		_, err := s.chat.Send(ctx, reaction.ChannelID, "Case resolved with no action.")
		return err

	case constant.EmojiTwo:
		s.resolution = "Content removed"
		s.state = modReviewStateComplete
		_, err := s.chat.Send(ctx, reaction.ChannelID, "Case resolved, the message has been removed.")
		return err

	case constant.EmojiThree:
		s.resolution = "Escalated to review committee"
		s.state = modReviewStateEscalated
		_, err := s.chat.Send(ctx, reaction.ChannelID, "Forwarding this case to the three person review team.")
		return err

	case constant.EmojiFour:
		// Transient step: show the flag history, then re-arm the menu.
		count, err := s.flags.FlagCount(ctx, s.reviewed.Author.ID)
		if err != nil {
			return err
		}
		notice := fmt.Sprintf("%s has been flagged %d time(s).", s.reviewed.Author.Name, count)
		if _, err := s.chat.Send(ctx, reaction.ChannelID, notice); err != nil {
			return err
		}
		return s.showDecisionMenu(ctx, reaction.ChannelID)
	}

	return nil
}

func (s *ModReviewSession) showDecisionMenu(ctx context.Context, channelID string) error {
	reply := fmt.Sprintf("Reviewing:\n```%s: %s```\n", s.reviewed.Author.Name, s.reviewed.Content)
	reply += "Please react with the corresponding number for your decision:\n"
	reply += constant.EmojiOne + " - Resolve, no action\n"
	reply += constant.EmojiTwo + " - Remove the content\n"
	reply += constant.EmojiThree + " - Escalate to the review committee\n"
	reply += constant.EmojiFour + " - View the author's flag history"

	sent, err := s.chat.Send(ctx, channelID, reply)
	if err != nil {
		return err
	}
	s.prompt = PendingPrompt{MessageID: sent.ID, Choices: constant.MenuEmoji}
	s.state = modReviewStateAwaitingDecision
	return nil
}
