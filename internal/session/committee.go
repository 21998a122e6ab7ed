package session

import (
	"context"
	"fmt"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/pkg/transport"
)

type committeeState int

const (
	committeeStateStart committeeState = iota
	committeeStateAwaitingVerdict
	committeeStateComplete
	committeeStateCancelled
)

// CommitteeResult carries a single reviewer's final verdict.
type CommitteeResult struct {
	Reviewer transport.User
	Verdict  string
}

// CommitteeSession is the final adjudication stage. Each of the three
// reviewers runs their own session; a verdict completes it.
type CommitteeSession struct {
	chat     transport.Chat
	reviewer transport.User

	state   committeeState
	prompt  PendingPrompt
	verdict string
}

var committeeVerdicts = [4]string{
	constant.VerdictNoAction,
	constant.VerdictWarn,
	constant.VerdictSuspend,
	constant.VerdictBan,
}

func NewCommitteeSession(chat transport.Chat, reviewer transport.User) *CommitteeSession {
	return &CommitteeSession{
		chat:     chat,
		reviewer: reviewer,
		state:    committeeStateStart,
	}
}

func (s *CommitteeSession) Complete() bool { return s.state == committeeStateComplete }

func (s *CommitteeSession) Cancelled() bool { return s.state == committeeStateCancelled }

func (s *CommitteeSession) Result() *CommitteeResult {
	if s.state != committeeStateComplete {
		return nil
	}
	return &CommitteeResult{Reviewer: s.reviewer, Verdict: s.verdict}
}

func (s *CommitteeSession) HandleMessage(ctx context.Context, msg *transport.Message) error {
	if msg.Content == constant.CancelKeyword {
		s.state = committeeStateCancelled
		_, err := s.chat.Send(ctx, msg.ChannelID, "Committee review cancelled.")
		return err
	}

	if s.state != committeeStateStart {
		return nil
	}

	reply := "Please react with the corresponding number for your verdict on the escalated case:\n"
	reply += constant.EmojiOne + " - " + constant.VerdictNoAction + "\n"
	reply += constant.EmojiTwo + " - " + constant.VerdictWarn + "\n"
	reply += constant.EmojiThree + " - " + constant.VerdictSuspend + "\n"
	reply += constant.EmojiFour + " - " + constant.VerdictBan

	sent, err := s.chat.Send(ctx, msg.ChannelID, reply)
	if err != nil {
		return err
	}
	s.prompt = PendingPrompt{MessageID: sent.ID, Choices: constant.MenuEmoji}
	s.state = committeeStateAwaitingVerdict
	return nil
}

func (s *CommitteeSession) HandleReaction(ctx context.Context, reaction *dto.ReactionEvent, target *transport.Message) error {
	if s.state != committeeStateAwaitingVerdict {
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

	s.verdict = committeeVerdicts[emojiIndex(reaction.Emoji)]
	s.state = committeeStateComplete
	_, err := s.chat.Send(ctx, reaction.ChannelID, fmt.Sprintf("Verdict recorded: %s. Thank you.", s.verdict))
	return err
}
